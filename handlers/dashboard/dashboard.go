package dashboard

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/bursary-hub/handlers"
	"github.com/sahilchouksey/bursary-hub/services"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"github.com/sahilchouksey/bursary-hub/utils/response"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTrendDays = 30
	maxTrendDays     = 365
	csvContentType   = "text/csv; charset=utf-8"
)

// DashboardHandler serves staff analytics
type DashboardHandler struct {
	analytics *services.AnalyticsService
	log       *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(analytics *services.AnalyticsService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{analytics: analytics, log: log}
}

// DashboardResponse is the payload of GET /dashboard
type DashboardResponse struct {
	Overview             *services.OverviewStats       `json:"overview"`
	BursaryPerformance   []services.BursaryPerformance `json:"bursary_performance"`
	CategoryDistribution []services.LabelCount         `json:"category_distribution"`
	StudentEngagement    *services.StudentEngagement   `json:"student_engagement"`
	PopularFields        []services.LabelCount         `json:"popular_fields"`
	Metrics              map[string]int64              `json:"metrics"`
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	var resp DashboardResponse
	g, ctx := errgroup.WithContext(c.UserContext())

	g.Go(func() (err error) {
		resp.Overview, err = h.analytics.OverviewStats(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.BursaryPerformance, err = h.analytics.BursaryPerformance(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.CategoryDistribution, err = h.analytics.CategoryDistribution(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.StudentEngagement, err = h.analytics.StudentEngagement(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.PopularFields, err = h.analytics.PopularFields(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Metrics, err = h.analytics.Metrics(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to load dashboard")
	}
	return response.Success(c, resp)
}

// GetTrends handles GET /api/v1/dashboard/trends
func (h *DashboardHandler) GetTrends(c *fiber.Ctx) error {
	days := defaultTrendDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTrendDays {
			return response.BadRequest(c, "days must be between 1 and 365")
		}
		days = n
	}

	trends, err := h.analytics.ApplicationTrends(c.UserContext(), days)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch application trends")
	}
	return response.Success(c, trends)
}

// GetChartData handles GET /api/v1/dashboard/chart-data
func (h *DashboardHandler) GetChartData(c *fiber.Ctx) error {
	chart := c.Query("type")
	data, err := h.analytics.ChartData(c.UserContext(), chart)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch chart data")
	}
	return response.Success(c, fiber.Map{"type": chart, "series": data})
}

// ExportBursaries handles GET /api/v1/dashboard/export/bursaries
func (h *DashboardHandler) ExportBursaries(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.analytics.ExportBursariesCSV(c.UserContext(), &buf); err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to export bursaries")
	}
	return response.Attachment(c, exportName("bursaries"), csvContentType, buf.Bytes())
}

// ExportApplications handles GET /api/v1/dashboard/export/applications
func (h *DashboardHandler) ExportApplications(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.analytics.ExportApplicationsCSV(c.UserContext(), &buf); err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to export applications")
	}
	return response.Attachment(c, exportName("applications"), csvContentType, buf.Bytes())
}

func exportName(kind string) string {
	return fmt.Sprintf("%s_%s.csv", kind, time.Now().UTC().Format("20060102"))
}
