package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/sahilchouksey/bursary-hub/database"
	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	overviewCacheKey = "dashboard:overview"
	overviewCacheTTL = 5 * time.Minute
	deadlineWindow   = 30 // days
	activeWindow     = 30 // days
)

// AnalyticsService computes the staff dashboard
type AnalyticsService struct {
	db    *gorm.DB
	cache Cache
	log   *logger.Logger
	now   func() time.Time
}

// NewAnalyticsService creates a new analytics service. cache may be nil.
func NewAnalyticsService(db *gorm.DB, cache Cache, log *logger.Logger) *AnalyticsService {
	if log == nil {
		log = logger.Nop()
	}
	return &AnalyticsService{db: db, cache: cache, log: log, now: time.Now}
}

// OverviewStats are the dashboard headline numbers
type OverviewStats struct {
	ActiveBursaries     int64 `json:"active_bursaries"`
	TotalStudents       int64 `json:"total_students"`
	TotalApplications   int64 `json:"total_applications"`
	ApproachingDeadline int64 `json:"approaching_deadline"`
}

// BursaryPerformance is one row of the top bursaries table
type BursaryPerformance struct {
	ID                uint   `json:"id"`
	Title             string `json:"title"`
	Slug              string `json:"slug"`
	ViewsCount        int64  `json:"views_count"`
	ApplicationsCount int64  `json:"applications_count"`
	BookmarkCount     int64  `json:"bookmark_count"`
}

// LabelCount is a labelled count for charts
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// StudentEngagement summarizes profile completeness and activity
type StudentEngagement struct {
	CompleteProfiles int64   `json:"complete_profiles"`
	TotalProfiles    int64   `json:"total_profiles"`
	ActiveStudents   int64   `json:"active_students"`
	CompletionRate   float64 `json:"completion_rate"`
}

// OverviewStats counts active listings, students, applications and listings
// closing within 30 days. Results are cached briefly when a cache is set.
func (s *AnalyticsService) OverviewStats(ctx context.Context) (*OverviewStats, error) {
	if s.cache != nil {
		var cached OverviewStats
		if err := s.cache.GetJSON(ctx, overviewCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats := &OverviewStats{}
	db := s.db.WithContext(ctx)
	today := database.Day(s.now())

	if err := db.Model(&model.Bursary{}).
		Where("status = ?", model.BursaryStatusActive).
		Count(&stats.ActiveBursaries).Error; err != nil {
		return nil, fmt.Errorf("failed to count active bursaries: %w", err)
	}

	if err := db.Model(&model.User{}).
		Where("role = ?", model.RoleStudent).
		Count(&stats.TotalStudents).Error; err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	if err := db.Model(&model.Application{}).Count(&stats.TotalApplications).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	if err := db.Model(&model.Bursary{}).
		Where("status = ? AND application_deadline >= ? AND application_deadline <= ?",
			model.BursaryStatusActive, today, database.Day(s.now().AddDate(0, 0, deadlineWindow))).
		Count(&stats.ApproachingDeadline).Error; err != nil {
		return nil, fmt.Errorf("failed to count approaching deadlines: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, overviewCacheKey, stats, overviewCacheTTL); err != nil {
			s.log.Warn("failed to cache dashboard overview", "error", err)
		}
	}
	return stats, nil
}

// BursaryPerformance returns the ten bursaries with the most applications
func (s *AnalyticsService) BursaryPerformance(ctx context.Context) ([]BursaryPerformance, error) {
	var rows []BursaryPerformance
	err := s.db.WithContext(ctx).
		Model(&model.Bursary{}).
		Select("bursaries.id, bursaries.title, bursaries.slug, bursaries.views_count, " +
			"(SELECT COUNT(*) FROM applications WHERE applications.bursary_id = bursaries.id) AS applications_count, " +
			"(SELECT COUNT(*) FROM bookmarks WHERE bookmarks.bursary_id = bursaries.id) AS bookmark_count").
		Order("applications_count DESC").
		Order("bursaries.id ASC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load bursary performance: %w", err)
	}
	return rows, nil
}

// CategoryDistribution counts listings per category
func (s *AnalyticsService) CategoryDistribution(ctx context.Context) ([]LabelCount, error) {
	var rows []LabelCount
	err := s.db.WithContext(ctx).
		Model(&model.Bursary{}).
		Select("category AS label, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Order("label ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load category distribution: %w", err)
	}
	return rows, nil
}

// ApplicationTrends counts applications created per UTC day over the last
// days days, oldest first, including days with none
func (s *AnalyticsService) ApplicationTrends(ctx context.Context, days int) ([]LabelCount, error) {
	if days <= 0 {
		days = 30
	}
	today := model.DateOf(s.now().UTC())
	since := today.AddDate(0, 0, -(days - 1))

	var created []time.Time
	err := s.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &created).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load application trends: %w", err)
	}

	counts := make(map[string]int64, days)
	for _, t := range created {
		counts[t.UTC().Format("2006-01-02")]++
	}

	trend := make([]LabelCount, 0, days)
	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		label := d.Format("2006-01-02")
		trend = append(trend, LabelCount{Label: label, Count: counts[label]})
	}
	return trend, nil
}

// StudentEngagement reports how many profiles are complete and how many
// students were active in the last 30 days
func (s *AnalyticsService) StudentEngagement(ctx context.Context) (*StudentEngagement, error) {
	e := &StudentEngagement{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.StudentProfile{}).Count(&e.TotalProfiles).Error; err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}
	if err := db.Model(&model.StudentProfile{}).
		Where("institution <> '' AND gpa IS NOT NULL").
		Count(&e.CompleteProfiles).Error; err != nil {
		return nil, fmt.Errorf("failed to count complete profiles: %w", err)
	}
	if err := db.Model(&model.UserActivity{}).
		Where("created_at >= ?", s.now().UTC().AddDate(0, 0, -activeWindow)).
		Distinct("user_id").
		Count(&e.ActiveStudents).Error; err != nil {
		return nil, fmt.Errorf("failed to count active students: %w", err)
	}

	if e.TotalProfiles > 0 {
		e.CompletionRate = math.Round(float64(e.CompleteProfiles)/float64(e.TotalProfiles)*100*100) / 100
	}
	return e, nil
}

// PopularFields returns the five most common fields of study
func (s *AnalyticsService) PopularFields(ctx context.Context) ([]LabelCount, error) {
	var rows []LabelCount
	err := s.db.WithContext(ctx).
		Model(&model.StudentProfile{}).
		Select("field_of_study AS label, COUNT(*) AS count").
		Group("field_of_study").
		Order("count DESC").
		Order("label ASC").
		Limit(5).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load popular fields: %w", err)
	}
	return rows, nil
}

// RefreshMetrics recomputes the cached headline metrics and stores them in
// dashboard_metrics. Returns the number of metrics written.
func (s *AnalyticsService) RefreshMetrics(ctx context.Context) (int64, error) {
	db := s.db.WithContext(ctx)
	startOfDay := model.DateOf(s.now().UTC())

	counts := []struct {
		key   string
		query *gorm.DB
	}{
		{model.MetricTotalUsers, db.Model(&model.User{})},
		{model.MetricTotalBursaries, db.Model(&model.Bursary{})},
		{model.MetricTotalApplications, db.Model(&model.Application{})},
		{model.MetricActiveUsersToday, db.Model(&model.UserActivity{}).Where("created_at >= ?", startOfDay).Distinct("user_id")},
		{model.MetricNewApplicationsToday, db.Model(&model.Application{}).Where("created_at >= ?", startOfDay)},
	}

	metrics := make([]model.DashboardMetric, 0, len(counts))
	for _, c := range counts {
		var v int64
		if err := c.query.Count(&v).Error; err != nil {
			return 0, fmt.Errorf("failed to compute %s: %w", c.key, err)
		}
		metrics = append(metrics, model.DashboardMetric{MetricType: c.key, Value: v})
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "metric_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&metrics).Error
	if err != nil {
		return 0, fmt.Errorf("failed to store dashboard metrics: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, overviewCacheKey); err != nil {
			s.log.Warn("failed to invalidate dashboard overview", "error", err)
		}
	}
	return int64(len(metrics)), nil
}

// Metrics returns the last stored snapshot keyed by metric type
func (s *AnalyticsService) Metrics(ctx context.Context) (map[string]int64, error) {
	var rows []model.DashboardMetric
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load dashboard metrics: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.MetricType] = r.Value
	}
	return out, nil
}

// ChartData returns one chart's series by name
func (s *AnalyticsService) ChartData(ctx context.Context, chart string) ([]LabelCount, error) {
	switch chart {
	case "categories":
		return s.CategoryDistribution(ctx)
	case "fields":
		return s.PopularFields(ctx)
	case "applications":
		return s.ApplicationTrends(ctx, 30)
	default:
		return nil, ErrUnknownChart
	}
}

// ExportBursariesCSV writes every listing as CSV
func (s *AnalyticsService) ExportBursariesCSV(ctx context.Context, out io.Writer) error {
	var bursaries []model.Bursary
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&bursaries).Error; err != nil {
		return fmt.Errorf("failed to load bursaries for export: %w", err)
	}

	w := csv.NewWriter(out)
	_ = w.Write([]string{"Title", "Category", "Provider", "Amount", "Currency", "Deadline", "Status", "Views", "Applications", "Created"})
	for _, b := range bursaries {
		_ = w.Write([]string{
			b.Title,
			string(b.Category),
			b.ProviderName,
			strconv.FormatFloat(b.Amount, 'f', 2, 64),
			b.Currency,
			b.Deadline().Format("2006-01-02"),
			string(b.Status),
			strconv.FormatInt(b.ViewsCount, 10),
			strconv.FormatInt(b.ApplicationsCount, 10),
			b.CreatedAt.UTC().Format("2006-01-02"),
		})
	}
	w.Flush()
	return w.Error()
}

// ExportApplicationsCSV writes every application with student and bursary
func (s *AnalyticsService) ExportApplicationsCSV(ctx context.Context, out io.Writer) error {
	var apps []model.Application
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Bursary").
		Order("created_at DESC").
		Order("id DESC").
		Find(&apps).Error
	if err != nil {
		return fmt.Errorf("failed to load applications for export: %w", err)
	}

	w := csv.NewWriter(out)
	_ = w.Write([]string{"Student", "Email", "Bursary", "Status", "Applied Date", "Updated"})
	for _, a := range apps {
		name := a.User.Name
		if name == "" {
			name = a.User.Email
		}
		_ = w.Write([]string{
			name,
			a.User.Email,
			a.Bursary.Title,
			string(a.Status),
			a.CreatedAt.UTC().Format("2006-01-02"),
			a.UpdatedAt.UTC().Format("2006-01-02"),
		})
	}
	w.Flush()
	return w.Error()
}
