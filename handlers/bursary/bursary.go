package bursary

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/bursary-hub/handlers"
	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/services"
	"github.com/sahilchouksey/bursary-hub/services/recommendation"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"github.com/sahilchouksey/bursary-hub/utils/middleware"
	"github.com/sahilchouksey/bursary-hub/utils/response"
	"github.com/sahilchouksey/bursary-hub/utils/validation"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

// BursaryHandler handles catalogue and listing management requests
type BursaryHandler struct {
	bursaries    *services.BursaryService
	bookmarks    *services.BookmarkService
	activity     *services.ActivityService
	audit        *services.AuditService
	engine       *recommendation.Engine
	validator    *validation.Validator
	log          *logger.Logger
	similarLimit int
}

// NewBursaryHandler creates a new bursary handler
func NewBursaryHandler(
	bursaries *services.BursaryService,
	bookmarks *services.BookmarkService,
	activity *services.ActivityService,
	audit *services.AuditService,
	engine *recommendation.Engine,
	log *logger.Logger,
	similarLimit int,
) *BursaryHandler {
	return &BursaryHandler{
		bursaries:    bursaries,
		bookmarks:    bookmarks,
		activity:     activity,
		audit:        audit,
		engine:       engine,
		validator:    validation.NewValidator(),
		log:          log,
		similarLimit: similarLimit,
	}
}

// CreateBursaryRequest represents the request body for creating a bursary
type CreateBursaryRequest struct {
	Title                   string   `json:"title" validate:"required,min=3,max=200"`
	Description             string   `json:"description" validate:"required"`
	Category                string   `json:"category" validate:"required,oneof=merit need demographic subject other"`
	Amount                  float64  `json:"amount" validate:"required,gt=0"`
	Currency                string   `json:"currency" validate:"omitempty,len=3"`
	EligibleEducationLevels []string `json:"eligible_education_levels" validate:"dive,oneof=high_school diploma bachelor master phd"`
	EligibleFields          []string `json:"eligible_fields" validate:"dive,max=100"`
	MinGPA                  *float64 `json:"min_gpa" validate:"omitempty,gte=0,lte=4"`
	Country                 string   `json:"country" validate:"required,max=100"`
	City                    string   `json:"city" validate:"omitempty,max=100"`
	ProviderName            string   `json:"provider_name" validate:"required,max=200"`
	ProviderWebsite         string   `json:"provider_website" validate:"omitempty,url,max=255"`
	ContactEmail            string   `json:"contact_email" validate:"omitempty,email,max=255"`
	ApplicationDeadline     string   `json:"application_deadline" validate:"required,datetime=2006-01-02"`
	StartDate               string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	ApplicationURL          string   `json:"application_url" validate:"omitempty,url,max=255"`
	RequiredDocuments       string   `json:"required_documents"`
}

// UpdateBursaryRequest represents the request body for updating a bursary
type UpdateBursaryRequest struct {
	Title                   *string   `json:"title" validate:"omitempty,min=3,max=200"`
	Description             *string   `json:"description"`
	Category                *string   `json:"category" validate:"omitempty,oneof=merit need demographic subject other"`
	Amount                  *float64  `json:"amount" validate:"omitempty,gt=0"`
	Currency                *string   `json:"currency" validate:"omitempty,len=3"`
	EligibleEducationLevels *[]string `json:"eligible_education_levels" validate:"omitempty,dive,oneof=high_school diploma bachelor master phd"`
	EligibleFields          *[]string `json:"eligible_fields"`
	MinGPA                  *float64  `json:"min_gpa" validate:"omitempty,gte=0,lte=4"`
	Country                 *string   `json:"country" validate:"omitempty,max=100"`
	City                    *string   `json:"city" validate:"omitempty,max=100"`
	ProviderName            *string   `json:"provider_name" validate:"omitempty,max=200"`
	ProviderWebsite         *string   `json:"provider_website" validate:"omitempty,url,max=255"`
	ContactEmail            *string   `json:"contact_email" validate:"omitempty,email,max=255"`
	ApplicationDeadline     *string   `json:"application_deadline" validate:"omitempty,datetime=2006-01-02"`
	ApplicationURL          *string   `json:"application_url" validate:"omitempty,url,max=255"`
	RequiredDocuments       *string   `json:"required_documents"`
}

// BursaryDetail is the payload of GET /bursaries/:slug
type BursaryDetail struct {
	Bursary      *model.Bursary                `json:"bursary"`
	IsBookmarked bool                          `json:"is_bookmarked"`
	Similar      []model.Bursary               `json:"similar"`
	Match        *recommendation.ScoredBursary `json:"match,omitempty"`
}

func parseDate(s string) datatypes.Date {
	t, _ := time.Parse(dateLayout, s)
	return datatypes.Date(t.UTC())
}

// ListBursaries handles GET /api/v1/bursaries
func (h *BursaryHandler) ListBursaries(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	filter := services.BursaryFilter{
		Query:          validation.SanitizeString(c.Query("q")),
		Category:       c.Query("category"),
		Country:        validation.SanitizeString(c.Query("country")),
		EducationLevel: c.Query("education_level"),
		Sort:           c.Query("sort"),
		Page:           page,
		Limit:          services.BursaryPageSize,
	}

	bursaries, total, err := h.bursaries.List(c.UserContext(), filter)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch bursaries")
	}

	return response.Paginated(c, bursaries, response.CalculatePagination(page, services.BursaryPageSize, total))
}

// GetBursary handles GET /api/v1/bursaries/:slug
func (h *BursaryHandler) GetBursary(c *fiber.Ctx) error {
	ctx := c.UserContext()
	user, authenticated := middleware.GetUser(c)
	staff := authenticated && user.IsStaff()

	bursary, err := h.bursaries.GetBySlug(ctx, c.Params("slug"), staff)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch bursary")
	}

	viewer := "ip:" + c.IP()
	if authenticated {
		viewer = fmt.Sprintf("user:%d", user.ID)
	}
	if counted, err := h.bursaries.RecordView(ctx, bursary.ID, viewer); err != nil {
		h.log.Warn("failed to record bursary view", "bursary_id", bursary.ID, "error", err)
	} else if counted {
		bursary.ViewsCount++
	}

	detail := BursaryDetail{Bursary: bursary, Similar: []model.Bursary{}}

	similar, err := h.engine.GetSimilarBursaries(ctx, bursary, h.similarLimit)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch similar bursaries")
	}
	detail.Similar = similar

	if authenticated {
		detail.IsBookmarked, err = h.bookmarks.IsBookmarked(ctx, user.ID, bursary.ID)
		if err != nil {
			return handlers.ServiceError(c, h.log, err, "Failed to check bookmark")
		}

		if scored, ok, err := h.engine.Explain(ctx, user.ID, bursary); err != nil {
			h.log.Warn("failed to score bursary for user", "bursary_id", bursary.ID, "user_id", user.ID, "error", err)
		} else if ok {
			detail.Match = &scored
		}

		h.activity.Log(ctx, user.ID, model.ActivityTypeViewBursary, &bursary.ID, bursary.Title, c.IP())
	}

	return response.Success(c, detail)
}

// ManageBursaries handles GET /api/v1/dashboard/bursaries
func (h *BursaryHandler) ManageBursaries(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	bursaries, total, err := h.bursaries.ListAll(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch bursaries")
	}

	return response.Paginated(c, bursaries, response.CalculatePagination(page, services.ManageBursaryPageSize, total))
}

// ToggleBookmark handles POST /api/v1/bursaries/:slug/bookmark
func (h *BursaryHandler) ToggleBookmark(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	bursary, err := h.bursaries.GetBySlug(c.UserContext(), c.Params("slug"), false)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch bursary")
	}

	bookmarked, err := h.bookmarks.Toggle(c.UserContext(), userID, bursary.ID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to update bookmark")
	}

	message := "Bookmark removed"
	if bookmarked {
		message = "Bursary bookmarked"
		h.activity.Log(c.UserContext(), userID, model.ActivityTypeBookmark, &bursary.ID, bursary.Title, c.IP())
	}

	return response.SuccessWithMessage(c, message, fiber.Map{"bookmarked": bookmarked})
}

// ListBookmarks handles GET /api/v1/me/bookmarks
func (h *BursaryHandler) ListBookmarks(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	bookmarks, err := h.bookmarks.List(c.UserContext(), userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch bookmarks")
	}

	return response.Success(c, bookmarks)
}

// CreateBursary handles POST /api/v1/bursaries
func (h *BursaryHandler) CreateBursary(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateBursaryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	bursary := model.Bursary{
		Title:                   validation.SanitizeString(req.Title),
		Description:             validation.SanitizeString(req.Description),
		Category:                model.BursaryCategory(req.Category),
		Amount:                  req.Amount,
		Currency:                req.Currency,
		EligibleEducationLevels: model.JoinList(req.EligibleEducationLevels),
		EligibleFields:          model.JoinList(req.EligibleFields),
		MinGPA:                  req.MinGPA,
		Country:                 validation.SanitizeString(req.Country),
		City:                    validation.SanitizeString(req.City),
		ProviderName:            validation.SanitizeString(req.ProviderName),
		ProviderWebsite:         req.ProviderWebsite,
		ContactEmail:            req.ContactEmail,
		ApplicationDeadline:     parseDate(req.ApplicationDeadline),
		ApplicationURL:          req.ApplicationURL,
		RequiredDocuments:       validation.SanitizeString(req.RequiredDocuments),
	}
	if req.StartDate != "" {
		start := parseDate(req.StartDate)
		bursary.StartDate = &start
	}

	if err := h.bursaries.Create(c.UserContext(), &bursary, user.ID); err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to create bursary")
	}

	h.audit.Record(c.UserContext(), model.AuditLog{
		StaffID:     user.ID,
		Action:      "bursary_create",
		BursaryID:   bursary.ID,
		Description: bursary.Title,
		IPAddress:   c.IP(),
	})

	return response.Created(c, bursary)
}

// UpdateBursary handles PUT /api/v1/bursaries/:id
func (h *BursaryHandler) UpdateBursary(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid bursary ID")
	}

	var req UpdateBursaryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	changes := map[string]interface{}{}
	setString := func(column string, v *string) {
		if v != nil {
			changes[column] = validation.SanitizeString(*v)
		}
	}
	setString("title", req.Title)
	setString("description", req.Description)
	setString("category", req.Category)
	setString("currency", req.Currency)
	setString("country", req.Country)
	setString("city", req.City)
	setString("provider_name", req.ProviderName)
	setString("provider_website", req.ProviderWebsite)
	setString("contact_email", req.ContactEmail)
	setString("application_url", req.ApplicationURL)
	setString("required_documents", req.RequiredDocuments)
	if req.Amount != nil {
		changes["amount"] = *req.Amount
	}
	if req.MinGPA != nil {
		changes["min_gpa"] = *req.MinGPA
	}
	if req.EligibleEducationLevels != nil {
		changes["eligible_education_levels"] = model.JoinList(*req.EligibleEducationLevels)
	}
	if req.EligibleFields != nil {
		changes["eligible_fields"] = model.JoinList(*req.EligibleFields)
	}
	if req.ApplicationDeadline != nil {
		changes["application_deadline"] = parseDate(*req.ApplicationDeadline)
	}

	bursary, err := h.bursaries.Update(c.UserContext(), id, changes)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to update bursary")
	}

	h.audit.Record(c.UserContext(), model.AuditLog{
		StaffID:     user.ID,
		Action:      "bursary_update",
		BursaryID:   id,
		Description: fmt.Sprintf("%d field(s) changed", len(changes)),
		IPAddress:   c.IP(),
	})

	return response.SuccessWithMessage(c, "Bursary updated successfully", bursary)
}

// ApproveBursary handles POST /api/v1/bursaries/:id/approve
func (h *BursaryHandler) ApproveBursary(c *fiber.Ctx) error {
	return h.setStatus(c, model.BursaryStatusActive, "bursary_approve", "Bursary approved")
}

// RejectBursary handles POST /api/v1/bursaries/:id/reject
func (h *BursaryHandler) RejectBursary(c *fiber.Ctx) error {
	return h.setStatus(c, model.BursaryStatusClosed, "bursary_reject", "Bursary rejected")
}

func (h *BursaryHandler) setStatus(c *fiber.Ctx, status model.BursaryStatus, action, message string) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid bursary ID")
	}

	bursary, err := h.bursaries.SetStatus(c.UserContext(), id, status)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to update bursary status")
	}

	h.audit.Record(c.UserContext(), model.AuditLog{
		StaffID:     user.ID,
		Action:      action,
		BursaryID:   id,
		Description: bursary.Title,
		IPAddress:   c.IP(),
	})

	return response.SuccessWithMessage(c, message, bursary)
}

// GetAuditTrail handles GET /api/v1/bursaries/:id/audit
func (h *BursaryHandler) GetAuditTrail(c *fiber.Ctx) error {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid bursary ID")
	}

	logs, err := h.audit.ForBursary(c.UserContext(), id)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch audit trail")
	}
	return response.Success(c, logs)
}
