package profile

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/bursary-hub/handlers"
	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/services"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"github.com/sahilchouksey/bursary-hub/utils/middleware"
	"github.com/sahilchouksey/bursary-hub/utils/response"
	"github.com/sahilchouksey/bursary-hub/utils/validation"
)

// ProfileHandler handles student profile requests
type ProfileHandler struct {
	profiles  *services.ProfileService
	activity  *services.ActivityService
	validator *validation.Validator
	log       *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *services.ProfileService, activity *services.ActivityService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:  profiles,
		activity:  activity,
		validator: validation.NewValidator(),
		log:       log,
	}
}

// UpsertProfileRequest represents the request body for saving a profile
type UpsertProfileRequest struct {
	EducationLevel string   `json:"education_level" validate:"required,oneof=high_school diploma bachelor master phd"`
	FieldOfStudy   string   `json:"field_of_study" validate:"required,min=2,max=100"`
	Institution    string   `json:"institution" validate:"omitempty,max=200"`
	YearOfStudy    string   `json:"year_of_study" validate:"omitempty,oneof=1 2 3 4 5 other"`
	GPA            *float64 `json:"gpa" validate:"omitempty,gte=0,lte=4"`
	Country        string   `json:"country" validate:"required,max=100"`
	City           string   `json:"city" validate:"omitempty,max=100"`
	FinancialNeed  string   `json:"financial_need" validate:"omitempty,oneof=high medium low"`
	Interests      []string `json:"interests" validate:"dive,max=100"`
	Bio            string   `json:"bio" validate:"omitempty,max=2000"`
}

// GetProfile handles GET /api/v1/me/profile
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	profile, err := h.profiles.Get(c.UserContext(), userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch profile")
	}
	return response.Success(c, profile)
}

// UpsertProfile handles PUT /api/v1/me/profile
func (h *ProfileHandler) UpsertProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req UpsertProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	profile, err := h.profiles.Upsert(c.UserContext(), userID, &model.StudentProfile{
		EducationLevel: model.EducationLevel(req.EducationLevel),
		FieldOfStudy:   validation.SanitizeString(req.FieldOfStudy),
		Institution:    validation.SanitizeString(req.Institution),
		YearOfStudy:    req.YearOfStudy,
		GPA:            req.GPA,
		Country:        validation.SanitizeString(req.Country),
		City:           validation.SanitizeString(req.City),
		FinancialNeed:  model.FinancialNeed(req.FinancialNeed),
		Interests:      model.JoinList(req.Interests),
		Bio:            validation.SanitizeString(req.Bio),
	})
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to save profile")
	}

	h.activity.Log(c.UserContext(), userID, model.ActivityTypeProfileUpdate, nil, "", c.IP())
	return response.SuccessWithMessage(c, "Profile saved successfully", profile)
}

// GetActivity handles GET /api/v1/me/activity
func (h *ProfileHandler) GetActivity(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		return response.BadRequest(c, "limit must be between 1 and 100")
	}

	activities, err := h.activity.Recent(c.UserContext(), userID, limit)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch activity")
	}
	return response.Success(c, activities)
}
