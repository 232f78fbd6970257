package application

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/bursary-hub/handlers"
	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/services"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"github.com/sahilchouksey/bursary-hub/utils/middleware"
	"github.com/sahilchouksey/bursary-hub/utils/response"
	"github.com/sahilchouksey/bursary-hub/utils/validation"
)

// ApplicationHandler handles application tracking requests
type ApplicationHandler struct {
	applications *services.ApplicationService
	activity     *services.ActivityService
	validator    *validation.Validator
	log          *logger.Logger
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applications *services.ApplicationService, activity *services.ActivityService, log *logger.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		activity:     activity,
		validator:    validation.NewValidator(),
		log:          log,
	}
}

// TrackApplicationRequest represents the request body for tracking an application
type TrackApplicationRequest struct {
	BursaryID uint `json:"bursary_id" validate:"required,gt=0"`
}

// UpdateApplicationRequest represents the request body for updating an application
type UpdateApplicationRequest struct {
	Status       *string `json:"status" validate:"omitempty,oneof=draft submitted under_review accepted rejected withdrawn"`
	CoverLetter  *string `json:"cover_letter" validate:"omitempty,max=10000"`
	Motivation   *string `json:"motivation" validate:"omitempty,max=10000"`
	Achievements *string `json:"achievements" validate:"omitempty,max=10000"`
}

// ListApplications handles GET /api/v1/applications
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	tracker, err := h.applications.Tracker(c.UserContext(), userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch applications")
	}
	return response.Success(c, tracker)
}

// TrackApplication handles POST /api/v1/applications
func (h *ApplicationHandler) TrackApplication(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req TrackApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	app, created, err := h.applications.Track(c.UserContext(), userID, req.BursaryID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to track application")
	}

	if !created {
		return response.SuccessWithMessage(c, "Application already tracked", app)
	}

	h.activity.Log(c.UserContext(), userID, model.ActivityTypeApply, &req.BursaryID, "", c.IP())
	return response.Created(c, app)
}

// UpdateApplication handles PUT /api/v1/applications/:id
func (h *ApplicationHandler) UpdateApplication(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req UpdateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	upd := services.ApplicationUpdate{
		CoverLetter:  req.CoverLetter,
		Motivation:   req.Motivation,
		Achievements: req.Achievements,
	}
	if req.Status != nil {
		status := model.ApplicationStatus(*req.Status)
		upd.Status = &status
	}

	app, err := h.applications.Update(c.UserContext(), userID, id, upd)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to update application")
	}
	return response.SuccessWithMessage(c, "Application updated successfully", app)
}
