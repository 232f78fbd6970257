package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/bursary-hub/services"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"github.com/sahilchouksey/bursary-hub/utils/response"
	"gorm.io/gorm"
)

// ServiceError maps service errors onto the response envelope. Anything
// unrecognised is logged and reported as a 500 with fallback as the message.
func ServiceError(c *fiber.Ctx, log *logger.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrBursaryNotFound):
		return response.NotFound(c, "Bursary not found")
	case errors.Is(err, services.ErrApplicationNotFound):
		return response.NotFound(c, "Application not found")
	case errors.Is(err, services.ErrProfileNotFound):
		return response.NotFound(c, "Student profile not found")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.NotFound(c, "")
	case errors.Is(err, services.ErrInvalidStatus):
		return response.BadRequest(c, "Invalid status")
	case errors.Is(err, services.ErrUnknownChart):
		return response.BadRequest(c, "Unknown chart type")
	case errors.Is(err, services.ErrDeadlinePassed):
		return response.Conflict(c, "The application deadline has passed")
	case errors.Is(err, services.ErrForbidden):
		return response.Forbidden(c, "You can only modify your own applications")
	}

	log.Error(fallback, "path", c.Path(), "request_id", c.Locals("requestid"), "error", err)
	return response.InternalServerError(c, fallback)
}

// ParamID parses a positive numeric route parameter
func ParamID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
