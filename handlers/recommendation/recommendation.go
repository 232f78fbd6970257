package recommendation

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/bursary-hub/handlers"
	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/services"
	"github.com/sahilchouksey/bursary-hub/services/recommendation"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"github.com/sahilchouksey/bursary-hub/utils/middleware"
	"github.com/sahilchouksey/bursary-hub/utils/response"
)

const (
	maxLimit     = 50
	homeSections = 6
)

// RecommendationHandler serves personalized and home-page listings
type RecommendationHandler struct {
	engine       *recommendation.Engine
	bursaries    *services.BursaryService
	activity     *services.ActivityService
	log          *logger.Logger
	defaultLimit int
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(engine *recommendation.Engine, bursaries *services.BursaryService, activity *services.ActivityService, log *logger.Logger, defaultLimit int) *RecommendationHandler {
	return &RecommendationHandler{
		engine:       engine,
		bursaries:    bursaries,
		activity:     activity,
		log:          log,
		defaultLimit: defaultLimit,
	}
}

// HomeResponse is the payload of GET /home
type HomeResponse struct {
	Trending        []model.Bursary        `json:"trending"`
	Recommendations *recommendation.Result `json:"recommendations,omitempty"`
}

// GetRecommendations handles GET /api/v1/me/recommendations
func (h *RecommendationHandler) GetRecommendations(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			return response.BadRequest(c, "limit must be between 1 and 50")
		}
		limit = n
	}

	result, err := h.engine.GetRecommendations(c.UserContext(), userID, limit)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to compute recommendations")
	}

	h.activity.Log(c.UserContext(), userID, model.ActivityTypeRecommendation, nil, "", c.IP())
	return response.Success(c, result)
}

// GetHome handles GET /api/v1/home
func (h *RecommendationHandler) GetHome(c *fiber.Ctx) error {
	trending, err := h.bursaries.Trending(c.UserContext(), homeSections)
	if err != nil {
		return handlers.ServiceError(c, h.log, err, "Failed to fetch trending bursaries")
	}

	home := HomeResponse{Trending: trending}
	if userID, ok := middleware.GetUserID(c); ok {
		home.Recommendations, err = h.engine.GetRecommendations(c.UserContext(), userID, homeSections)
		if err != nil {
			return handlers.ServiceError(c, h.log, err, "Failed to compute recommendations")
		}
	}

	return response.Success(c, home)
}
