package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sahilchouksey/bursary-hub/config"
	"github.com/sahilchouksey/bursary-hub/database"
	"github.com/sahilchouksey/bursary-hub/handlers"
	application_handlers "github.com/sahilchouksey/bursary-hub/handlers/application"
	bursary_handlers "github.com/sahilchouksey/bursary-hub/handlers/bursary"
	dashboard_handlers "github.com/sahilchouksey/bursary-hub/handlers/dashboard"
	profile_handlers "github.com/sahilchouksey/bursary-hub/handlers/profile"
	recommendation_handlers "github.com/sahilchouksey/bursary-hub/handlers/recommendation"
	"github.com/sahilchouksey/bursary-hub/services"
	"github.com/sahilchouksey/bursary-hub/services/recommendation"
	"github.com/sahilchouksey/bursary-hub/utils/auth"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"github.com/sahilchouksey/bursary-hub/utils/middleware"
)

// Dependencies are the long-lived components the routes are built from
type Dependencies struct {
	Store      database.Storage
	Cache      services.Cache // nil when Redis is unavailable
	JWTManager *auth.JWTManager
	Logger     *logger.Logger
	Config     *config.EnviornmentVariable
	AccessLog  bool
}

// Services are shared with the background jobs
type Services struct {
	Bursaries *services.BursaryService
	Analytics *services.AnalyticsService
}

func SetupRoutes(app *fiber.App, deps Dependencies) *Services {
	db := deps.Store.DB()
	log := deps.Logger
	cfg := deps.Config

	// Services
	userService := services.NewUserService(db)
	bursaryService := services.NewBursaryService(db, deps.Cache, log)
	bookmarkService := services.NewBookmarkService(db)
	applicationService := services.NewApplicationService(db, log)
	profileService := services.NewProfileService(db)
	activityService := services.NewActivityService(db, log)
	auditService := services.NewAuditService(db, log)
	analyticsService := services.NewAnalyticsService(db, deps.Cache, log)
	engine := recommendation.NewEngine(
		database.NewRecommendationStore(db),
		recommendation.WithLogger(log.With("component", "recommendation")),
	)

	authMiddleware := middleware.NewAuthMiddleware(deps.JWTManager, userService, log)

	// Handlers
	bursaryHandler := bursary_handlers.NewBursaryHandler(bursaryService, bookmarkService, activityService, auditService, engine, log, cfg.SIMILAR_LIMIT)
	applicationHandler := application_handlers.NewApplicationHandler(applicationService, activityService, log)
	profileHandler := profile_handlers.NewProfileHandler(profileService, activityService, log)
	recommendationHandler := recommendation_handlers.NewRecommendationHandler(engine, bursaryService, activityService, log, cfg.RECOMMENDATION_LIMIT)
	dashboardHandler := dashboard_handlers.NewDashboardHandler(analyticsService, log)

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    cfg.ALLOWED_ORIGINS,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
		AccessLog:         deps.AccessLog,
	})

	app.Get("/ping", handlers.HandleCheckHealth(deps.Store))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	// ============================================
	// Public catalogue (token optional)
	// ============================================
	api.Get("/home", authMiddleware.Optional(), recommendationHandler.GetHome)

	bursaries := api.Group("/bursaries")
	bursaries.Get("/", bursaryHandler.ListBursaries)                                            // Public: Search open bursaries
	bursaries.Get("/:slug", authMiddleware.Optional(), bursaryHandler.GetBursary)               // Public: Detail, similar and match breakdown
	bursaries.Post("/:slug/bookmark", authMiddleware.Required(), bursaryHandler.ToggleBookmark) // Protected: Toggle bookmark

	// ============================================
	// Staff listing management
	// ============================================
	staff := []fiber.Handler{authMiddleware.Required(), authMiddleware.RequireStaff()}
	bursaries.Post("/", append(staff, bursaryHandler.CreateBursary)...)
	bursaries.Put("/:id", append(staff, bursaryHandler.UpdateBursary)...)
	bursaries.Post("/:id/approve", append(staff, bursaryHandler.ApproveBursary)...)
	bursaries.Post("/:id/reject", append(staff, bursaryHandler.RejectBursary)...)
	bursaries.Get("/:id/audit", append(staff, bursaryHandler.GetAuditTrail)...)

	// ============================================
	// Student area
	// ============================================
	me := api.Group("/me", authMiddleware.Required())
	me.Get("/profile", profileHandler.GetProfile)
	me.Put("/profile", profileHandler.UpsertProfile)
	me.Get("/activity", profileHandler.GetActivity)
	me.Get("/recommendations", recommendationHandler.GetRecommendations)
	me.Get("/bookmarks", bursaryHandler.ListBookmarks)

	applications := api.Group("/applications", authMiddleware.Required())
	applications.Get("/", applicationHandler.ListApplications)
	applications.Post("/", applicationHandler.TrackApplication)
	applications.Put("/:id", applicationHandler.UpdateApplication)

	// ============================================
	// Staff dashboard
	// ============================================
	dashboard := api.Group("/dashboard", authMiddleware.Required(), authMiddleware.RequireStaff())
	dashboard.Get("/", dashboardHandler.GetDashboard)
	dashboard.Get("/bursaries", bursaryHandler.ManageBursaries)
	dashboard.Get("/trends", dashboardHandler.GetTrends)
	dashboard.Get("/chart-data", dashboardHandler.GetChartData)
	dashboard.Get("/export/bursaries", dashboardHandler.ExportBursaries)
	dashboard.Get("/export/applications", dashboardHandler.ExportApplications)

	return &Services{Bursaries: bursaryService, Analytics: analyticsService}
}
