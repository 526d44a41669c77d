package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/app"
	"github.com/edusprout/edusprout/internal/cache"
	"github.com/edusprout/edusprout/internal/handlers"
	"github.com/edusprout/edusprout/internal/middleware"
	"github.com/edusprout/edusprout/internal/realtime"
	"github.com/edusprout/edusprout/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all portal
// routes. The hub may be nil when realtime streaming is disabled; the cache
// store may be nil, in which case rate limiting falls back to in-memory
// counters and resume scoring is uncached.
func NewRouter(db *gorm.DB, cfg *app.Config, hub *realtime.Hub, store cache.Store) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	if cfg.Server.RateLimit.Enabled {
		var rateStore middleware.RateStore
		if store != nil {
			rateStore = middleware.NewDatabaseRateStore(store)
		}
		r.Use(middleware.RateLimit(rateStore, cfg.Server.RateLimit.MaxRequests, cfg.Server.RateLimit.Window))
	}

	// Public endpoints
	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health(db))
	}
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// Every /api route is scoped to a user identity.
	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.UserScope())

	// Notifications come first: the notification service doubles as the
	// sink that the progress and application services emit into.
	notificationHandler, err := handlers.NewNotificationHandler(db, hub)
	if err != nil {
		return nil, err
	}
	sink := notificationHandler.Service()

	progressHandler, err := handlers.NewProgressHandler(db, sink)
	if err != nil {
		return nil, err
	}
	progressService := progressHandler.Service()

	bookmarkHandler, err := handlers.NewBookmarkHandler(db, progressService)
	if err != nil {
		return nil, err
	}

	applicationHandler, err := handlers.NewApplicationHandler(db, progressService, sink,
		services.WithApplyLatency(cfg.Features.Applications.SubmitLatency))
	if err != nil {
		return nil, err
	}

	profileHandler, err := handlers.NewProfileHandler(db, progressService)
	if err != nil {
		return nil, err
	}

	communityHandler, err := handlers.NewCommunityHandler(db, progressService)
	if err != nil {
		return nil, err
	}

	jobHandler, err := handlers.NewJobPostingHandler(db)
	if err != nil {
		return nil, err
	}

	resumeHandler := handlers.NewResumeHandler(store)

	registerProgressRoutes(apiGroup, progressHandler)
	registerNotificationRoutes(apiGroup, notificationHandler, cfg.Features.Realtime.Enabled && hub != nil)
	registerBookmarkRoutes(apiGroup, bookmarkHandler)
	registerApplicationRoutes(apiGroup, applicationHandler)
	registerProfileRoutes(apiGroup, profileHandler)
	registerCommunityRoutes(apiGroup, communityHandler)
	registerJobPostingRoutes(apiGroup, jobHandler)
	registerResumeRoutes(apiGroup, resumeHandler)

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
