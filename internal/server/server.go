package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/aharui/backend/config"
	"github.com/aharui/backend/internal/api"
	"github.com/aharui/backend/internal/database"
	"github.com/aharui/backend/internal/middleware"
	"github.com/aharui/backend/internal/repository"
	"github.com/aharui/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New wires the services onto a router. redisClient may be nil, in which case
// meal plans are not cached and AI requests are not rate limited.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	generator, err := service.NewGeminiClient(cfg)
	if err != nil {
		return nil, err
	}

	var store service.ObjectStore
	if cfg.AWSRegion != "" {
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		store = s3cfg
		log.Printf("[Server] Exports go to s3://%s", cfg.S3Bucket)
	} else {
		log.Printf("[Server] AWS_REGION not set, data export is disabled")
	}

	checks := map[string]api.HealthCheck{
		"database": func(ctx context.Context) error { return database.HealthCheck(db) },
	}

	var cache service.PlanCache
	var limiter *middleware.RateLimiter
	if redisClient != nil {
		cache = service.NewRedisPlanCache(redisClient)
		limiter = middleware.NewAIRateLimiter(redisClient, cfg.AIRateLimit)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		log.Printf("[Server] Running without Redis")
	}

	repos := repository.NewRepositories(db)
	ai := service.NewAIService(generator)
	rewards := service.NewRewardService(repos, nil)

	router := gin.New()
	router.Use(gin.Logger(), middleware.Recovery(), middleware.CORS(cfg.CORSOrigins))
	router.NoRoute(middleware.NotFound())

	api.RegisterRoutes(router, api.Services{
		Auth:      service.NewAuthService(db, cfg.JWTSecret),
		Profiles:  service.NewProfileService(repos, nil),
		Tracking:  service.NewTrackingService(repos, rewards, nil),
		Rewards:   rewards,
		Planning:  service.NewPlanningService(repos, ai, cache, nil),
		Extractor: ai,
		Exports:   service.NewExportService(repos, rewards, store, nil),
	}, limiter, checks)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.Printf("[Server] Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
