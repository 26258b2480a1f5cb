package api

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aharui/backend/internal/middleware"
	"github.com/aharui/backend/internal/service"
)

// Services are the use cases the HTTP API exposes
type Services struct {
	Auth      service.IAuthService
	Profiles  service.IProfileService
	Tracking  service.ITrackingService
	Rewards   service.IRewardService
	Planning  service.IPlanningService
	Extractor service.INutritionExtractor
	Exports   service.IExportService
}

// HealthCheck is one dependency probed by the health endpoint
type HealthCheck func(ctx context.Context) error

const healthTimeout = 2 * time.Second

// Health reports whether every dependency answers
func Health(checks map[string]HealthCheck) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		results := gin.H{}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				log.Printf("[Health] %s check failed: %v", name, err)
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{"status": state, "checks": results})
	}
}

// RegisterRoutes mounts the API under /api/v1. limiter may be nil.
func RegisterRoutes(router *gin.Engine, svc Services, limiter *middleware.RateLimiter, checks map[string]HealthCheck) {
	health := Health(checks)
	router.GET("/health", health)

	v1 := router.Group("/api/v1")
	v1.GET("/health", health)
	NewAuthHandler(svc.Auth).RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))
	NewProfileHandler(svc.Profiles).RegisterRoutes(protected)
	NewTrackingHandler(svc.Tracking).RegisterRoutes(protected)
	NewRewardsHandler(svc.Rewards).RegisterRoutes(protected)
	NewPlanningHandler(svc.Planning, svc.Extractor, limiter).RegisterRoutes(protected)
	NewExportHandler(svc.Exports).RegisterRoutes(protected)
}
