package v1

import (
	"hackathon-api/config"
	"hackathon-api/handlers/judges"
	"hackathon-api/handlers/leaderboard"
	"hackathon-api/handlers/moderation"
	"hackathon-api/handlers/rounds"
	"hackathon-api/handlers/team"
	"hackathon-api/handlers/teams"
	"hackathon-api/middleware"
	"hackathon-api/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Register the endpoints for the v1 API
func Register(r *gin.Engine, svc *services.Services, cfg *config.Config) {
	binding.EnableDecoderDisallowUnknownFields = true

	v1 := r.Group("/api/v1")

	// Add metrics middleware to all routes
	v1.Use(middleware.MetricsMiddleware())

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	v1.Use(middleware.RateLimiterMiddleware(rateLimiter))

	RegisterPingRoutes(v1)
	RegisterMetricsRoutes(v1)

	authed := v1.Group("", middleware.AuthMiddleware(cfg.Auth.JWTSecret))
	rounds.RegisterRoutes(authed, svc)
	team.RegisterRoutes(authed, svc)
	judges.RegisterRoutes(authed, svc)
	teams.RegisterRoutes(authed, svc)
	leaderboard.RegisterRoutes(authed, svc)
	moderation.RegisterRoutes(authed, svc)
}
