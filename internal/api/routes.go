package api

import (
	"github.com/RishiKendai/aegis-origin/internal/config"
	"github.com/RishiKendai/aegis-origin/internal/infra/redis"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	cfg *config.Config,
	runner CheckRunner,
	reports ReportReader,
	files FileResultReader,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.Default()

	handler := NewHandler(cfg, runner, reports, files, redisClient)

	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	router.Use(MetricsMiddleware())
	router.Use(ErrorHandlerMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/checks", handler.CreateCheck)
		api.GET("/checks/:checkId", handler.GetCheck)
		api.GET("/checks/:checkId/files", handler.GetCheckFiles)
	}

	return router
}
