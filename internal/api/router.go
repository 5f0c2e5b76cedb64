package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterOptions struct {
	// RateLimiter throttles /api routes per client IP. Nil disables it.
	RateLimiter *RateLimiter
}

func NewRouter(h *Handler, logger *zap.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Accept", "Authorization", requestIDHeader)
	corsConfig.AddExposeHeaders(requestIDHeader, "Content-Disposition")

	router.Use(
		gin.Recovery(),
		RequestID(),
		RequestLogger(logger),
		Metrics(),
		cors.New(corsConfig),
	)

	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Middleware())
	}
	{
		api.POST("/scout", h.Scout)
		api.POST("/scout/export", h.ExportLeads)
		api.POST("/analyze", h.Analyze)
		api.POST("/verify-email", h.VerifyEmail)
	}

	return router
}
