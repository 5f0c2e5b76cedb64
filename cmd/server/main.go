package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/sitescout/sitescout-api/internal/api"
	"github.com/sitescout/sitescout-api/internal/audit"
	"github.com/sitescout/sitescout-api/internal/config"
	"github.com/sitescout/sitescout-api/internal/llm"
	"github.com/sitescout/sitescout-api/internal/logger"
	"github.com/sitescout/sitescout-api/internal/scout"
	"github.com/sitescout/sitescout-api/internal/verify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	gin.SetMode(cfg.GinMode)

	scoutOpts := []scout.Option{scout.WithDelay(cfg.ScoutDelay)}
	auditOpts := []audit.Option{
		audit.WithMaxAttempts(cfg.AuditMaxAttempts),
		audit.WithRetryDelay(cfg.AuditRetryDelay),
	}
	if resultCache := newResultCache(cfg.CacheTTL); resultCache != nil {
		scoutOpts = append(scoutOpts, scout.WithCache(resultCache))
		auditOpts = append(auditOpts, audit.WithCache(resultCache))
	} else {
		zapLogger.Info("Result caching disabled")
	}

	if cfg.ModelConfigured() {
		geminiClient, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTemperature)
		if err != nil {
			zapLogger.Warn("Gemini client unavailable, serving fallback data", zap.Error(err))
		} else {
			defer geminiClient.Close()
			scoutOpts = append(scoutOpts, scout.WithGenerator(geminiClient))
			auditOpts = append(auditOpts, audit.WithGenerator(geminiClient))
			zapLogger.Info("Gemini client ready", zap.String("model", cfg.GeminiModel))
		}
	} else {
		zapLogger.Warn("GEMINI_API_KEY not set, serving synthetic leads and placeholder audits")
	}

	handler := api.NewHandler(
		scout.NewService(zapLogger, scoutOpts...),
		audit.NewService(zapLogger, auditOpts...),
		verify.NewVerifier(zapLogger, cfg.VerifyDelay),
		zapLogger,
	)

	var routerOpts api.RouterOptions
	if cfg.RateLimitRPS > 0 {
		routerOpts.RateLimiter = api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	router := api.NewRouter(handler, zapLogger, routerOpts)

	zapLogger.Info("SiteScout API starting",
		zap.String("port", cfg.Port),
		zap.String("gin_mode", cfg.GinMode),
		zap.Bool("rate_limited", routerOpts.RateLimiter != nil),
	)

	if err := router.Run(":" + cfg.Port); err != nil {
		zapLogger.Fatal("Server failed to start", zap.Error(err))
	}
}

// newResultCache returns nil when ttl is not positive. go-cache would treat a
// zero default expiration as "never expire".
func newResultCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		return nil
	}
	return cache.New(ttl, 2*ttl)
}
