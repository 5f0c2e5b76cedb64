// Package audit produces a digital presence audit and an outreach draft for
// a single business.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/sitescout/sitescout-api/internal/llm"
	"github.com/sitescout/sitescout-api/internal/metrics"
	"github.com/sitescout/sitescout-api/internal/models"
	"github.com/sitescout/sitescout-api/internal/prompts"
	"github.com/sitescout/sitescout-api/internal/schema"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 60 * time.Second

	// NoModelScore is reported when no model client is configured.
	NoModelScore = 45
)

// NoModelResult is returned when the service runs without a model.
func NoModelResult() models.AnalysisResult {
	return models.AnalysisResult{
		AuditScore:      NoModelScore,
		PainPoints:      []string{"No API Key Detected", "Cannot analyze real data", "Please set GEMINI_API_KEY"},
		Improvements:    []string{"Add API Key to backend", "Restart server"},
		OutreachMessage: "System Error: Please configure the AI backend.",
	}
}

// RateLimitResult is returned once every attempt was throttled.
func RateLimitResult() models.AnalysisResult {
	return models.AnalysisResult{
		AuditScore:      0,
		PainPoints:      []string{"Rate Limit Hit"},
		Improvements:    []string{"Wait 60 seconds", "Try again"},
		OutreachMessage: "Google Gemini API Rate Limit Exceeded. Please wait a minute and try again.",
	}
}

// ErrorResult is returned for any failure that is not a rate limit.
func ErrorResult() models.AnalysisResult {
	return models.AnalysisResult{
		AuditScore:      0,
		PainPoints:      []string{"AI Error"},
		Improvements:    []string{"Check console logs"},
		OutreachMessage: "Error generating message.",
	}
}

type Service struct {
	generator   llm.Generator
	cache       *cache.Cache
	maxAttempts int
	retryDelay  time.Duration
	sleep       func(time.Duration)
	logger      *zap.Logger
}

type Option func(*Service)

// WithGenerator switches the service to the model-backed variant.
func WithGenerator(g llm.Generator) Option {
	return func(s *Service) { s.generator = g }
}

// WithCache keeps successful model results for reuse.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithMaxAttempts bounds the model calls per audit. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithRetryDelay sets the pause after a rate limited attempt.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Service) { s.retryDelay = d }
}

// WithSleeper replaces time.Sleep for the retry backoff.
func WithSleeper(fn func(time.Duration)) Option {
	return func(s *Service) { s.sleep = fn }
}

func NewService(logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		sleep:       time.Sleep,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze always returns a well formed result. Rate limited calls are retried
// after RetryDelay; the final throttled attempt and every other failure end
// in a terminal result with a zero score.
func (s *Service) Analyze(ctx context.Context, req models.AnalyzeRequest) models.AnalysisResult {
	if s.generator == nil {
		return NoModelResult()
	}

	key := cacheKey(req)
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			metrics.ModelRequests.WithLabelValues("audit", metrics.OutcomeCacheHit).Inc()
			return cached.(models.AnalysisResult)
		}
	}

	website := ""
	if req.HasWebsite() {
		website = *req.Website
	}
	prompt, err := prompts.Audit(prompts.AuditData{
		BusinessName: req.BusinessName,
		Industry:     req.Industry,
		Location:     req.Location,
		Website:      website,
	})
	if err != nil {
		s.logger.Error("failed to build audit prompt", zap.Error(err))
		return ErrorResult()
	}

	log := s.logger.With(zap.String("business", req.BusinessName))

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		raw, err := s.generator.GenerateJSON(ctx, prompt, schema.Audit)
		if err != nil {
			log.Warn("AI audit failed", zap.Int("attempt", attempt), zap.Error(err))

			if llm.IsRateLimited(err) {
				metrics.ModelRequests.WithLabelValues("audit", metrics.OutcomeRateLimited).Inc()
				if attempt < s.maxAttempts {
					metrics.AuditRetries.Inc()
					log.Info("rate limit hit, retrying", zap.Duration("delay", s.retryDelay))
					s.sleep(s.retryDelay)
					continue
				}
				return RateLimitResult()
			}

			metrics.ModelRequests.WithLabelValues("audit", metrics.OutcomeError).Inc()
			return ErrorResult()
		}

		result, err := decode(raw)
		if err != nil {
			metrics.ModelRequests.WithLabelValues("audit", metrics.OutcomeError).Inc()
			log.Warn("AI audit returned an unusable payload", zap.Int("attempt", attempt), zap.Error(err))
			return ErrorResult()
		}

		metrics.ModelRequests.WithLabelValues("audit", metrics.OutcomeSuccess).Inc()
		if s.cache != nil {
			s.cache.Set(key, result, cache.DefaultExpiration)
		}
		return result
	}

	return RateLimitResult()
}

func decode(raw json.RawMessage) (models.AnalysisResult, error) {
	var result models.AnalysisResult
	if err := schema.ValidateAudit(raw); err != nil {
		return result, err
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("failed to decode audit: %w", err)
	}
	return result, nil
}

func cacheKey(req models.AnalyzeRequest) string {
	website := ""
	if req.Website != nil {
		website = *req.Website
	}
	return fmt.Sprintf("audit:%s|%s|%s|%s", req.BusinessName, req.Industry, req.Location, website)
}
