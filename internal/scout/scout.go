// Package scout finds business leads, either by asking the generative model
// or by synthesizing them from a seed when no model is available.
package scout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/sitescout/sitescout-api/internal/llm"
	"github.com/sitescout/sitescout-api/internal/metrics"
	"github.com/sitescout/sitescout-api/internal/models"
	"github.com/sitescout/sitescout-api/internal/prompts"
	"github.com/sitescout/sitescout-api/internal/schema"
)

var errInvalidResponse = errors.New("invalid model response")

type Service struct {
	generator llm.Generator
	cache     *cache.Cache
	delay     time.Duration
	sleep     func(time.Duration)
	logger    *zap.Logger
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

// WithDelay sets the simulated latency of the synthetic variant.
func WithDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

// WithSleeper replaces time.Sleep for the simulated latency.
func WithSleeper(fn func(time.Duration)) Option {
	return func(s *Service) { s.sleep = fn }
}

func NewService(logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		delay:  time.Second,
		sleep:  time.Sleep,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scout returns exactly LeadsPerPage profiles. Model failures are never
// surfaced: the synthetic leads for the same arguments are returned instead.
func (s *Service) Scout(ctx context.Context, industry, location string, page int) []models.BusinessProfile {
	if page < 1 {
		page = 1
	}

	if s.generator == nil {
		metrics.ScoutFallbacks.WithLabelValues("no_model").Inc()
		return s.synthetic(industry, location, page)
	}

	key := cacheKey(industry, location, page)
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			metrics.ModelRequests.WithLabelValues("scout", metrics.OutcomeCacheHit).Inc()
			return slices.Clone(cached.([]models.BusinessProfile))
		}
	}

	leads, err := s.fromModel(ctx, industry, location, page)
	if err != nil {
		reason := "model_error"
		if errors.Is(err, errInvalidResponse) {
			reason = "invalid_response"
		}
		metrics.ModelRequests.WithLabelValues("scout", metrics.OutcomeError).Inc()
		metrics.ScoutFallbacks.WithLabelValues(reason).Inc()
		s.logger.Warn("AI scout failed, serving synthetic leads",
			zap.String("industry", industry),
			zap.String("location", location),
			zap.Int("page", page),
			zap.Error(err),
		)
		return s.synthetic(industry, location, page)
	}

	metrics.ModelRequests.WithLabelValues("scout", metrics.OutcomeSuccess).Inc()
	if s.cache != nil {
		s.cache.Set(key, slices.Clone(leads), cache.DefaultExpiration)
	}
	return leads
}

func (s *Service) synthetic(industry, location string, page int) []models.BusinessProfile {
	if s.delay > 0 {
		s.sleep(s.delay)
	}
	return synthesize(industry, location, page)
}

// leadItem mirrors what the model is asked to return. Every field may be
// missing or null.
type leadItem struct {
	Name        *string  `json:"name"`
	Industry    *string  `json:"industry"`
	Location    *string  `json:"location"`
	Website     *string  `json:"website"`
	Phone       *string  `json:"phone"`
	Email       *string  `json:"email"`
	Rating      *float64 `json:"rating"`
	ReviewCount *float64 `json:"review_count"`
}

func (s *Service) fromModel(ctx context.Context, industry, location string, page int) ([]models.BusinessProfile, error) {
	prompt, err := prompts.Scout(prompts.ScoutData{
		Industry: industry,
		Location: location,
		Page:     page,
		Count:    LeadsPerPage,
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.GenerateJSON(ctx, prompt, schema.Leads)
	if err != nil {
		return nil, fmt.Errorf("failed to generate leads: %w", err)
	}

	if err := schema.ValidateLeads(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidResponse, err)
	}

	var items []leadItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidResponse, err)
	}
	if len(items) < LeadsPerPage {
		return nil, fmt.Errorf("%w: got %d leads, want %d", errInvalidResponse, len(items), LeadsPerPage)
	}
	items = items[:LeadsPerPage]

	results := make([]models.BusinessProfile, 0, len(items))
	for _, item := range items {
		results = append(results, toProfile(item, industry, location))
	}
	return results, nil
}

func toProfile(item leadItem, industry, location string) models.BusinessProfile {
	name := valueOr(item.Name, "Unknown")

	// The model tends to skip social links, so they are always fabricated.
	sanitized := sanitize(name)
	socials := map[string]string{
		"linkedin": "https://linkedin.com/company/" + sanitized,
		"twitter":  "https://twitter.com/" + sanitized,
	}

	var reviewCount *int
	if item.ReviewCount != nil {
		n := int(math.Round(*item.ReviewCount))
		reviewCount = &n
	}

	return models.BusinessProfile{
		ID:          BusinessID(name),
		Name:        name,
		Industry:    valueOr(item.Industry, industry),
		Location:    valueOr(item.Location, location),
		Website:     nonEmpty(item.Website),
		Phone:       valueOr(item.Phone, "N/A"),
		Email:       nonEmpty(item.Email),
		SocialMedia: socials,
		SourceURL:   SourceURL(name, location),
		Rating:      item.Rating,
		ReviewCount: reviewCount,
	}
}

func valueOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}

func nonEmpty(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

func cacheKey(industry, location string, page int) string {
	return fmt.Sprintf("scout:%s|%s|%d", industry, location, page)
}
