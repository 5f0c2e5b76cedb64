package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the process-wide settings. It is read once at startup and
// passed by value to whoever needs it.
type Config struct {
	Port    string
	GinMode string

	GeminiAPIKey      string
	GeminiModel       string
	GeminiTemperature float32

	LogLevel  string
	LogFormat string

	ScoutDelay       time.Duration
	VerifyDelay      time.Duration
	AuditMaxAttempts int
	AuditRetryDelay  time.Duration
	CacheTTL         time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

// ModelConfigured reports whether a generative model client should be built.
func (c *Config) ModelConfigured() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// Load reads .env, an optional config.yaml and the environment, in
// increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:              v.GetString("port"),
		GinMode:           v.GetString("gin_mode"),
		GeminiAPIKey:      v.GetString("gemini.api_key"),
		GeminiModel:       v.GetString("gemini.model"),
		GeminiTemperature: float32(v.GetFloat64("gemini.temperature")),
		LogLevel:          strings.ToLower(v.GetString("log.level")),
		LogFormat:         strings.ToLower(v.GetString("log.format")),
		ScoutDelay:        v.GetDuration("scout.delay"),
		VerifyDelay:       v.GetDuration("verify.delay"),
		AuditMaxAttempts:  v.GetInt("audit.max_attempts"),
		AuditRetryDelay:   v.GetDuration("audit.retry_delay"),
		CacheTTL:          v.GetDuration("cache.ttl"),
		RateLimitRPS:      v.GetFloat64("rate_limit.rps"),
		RateLimitBurst:    v.GetInt("rate_limit.burst"),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("scout.delay", time.Second)
	v.SetDefault("verify.delay", 500*time.Millisecond)
	v.SetDefault("audit.max_attempts", 3)
	v.SetDefault("audit.retry_delay", 60*time.Second)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("rate_limit.rps", 0)
	v.SetDefault("rate_limit.burst", 10)
}

func validate(cfg *Config) error {
	if cfg.Port == "" {
		return errors.New("port must not be empty")
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("gin_mode must be debug, release or test, got %q", cfg.GinMode)
	}
	if cfg.AuditMaxAttempts < 1 {
		return fmt.Errorf("audit.max_attempts must be at least 1, got %d", cfg.AuditMaxAttempts)
	}
	if cfg.ScoutDelay < 0 || cfg.VerifyDelay < 0 || cfg.AuditRetryDelay < 0 || cfg.CacheTTL < 0 {
		return errors.New("durations must not be negative")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit.rps must not be negative, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst < 1 {
		return fmt.Errorf("rate_limit.burst must be at least 1 when rate limiting is on, got %d", cfg.RateLimitBurst)
	}
	return nil
}
