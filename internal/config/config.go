package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port        string
	Store       string
	DatabaseURL string
	SeedPath    string

	Match MatchConfig

	RedisAddr          string
	RateLimitPerMinute int

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
}

// MatchConfig holds the tunables of the matching pipeline.
type MatchConfig struct {
	MaxDistanceKm      float64
	MaxDistanceLimitKm float64
	MaxResults         int
	MaxResultsLimit    int
	Timeout            time.Duration
}

// DefaultMatchConfig returns the reference radius and result limits.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		MaxDistanceKm:      20,
		MaxDistanceLimitKm: 50,
		MaxResults:         5,
		MaxResultsLimit:    20,
		Timeout:            5 * time.Second,
	}
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads and validates the configuration. Callers load any .env file first.
func Load() (Config, error) {
	def := DefaultMatchConfig()

	cfg := Config{
		Port:        Get("PORT", "8000"),
		Store:       strings.ToLower(Get("STORE", StorePostgres)),
		DatabaseURL: Get("DATABASE_URL", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/listings.json"),
		RedisAddr:   Get("REDIS_ADDR", ""),
		LogLevel:    Get("LOG_LEVEL", "info"),
		LogFormat:   Get("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.Match.MaxDistanceKm, err = getFloat("MAX_DISTANCE_KM", def.MaxDistanceKm); err != nil {
		return Config{}, err
	}
	if cfg.Match.MaxDistanceLimitKm, err = getFloat("MAX_DISTANCE_LIMIT_KM", def.MaxDistanceLimitKm); err != nil {
		return Config{}, err
	}
	if cfg.Match.MaxResults, err = getInt("MAX_RESULTS", def.MaxResults); err != nil {
		return Config{}, err
	}
	if cfg.Match.MaxResultsLimit, err = getInt("MAX_RESULTS_LIMIT", def.MaxResultsLimit); err != nil {
		return Config{}, err
	}
	if cfg.Match.Timeout, err = getDuration("MATCH_TIMEOUT", def.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 60); err != nil {
		return Config{}, err
	}

	for _, o := range strings.Split(Get("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when STORE=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORE %q", c.Store)
	}

	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}

	return c.Match.Validate()
}

func (m MatchConfig) Validate() error {
	if !(m.MaxDistanceKm > 0) || math.IsInf(m.MaxDistanceKm, 0) {
		return fmt.Errorf("config: MAX_DISTANCE_KM must be a positive finite number, got %v", m.MaxDistanceKm)
	}
	if math.IsInf(m.MaxDistanceLimitKm, 0) {
		return fmt.Errorf("config: MAX_DISTANCE_LIMIT_KM must be finite, got %v", m.MaxDistanceLimitKm)
	}
	if !(m.MaxDistanceLimitKm >= m.MaxDistanceKm) {
		return fmt.Errorf("config: MAX_DISTANCE_LIMIT_KM (%v) must not be below MAX_DISTANCE_KM (%v)", m.MaxDistanceLimitKm, m.MaxDistanceKm)
	}
	if m.MaxResults < 1 {
		return fmt.Errorf("config: MAX_RESULTS must be positive, got %d", m.MaxResults)
	}
	if m.MaxResultsLimit < m.MaxResults {
		return fmt.Errorf("config: MAX_RESULTS_LIMIT (%d) must not be below MAX_RESULTS (%d)", m.MaxResultsLimit, m.MaxResults)
	}
	if m.Timeout <= 0 {
		return fmt.Errorf("config: MATCH_TIMEOUT must be positive, got %s", m.Timeout)
	}
	return nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, raw, err)
	}
	return v, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, raw, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, raw, err)
	}
	return v, nil
}
