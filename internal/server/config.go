package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/finance-calculator/internal/config"
	"github.com/iwvelando/finance-calculator/internal/tracing"
	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string               `yaml:"address"`
	MaxUploadSize   string               `yaml:"maxUploadSize"`
	Logging         config.LoggingConfig `yaml:"logging"`
	Cache           CacheConfig          `yaml:"cache"`
	RateLimit       RateLimitConfig      `yaml:"rateLimit"`
	Tracing         tracing.Config       `yaml:"tracing"`
	uploadSizeBytes int64
}

// CacheConfig selects where computed results are cached. Without a Redis
// address results are cached in memory.
type CacheConfig struct {
	Disabled      bool   `yaml:"disabled"`
	RedisAddress  string `yaml:"redisAddress"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	TTL           string `yaml:"ttl"`
	ttl           time.Duration
}

// RateLimitConfig bounds the number of API requests per client IP. A
// capacity of zero or less disables rate limiting.
type RateLimitConfig struct {
	Capacity int    `yaml:"capacity"`
	Refill   string `yaml:"refill"`
	refill   time.Duration
}

// TTLDuration returns the parsed cache TTL.
func (c CacheConfig) TTLDuration() time.Duration {
	return c.ttl
}

// RefillDuration returns the parsed refill window.
func (c RateLimitConfig) RefillDuration() time.Duration {
	return c.refill
}

func defaultConfig() *Config {
	return &Config{
		Address:       constants.DefaultServerAddress,
		MaxUploadSize: fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes),
		Logging:       config.LoggingConfig{},
		Cache: CacheConfig{
			TTL: constants.DefaultCacheTTL,
		},
		RateLimit: RateLimitConfig{
			Capacity: constants.DefaultRateLimitCapacity,
			Refill:   constants.DefaultRateLimitRefill,
		},
		Tracing: tracing.Config{
			ServiceName: constants.DefaultServiceName,
		},
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error. A .env file in the working directory
// and FINCALC_* environment variables override file values.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

func (c *Config) applyEnv() {
	c.Address = getEnvString("ADDRESS", c.Address)
	c.MaxUploadSize = getEnvString("MAX_UPLOAD_SIZE", c.MaxUploadSize)
	c.Logging.Level = getEnvString("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnvString("LOG_FORMAT", c.Logging.Format)
	c.Cache.RedisAddress = getEnvString("REDIS_ADDRESS", c.Cache.RedisAddress)
	c.Cache.RedisPassword = getEnvString("REDIS_PASSWORD", c.Cache.RedisPassword)
	c.Cache.RedisDB = getEnvInt("REDIS_DB", c.Cache.RedisDB)
	c.Cache.TTL = getEnvString("CACHE_TTL", c.Cache.TTL)
	c.RateLimit.Capacity = getEnvInt("RATE_LIMIT_CAPACITY", c.RateLimit.Capacity)
	c.RateLimit.Refill = getEnvString("RATE_LIMIT_REFILL", c.RateLimit.Refill)
	c.Tracing.Endpoint = getEnvString("OTEL_ENDPOINT", c.Tracing.Endpoint)
	c.Tracing.ServiceName = getEnvString("OTEL_SERVICE_NAME", c.Tracing.ServiceName)
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = constants.DefaultServiceName
	}

	ttl, err := parseDuration(c.Cache.TTL, constants.DefaultCacheTTL)
	if err != nil {
		return fmt.Errorf("invalid cache ttl: %w", err)
	}
	c.Cache.ttl = ttl

	refill, err := parseDuration(c.RateLimit.Refill, constants.DefaultRateLimitRefill)
	if err != nil {
		return fmt.Errorf("invalid rate limit refill: %w", err)
	}
	if refill <= 0 {
		return fmt.Errorf("invalid rate limit refill: must be positive, got %s", c.RateLimit.Refill)
	}
	c.RateLimit.refill = refill

	sizeStr := strings.TrimSpace(c.MaxUploadSize)
	if sizeStr == "" {
		c.uploadSizeBytes = constants.DefaultMaxUploadSizeBytes
		c.MaxUploadSize = fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}

func parseDuration(value, fallback string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = fallback
	}
	return time.ParseDuration(trimmed)
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(constants.EnvPrefix + "_" + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(constants.EnvPrefix + "_" + key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
