// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSourceURL is the San Francisco mobile food facility permit dataset.
const DefaultSourceURL = "https://data.sfgov.org/resource/rqzj-sfat.csv"

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetEnv() string
	GetHTTPAddr() string
	GetRequestTimeout() time.Duration
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// RateLimitConfig provides per-IP rate limiter settings.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// RegistryConfig provides settings for loading the truck registry.
type RegistryConfig interface {
	GetRegistrySource() string
	GetRegistrySourcePath() string
	GetRegistryRefreshInterval() time.Duration
	GetRegistryReloadChannel() string
}

// ImportConfig provides the source the importer and scheduler copy into
// Postgres. It is separate from RegistryConfig because an API reading
// from Postgres still imports from the upstream export.
type ImportConfig interface {
	GetImportSource() string
	GetImportSourcePath() string
}

// RedisConfig provides Redis connection settings.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for the asynq scheduler and worker.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetRegistryImportCron() string
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOBucket() string
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                     string
	HTTPAddr                string
	RequestTimeout          time.Duration
	CORSAllowAll            bool
	CORSOrigins             []string
	RateLimitRPS            float64
	RateLimitBurst          int
	DatabaseURL             string
	RegistrySource          string
	RegistrySourcePath      string
	RegistryRefreshInterval time.Duration
	RegistryReloadChannel   string
	RegistryImportCron      string
	ImportSource            string
	ImportSourcePath        string
	RedisURL                string
	RedisTLSInsecure        bool
	AsynqQueueName          string
	AsynqConcurrency        int
	MinIOEndpoint           string
	MinIOAccessKey          string
	MinIOSecretKey          string
	MinIOUseSSL             bool
	MinIOBucket             string
	MinIOMaxFileSize        int64
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetEnv() string                   { return c.Env }
func (c *Config) GetHTTPAddr() string              { return c.HTTPAddr }
func (c *Config) GetRequestTimeout() time.Duration { return c.RequestTimeout }
func (c *Config) GetCORSAllowAll() bool            { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string         { return c.CORSOrigins }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// RegistryConfig implementation
func (c *Config) GetRegistrySource() string                 { return c.RegistrySource }
func (c *Config) GetRegistrySourcePath() string             { return c.RegistrySourcePath }
func (c *Config) GetRegistryRefreshInterval() time.Duration { return c.RegistryRefreshInterval }
func (c *Config) GetRegistryReloadChannel() string          { return c.RegistryReloadChannel }

// ImportConfig implementation
func (c *Config) GetImportSource() string     { return c.ImportSource }
func (c *Config) GetImportSourcePath() string { return c.ImportSourcePath }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string     { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int      { return c.AsynqConcurrency }
func (c *Config) GetRegistryImportCron() string { return c.RegistryImportCron }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string   { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string  { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string  { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool       { return c.MinIOUseSSL }
func (c *Config) GetMinIOBucket() string     { return c.MinIOBucket }
func (c *Config) GetMinIOMaxFileSize() int64 { return c.MinIOMaxFileSize }
func (c *Config) IsMinIOEnabled() bool       { return c.MinIOEndpoint != "" }

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current process environment.
func FromEnv() (*Config, error) {
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                     getEnv("APP_ENV", "development"),
		HTTPAddr:                getEnv("HTTP_ADDR", ":8000"),
		RequestTimeout:          mustDuration(getEnv("HTTP_REQUEST_TIMEOUT", "10s")),
		CORSAllowAll:            corsAllowAll,
		CORSOrigins:             corsOrigins,
		RateLimitRPS:            mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:          mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		RegistrySource:          strings.ToLower(strings.TrimSpace(getEnv("REGISTRY_SOURCE", "csv"))),
		RegistrySourcePath:      getEnv("REGISTRY_SOURCE_PATH", DefaultSourceURL),
		RegistryRefreshInterval: mustDuration(getEnv("REGISTRY_REFRESH_INTERVAL", "0s")),
		RegistryReloadChannel:   getEnv("REGISTRY_RELOAD_CHANNEL", "foodtrucks:registry:reload"),
		RegistryImportCron:      getEnv("REGISTRY_IMPORT_CRON", "@every 24h"),
		ImportSource:            strings.ToLower(strings.TrimSpace(getEnv("IMPORT_SOURCE", "csv"))),
		ImportSourcePath:        getEnv("IMPORT_SOURCE_PATH", DefaultSourceURL),
		RedisURL:                getEnv("REDIS_URL", ""),
		RedisTLSInsecure:        strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:          getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:        mustInt(getEnv("ASYNQ_CONCURRENCY", "2")),
		MinIOEndpoint:           getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:          getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:          getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:             strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOBucket:             getEnv("MINIO_BUCKET", "food-truck-data"),
		MinIOMaxFileSize:        int64(mustInt(getEnv("MINIO_MAX_FILE_SIZE", "67108864"))),
	}

	switch cfg.RegistrySource {
	case "csv", "xlsx", "yaml", "minio":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when REGISTRY_SOURCE is postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported REGISTRY_SOURCE %q", cfg.RegistrySource)
	}
	if cfg.ImportSource == "postgres" {
		return nil, fmt.Errorf("IMPORT_SOURCE cannot be postgres, it is the import target")
	}
	if cfg.RegistrySource == "minio" && !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MINIO_ENDPOINT is required when REGISTRY_SOURCE is minio")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_REQUEST_TIMEOUT must be a positive duration")
	}
	if cfg.RegistryRefreshInterval < 0 {
		return nil, fmt.Errorf("REGISTRY_REFRESH_INTERVAL cannot be negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
