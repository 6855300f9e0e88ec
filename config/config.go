package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.4"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Security    SecurityConfig
	Storage     StorageConfig
	SMTP        SMTPConfig
	Cache       CacheConfig
	Tracing     TracingConfig
	Webhook     WebhookConfig
	Retention   RetentionConfig
	Environment string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port            int
	Host            string
	CORSAllowOrigin string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SecurityConfig struct {
	// HMAC key used to verify bearer tokens
	JWTSecret []byte
}

type StorageConfig struct {
	Bucket         string
	Region         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	PublicURL      string
	ForcePathStyle bool
	MaxUploadBytes int64
	// Upper bound on concurrent uploads to the bucket
	MaxConcurrentUploads int64
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type CacheConfig struct {
	Backend       string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type TracingConfig struct {
	Enabled             bool
	ServiceName         string
	SamplingProbability float64

	// Trace exporter configuration
	TraceExporter string // "jaeger", "stackdriver", "zipkin", "datadog", "xray", "none"

	JaegerEndpoint       string
	ZipkinEndpoint       string
	StackdriverProjectID string
	DatadogAgentAddress  string
	XRayRegion           string

	// Metrics exporter configuration
	MetricsExporter string // "prometheus", "stackdriver", "datadog", "none" or comma-separated list
	PrometheusPort  int
}

type WebhookConfig struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

type RetentionConfig struct {
	// Number of revisions kept per campaign, 0 disables pruning
	KeepRevisions int
	// Cron expression of the pruning job
	Schedule string
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	// Try to load .env file but don't require it
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the given options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("CORS_ALLOW_ORIGIN", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "campaign_builder")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "10m")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	// Asset storage defaults
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_FORCE_PATH_STYLE", false)
	v.SetDefault("STORAGE_MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("STORAGE_MAX_CONCURRENT_UPLOADS", 4)

	// SMTP defaults
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_NAME", "Campaign Builder")

	// Export cache defaults
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("CACHE_REDIS_ADDR", "localhost:6379")
	v.SetDefault("CACHE_REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "15m")

	// Default tracing config
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "campaign-builder-api")
	v.SetDefault("TRACING_SAMPLING_PROBABILITY", 0.1)
	v.SetDefault("TRACING_TRACE_EXPORTER", "none")
	v.SetDefault("TRACING_JAEGER_ENDPOINT", "http://localhost:14268/api/traces")
	v.SetDefault("TRACING_ZIPKIN_ENDPOINT", "http://localhost:9411/api/v2/spans")
	v.SetDefault("TRACING_STACKDRIVER_PROJECT_ID", "")
	v.SetDefault("TRACING_DATADOG_AGENT_ADDRESS", "localhost:8126")
	v.SetDefault("TRACING_XRAY_REGION", "us-west-2")
	v.SetDefault("TRACING_METRICS_EXPORTER", "none")
	v.SetDefault("TRACING_PROMETHEUS_PORT", 9464)

	v.SetDefault("WEBHOOK_TIMEOUT", "10s")

	v.SetDefault("RETENTION_KEEP_REVISIONS", 50)
	v.SetDefault("RETENTION_SCHEDULE", "@daily")

	// Load environment file if specified
	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cacheBackend := strings.ToLower(v.GetString("CACHE_BACKEND"))
	if cacheBackend != "memory" && cacheBackend != "redis" {
		return nil, fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", cacheBackend)
	}

	config := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			Host:            v.GetString("SERVER_HOST"),
			CORSAllowOrigin: v.GetString("CORS_ALLOW_ORIGIN"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Security: SecurityConfig{
			JWTSecret: []byte(jwtSecret),
		},
		Storage: StorageConfig{
			Bucket:               v.GetString("STORAGE_BUCKET"),
			Region:               v.GetString("STORAGE_REGION"),
			Endpoint:             v.GetString("STORAGE_ENDPOINT"),
			AccessKey:            v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:            v.GetString("STORAGE_SECRET_KEY"),
			PublicURL:            v.GetString("STORAGE_PUBLIC_URL"),
			ForcePathStyle:       v.GetBool("STORAGE_FORCE_PATH_STYLE"),
			MaxUploadBytes:       v.GetInt64("STORAGE_MAX_UPLOAD_BYTES"),
			MaxConcurrentUploads: v.GetInt64("STORAGE_MAX_CONCURRENT_UPLOADS"),
		},
		SMTP: SMTPConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			Username:  v.GetString("SMTP_USERNAME"),
			Password:  v.GetString("SMTP_PASSWORD"),
			FromEmail: v.GetString("SMTP_FROM_EMAIL"),
			FromName:  v.GetString("SMTP_FROM_NAME"),
		},
		Cache: CacheConfig{
			Backend:       cacheBackend,
			RedisAddr:     v.GetString("CACHE_REDIS_ADDR"),
			RedisPassword: v.GetString("CACHE_REDIS_PASSWORD"),
			RedisDB:       v.GetInt("CACHE_REDIS_DB"),
			TTL:           v.GetDuration("CACHE_TTL"),
		},
		Tracing: TracingConfig{
			Enabled:              v.GetBool("TRACING_ENABLED"),
			ServiceName:          v.GetString("TRACING_SERVICE_NAME"),
			SamplingProbability:  v.GetFloat64("TRACING_SAMPLING_PROBABILITY"),
			TraceExporter:        v.GetString("TRACING_TRACE_EXPORTER"),
			JaegerEndpoint:       v.GetString("TRACING_JAEGER_ENDPOINT"),
			ZipkinEndpoint:       v.GetString("TRACING_ZIPKIN_ENDPOINT"),
			StackdriverProjectID: v.GetString("TRACING_STACKDRIVER_PROJECT_ID"),
			DatadogAgentAddress:  v.GetString("TRACING_DATADOG_AGENT_ADDRESS"),
			XRayRegion:           v.GetString("TRACING_XRAY_REGION"),
			MetricsExporter:      v.GetString("TRACING_METRICS_EXPORTER"),
			PrometheusPort:       v.GetInt("TRACING_PROMETHEUS_PORT"),
		},
		Webhook: WebhookConfig{
			URL:     v.GetString("WEBHOOK_URL"),
			Secret:  v.GetString("WEBHOOK_SECRET"),
			Timeout: v.GetDuration("WEBHOOK_TIMEOUT"),
		},
		Retention: RetentionConfig{
			KeepRevisions: v.GetInt("RETENTION_KEEP_REVISIONS"),
			Schedule:      v.GetString("RETENTION_SCHEDULE"),
		},
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	if config.Webhook.URL != "" && config.Webhook.Secret == "" {
		return nil, fmt.Errorf("WEBHOOK_SECRET is required when WEBHOOK_URL is set")
	}

	return config, nil
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
