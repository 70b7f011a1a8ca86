package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend names accepted for the pluggable adapters
const (
	BlobBackendS3    = "s3"
	BlobBackendMinIO = "minio"

	QueueBackendSQS   = "sqs"
	QueueBackendAsynq = "asynq"

	NotifyBackendSNS         = "sns"
	NotifyBackendEventBridge = "eventbridge"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`
	ServiceName   string `yaml:"service_name"`

	// AWS configuration
	AWSRegion   string `yaml:"aws_region"`
	AWSEndpoint string `yaml:"aws_endpoint"`

	// Catalog store
	ProductsTable string `yaml:"products_table"`
	StockTable    string `yaml:"stock_table"`

	// Import pipeline
	ImportBucket    string        `yaml:"import_bucket"`
	IncomingPrefix  string        `yaml:"incoming_prefix"`
	ProcessedPrefix string        `yaml:"processed_prefix"`
	BatchSize       int           `yaml:"batch_size"`
	BatchTimeout    time.Duration `yaml:"batch_timeout"`
	PresignTTL      time.Duration `yaml:"presign_ttl"`

	// Adapter selection
	BlobBackend   string `yaml:"blob_backend"`
	QueueBackend  string `yaml:"queue_backend"`
	NotifyBackend string `yaml:"notify_backend"`

	// SQS / SNS / EventBridge
	QueueURL     string `yaml:"queue_url"`
	TopicARN     string `yaml:"topic_arn"`
	EventBusName string `yaml:"event_bus_name"`

	// Redis-backed queue
	RedisURL         string `yaml:"redis_url"`
	AsynqQueue       string `yaml:"asynq_queue"`
	AsynqConcurrency int    `yaml:"asynq_concurrency"`
	AsynqMaxRetry    int    `yaml:"asynq_max_retry"`

	// MinIO
	MinIOEndpoint  string `yaml:"minio_endpoint"`
	MinIOAccessKey string `yaml:"minio_access_key"`
	MinIOSecretKey string `yaml:"minio_secret_key"`
	MinIOUseSSL    bool   `yaml:"minio_use_ssl"`

	// Authentication. Credentials is a comma separated list of user=password pairs.
	Credentials     string `yaml:"credentials"`
	RequireAuthHTTP bool   `yaml:"require_auth_http"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Feature flags
	EnableMetrics bool   `yaml:"enable_metrics"`
	EnableTracing bool   `yaml:"enable_tracing"`
	EnableCORS    bool   `yaml:"enable_cors"`
	MetricsPrefix string `yaml:"metrics_namespace"`
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		ServerAddress: ":8080",
		Environment:   "development",
		ServiceName:   "shop-backend",
		AWSRegion:     "eu-west-1",

		ProductsTable: "products",
		StockTable:    "stock",

		ImportBucket:    "shop-import",
		IncomingPrefix:  "uploaded/",
		ProcessedPrefix: "parsed/",
		BatchSize:       5,
		BatchTimeout:    5 * time.Second,
		PresignTTL:      60 * time.Second,

		BlobBackend:   BlobBackendS3,
		QueueBackend:  QueueBackendSQS,
		NotifyBackend: NotifyBackendSNS,

		EventBusName: "default",

		AsynqQueue:       "catalog",
		AsynqConcurrency: 10,
		AsynqMaxRetry:    3,

		LogLevel:      "info",
		EnableCORS:    true,
		MetricsPrefix: "ShopBackend/Catalog",
	}
}

// LoadConfig builds the configuration from defaults, then CONFIG_FILE (YAML),
// then a .env file, then the process environment. Later sources win.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	// godotenv never overrides variables that are already set
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.ServiceName = getEnv("SERVICE_NAME", c.ServiceName)
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.AWSEndpoint = getEnv("AWS_ENDPOINT_URL", c.AWSEndpoint)

	c.ProductsTable = getEnv("PRODUCTS_TABLE", c.ProductsTable)
	c.StockTable = getEnv("STOCK_TABLE", c.StockTable)

	c.ImportBucket = getEnv("IMPORT_BUCKET", c.ImportBucket)
	c.IncomingPrefix = getEnv("INCOMING_PREFIX", c.IncomingPrefix)
	c.ProcessedPrefix = getEnv("PROCESSED_PREFIX", c.ProcessedPrefix)
	c.BatchSize = getEnvInt("BATCH_SIZE", c.BatchSize)
	c.BatchTimeout = getEnvDuration("BATCH_TIMEOUT", c.BatchTimeout)
	c.PresignTTL = getEnvDuration("PRESIGN_TTL", c.PresignTTL)

	c.BlobBackend = strings.ToLower(getEnv("BLOB_BACKEND", c.BlobBackend))
	c.QueueBackend = strings.ToLower(getEnv("QUEUE_BACKEND", c.QueueBackend))
	c.NotifyBackend = strings.ToLower(getEnv("NOTIFY_BACKEND", c.NotifyBackend))

	c.QueueURL = getEnv("SQS_URL", c.QueueURL)
	c.TopicARN = getEnv("SNS_ARN", c.TopicARN)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.AsynqQueue = getEnv("ASYNQ_QUEUE", c.AsynqQueue)
	c.AsynqConcurrency = getEnvInt("ASYNQ_CONCURRENCY", c.AsynqConcurrency)
	c.AsynqMaxRetry = getEnvInt("ASYNQ_MAX_RETRY", c.AsynqMaxRetry)

	c.MinIOEndpoint = getEnv("MINIO_ENDPOINT", c.MinIOEndpoint)
	c.MinIOAccessKey = getEnv("MINIO_ACCESS_KEY", c.MinIOAccessKey)
	c.MinIOSecretKey = getEnv("MINIO_SECRET_KEY", c.MinIOSecretKey)
	c.MinIOUseSSL = getEnvBool("MINIO_USE_SSL", c.MinIOUseSSL)

	c.Credentials = getEnv("CREDENTIALS", c.Credentials)
	c.RequireAuthHTTP = getEnvBool("REQUIRE_AUTH_HTTP", c.RequireAuthHTTP)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	c.MetricsPrefix = getEnv("METRICS_NAMESPACE", c.MetricsPrefix)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.BatchSize < 1 || c.BatchSize > 10 {
		return fmt.Errorf("BATCH_SIZE must be between 1 and 10, got %d", c.BatchSize)
	}
	if c.BatchTimeout <= 0 {
		return fmt.Errorf("BATCH_TIMEOUT must be positive")
	}
	if c.PresignTTL <= 0 {
		return fmt.Errorf("PRESIGN_TTL must be positive")
	}
	if c.IncomingPrefix == "" || c.IncomingPrefix == c.ProcessedPrefix {
		return fmt.Errorf("INCOMING_PREFIX must be set and differ from PROCESSED_PREFIX")
	}

	switch c.BlobBackend {
	case BlobBackendS3:
	case BlobBackendMinIO:
		if c.MinIOEndpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required for the minio blob backend")
		}
	default:
		return fmt.Errorf("unknown BLOB_BACKEND %q", c.BlobBackend)
	}

	switch c.QueueBackend {
	case QueueBackendSQS:
	case QueueBackendAsynq:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the asynq queue backend")
		}
	default:
		return fmt.Errorf("unknown QUEUE_BACKEND %q", c.QueueBackend)
	}

	switch c.NotifyBackend {
	case NotifyBackendSNS, NotifyBackendEventBridge:
	default:
		return fmt.Errorf("unknown NOTIFY_BACKEND %q", c.NotifyBackend)
	}

	if c.IsProduction() {
		if c.ProductsTable == "" || c.StockTable == "" {
			return fmt.Errorf("PRODUCTS_TABLE and STOCK_TABLE are required")
		}
		if c.QueueBackend == QueueBackendSQS && c.QueueURL == "" {
			return fmt.Errorf("SQS_URL is required in production")
		}
		if c.NotifyBackend == NotifyBackendSNS && c.TopicARN == "" {
			return fmt.Errorf("SNS_ARN is required in production")
		}
		if c.Credentials == "" {
			return fmt.Errorf("CREDENTIALS is required in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("5s") or plain seconds ("5")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
