package config

import (
	"fmt"
	"os"
	"regexp"
	"seatrota/pkg/client"
	"seatrota/pkg/logger"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	StorageDriver string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	PostgresDSN         string
	PostgresMaxConns    int
	PostgresConnTimeout time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Timezone             string
	Location             *time.Location
	SpareBookingOpenHour int

	AllocationMaxAttempts int
	AllocationRetryDelay  time.Duration

	AutoBookingEnabled  bool
	AutoBookingSchedule string
	AutoBookingLimit    int
	AutoBookingWorkers  int

	RateLimitRequests int
	RateLimitWindow   time.Duration
	IdempotencyTTL    time.Duration

	KafkaEnabled      bool
	KafkaBookingTopic string
	KafkaDLQTopic     string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		StorageDriver: strings.ToLower(getEnvStr(EnvStorageDriver, DefaultStorageDriver)),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		PostgresDSN:         getEnvStr(EnvPostgresDSN, DefaultPostgresDSN),
		PostgresMaxConns:    getEnvNum(EnvPostgresMaxConns, DefaultPostgresMaxConns),
		PostgresConnTimeout: getEnvDuration(EnvPostgresConnTimeout, DefaultPostgresConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Timezone:             getEnvStr(EnvTimezone, DefaultTimezone),
		SpareBookingOpenHour: getEnvNum(EnvSpareBookingOpenHour, DefaultSpareBookingOpenHour),

		AllocationMaxAttempts: getEnvNum(EnvAllocationMaxAttempts, DefaultAllocationMaxAttempts),
		AllocationRetryDelay:  getEnvDuration(EnvAllocationRetryDelay, DefaultAllocationRetryDelay),

		AutoBookingEnabled:  getEnvBool(EnvAutoBookingEnabled, DefaultAutoBookingEnabled),
		AutoBookingSchedule: getEnvStr(EnvAutoBookingSchedule, DefaultAutoBookingSchedule),
		AutoBookingLimit:    getEnvNum(EnvAutoBookingLimit, DefaultAutoBookingLimit),
		AutoBookingWorkers:  getEnvNum(EnvAutoBookingWorkers, DefaultAutoBookingWorkers),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),
		IdempotencyTTL:    getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),

		KafkaEnabled:      getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		KafkaBookingTopic: getEnvStr(EnvKafkaBookingTopic, DefaultKafkaBookingTopic),
		KafkaDLQTopic:     getEnvStr(EnvKafkaDLQTopic, DefaultKafkaDLQTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// Connect opens the connection required by the configured storage driver.
func (cfg *Config) Connect() {
	switch cfg.StorageDriver {
	case StorageMongo:
		cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	case StoragePostgres:
		cfg.Client.SetPostgres(cfg.Log, cfg.PostgresDSN, int32(cfg.PostgresMaxConns), cfg.PostgresConnTimeout)
	}
}

// Validate checks every field and resolves Location. All problems are
// reported together.
func (cfg *Config) Validate() error {
	var errors []string

	switch cfg.StorageDriver {
	case StorageMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case StoragePostgres:
		if !regexp.MustCompile(`^postgres(ql)?://`).MatchString(cfg.PostgresDSN) {
			errors = append(errors, fmt.Sprintf("PostgresDSN must start with 'postgres://' or 'postgresql://', got: %s", redactURI(cfg.PostgresDSN)))
		}
		if cfg.PostgresMaxConns <= 0 {
			errors = append(errors, fmt.Sprintf("PostgresMaxConns must be positive, got: %d", cfg.PostgresMaxConns))
		}
		if cfg.PostgresConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("PostgresConnTimeout must be positive, got: %s", cfg.PostgresConnTimeout))
		}
	case StorageMemory:
	default:
		errors = append(errors, fmt.Sprintf("StorageDriver must be one of [mongo, postgres, memory], got: %s", cfg.StorageDriver))
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	for name, d := range map[string]time.Duration{
		"RequestTimeout":  cfg.RequestTimeout,
		"ReadTimeout":     cfg.ReadTimeout,
		"WriteTimeout":    cfg.WriteTimeout,
		"IdleTimeout":     cfg.IdleTimeout,
		"ShutdownTimeout": cfg.ShutdownTimeout,
	} {
		if d <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		errors = append(errors, fmt.Sprintf("Timezone must be a valid IANA name, got: %s", cfg.Timezone))
	} else {
		cfg.Location = loc
	}
	if cfg.SpareBookingOpenHour < 0 || cfg.SpareBookingOpenHour > 23 {
		errors = append(errors, fmt.Sprintf("SpareBookingOpenHour must be between 0 and 23, got: %d", cfg.SpareBookingOpenHour))
	}

	if cfg.AllocationMaxAttempts <= 0 {
		errors = append(errors, fmt.Sprintf("AllocationMaxAttempts must be positive, got: %d", cfg.AllocationMaxAttempts))
	}
	if cfg.AllocationRetryDelay < 0 {
		errors = append(errors, fmt.Sprintf("AllocationRetryDelay cannot be negative, got: %s", cfg.AllocationRetryDelay))
	}

	if cfg.AutoBookingEnabled && cfg.AutoBookingSchedule == "" {
		errors = append(errors, "AutoBookingSchedule cannot be empty when auto-booking is enabled")
	}
	if cfg.AutoBookingLimit <= 0 || cfg.AutoBookingLimit > 40 {
		errors = append(errors, fmt.Sprintf("AutoBookingLimit must be between 1 and 40, got: %d", cfg.AutoBookingLimit))
	}
	if cfg.AutoBookingWorkers <= 0 {
		errors = append(errors, fmt.Sprintf("AutoBookingWorkers must be positive, got: %d", cfg.AutoBookingWorkers))
	}

	if cfg.RateLimitRequests < 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests cannot be negative, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive when rate limiting is enabled, got: %s", cfg.RateLimitWindow))
	}
	if cfg.IdempotencyTTL < 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL cannot be negative, got: %s", cfg.IdempotencyTTL))
	}

	if cfg.KafkaEnabled && cfg.KafkaBookingTopic == "" {
		errors = append(errors, "KafkaBookingTopic cannot be empty when Kafka is enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"storage_driver", cfg.StorageDriver,
		"mongo_uri", redactURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"postgres_dsn", redactURI(cfg.PostgresDSN),
		"postgres_max_conns", cfg.PostgresMaxConns,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"timezone", cfg.Timezone,
		"spare_booking_open_hour", cfg.SpareBookingOpenHour,
		"allocation_max_attempts", cfg.AllocationMaxAttempts,
		"allocation_retry_delay", cfg.AllocationRetryDelay,
		"auto_booking_enabled", cfg.AutoBookingEnabled,
		"auto_booking_schedule", cfg.AutoBookingSchedule,
		"auto_booking_limit", cfg.AutoBookingLimit,
		"auto_booking_workers", cfg.AutoBookingWorkers,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"kafka_enabled", cfg.KafkaEnabled,
		"kafka_booking_topic", cfg.KafkaBookingTopic,
	)
}

func redactURI(uri string) string {
	credentialRegex := regexp.MustCompile(`^([a-z+]+://)[^:@/]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
