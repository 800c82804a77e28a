package config

const (
	EnvStorageDriver = "STORAGE_DRIVER"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPostgresDSN         = "POSTGRES_DSN"
	EnvPostgresMaxConns    = "POSTGRES_MAX_CONNS"
	EnvPostgresConnTimeout = "POSTGRES_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvTimezone             = "APP_TIMEZONE"
	EnvSpareBookingOpenHour = "SPARE_BOOKING_OPEN_HOUR"

	EnvAllocationMaxAttempts = "ALLOCATION_MAX_ATTEMPTS"
	EnvAllocationRetryDelay  = "ALLOCATION_RETRY_DELAY"

	EnvAutoBookingEnabled  = "AUTO_BOOKING_ENABLED"
	EnvAutoBookingSchedule = "AUTO_BOOKING_SCHEDULE"
	EnvAutoBookingLimit    = "AUTO_BOOKING_LIMIT"
	EnvAutoBookingWorkers  = "AUTO_BOOKING_WORKERS"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"
	EnvIdempotencyTTL    = "IDEMPOTENCY_TTL"

	EnvKafkaEnabled      = "KAFKA_ENABLED"
	EnvKafkaBookingTopic = "KAFKA_BOOKING_TOPIC"
	EnvKafkaDLQTopic     = "KAFKA_BOOKING_DLQ_TOPIC"
)
