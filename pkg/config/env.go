package config

const (
	EnvMongoURI          = "MONGODB_URI"
	EnvMongoDatabaseName = "DB_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvImagesDir          = "IMAGES_DIR"
	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRollbackMaxAttempts = "ROLLBACK_MAX_ATTEMPTS"
	EnvRollbackRetryDelay  = "ROLLBACK_RETRY_DELAY"
	EnvSearchMaxResults    = "SEARCH_MAX_RESULTS"

	EnvRedisAddr        = "REDIS_ADDR"
	EnvKafkaBrokers     = "KAFKA_BROKERS"
	EnvKafkaOrdersTopic = "KAFKA_ORDERS_TOPIC"
	EnvOTLPEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
)
