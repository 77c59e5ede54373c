package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvReferenceCodeKey = "REFERENCE_CODE_KEY"
	EnvStaffAPIKey      = "STAFF_API_KEY"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDefaultBookableFrom = "DEFAULT_BOOKABLE_FROM"
	EnvDefaultBookableTo   = "DEFAULT_BOOKABLE_TO"
	EnvDefaultMode         = "DEFAULT_RESERVATION_MODE"

	EnvAuditTopic        = "AUDIT_TOPIC"
	EnvNotificationTopic = "NOTIFICATION_TOPIC"
	EnvNotificationDLQ   = "NOTIFICATION_DLQ_TOPIC"
	EnvSideEffectTimeout = "SIDE_EFFECT_TIMEOUT"
)
