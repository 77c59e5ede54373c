package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "seatwise"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Venue defaults used when a unit has no stored reservation settings.
	DefaultDefaultBookableFrom = "11:00"
	DefaultDefaultBookableTo   = "23:00"
	DefaultDefaultMode         = "request"

	DefaultAuditTopic        = "reservation-audit"
	DefaultNotificationTopic = "reservation-notifications"
	DefaultNotificationDLQ   = "reservation-notifications-dlq"
	DefaultSideEffectTimeout = 5 * time.Second

	DefaultPaginationLimit = 100
)
