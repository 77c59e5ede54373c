package kafkaconfig

import "time"

const (
	// DefaultKafkaBrokers is empty on purpose: with no brokers configured the
	// side-effect emitter runs disabled instead of failing startup.
	DefaultKafkaBrokers = ""

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // all replicas
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false
)
