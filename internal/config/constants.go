package config

import "time"

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Defaults
const (
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultLogDir         = "logs"
	DefaultServiceName    = "campusquest"
	DefaultVersion        = "dev"
	DefaultEnvironment    = "dev"
	DefaultCampusTimeZone = "Asia/Manila"
	DefaultS3Region       = "us-east-1"
	DefaultKafkaTopic     = "campusquest.events"
	DefaultDeadLetterPath = "logs/event_deadletter.jsonl"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultCacheSize       = 1024
	DefaultEvidenceURLTTL  = 15 * time.Minute
	DefaultEventMaxRetries = 5
	DefaultEventRetryDelay = 2 * time.Second
)
