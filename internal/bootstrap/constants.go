package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0o755
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileName is the rotating log file inside LOG_DIR
	LogFileName = "campusquest.log"
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting CampusQuest"
	LogMsgConfigurationLoaded = "Configuration loaded"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
)

// =============================================================================
// Record Store and Cache
// =============================================================================

const (
	RedisPoolSize    = 10
	RedisDialTimeout = 5 * time.Second
	RedisIOTimeout   = 3 * time.Second
)

const (
	LogMsgUsingMemoryStore   = "Using in-memory record store; data is lost on restart"
	LogMsgMigrationsApplied  = "Database migrations applied"
	LogMsgDatabaseConnected  = "Database connected"
	LogMsgUsingRedisCache    = "Using Redis cache"
	LogMsgUsingMemoryCache   = "Using in-process cache"
	ErrMsgFailedMigrate      = "failed to run migrations"
	ErrMsgFailedConnectDB    = "failed to connect to database"
	ErrMsgFailedConnectRedis = "failed to connect to redis"
)

// =============================================================================
// Catalog and Evidence
// =============================================================================

const (
	LogMsgCatalogLoaded     = "Catalog loaded"
	LogMsgEvidenceEnabled   = "Evidence uploads enabled"
	LogMsgEvidenceDisabled  = "Evidence uploads disabled; S3_BUCKET is not set"
	ErrMsgFailedLoadCatalog = "failed to load catalog"
	ErrMsgFailedS3Client    = "failed to create S3 presigner"
)

// =============================================================================
// Event System Configuration
// =============================================================================

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgKafkaSinkRegistered            = "Kafka event sink registered"
	LogMsgMetricsCollectorRegistered     = "Metrics collector registered"
	LogMsgStatsHandlerRegistered         = "Stats event handler registered"
	LogMsgSSESubscriberRegistered        = "SSE subscriber registered"
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	ErrMsgFailedCreateKafkaProducer      = "failed to create kafka producer"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgKafkaSinkCloseFailed       = "Kafka sink close failed"
	LogMsgCacheCloseFailed           = "Cache close failed"
)
