package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port           int
	APIKey         string   // API key for authentication
	TrustedProxies []string // Remote addresses allowed to set X-Forwarded-For

	// Logging
	LogLevel    string
	LogFormat   string
	LogDir      string
	ServiceName string
	Version     string
	Environment string

	// Record store
	StoreDriver       string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Leaderboard cache; an empty address selects the in-process cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheSize     int

	// Evidence uploads; an empty bucket disables them
	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	EvidenceURLTTL time.Duration

	// Event export; no brokers disables the Kafka sink
	KafkaBrokers    []string
	KafkaTopic      string
	EventMaxRetries int
	EventRetryDelay time.Duration
	DeadLetterPath  string

	CatalogPath    string
	CampusTimeZone string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:      getEnv("API_KEY", ""),
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),

		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "campusquest"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheSize:     getEnvAsInt("CACHE_SIZE", DefaultCacheSize),

		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3Region:       getEnv("S3_REGION", DefaultS3Region),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		EvidenceURLTTL: getEnvAsDuration("EVIDENCE_URL_TTL", DefaultEvidenceURLTTL),

		TrustedProxies:  getEnvAsList("TRUSTED_PROXIES"),
		KafkaBrokers:    getEnvAsList("KAFKA_BROKERS"),
		KafkaTopic:      getEnv("KAFKA_TOPIC", DefaultKafkaTopic),
		EventMaxRetries: getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay: getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
		DeadLetterPath:  getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),

		CatalogPath:    getEnv("CATALOG_PATH", ""),
		CampusTimeZone: getEnv("CAMPUS_TIME_ZONE", DefaultCampusTimeZone),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: expected %s or %s", cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	if _, err := cfg.CampusLocation(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// CampusLocation resolves CampusTimeZone, which decides the early-bird hour
func (c *Config) CampusLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.CampusTimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid CAMPUS_TIME_ZONE %q: %w", c.CampusTimeZone, err)
	}
	return loc, nil
}

// UsesMemoryStore reports whether records live in-process instead of PostgreSQL
func (c *Config) UsesMemoryStore() bool {
	return c.StoreDriver == StoreDriverMemory
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt falls back to the default when the variable is unset or not an integer
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration falls back to the default when the variable is unset or unparsable
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
