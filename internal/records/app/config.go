package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/records/internal/records/cache"
)

type Config struct {
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 5000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	HealthcheckInterval time.Duration // Dependency probe interval (default: 1m)

	StoreDriver  string // sqlite or dynamodb (default: sqlite)
	DatabaseFile string // SQLite database file (default: records.db)

	DynamoRegion        string // Optional: falls back to the AWS SDK default chain
	DynamoEndpoint      string // Optional: e.g. http://localhost:8000 for DynamoDB Local
	DynamoClientsTable  string
	DynamoAccountsTable string
	DynamoUniqueTable   string

	CacheDriver string        // redis, memcache, ristretto, bigcache or none (default: redis)
	CacheTTL    time.Duration // TTL shared by every cached query (default: 5m)
	CacheCodec  string        // json, msgpack or cbor (default: json)

	RedisAddr     string // (default: localhost:6379)
	RedisPassword string
	RedisDB       int
	MemcacheAddr  string // (default: localhost:11211)

	JWTSecret string // Optional: enables bearer authentication when set
	JWTIssuer string // Expected iss claim (default: records)
}

func LoadConfig() Config {
	return Config{
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 5000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HealthcheckInterval: getEnvDurationOrDefault("HEALTHCHECK_INTERVAL", time.Minute),

		StoreDriver:  getEnvOrDefault("RECORDS_STORE_DRIVER", "sqlite"),
		DatabaseFile: getEnvOrDefault("RECORDS_DATABASE_FILE", "records.db"),

		DynamoRegion:        os.Getenv("RECORDS_DYNAMODB_REGION"),
		DynamoEndpoint:      os.Getenv("RECORDS_DYNAMODB_ENDPOINT"),
		DynamoClientsTable:  os.Getenv("RECORDS_DYNAMODB_CLIENTS_TABLE"),
		DynamoAccountsTable: os.Getenv("RECORDS_DYNAMODB_ACCOUNTS_TABLE"),
		DynamoUniqueTable:   os.Getenv("RECORDS_DYNAMODB_UNIQUE_TABLE"),

		CacheDriver: getEnvOrDefault("RECORDS_CACHE_DRIVER", "redis"),
		CacheTTL:    getEnvSecondsOrDefault("RECORDS_CACHE_TTL", cache.DefaultTTL),
		CacheCodec:  getEnvOrDefault("RECORDS_CACHE_CODEC", "json"),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),
		MemcacheAddr:  getEnvOrDefault("MEMCACHE_ADDR", "localhost:11211"),

		JWTSecret: os.Getenv("RECORDS_JWT_SECRET"),
		JWTIssuer: getEnvOrDefault("RECORDS_JWT_ISSUER", "records"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvSecondsOrDefault reads a duration where a bare integer means seconds,
// matching how cache TTLs are usually written.
func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
