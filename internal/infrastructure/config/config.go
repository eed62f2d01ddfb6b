// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Route cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendMongo  = "mongo"
)

// Search providers
const (
	SearchProviderNone    = "none"
	SearchProviderGoogle  = "google"
	SearchProviderGateway = "gateway"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion       string
	LogLevel         string
	MetricsNamespace string

	// Server
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	GinMode       string
	FrontendURLs  []string
	ShutdownGrace time.Duration

	// PostgreSQL (orders, itinerary entries, directories)
	PostgresDSN string
	AutoMigrate bool

	// MongoDB (repair log, optional route cache)
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Route cache
	RouteCacheBackend string
	RouteCacheTTL     time.Duration
	RedisAddr         string
	RedisPassword     string
	RedisDB           int

	// Route search
	SearchProvider      string
	SearchMaxResults    int
	SearchTimeout       time.Duration
	GoogleSearchAPIKey  string
	GoogleSearchEngine  string
	GatewayURL          string
	GatewayAPIKey       string
	GatewayClientID     string
	GatewayClientSecret string
	GatewayTokenURL     string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:       getEnv("APP_VERSION", "1.0.0"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "itinerary"),

		Port:          getEnv("PORT", "8080"),
		ReadTimeout:   getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:  getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
		GinMode:       getEnv("GIN_MODE", "debug"),
		FrontendURLs:  getEnvAsList("FRONTEND_URL"),
		ShutdownGrace: getEnvAsDuration("SHUTDOWN_GRACE", 10*time.Second),

		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=medtour port=5432 sslmode=disable"),
		AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "medtour"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		RouteCacheBackend: strings.ToLower(getEnv("ROUTE_CACHE_BACKEND", CacheBackendMemory)),
		RouteCacheTTL:     time.Duration(getEnvAsInt("ROUTE_CACHE_TTL_HOURS", 24)) * time.Hour,
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),

		SearchProvider:      strings.ToLower(getEnv("SEARCH_PROVIDER", SearchProviderNone)),
		SearchMaxResults:    getEnvAsInt("SEARCH_MAX_RESULTS", 5),
		SearchTimeout:       getEnvAsDuration("SEARCH_TIMEOUT", 20*time.Second),
		GoogleSearchAPIKey:  getEnv("GOOGLE_SEARCH_API_KEY", ""),
		GoogleSearchEngine:  getEnv("GOOGLE_SEARCH_ENGINE_ID", ""),
		GatewayURL:          getEnv("SEARCH_GATEWAY_URL", ""),
		GatewayAPIKey:       getEnv("SEARCH_GATEWAY_API_KEY", ""),
		GatewayClientID:     getEnv("SEARCH_GATEWAY_CLIENT_ID", ""),
		GatewayClientSecret: getEnv("SEARCH_GATEWAY_CLIENT_SECRET", ""),
		GatewayTokenURL:     getEnv("SEARCH_GATEWAY_TOKEN_URL", ""),
	}

	return config, nil
}

// SearchEnabled reports whether the configured provider has the settings it needs
func (c *Config) SearchEnabled() bool {
	switch c.SearchProvider {
	case SearchProviderGoogle:
		return c.GoogleSearchAPIKey != "" && c.GoogleSearchEngine != ""
	case SearchProviderGateway:
		return c.GatewayURL != ""
	default:
		return false
	}
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("45s") and bare seconds ("45")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
