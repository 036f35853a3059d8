package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Registry RegistryConfig
	Geocoder GeocoderConfig
	OpenAI   OpenAIConfig
	Search   SearchConfig
	Scoring  ScoringConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RegistryConfig holds facility-availability registry configuration
type RegistryConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// GeocoderConfig holds coordinate resolver configuration
type GeocoderConfig struct {
	Provider          string
	BaseURL           string
	APIKey            string
	Domain            string
	TimeoutSeconds    int
	MinCallIntervalMs int
}

// OpenAIConfig holds capability classifier LLM configuration
type OpenAIConfig struct {
	APIKey         string
	Model          string
	TimeoutSeconds int
	RateLimitRPM   int
	RateLimitBurst int
}

// SearchConfig holds progressive search tuning
type SearchConfig struct {
	InitialRadiusKm  int
	ExtendedRadiusKm int
	MinResults       int
}

// ScoringConfig holds the deployment-tunable scoring weights
type ScoringConfig struct {
	DistanceWeight float64
	BedWeight      float64
	DisplayLimit   int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Registry: RegistryConfig{
			BaseURL:        getEnv("REGISTRY_BASE_URL", "https://mediboard.nemc.or.kr"),
			TimeoutSeconds: getEnvAsInt("REGISTRY_TIMEOUT_SECONDS", 15),
		},
		Geocoder: GeocoderConfig{
			Provider:          getEnv("GEOCODER_PROVIDER", "mock"),
			BaseURL:           getEnv("GEOCODER_BASE_URL", "https://api.vworld.kr/req/address"),
			APIKey:            getEnv("GEOCODER_API_KEY", ""),
			Domain:            getEnv("GEOCODER_DOMAIN", ""),
			TimeoutSeconds:    getEnvAsInt("GEOCODER_TIMEOUT_SECONDS", 15),
			MinCallIntervalMs: getEnvAsInt("GEOCODER_MIN_CALL_INTERVAL_MS", 100),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			TimeoutSeconds: getEnvAsInt("OPENAI_TIMEOUT_SECONDS", 60),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
		},
		Search: SearchConfig{
			InitialRadiusKm:  getEnvAsInt("SEARCH_INITIAL_RADIUS_KM", 10),
			ExtendedRadiusKm: getEnvAsInt("SEARCH_EXTENDED_RADIUS_KM", 20),
			MinResults:       getEnvAsInt("SEARCH_MIN_RESULTS", 10),
		},
		Scoring: ScoringConfig{
			DistanceWeight: getEnvAsFloat("SCORING_DISTANCE_WEIGHT", 1.0),
			BedWeight:      getEnvAsFloat("SCORING_BED_WEIGHT", 0.5),
			DisplayLimit:   getEnvAsInt("SCORING_DISPLAY_LIMIT", 20),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "emergency-facility-finder"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
