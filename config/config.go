package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server Configuration
	ServerPort         string
	GinMode            string
	CORSOrigins        []string
	RateLimitPerMinute int

	// Database Configuration
	DatabasePath  string
	SeedSpotsPath string

	// Place data sources
	OverpassURL      string
	OverpassTimeout  time.Duration
	GoogleMapsAPIKey string

	// LLM Configuration (optional, used for natural-language spot search)
	LLMProvider string // "openai" or "groq"
	OpenAIKey   string
	GroqKey     string
	LLMBaseURL  string
	QueryModel  string

	// Discovery
	DefaultRadius    float64 // meters
	MaxNearbyResults int
	NearbyCacheTTL   time.Duration

	// Check-in
	CheckInRadius  float64 // meters
	HuntPoints     int
	PointsPerLevel int

	// Notifications
	NotifyInterval       time.Duration
	NotifyRadius         float64 // meters
	NotifyMaxSpots       int
	NotifyDedupWindow    time.Duration
	TrackingTTL          time.Duration
	TrendingMinRating    float64
	TrendingMinHunts     int
	TrendingNearDistance float64 // meters
}

var AppConfig *Config

// Default returns the built-in configuration without reading the environment.
func Default() *Config {
	return &Config{
		ServerPort:           "8080",
		GinMode:              "debug",
		CORSOrigins:          []string{"http://localhost:3000", "http://localhost:5173"},
		RateLimitPerMinute:   60,
		DatabasePath:         "spothunt.db",
		SeedSpotsPath:        "data/spots.json",
		OverpassURL:          "https://overpass-api.de/api/interpreter",
		OverpassTimeout:      25 * time.Second,
		LLMProvider:          "groq",
		LLMBaseURL:           "https://api.groq.com/openai/v1",
		QueryModel:           "llama-3.1-8b-instant",
		DefaultRadius:        1000,
		MaxNearbyResults:     25,
		NearbyCacheTTL:       2 * time.Minute,
		CheckInRadius:        100,
		HuntPoints:           50,
		PointsPerLevel:       250,
		NotifyInterval:       2 * time.Minute,
		NotifyRadius:         800,
		NotifyMaxSpots:       3,
		NotifyDedupWindow:    24 * time.Hour,
		TrackingTTL:          time.Hour,
		TrendingMinRating:    4.0,
		TrendingMinHunts:     3,
		TrendingNearDistance: 600,
	}
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not read .env file: %v", err)
	}

	d := Default()
	AppConfig = &Config{
		ServerPort:           getEnv("PORT", d.ServerPort),
		GinMode:              getEnv("GIN_MODE", d.GinMode),
		CORSOrigins:          getEnvList("CORS_ORIGINS", d.CORSOrigins),
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", d.RateLimitPerMinute),
		DatabasePath:         getEnv("DB_PATH", d.DatabasePath),
		SeedSpotsPath:        getEnv("SEED_SPOTS_PATH", d.SeedSpotsPath),
		OverpassURL:          getEnv("OVERPASS_URL", d.OverpassURL),
		OverpassTimeout:      getEnvDuration("OVERPASS_TIMEOUT", d.OverpassTimeout),
		GoogleMapsAPIKey:     os.Getenv("GOOGLE_MAPS_API_KEY"),
		LLMProvider:          getEnv("LLM_PROVIDER", d.LLMProvider),
		OpenAIKey:            os.Getenv("OPENAI_API_KEY"),
		GroqKey:              os.Getenv("GROQ_API_KEY"),
		LLMBaseURL:           getEnv("GROQ_BASE_URL", d.LLMBaseURL),
		QueryModel:           getEnv("QUERY_MODEL", d.QueryModel),
		DefaultRadius:        getEnvFloat("DEFAULT_RADIUS", d.DefaultRadius),
		MaxNearbyResults:     getEnvInt("MAX_NEARBY_RESULTS", d.MaxNearbyResults),
		NearbyCacheTTL:       getEnvDuration("NEARBY_CACHE_TTL", d.NearbyCacheTTL),
		CheckInRadius:        getEnvFloat("CHECKIN_RADIUS", d.CheckInRadius),
		HuntPoints:           getEnvInt("HUNT_POINTS", d.HuntPoints),
		PointsPerLevel:       getEnvInt("POINTS_PER_LEVEL", d.PointsPerLevel),
		NotifyInterval:       getEnvDuration("NOTIFY_INTERVAL", d.NotifyInterval),
		NotifyRadius:         getEnvFloat("NOTIFY_RADIUS", d.NotifyRadius),
		NotifyMaxSpots:       getEnvInt("NOTIFY_MAX_SPOTS", d.NotifyMaxSpots),
		NotifyDedupWindow:    getEnvDuration("NOTIFY_DEDUP_WINDOW", d.NotifyDedupWindow),
		TrackingTTL:          getEnvDuration("TRACKING_TTL", d.TrackingTTL),
		TrendingMinRating:    getEnvFloat("TRENDING_MIN_RATING", d.TrendingMinRating),
		TrendingMinHunts:     getEnvInt("TRENDING_MIN_HUNTS", d.TrendingMinHunts),
		TrendingNearDistance: getEnvFloat("TRENDING_NEAR_DISTANCE", d.TrendingNearDistance),
	}

	// The LLM is optional here, unlike the check-in rules
	if AppConfig.LLMAPIKey() == "" {
		log.Printf("No API key for LLM provider %q, spot search will use keyword rules", AppConfig.LLMProvider)
	}
	if AppConfig.PointsPerLevel <= 0 {
		log.Fatal("POINTS_PER_LEVEL must be positive")
	}
	if AppConfig.MaxNearbyResults <= 0 {
		log.Fatal("MAX_NEARBY_RESULTS must be positive")
	}

	return AppConfig
}

// LLMAPIKey returns the key for the configured provider.
func (c *Config) LLMAPIKey() string {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIKey
	case "groq":
		return c.GroqKey
	default:
		return ""
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
