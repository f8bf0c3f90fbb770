package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port              string
	Environment       string
	Storage           string
	MongoURI          string
	DBName            string
	JWTSecret         string
	StaffPasswordHash string
	AccessTokenTTL    time.Duration
	CORSOrigin        string
	Location          *time.Location
	RequestTimeout    time.Duration
	LogLevel          string
}

// IsDevelopment reports whether seeding and gin debug mode are enabled.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// InMemory reports whether the process keeps its data in memory instead of
// MongoDB.
func (c Config) InMemory() bool {
	return c.Storage == "memory"
}

// AuthEnabled reports whether mutating routes require a staff token.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	tz := getEnvOrDefault("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Fatalf("invalid TIMEZONE %q: %v", tz, err)
	}

	AppEnv = Config{
		Port:              getEnvOrDefault("PORT", "5001"),
		Environment:       strings.ToLower(getEnvOrDefault("APP_ENV", "development")),
		Storage:           strings.ToLower(getEnvOrDefault("STORAGE", "mongo")),
		MongoURI:          getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:            getEnvOrDefault("DB_NAME", "restaurant"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", ""),
		StaffPasswordHash: getEnvOrDefault("STAFF_PASSWORD_HASH", ""),
		AccessTokenTTL:    getDurationEnv("ACCESS_TOKEN_TTL", 720, time.Minute),
		CORSOrigin:        getEnvOrDefault("CORS_ORIGIN", "http://localhost:5000"),
		Location:          loc,
		RequestTimeout:    getDurationEnv("REQUEST_TIMEOUT", 5, time.Second),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
