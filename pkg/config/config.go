package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Port      string
	JWTSecret string
	LogLevel  string

	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPSender   string
	SMTPTimeout  time.Duration

	FirebaseCredentials string

	ScanInterval      time.Duration
	ScanConcurrency   int
	RetentionSchedule string
	RetentionWindow   time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		StoreDriver:   getEnv("STORE_DRIVER", StoreDriverPostgres),
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=bookmarks port=5432 sslmode=disable"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "bookmarks"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPSender:   getEnv("SMTP_SENDER", ""),
		SMTPTimeout:  getDuration("SMTP_TIMEOUT", 30*time.Second),

		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),

		ScanInterval:      getDuration("SCAN_INTERVAL", time.Minute),
		ScanConcurrency:   getInt("SCAN_CONCURRENCY", 4),
		RetentionSchedule: getEnv("RETENTION_SCHEDULE", "@weekly"),
		RetentionWindow:   getDuration("RETENTION_WINDOW", 30*24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
