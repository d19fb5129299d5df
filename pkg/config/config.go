package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret         string
	JWTAccessExpires  time.Duration
	JWTRefreshExpires time.Duration

	// RabbitMQ
	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string

	// AWS S3 (avatars)
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3UseSSL           string
	S3BucketName       string

	// TMDB
	TMDBAPIKey       string
	TMDBAPIBaseURL   string
	TMDBImageBaseURL string

	// Zarinpal
	ZarinpalMerchantID  string
	ZarinpalSandbox     bool
	ZarinpalAPIBaseURL  string
	ZarinpalStartPayURL string
	// Base URL the gateway redirects back to (this backend's public address)
	ZarinpalCallbackBaseURL string

	// Frontend (payment result redirects)
	FrontendURL string
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	sandbox := getEnv("ZARINPAL_SANDBOX", "true") == "true"

	apiBaseURL := "https://api.zarinpal.com/pg/v4/payment"
	startPayURL := "https://www.zarinpal.com/pg/StartPay"
	if sandbox {
		apiBaseURL = "https://sandbox.zarinpal.com/pg/v4/payment"
		startPayURL = "https://sandbox.zarinpal.com/pg/StartPay"
	}

	config := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "movie"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpires:  getEnvDuration("JWT_ACCESS_EXPIRES", 15*time.Minute),
		JWTRefreshExpires: getEnvDuration("JWT_REFRESH_EXPIRES", 7*24*time.Hour),

		RabbitMQHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword: getEnv("RABBITMQ_PASSWORD", "guest"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		S3UseSSL:           getEnv("S3_USE_SSL", "true"),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "movie-avatars"),

		TMDBAPIKey:       getEnv("TMDB_API_KEY", ""),
		TMDBAPIBaseURL:   getEnv("TMDB_API_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),

		ZarinpalMerchantID:      getEnv("ZARINPAL_MERCHANT_ID", ""),
		ZarinpalSandbox:         sandbox,
		ZarinpalAPIBaseURL:      getEnv("ZARINPAL_API_BASE_URL", apiBaseURL),
		ZarinpalStartPayURL:     getEnv("ZARINPAL_STARTPAY_URL", startPayURL),
		ZarinpalCallbackBaseURL: getEnv("ZARINPAL_CALLBACK_BASE_URL", "http://localhost:8080"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
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
