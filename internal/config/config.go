package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	MongoURI      string
	MongoDBName   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	SessionTTL    time.Duration
	DeliveryFee   float64
	TokenInfoURL  string
	SMSGatewayURL string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, with a .env file as a
// development convenience. Missing values fall back to defaults usable
// against a local MongoDB and Redis.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "emartdb"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		SessionTTL:      getEnvDuration("SESSION_TTL", 24*time.Hour),
		DeliveryFee:     getEnvFloat("DELIVERY_FEE", 150),
		TokenInfoURL:    getEnv("TOKENINFO_URL", "https://oauth2.googleapis.com/tokeninfo"),
		SMSGatewayURL:   getEnv("SMS_GATEWAY_URL", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
