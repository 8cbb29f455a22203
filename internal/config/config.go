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
	Port                string
	MongoURI            string
	JWTSecret           string
	JWTExpiry           string
	AllowedOrigins      []string
	UploadDir           string
	Redis               RedisConfig
	SMTP                SMTPConfig
	CodeCleanupInterval time.Duration
}

type RedisConfig struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
}

type SMTPConfig struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
	FromName  string
	AppURL    string
}

func Load() *Config {
	// .env is optional outside local development
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI environment variable is not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	cleanupInterval := time.Hour
	if v := os.Getenv("CODE_CLEANUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cleanupInterval = d
		} else {
			log.Printf("Invalid CODE_CLEANUP_INTERVAL %q, using default: %v", v, err)
		}
	}

	return &Config{
		Port:                port,
		MongoURI:            mongoURI,
		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTExpiry:           os.Getenv("JWT_EXPIRY"),
		AllowedOrigins:      strings.Split(allowedOrigins, ","),
		UploadDir:           uploadDir,
		Redis:               loadRedisConfig(),
		SMTP:                loadSMTPConfig(),
		CodeCleanupInterval: cleanupInterval,
	}
}

func loadRedisConfig() RedisConfig {
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			db = parsed
		}
	}

	poolSize := 10
	if v := os.Getenv("REDIS_POOL_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			poolSize = parsed
		}
	}

	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}

	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}

	return RedisConfig{
		URL:      os.Getenv("REDIS_URL"),
		Host:     host,
		Port:     redisPort,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
		PoolSize: poolSize,
	}
}

func loadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:      os.Getenv("SMTP_HOST"),
		Port:      os.Getenv("SMTP_PORT"),
		Username:  os.Getenv("SMTP_USERNAME"),
		Password:  os.Getenv("SMTP_PASSWORD"),
		FromEmail: os.Getenv("FROM_EMAIL"),
		FromName:  os.Getenv("FROM_NAME"),
		AppURL:    os.Getenv("APP_URL"),
	}
}
