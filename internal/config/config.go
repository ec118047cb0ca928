package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBUser string
	DBPass string
	DBName string
	DBHost string
	DBPort string

	RedisHost string
	RedisPort string
	RedisPass string
	RedisDB   int

	JWTSecret     string
	JWTIssuer     string
	TokenDuration time.Duration
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from the environment, with a best-effort
// .env file for local development.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			redisDB = parsed
		}
	}

	tokenHours := 24
	if raw := os.Getenv("TOKEN_DURATION_HOURS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			tokenHours = parsed
		}
	}

	return &Config{
		Port: getenv("PORT", "8080"),

		DBUser: os.Getenv("DB_USER"),
		DBPass: os.Getenv("DB_PASSWORD"),
		DBName: os.Getenv("DB_NAME"),
		DBHost: getenv("DB_HOST", "localhost"),
		DBPort: getenv("DB_PORT", "5432"),

		RedisHost: getenv("REDIS_HOST", "localhost"),
		RedisPort: getenv("REDIS_PORT", "6379"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		RedisDB:   redisDB,

		JWTSecret:     getenv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:     getenv("JWT_ISSUER", "weekwise"),
		TokenDuration: time.Duration(tokenHours) * time.Hour,
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}
