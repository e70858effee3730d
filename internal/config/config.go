package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBUrl          string
	JWTSecret      string
	AppEnv         string
	PlannerURL     string
	PlannerAPIKey  string
	PlannerModel   string
	NudgeDelay     time.Duration
	AllowedOrigins string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBUrl:          getEnv("DB_URL", ""),
		JWTSecret:      jwtSecret,
		AppEnv:         normalizeEnv(getEnv("APP_ENV", "production")),
		PlannerURL:     getEnv("PLANNER_URL", ""),
		PlannerAPIKey:  getEnv("PLANNER_API_KEY", ""),
		PlannerModel:   getEnv("PLANNER_MODEL", ""),
		NudgeDelay:     getEnvDuration("NUDGE_DELAY_MS", 2000),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallbackMS int64) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return time.Duration(fallbackMS) * time.Millisecond
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || ms <= 0 {
		return time.Duration(fallbackMS) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) PlannerConfigured() bool {
	return c != nil && c.PlannerURL != "" && c.PlannerAPIKey != ""
}
