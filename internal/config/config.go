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

const defaultBulkAssignConcurrency = 8

type Config struct {
	Port                  string
	DBUrl                 string
	DBMaxConns            int32
	JWTSecret             string
	AppEnv                string
	LogLevel              string
	EnableDocs            bool
	Timezone              string
	Location              *time.Location
	BulkAssignConcurrency int
	DefaultAdminEmail     string
	DefaultAdminPassword  string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		DBUrl:                 getEnv("DB_URL", ""),
		DBMaxConns:            int32(getEnvInt("DB_MAX_CONNS", 10)),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		AppEnv:                normalizeEnv(getEnv("APP_ENV", "production")),
		LogLevel:              strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		EnableDocs:            getEnvBool("ENABLE_API_DOCS", false),
		Timezone:              strings.TrimSpace(getEnv("TIMEZONE", "Local")),
		BulkAssignConcurrency: getEnvInt("BULK_ASSIGN_CONCURRENCY", defaultBulkAssignConcurrency),
		DefaultAdminEmail:     strings.ToLower(strings.TrimSpace(getEnv("DEFAULT_ADMIN_EMAIL", ""))),
		DefaultAdminPassword:  getEnv("DEFAULT_ADMIN_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate reports every missing or malformed key at once.
func (c *Config) validate() error {
	var problems []string

	if c.DBUrl == "" {
		problems = append(problems, "DB_URL is required")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.DBMaxConns <= 0 {
		problems = append(problems, "DB_MAX_CONNS must be positive")
	}
	if c.BulkAssignConcurrency <= 0 {
		problems = append(problems, "BULK_ASSIGN_CONCURRENCY must be positive")
	}
	if (c.DefaultAdminEmail == "") != (c.DefaultAdminPassword == "") {
		problems = append(problems, "DEFAULT_ADMIN_EMAIL and DEFAULT_ADMIN_PASSWORD must be set together")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		problems = append(problems, fmt.Sprintf("TIMEZONE %q is invalid", c.Timezone))
	}
	c.Location = loc

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
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

func (c *Config) DocsEnabled() bool {
	return c != nil && c.EnableDocs && c.AppEnv == "development"
}

func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}
