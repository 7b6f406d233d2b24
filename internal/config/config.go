package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	BackendGoogle   = "google"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port            string
	JWTSecret       string
	JWTIssuer       string
	TokenTTLSeconds int64

	StoreBackend        string
	SpreadsheetID       string
	ServiceAccountEmail string
	ServiceAccountKey   string
	DatabaseURL         string

	UsersSheet   string
	EbooksSheet  string
	ClassesSheet string
	PlansSheet   string

	CorsOrigins           []string
	AuthRateLimit         int
	AuthRateWindowSeconds int

	Env              string
	LogLevel         string
	LogDir           string
	LogRetentionDays int
}

// Load reads the environment. Missing required secrets panic so the process
// never starts half configured.
func Load() Config {
	cfg := Config{
		Port:            envOr("PORT", "8080"),
		JWTSecret:       mustEnv("JWT_SECRET"),
		JWTIssuer:       envOr("JWT_ISSUER", "sheetstack"),
		TokenTTLSeconds: int64(envOrInt("TOKEN_TTL_SECONDS", 3600)),

		StoreBackend: strings.ToLower(envOr("STORE_BACKEND", BackendGoogle)),

		UsersSheet:   envOr("USERS_SHEET", "Users"),
		EbooksSheet:  envOr("EBOOKS_SHEET", "Ebooks"),
		ClassesSheet: envOr("CLASSES_SHEET", "Classes"),
		PlansSheet:   envOr("PLANS_SHEET", "Plans"),

		CorsOrigins:           parseCSV(envOr("CORS_ORIGINS", "")),
		AuthRateLimit:         envOrInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindowSeconds: envOrInt("AUTH_RATE_WINDOW_SECONDS", 60),

		Env:              envOr("ENV", "production"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogDir:           envOr("LOG_DIR", "storage/logs"),
		LogRetentionDays: clampRetention(envOrInt("LOG_RETENTION_DAYS", 7)),
	}
	switch cfg.StoreBackend {
	case BackendGoogle:
		cfg.SpreadsheetID = mustEnv("GOOGLE_SHEET_ID")
		cfg.ServiceAccountEmail = mustEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL")
		cfg.ServiceAccountKey = unescapeKey(mustEnv("GOOGLE_PRIVATE_KEY"))
	case BackendPostgres:
		cfg.DatabaseURL = mustEnv("DATABASE_URL")
	case BackendMemory:
	default:
		panic("unknown STORE_BACKEND: " + cfg.StoreBackend)
	}
	return cfg
}

func (c Config) Sheets() []string {
	return []string{c.UsersSheet, c.EbooksSheet, c.ClassesSheet, c.PlansSheet}
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}

// unescapeKey turns the literal \n sequences dotenv files carry into newlines.
func unescapeKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

func clampRetention(days int) int {
	if days < 1 {
		return 1
	}
	if days > 7 {
		return 7
	}
	return days
}
