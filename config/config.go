package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL   string
	DBAutoMigrate bool

	JWTSecretKey        string
	JWTRefreshSecretKey string
	JWTExpiresIn        time.Duration
	JWTRefreshExpiresIn time.Duration

	ServerPort     int
	AppEnv         string
	LogLevel       slog.Level
	AllowedOrigins []string

	UploadDir         string
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// IsDevelopment reports whether internal error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// R2Enabled reports whether Cloudflare R2 credentials were supplied.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	refreshKey := os.Getenv("JWT_REFRESH_SECRET_KEY")
	if refreshKey == "" {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET_KEY environment variable is not set")
	}
	if refreshKey == jwtKey {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET_KEY must differ from JWT_SECRET_KEY")
	}

	accessTTL, err := durationEnv("JWT_EXPIRES_IN", time.Hour)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := durationEnv("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	portStr := getEnvOrDefault("SERVER_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	autoMigrate, err := strconv.ParseBool(getEnvOrDefault("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE environment variable: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	cfg := &Config{
		DatabaseURL:         dbURL,
		DBAutoMigrate:       autoMigrate,
		JWTSecretKey:        jwtKey,
		JWTRefreshSecretKey: refreshKey,
		JWTExpiresIn:        accessTTL,
		JWTRefreshExpiresIn: refreshTTL,
		ServerPort:          port,
		AppEnv:              getEnvOrDefault("APP_ENV", EnvDevelopment),
		LogLevel:            level,
		AllowedOrigins:      splitList(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		UploadDir:           getEnvOrDefault("UPLOAD_DIR", "uploads"),
		R2AccountID:         os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:       os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:   os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:        os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:     os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	// R2 либо настроен полностью, либо не настроен вовсе.
	r2 := []string{cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2BucketName, cfg.R2PublicBaseURL}
	set := 0
	for _, v := range r2 {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != len(r2) {
		return nil, fmt.Errorf("R2 storage is partially configured: set all of R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET_NAME, R2_PUBLIC_BASE_URL or none")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
