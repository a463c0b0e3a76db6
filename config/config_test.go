package config

import (
	"log/slog"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/poker?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "refresh-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.JWTExpiresIn != time.Hour {
		t.Errorf("JWTExpiresIn = %s, want 1h", cfg.JWTExpiresIn)
	}
	if cfg.JWTRefreshExpiresIn != 168*time.Hour {
		t.Errorf("JWTRefreshExpiresIn = %s, want 168h", cfg.JWTRefreshExpiresIn)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("AppEnv = %q, want development by default", cfg.AppEnv)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want two defaults", cfg.AllowedOrigins)
	}
	if cfg.R2Enabled() {
		t.Error("R2Enabled = true without credentials")
	}
	if !cfg.DBAutoMigrate {
		t.Error("DBAutoMigrate should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JWT_EXPIRES_IN", "15m")
	t.Setenv("ALLOWED_ORIGINS", " https://admin.example.com , ,https://example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d", cfg.ServerPort)
	}
	if cfg.IsDevelopment() {
		t.Error("production config reported as development")
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.JWTExpiresIn != 15*time.Minute {
		t.Errorf("JWTExpiresIn = %s", cfg.JWTExpiresIn)
	}
	want := []string{"https://admin.example.com", "https://example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{"DATABASE_URL": ""}},
		{"missing jwt secret", map[string]string{"JWT_SECRET_KEY": ""}},
		{"same secrets", map[string]string{"JWT_REFRESH_SECRET_KEY": "access-secret"}},
		{"port not a number", map[string]string{"SERVER_PORT": "http"}},
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}},
		{"bad duration", map[string]string{"JWT_EXPIRES_IN": "soon"}},
		{"negative duration", map[string]string{"JWT_REFRESH_EXPIRES_IN": "-1h"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"partial r2", map[string]string{"R2_ACCOUNT_ID": "acc", "R2_BUCKET_NAME": "bucket"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
