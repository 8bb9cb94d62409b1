package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"student-manager/internal/model"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Port            string
	AllowedOrigins  []string
	StoreDriver     string
	SQLiteDSN       string
	DefaultLanguage model.Language
	DefaultTheme    model.Theme
	LogLevel        slog.Level
}

// Load reads .env files (if any) and then the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		SQLiteDSN:       getEnv("SQLITE_DSN", "file::memory:?cache=shared"),
		DefaultLanguage: model.Language(getEnv("DEFAULT_LANGUAGE", string(model.LanguageEN))),
		DefaultTheme:    model.Theme(getEnv("DEFAULT_THEME", string(model.ThemeLight))),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMemory, StoreSQLite, c.StoreDriver)
	}
	if !c.DefaultLanguage.Valid() {
		return fmt.Errorf("DEFAULT_LANGUAGE must be en or ru, got %q", c.DefaultLanguage)
	}
	if !c.DefaultTheme.Valid() {
		return fmt.Errorf("DEFAULT_THEME must be light or dark, got %q", c.DefaultTheme)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
