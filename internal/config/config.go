package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Store          string
	DatabaseURL    string
	SQLitePath     string
	LogLevel       string
	LogFormat      string
	MigrateOnStart bool
	SeedChart      bool
}

// Load reads configuration from the environment, after loading a .env file if present.
// Environment variables override .env values, which override the defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("ERP_STORE", StoreSQLite)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "erp.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("MIGRATE_ON_START", true)
	v.SetDefault("SEED_CHART", true)
	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Store:          strings.ToLower(v.GetString("ERP_STORE")),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:      strings.ToLower(v.GetString("LOG_FORMAT")),
		MigrateOnStart: v.GetBool("MIGRATE_ON_START"),
		SeedChart:      v.GetBool("SEED_CHART"),
	}

	switch cfg.Store {
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH must be set when ERP_STORE=%s", StoreSQLite)
		}
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL must be set when ERP_STORE=%s", StorePostgres)
		}
	default:
		return nil, fmt.Errorf("invalid ERP_STORE %q: want %s or %s", cfg.Store, StoreSQLite, StorePostgres)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: want debug, info, warn or error", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.LogFormat)
	}
	return cfg, nil
}
