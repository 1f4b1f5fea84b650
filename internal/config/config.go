package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. QUIZ_REDIS_ADDR.
const EnvPrefix = "QUIZ_"

// Catalog sources accepted by catalog.source.
const (
	SourceStatic   = "static"
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port      string `yaml:"port" env:"PORT"`
		PublicURL string `yaml:"public_url" env:"PUBLIC_URL"`
	} `yaml:"server" envPrefix:"SERVER_"`
	Log struct {
		Level string `yaml:"level" env:"LEVEL"`
	} `yaml:"log" envPrefix:"LOG_"`
	Catalog struct {
		Source  string `yaml:"source" env:"SOURCE"`
		Dir     string `yaml:"dir" env:"DIR"`
		URL     string `yaml:"url" env:"URL"`
		Default string `yaml:"default" env:"DEFAULT"`
		TTL     string `yaml:"ttl" env:"TTL"`
	} `yaml:"catalog" envPrefix:"CATALOG_"`
	Session struct {
		IdleTTL string `yaml:"idle_ttl" env:"IDLE_TTL"`
	} `yaml:"session" envPrefix:"SESSION_"`
	SQLite struct {
		Path string `yaml:"path" env:"PATH"`
	} `yaml:"sqlite" envPrefix:"SQLITE_"`
	Redis struct {
		Addr     string `yaml:"addr" env:"ADDR"`
		Password string `yaml:"password" env:"PASSWORD"`
		DB       int    `yaml:"db" env:"DB"`
		TTL      string `yaml:"ttl" env:"TTL"`
	} `yaml:"redis" envPrefix:"REDIS_"`
	Postgres struct {
		URL string `yaml:"url" env:"URL"`
	} `yaml:"postgres" envPrefix:"POSTGRES_"`
	Images struct {
		Dir         string `yaml:"dir" env:"DIR"`
		Placeholder string `yaml:"placeholder" env:"PLACEHOLDER"`
	} `yaml:"images" envPrefix:"IMAGES_"`
}

// Default returns the settings used when neither file nor environment says otherwise.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Log.Level = "INFO"
	cfg.Catalog.Source = SourceFile
	cfg.Catalog.Dir = "data/catalogs"
	cfg.Catalog.Default = "default"
	cfg.Catalog.TTL = "10m"
	cfg.Session.IdleTTL = "2h"
	cfg.SQLite.Path = "catalogs.db"
	cfg.Redis.TTL = "10m"
	cfg.Images.Dir = "data/images"
	cfg.Images.Placeholder = "https://images.unsplash.com/photo-1485846234645-a62644f84728?w=800"
	return cfg
}

// Load reads YAML config from path on top of the defaults, then applies
// QUIZ_* environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}
	switch cfg.Catalog.Source {
	case SourceStatic, SourceFile, SourceHTTP, SourcePostgres, SourceSQLite:
	default:
		return cfg, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
	return cfg, nil
}

// LogLevel parses log.level (DEBUG, INFO, WARN, ERROR).
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
