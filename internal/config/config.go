// Package config loads server configuration from a YAML file with
// TRIZ_* environment overrides. Everything has a working default, so a
// bare binary runs with file-backed sessions and no network services.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Search backends.
const (
	SearchOff      = "off"
	SearchFile     = "file"
	SearchWeaviate = "weaviate"
)

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

type Store struct {
	Backend    string        `yaml:"backend"` // file | sqlite | redis
	Dir        string        `yaml:"dir"`
	SQLitePath string        `yaml:"sqlite_path"`
	RedisURL   string        `yaml:"redis_url"`
	RedisTTL   time.Duration `yaml:"redis_ttl"`
	MaxAge     time.Duration `yaml:"max_age"` // cleanup threshold
}

type Matrix struct {
	// File overrides the built-in contradiction entries.
	File string `yaml:"file"`
}

type Embeddings struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type Search struct {
	Backend        string `yaml:"backend"` // off | file | weaviate
	WeaviateHost   string `yaml:"weaviate_host"`
	WeaviateScheme string `yaml:"weaviate_scheme"`
	IndexPath      string `yaml:"index_path"`
}

type Config struct {
	Logging    Logging    `yaml:"logging"`
	Store      Store      `yaml:"store"`
	Matrix     Matrix     `yaml:"matrix"`
	Embeddings Embeddings `yaml:"embeddings"`
	Search     Search     `yaml:"search"`
}

// Default returns the configuration used when no file and no overrides
// are present.
func Default() Config {
	return Config{
		Logging: Logging{Level: "info", Format: "text"},
		Store: Store{
			Backend:    StoreFile,
			Dir:        ".triz/sessions",
			SQLitePath: ".triz/sessions.db",
			MaxAge:     30 * 24 * time.Hour,
		},
		Embeddings: Embeddings{
			BaseURL: "http://localhost:11434/v1",
			Model:   "nomic-embed-text",
		},
		Search: Search{
			Backend:        SearchOff,
			WeaviateHost:   "localhost:8080",
			WeaviateScheme: "http",
			IndexPath:      ".triz/index.json",
		},
	}
}

// Load reads the file at path (missing file is fine), applies TRIZ_*
// environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.Logging.Level, "TRIZ_LOG_LEVEL")
	setString(&c.Logging.Format, "TRIZ_LOG_FORMAT")
	setString(&c.Store.Backend, "TRIZ_STORE_BACKEND")
	setString(&c.Store.Dir, "TRIZ_SESSIONS_DIR")
	setString(&c.Store.SQLitePath, "TRIZ_SQLITE_PATH")
	setString(&c.Store.RedisURL, "TRIZ_REDIS_URL")
	setString(&c.Matrix.File, "TRIZ_MATRIX_FILE")
	setString(&c.Embeddings.APIKey, "TRIZ_EMBEDDINGS_API_KEY")
	setString(&c.Embeddings.BaseURL, "TRIZ_EMBEDDINGS_BASE_URL")
	setString(&c.Embeddings.Model, "TRIZ_EMBEDDINGS_MODEL")
	setString(&c.Search.Backend, "TRIZ_SEARCH_BACKEND")
	setString(&c.Search.WeaviateHost, "TRIZ_WEAVIATE_HOST")
	setString(&c.Search.IndexPath, "TRIZ_INDEX_PATH")
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case StoreFile, StoreSQLite:
	case StoreRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("config: store backend %q needs redis_url", StoreRedis)
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	switch c.Search.Backend {
	case SearchOff, SearchFile, SearchWeaviate:
	default:
		return fmt.Errorf("config: unknown search backend %q", c.Search.Backend)
	}
	return nil
}
