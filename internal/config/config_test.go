package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != StoreFile {
		t.Errorf("backend = %q", cfg.Store.Backend)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Search.Backend != SearchOff {
		t.Errorf("search backend = %q", cfg.Search.Backend)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triz.yaml")
	doc := `
logging:
  level: debug
store:
  backend: sqlite
  sqlite_path: /tmp/test-sessions.db
  max_age: 72h
search:
  backend: weaviate
  weaviate_host: vectors:8080
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != StoreSQLite || cfg.Store.SQLitePath != "/tmp/test-sessions.db" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Store.MaxAge != 72*time.Hour {
		t.Errorf("max_age = %v", cfg.Store.MaxAge)
	}
	if cfg.Search.WeaviateHost != "vectors:8080" {
		t.Errorf("weaviate host = %q", cfg.Search.WeaviateHost)
	}
	// Untouched sections keep defaults.
	if cfg.Embeddings.Model != "nomic-embed-text" {
		t.Errorf("embeddings model = %q", cfg.Embeddings.Model)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRIZ_STORE_BACKEND", "redis")
	t.Setenv("TRIZ_REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("TRIZ_LOG_FORMAT", "json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != StoreRedis || cfg.Store.RedisURL != "redis://localhost:6379/2" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("format = %q", cfg.Logging.Format)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("TRIZ_STORE_BACKEND", "cassandra")
	if _, err := Load(""); err == nil {
		t.Error("unknown store backend accepted")
	}

	t.Setenv("TRIZ_STORE_BACKEND", "redis")
	t.Setenv("TRIZ_REDIS_URL", "")
	if _, err := Load(""); err == nil {
		t.Error("redis backend without url accepted")
	}
}
