package main

import (
	"context"
	"fmt"

	"triz/internal/catalog"
	"triz/internal/config"
	"triz/internal/format"
	"triz/internal/matrix"
	"triz/internal/session"
	"triz/internal/synth"
	"triz/internal/vector"
	"triz/internal/workflow"
)

func tableMode() format.Mode {
	if rootFlags.markdown {
		return format.Markdown
	}
	return format.ASCII
}

// loadMatrix builds the contradiction matrix from the built-in entries,
// or from cfg.Matrix.File when one is configured.
func loadMatrix(c *catalog.Catalog) (*matrix.Matrix, error) {
	m := matrix.New(c)
	if cfg.Matrix.File != "" {
		if err := m.LoadFile(cfg.Matrix.File); err != nil {
			return nil, fmt.Errorf("load matrix file: %w", err)
		}
		return m, nil
	}
	if err := m.LoadDefaults(); err != nil {
		return nil, err
	}
	return m, nil
}

func openStore(ctx context.Context) (session.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreFile:
		return session.NewFileStore(cfg.Store.Dir)
	case config.StoreSQLite:
		return session.OpenSqlStore(cfg.Store.SQLitePath)
	case config.StoreRedis:
		return session.NewRedisStore(ctx, cfg.Store.RedisURL, cfg.Store.RedisTTL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// openSearcher returns nil when semantic search is disabled.
func openSearcher() (vector.Searcher, error) {
	switch cfg.Search.Backend {
	case config.SearchOff:
		return nil, nil
	case config.SearchFile:
		return vector.NewFileSearcher(cfg.Search.IndexPath, newEmbedder())
	case config.SearchWeaviate:
		return vector.NewWeaviateSearcher(cfg.Search.WeaviateHost, cfg.Search.WeaviateScheme, newEmbedder())
	default:
		return nil, fmt.Errorf("unknown search backend %q", cfg.Search.Backend)
	}
}

func newEmbedder() *vector.OpenAIEmbedder {
	return vector.NewOpenAIEmbedder(cfg.Embeddings.APIKey, cfg.Embeddings.BaseURL, cfg.Embeddings.Model)
}

// toolkit bundles everything a command needs; Close releases the store
// and searcher.
type toolkit struct {
	catalog  *catalog.Catalog
	matrix   *matrix.Matrix
	synth    *synth.Synthesizer
	store    session.Store
	searcher vector.Searcher
	engine   *workflow.Engine
}

func newToolkit(ctx context.Context) (*toolkit, error) {
	c, err := catalog.Load()
	if err != nil {
		return nil, err
	}
	m, err := loadMatrix(c)
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	searcher, err := openSearcher()
	if err != nil {
		store.Close()
		return nil, err
	}
	syn := synth.New(c)
	return &toolkit{
		catalog:  c,
		matrix:   m,
		synth:    syn,
		store:    store,
		searcher: searcher,
		engine:   workflow.New(store, c, m, syn),
	}, nil
}

func (tk *toolkit) Close() {
	if tk.searcher != nil {
		tk.searcher.Close()
	}
	tk.store.Close()
}
