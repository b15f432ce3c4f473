package vector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"
	"sync"
)

// FileSearcher is a brute-force fallback for offline use: documents and
// their vectors live in one JSON file, search is exhaustive cosine
// similarity. Fine for the few hundred cases a team accumulates;
// deployments beyond that should run Weaviate.
type FileSearcher struct {
	path     string
	embedder Embedder

	mu   sync.Mutex
	docs []storedDoc
}

type storedDoc struct {
	Document
	Vector []float32 `json:"vector"`
}

var _ Searcher = (*FileSearcher)(nil)

// NewFileSearcher loads the index at path, creating an empty one if the
// file does not exist yet.
func NewFileSearcher(path string, embedder Embedder) (*FileSearcher, error) {
	s := &FileSearcher{path: path, embedder: embedder}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vector: read index %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.docs); err != nil {
		return nil, fmt.Errorf("vector: decode index %s: %w", path, err)
	}
	return s, nil
}

func (s *FileSearcher) Index(ctx context.Context, docs []Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range docs {
		vec, err := s.embedder.Embed(ctx, d.Content)
		if err != nil {
			return fmt.Errorf("vector: embed %q: %w", d.Source, err)
		}
		if d.ID == "" {
			d.ID = string(docID(d))
		}
		replaced := false
		for i := range s.docs {
			if s.docs[i].ID == d.ID {
				s.docs[i] = storedDoc{Document: d, Vector: vec}
				replaced = true
				break
			}
		}
		if !replaced {
			s.docs = append(s.docs, storedDoc{Document: d, Vector: vec})
		}
	}
	return s.persistLocked()
}

func (s *FileSearcher) persistLocked() error {
	data, err := json.MarshalIndent(s.docs, "", "  ")
	if err != nil {
		return fmt.Errorf("vector: encode index: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("vector: write index %s: %w", s.path, err)
	}
	return nil
}

func (s *FileSearcher) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	if topK <= 0 {
		return nil, nil
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vector: embed query: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Match, 0, len(s.docs))
	for _, d := range s.docs {
		sim := cosine(vec, d.Vector)
		out = append(out, Match{
			Document: d.Document,
			// Same scale Weaviate reports: certainty = (1+cos)/2.
			Certainty: (1 + sim) / 2,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Certainty != out[j].Certainty {
			return out[i].Certainty > out[j].Certainty
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func (s *FileSearcher) Close() error { return nil }

// Len returns the number of indexed documents.
func (s *FileSearcher) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
