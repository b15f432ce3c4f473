// Package vector provides semantic search over previously solved
// problems. Embedding and storage are separate concerns: an Embedder
// turns text into vectors, a Searcher indexes and retrieves documents.
// The backend is chosen at construction; callers never branch on it.
package vector

import "context"

// Document is one indexed case: a solved problem or reference text,
// optionally tagged with the principles that solved it.
type Document struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	Source     string `json:"source"`
	Principles []int  `json:"principles,omitempty"`
}

// Match is a search hit with a similarity score in [0,1].
type Match struct {
	Document
	Certainty float64 `json:"certainty"`
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher indexes documents and retrieves the closest matches for a
// query.
type Searcher interface {
	Index(ctx context.Context, docs []Document) error
	Search(ctx context.Context, query string, topK int) ([]Match, error)
	Close() error
}
