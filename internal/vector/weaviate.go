package vector

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"triz/internal/logging"
)

// DefaultClass is the Weaviate class documents are stored under.
const DefaultClass = "TrizCase"

// WeaviateSearcher stores vectors in Weaviate. Vectors are computed
// client-side through the Embedder, so Weaviate runs without any
// vectorizer module.
type WeaviateSearcher struct {
	client   *weaviate.Client
	embedder Embedder
	class    string
	log      *slog.Logger
}

var _ Searcher = (*WeaviateSearcher)(nil)

// NewWeaviateSearcher connects to Weaviate at host (e.g.
// "localhost:8080") over the given scheme.
func NewWeaviateSearcher(host, scheme string, embedder Embedder) (*WeaviateSearcher, error) {
	if scheme == "" {
		scheme = "http"
	}
	client, err := weaviate.NewClient(weaviate.Config{Host: host, Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("vector: weaviate client: %w", err)
	}
	return &WeaviateSearcher{
		client:   client,
		embedder: embedder,
		class:    DefaultClass,
		log:      logging.New("vector"),
	}, nil
}

// docID derives a stable UUID from the document content, so repeated
// ingestion of the same text overwrites instead of duplicating.
func docID(d Document) strfmt.UUID {
	if d.ID != "" {
		return strfmt.UUID(d.ID)
	}
	hash := sha256.Sum256([]byte(d.Content))
	id, _ := uuid.FromBytes(hash[:16])
	return strfmt.UUID(id.String())
}

func principlesCSV(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

func (s *WeaviateSearcher) Index(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	objects := make([]*models.Object, len(docs))
	for i, d := range docs {
		vec, err := s.embedder.Embed(ctx, d.Content)
		if err != nil {
			return fmt.Errorf("vector: embed %q: %w", d.Source, err)
		}
		objects[i] = &models.Object{
			Class:  s.class,
			ID:     docID(d),
			Vector: vec,
			Properties: map[string]interface{}{
				"content":    d.Content,
				"source":     d.Source,
				"principles": principlesCSV(d.Principles),
			},
		}
	}
	resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return fmt.Errorf("vector: batch import: %w", err)
	}
	for _, obj := range resp {
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			return fmt.Errorf("vector: import %s: %s", obj.ID, obj.Result.Errors.Error[0].Message)
		}
	}
	s.log.Info("documents indexed", "count", len(docs), "class", s.class)
	return nil
}

func (s *WeaviateSearcher) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	if topK <= 0 {
		return nil, nil
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vector: embed query: %w", err)
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vec)
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "source"},
		{Name: "principles"},
		{Name: "_additional", Fields: []graphql.Field{
			{Name: "id"},
			{Name: "certainty"},
		}},
	}
	result, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("vector: search: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("vector: search: %s", result.Errors[0].Message)
	}
	return parseMatches(result.Data, s.class), nil
}

// parseMatches walks the GraphQL response shape
// {Get: {<class>: [{content, source, principles, _additional}]}}.
func parseMatches(data map[string]models.JSONObject, class string) []Match {
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	rows, ok := get[class].([]interface{})
	if !ok {
		return nil
	}
	var out []Match
	for _, row := range rows {
		obj, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		var m Match
		m.Content, _ = obj["content"].(string)
		m.Source, _ = obj["source"].(string)
		if csv, ok := obj["principles"].(string); ok {
			m.Principles = parseCSVInts(csv)
		}
		if add, ok := obj["_additional"].(map[string]interface{}); ok {
			m.ID, _ = add["id"].(string)
			if c, ok := add["certainty"].(float64); ok {
				m.Certainty = c
			}
		}
		out = append(out, m)
	}
	return out
}

func parseCSVInts(csv string) []int {
	if csv == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(csv, ",") {
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(part), "%d", &n); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func (s *WeaviateSearcher) Close() error { return nil }
