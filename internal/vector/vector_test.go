package vector

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/weaviate/weaviate/entities/models"
)

// stubEmbedder produces fixed 3-dimensional vectors from keyword
// counts, so similarity is predictable.
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	return []float32{
		float32(strings.Count(lower, "weight")),
		float32(strings.Count(lower, "speed")),
		float32(strings.Count(lower, "heat")),
	}, nil
}

func testDocs() []Document {
	return []Document{
		{Content: "reduced weight of the arm by segmentation, weight dropped 40%", Source: "case-001", Principles: []int{1}},
		{Content: "spindle speed raised with counterweight, speed and speed stability improved", Source: "case-002", Principles: []int{8}},
		{Content: "heat exchanger reworked, heat removed through phase change, heat pipes added", Source: "case-003", Principles: []int{36}},
	}
}

func TestFileSearcher_IndexAndSearch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.json")

	s, err := NewFileSearcher(path, stubEmbedder{})
	if err != nil {
		t.Fatalf("NewFileSearcher: %v", err)
	}
	if err := s.Index(ctx, testDocs()); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}

	got, err := s.Search(ctx, "how was weight reduced on the robot arm weight problem", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Source != "case-001" {
		t.Errorf("top match = %s, want case-001", got[0].Source)
	}
	if got[0].Certainty <= got[1].Certainty {
		t.Errorf("not sorted by certainty: %v vs %v", got[0].Certainty, got[1].Certainty)
	}
	if got[0].Certainty < 0 || got[0].Certainty > 1 {
		t.Errorf("certainty %v outside [0,1]", got[0].Certainty)
	}
	if len(got[0].Principles) != 1 || got[0].Principles[0] != 1 {
		t.Errorf("principles = %v", got[0].Principles)
	}
}

func TestFileSearcher_Reload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.json")

	s, err := NewFileSearcher(path, stubEmbedder{})
	if err != nil {
		t.Fatalf("NewFileSearcher: %v", err)
	}
	if err := s.Index(ctx, testDocs()); err != nil {
		t.Fatalf("Index: %v", err)
	}

	reloaded, err := NewFileSearcher(path, stubEmbedder{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Len() != 3 {
		t.Errorf("Len after reload = %d, want 3", reloaded.Len())
	}
}

func TestFileSearcher_ReindexSameContent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.json")

	s, err := NewFileSearcher(path, stubEmbedder{})
	if err != nil {
		t.Fatalf("NewFileSearcher: %v", err)
	}
	docs := testDocs()
	if err := s.Index(ctx, docs); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if err := s.Index(ctx, docs); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Len after reindex = %d, want 3 (no duplicates)", s.Len())
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMatches_MalformedShapes(t *testing.T) {
	if got := parseMatches(nil, DefaultClass); got != nil {
		t.Errorf("nil data: %v", got)
	}
	if got := parseMatches(map[string]models.JSONObject{"Get": "nope"}, DefaultClass); got != nil {
		t.Errorf("bad Get shape: %v", got)
	}
}
