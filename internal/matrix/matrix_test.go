package matrix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"triz/internal/catalog"
	"triz/internal/triz"
)

func newLoaded(t *testing.T) *Matrix {
	t.Helper()
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	m := New(c)
	if err := m.LoadDefaults(); err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	return m
}

func TestLookup_WeightVsStrength(t *testing.T) {
	m := newLoaded(t)

	e, err := m.Lookup(1, 14)
	if err != nil {
		t.Fatalf("Lookup(1,14): %v", err)
	}
	if diff := cmp.Diff([]int{1, 8, 15, 40}, e.Principles); diff != "" {
		t.Errorf("principles mismatch (-want +got):\n%s", diff)
	}
	if e.Confidence < 0.85 {
		t.Errorf("confidence = %v, want >= 0.85", e.Confidence)
	}
}

func TestLookup_OrderMatters(t *testing.T) {
	m := newLoaded(t)

	forward, err := m.Lookup(1, 14)
	if err != nil {
		t.Fatalf("Lookup(1,14): %v", err)
	}
	reverse, err := m.Lookup(14, 1)
	if err != nil {
		t.Fatalf("Lookup(14,1): %v", err)
	}
	if cmp.Equal(forward.Principles, reverse.Principles) {
		t.Errorf("(1,14) and (14,1) rank principles identically: %v", forward.Principles)
	}
}

func TestLookup_Errors(t *testing.T) {
	m := newLoaded(t)

	tests := []struct {
		name                 string
		improving, worsening int
		want                 error
	}{
		{"improving below range", 0, 14, triz.ErrOutOfRange},
		{"improving above range", 40, 14, triz.ErrOutOfRange},
		{"worsening out of range", 1, 99, triz.ErrOutOfRange},
		{"degenerate pair", 7, 7, triz.ErrDegenerate},
		{"unmapped pair", 4, 31, triz.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Lookup(tt.improving, tt.worsening)
			if !errors.Is(err, tt.want) {
				t.Errorf("Lookup(%d,%d) = %v, want %v", tt.improving, tt.worsening, err, tt.want)
			}
		})
	}
}

func TestFindSimilar(t *testing.T) {
	m := newLoaded(t)

	got, err := m.FindSimilar(1, 14, 10)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("FindSimilar(1,14) returned nothing")
	}
	for i, e := range got {
		if e.Improving == 1 && e.Worsening == 14 {
			t.Error("result contains the exact pair")
		}
		if e.Improving != 1 && e.Worsening != 14 {
			t.Errorf("entry (%d,%d) shares neither parameter", e.Improving, e.Worsening)
		}
		if i > 0 && e.Confidence > got[i-1].Confidence {
			t.Errorf("results not sorted by confidence at index %d", i)
		}
	}

	capped, err := m.FindSimilar(1, 14, 2)
	if err != nil {
		t.Fatalf("FindSimilar capped: %v", err)
	}
	if len(capped) != 2 {
		t.Errorf("len = %d, want 2", len(capped))
	}
}

func TestFindSimilar_UnmappedPairStillRecovers(t *testing.T) {
	m := newLoaded(t)

	if _, err := m.Lookup(1, 22); !errors.Is(err, triz.ErrNotFound) {
		t.Fatalf("Lookup(1,22) = %v, want ErrNotFound", err)
	}
	got, err := m.FindSimilar(1, 22, 5)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(got) == 0 {
		t.Error("no neighbors found for unmapped pair sharing parameter 1")
	}
}

func TestReverseIndex_Consistency(t *testing.T) {
	m := newLoaded(t)

	// Every key returned for a principle must resolve to an entry that
	// actually recommends it.
	for p := triz.MinPrincipleID; p <= triz.MaxPrincipleID; p++ {
		keys, err := m.PrinciplesFor(p)
		if err != nil {
			t.Fatalf("PrinciplesFor(%d): %v", p, err)
		}
		for _, k := range keys {
			e, err := m.Lookup(k.Improving, k.Worsening)
			if err != nil {
				t.Fatalf("reverse index points at missing entry (%d,%d)", k.Improving, k.Worsening)
			}
			found := false
			for _, rec := range e.Principles {
				if rec == p {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("entry (%d,%d) indexed under principle %d but does not recommend it",
					k.Improving, k.Worsening, p)
			}
		}
	}

	// And the other direction: every recommendation must be indexed.
	for _, e := range defaultEntries {
		for _, p := range e.Principles {
			keys, err := m.PrinciplesFor(p)
			if err != nil {
				t.Fatalf("PrinciplesFor(%d): %v", p, err)
			}
			found := false
			for _, k := range keys {
				if k == e.Key() {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("entry (%d,%d) missing from index of principle %d",
					e.Improving, e.Worsening, p)
			}
		}
	}
}

func TestPrinciplesFor_Errors(t *testing.T) {
	m := newLoaded(t)
	if _, err := m.PrinciplesFor(0); !errors.Is(err, triz.ErrOutOfRange) {
		t.Errorf("PrinciplesFor(0) = %v, want ErrOutOfRange", err)
	}
	if _, err := m.PrinciplesFor(41); !errors.Is(err, triz.ErrOutOfRange) {
		t.Errorf("PrinciplesFor(41) = %v, want ErrOutOfRange", err)
	}
}

func TestParameterRelationships(t *testing.T) {
	m := newLoaded(t)

	rel, err := m.ParameterRelationships(1)
	if err != nil {
		t.Fatalf("ParameterRelationships(1): %v", err)
	}
	if rel.ParameterName != "Weight of moving object" {
		t.Errorf("name = %q", rel.ParameterName)
	}
	wantWorsens := []int{2, 3, 9, 10, 11, 14, 27, 36}
	if diff := cmp.Diff(wantWorsens, rel.FrequentlyWorsens); diff != "" {
		t.Errorf("FrequentlyWorsens (-want +got):\n%s", diff)
	}
	wantImproves := []int{9, 14, 17, 27, 32, 33, 39}
	if diff := cmp.Diff(wantImproves, rel.FrequentlyImproves); diff != "" {
		t.Errorf("FrequentlyImproves (-want +got):\n%s", diff)
	}
	if len(rel.TopPrinciplesImprove) == 0 || len(rel.TopPrinciplesWorsen) == 0 {
		t.Error("expected non-empty top principle lists")
	}

	if _, err := m.ParameterRelationships(40); !errors.Is(err, triz.ErrOutOfRange) {
		t.Errorf("ParameterRelationships(40) = %v, want ErrOutOfRange", err)
	}
}

func TestSuggestReformulations(t *testing.T) {
	m := newLoaded(t)

	// (1,14) has no entry for (2,14) or (1,15), but reliability (27) is
	// in strength's group and (1,27) is mapped.
	got, err := m.SuggestReformulations(1, 14, 5)
	if err != nil {
		t.Fatalf("SuggestReformulations: %v", err)
	}
	found := false
	for _, r := range got {
		if r.Improving == 1 && r.Worsening == 14 {
			t.Error("reformulations include the original pair")
		}
		if r.Improving == 1 && r.Worsening == 27 {
			found = true
			if len(r.Principles) > 3 {
				t.Errorf("principle preview too long: %v", r.Principles)
			}
			if r.Description == "" {
				t.Error("empty description")
			}
		}
	}
	if !found {
		t.Errorf("expected (1,27) among reformulations, got %+v", got)
	}

	if _, err := m.SuggestReformulations(5, 5, 3); !errors.Is(err, triz.ErrDegenerate) {
		t.Errorf("degenerate pair error = %v", err)
	}
}

func TestMostUsedPrinciples(t *testing.T) {
	m := newLoaded(t)

	top := m.MostUsedPrinciples(5)
	if len(top) != 5 {
		t.Fatalf("len = %d, want 5", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Count > top[i-1].Count {
			t.Errorf("not sorted by count at index %d", i)
		}
	}
	// Principle 35 dominates the classical matrix.
	if top[0].PrincipleID != 35 {
		t.Errorf("top principle = %d, want 35", top[0].PrincipleID)
	}
}

func TestLoad_Validation(t *testing.T) {
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}

	tests := []struct {
		name  string
		entry Entry
		want  error
	}{
		{"bad parameter", Entry{Improving: 0, Worsening: 14, Principles: []int{1}, Confidence: 0.5}, triz.ErrOutOfRange},
		{"degenerate", Entry{Improving: 3, Worsening: 3, Principles: []int{1}, Confidence: 0.5}, triz.ErrDegenerate},
		{"bad principle", Entry{Improving: 1, Worsening: 14, Principles: []int{41}, Confidence: 0.5}, triz.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(c)
			err := m.Load([]Entry{tt.entry})
			if !errors.Is(err, tt.want) {
				t.Errorf("Load = %v, want %v", err, tt.want)
			}
		})
	}

	m := New(c)
	dup := Entry{Improving: 1, Worsening: 14, Principles: []int{1, 8, 1}, Confidence: 0.5}
	if err := m.Load([]Entry{dup}); err == nil {
		t.Error("Load accepted duplicate principle recommendation")
	}
	bad := Entry{Improving: 1, Worsening: 14, Principles: []int{1}, Confidence: 1.5}
	if err := m.Load([]Entry{bad}); err == nil {
		t.Error("Load accepted confidence > 1")
	}
}

func TestLoad_ReplacesAndReindexes(t *testing.T) {
	m := newLoaded(t)

	next := []Entry{
		{Improving: 2, Worsening: 13, Principles: []int{6, 7}, Confidence: 0.6, Applications: 5},
	}
	if err := m.Load(next); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
	if _, err := m.Lookup(1, 14); !errors.Is(err, triz.ErrNotFound) {
		t.Errorf("old entry survived reload: %v", err)
	}
	keys, err := m.PrinciplesFor(6)
	if err != nil {
		t.Fatalf("PrinciplesFor(6): %v", err)
	}
	want := []Key{{Improving: 2, Worsening: 13}}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("reverse index (-want +got):\n%s", diff)
	}
	// Principle 35 was heavily indexed before the reload.
	keys, err = m.PrinciplesFor(35)
	if err != nil {
		t.Fatalf("PrinciplesFor(35): %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("stale reverse index for principle 35: %v", keys)
	}
}

func TestLoadFile(t *testing.T) {
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}

	path := filepath.Join(t.TempDir(), "entries.yaml")
	doc := `entries:
  - improving: 1
    worsening: 14
    principles: [1, 8, 15, 40]
    confidence: 0.9
    applications: 100
  - improving: 9
    worsening: 28
    principles: [28, 32]
    confidence: 0.7
    applications: 30
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := New(c)
	if err := m.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
	e, err := m.Lookup(9, 28)
	if err != nil {
		t.Fatalf("Lookup(9,28): %v", err)
	}
	if diff := cmp.Diff([]int{28, 32}, e.Principles); diff != "" {
		t.Errorf("principles (-want +got):\n%s", diff)
	}

	if err := m.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile succeeded on missing file")
	}
}
