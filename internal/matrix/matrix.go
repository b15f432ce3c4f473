// Package matrix implements the TRIZ contradiction matrix: exact pair
// lookup, similarity search over parameter pairs, the principle reverse
// index, parameter relationship analysis, and alternative problem
// formulations.
package matrix

import (
	"fmt"
	"sort"
	"sync"

	"triz/internal/catalog"
	"triz/internal/triz"
)

// Key is the ordered (improving, worsening) parameter pair. (a,b) and
// (b,a) are distinct entries and may carry different recommendations.
type Key struct {
	Improving int `json:"improving" yaml:"improving"`
	Worsening int `json:"worsening" yaml:"worsening"`
}

// Entry is one cell of the contradiction matrix.
type Entry struct {
	Improving    int     `json:"improving" yaml:"improving"`
	Worsening    int     `json:"worsening" yaml:"worsening"`
	Principles   []int   `json:"principles" yaml:"principles"` // ranked, no duplicates
	Confidence   float64 `json:"confidence" yaml:"confidence"` // [0,1]
	Applications int     `json:"applications" yaml:"applications"`
}

// Key returns the map key for the entry.
func (e Entry) Key() Key { return Key{Improving: e.Improving, Worsening: e.Worsening} }

// Matrix owns the entry map, the parameter catalog, and the derived
// principle -> keys reverse index. Reads are lock-free relative to each
// other; a bulk load is a write barrier, so no lookup ever observes a
// half-rebuilt reverse index.
type Matrix struct {
	catalog *catalog.Catalog

	mu      sync.RWMutex
	entries map[Key]Entry
	reverse map[int][]Key
}

// New returns an empty matrix over the given catalog. Call Load,
// LoadDefaults, or LoadFile before the first lookup.
func New(c *catalog.Catalog) *Matrix {
	return &Matrix{
		catalog: c,
		entries: map[Key]Entry{},
		reverse: map[int][]Key{},
	}
}

// Load replaces all entries with the given set and rebuilds the reverse
// index before returning. A duplicate (improving, worsening) key
// overwrites the earlier entry. Entries with invalid ids, a degenerate
// pair, duplicate principle recommendations, or a confidence outside
// [0,1] are rejected and fail the whole load.
func (m *Matrix) Load(entries []Entry) error {
	next := make(map[Key]Entry, len(entries))
	for _, e := range entries {
		if err := validateEntry(e); err != nil {
			return err
		}
		next[e.Key()] = e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = next
	m.rebuildReverseLocked()
	return nil
}

func validateEntry(e Entry) error {
	if !triz.ValidParameterID(e.Improving) || !triz.ValidParameterID(e.Worsening) {
		return fmt.Errorf("%w: entry (%d,%d)", triz.ErrOutOfRange, e.Improving, e.Worsening)
	}
	if e.Improving == e.Worsening {
		return fmt.Errorf("%w: entry (%d,%d)", triz.ErrDegenerate, e.Improving, e.Worsening)
	}
	if len(e.Principles) == 0 {
		return fmt.Errorf("matrix: entry (%d,%d) has no principles", e.Improving, e.Worsening)
	}
	seen := make(map[int]bool, len(e.Principles))
	for _, p := range e.Principles {
		if !triz.ValidPrincipleID(p) {
			return fmt.Errorf("%w: entry (%d,%d) recommends principle %d",
				triz.ErrOutOfRange, e.Improving, e.Worsening, p)
		}
		if seen[p] {
			return fmt.Errorf("matrix: entry (%d,%d) recommends principle %d twice",
				e.Improving, e.Worsening, p)
		}
		seen[p] = true
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return fmt.Errorf("matrix: entry (%d,%d) confidence %v outside [0,1]",
			e.Improving, e.Worsening, e.Confidence)
	}
	if e.Applications < 0 {
		return fmt.Errorf("matrix: entry (%d,%d) negative applications", e.Improving, e.Worsening)
	}
	return nil
}

// rebuildReverseLocked recomputes the principle -> keys index. Caller
// holds the write lock.
func (m *Matrix) rebuildReverseLocked() {
	m.reverse = make(map[int][]Key, triz.MaxPrincipleID)
	keys := make([]Key, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Improving != keys[j].Improving {
			return keys[i].Improving < keys[j].Improving
		}
		return keys[i].Worsening < keys[j].Worsening
	})
	for _, k := range keys {
		for _, p := range m.entries[k].Principles {
			m.reverse[p] = append(m.reverse[p], k)
		}
	}
}

// Len returns the number of loaded entries.
func (m *Matrix) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Lookup performs an exact key lookup for the ordered pair. No fallback
// or fuzzy matching happens here; an unmapped pair is ErrNotFound.
func (m *Matrix) Lookup(improving, worsening int) (Entry, error) {
	if !triz.ValidParameterID(improving) {
		return Entry{}, fmt.Errorf("%w: improving parameter %d not in [%d,%d]",
			triz.ErrOutOfRange, improving, triz.MinParameterID, triz.MaxParameterID)
	}
	if !triz.ValidParameterID(worsening) {
		return Entry{}, fmt.Errorf("%w: worsening parameter %d not in [%d,%d]",
			triz.ErrOutOfRange, worsening, triz.MinParameterID, triz.MaxParameterID)
	}
	if improving == worsening {
		return Entry{}, fmt.Errorf("%w: parameter %d vs itself", triz.ErrDegenerate, improving)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[Key{Improving: improving, Worsening: worsening}]
	if !ok {
		return Entry{}, fmt.Errorf("%w: (%d,%d)", triz.ErrNotFound, improving, worsening)
	}
	return e, nil
}

// FindSimilar returns entries sharing the improving or the worsening
// parameter with the queried pair (the exact pair excluded), ordered by
// descending (confidence, applications). It supports recovery when the
// exact pair is unmapped.
func (m *Matrix) FindSimilar(improving, worsening, maxResults int) ([]Entry, error) {
	if !triz.ValidParameterID(improving) || !triz.ValidParameterID(worsening) {
		return nil, fmt.Errorf("%w: pair (%d,%d)", triz.ErrOutOfRange, improving, worsening)
	}
	if maxResults <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	var out []Entry
	for k, e := range m.entries {
		if k.Improving == improving && k.Worsening == worsening {
			continue
		}
		if k.Improving == improving || k.Worsening == worsening {
			out = append(out, e)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if out[i].Applications != out[j].Applications {
			return out[i].Applications > out[j].Applications
		}
		if out[i].Improving != out[j].Improving {
			return out[i].Improving < out[j].Improving
		}
		return out[i].Worsening < out[j].Worsening
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

// PrinciplesFor returns the keys of every entry recommending the given
// principle, via the reverse index. A principle with no matrix
// associations yields an empty slice, not an error.
func (m *Matrix) PrinciplesFor(principleID int) ([]Key, error) {
	if !triz.ValidPrincipleID(principleID) {
		return nil, fmt.Errorf("%w: principle id %d not in [%d,%d]",
			triz.ErrOutOfRange, principleID, triz.MinPrincipleID, triz.MaxPrincipleID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := m.reverse[principleID]
	out := make([]Key, len(keys))
	copy(out, keys)
	return out, nil
}

// PrincipleCount pairs a principle id with how often it occurs in a scan.
type PrincipleCount struct {
	PrincipleID int `json:"principle_id"`
	Count       int `json:"count"`
}

// Relationships summarizes how one parameter participates in the matrix.
type Relationships struct {
	ParameterID          int              `json:"parameter_id"`
	ParameterName        string           `json:"parameter_name"`
	FrequentlyImproves   []int            `json:"frequently_improves_with"`
	FrequentlyWorsens    []int            `json:"frequently_worsens_with"`
	TopPrinciplesImprove []PrincipleCount `json:"top_principles_when_improving"`
	TopPrinciplesWorsen  []PrincipleCount `json:"top_principles_when_worsening"`
}

// ParameterRelationships scans all entries where the parameter appears
// as improving or as worsening. O(entries), which is bounded by 39x38.
func (m *Matrix) ParameterRelationships(parameterID int) (Relationships, error) {
	param, err := m.catalog.Parameter(parameterID)
	if err != nil {
		return Relationships{}, err
	}

	improvesWith := map[int]bool{}
	worsensWith := map[int]bool{}
	whenImproving := map[int]int{}
	whenWorsening := map[int]int{}

	m.mu.RLock()
	for k, e := range m.entries {
		if k.Improving == parameterID {
			worsensWith[k.Worsening] = true
			for _, p := range e.Principles {
				whenImproving[p]++
			}
		}
		if k.Worsening == parameterID {
			improvesWith[k.Improving] = true
			for _, p := range e.Principles {
				whenWorsening[p]++
			}
		}
	}
	m.mu.RUnlock()

	return Relationships{
		ParameterID:          parameterID,
		ParameterName:        param.Name,
		FrequentlyImproves:   sortedIDs(improvesWith),
		FrequentlyWorsens:    sortedIDs(worsensWith),
		TopPrinciplesImprove: topCounts(whenImproving, 5),
		TopPrinciplesWorsen:  topCounts(whenWorsening, 5),
	}, nil
}

// MostUsedPrinciples ranks principles by how many entries recommend them.
func (m *Matrix) MostUsedPrinciples(topK int) []PrincipleCount {
	m.mu.RLock()
	counts := make(map[int]int, triz.MaxPrincipleID)
	for p, keys := range m.reverse {
		counts[p] = len(keys)
	}
	m.mu.RUnlock()
	return topCounts(counts, topK)
}

func sortedIDs(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func topCounts(counts map[int]int, k int) []PrincipleCount {
	out := make([]PrincipleCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, PrincipleCount{PrincipleID: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PrincipleID < out[j].PrincipleID
	})
	if k >= 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
