package matrix

import (
	"fmt"

	"triz/internal/triz"
)

// relatedGroups clusters parameters that tend to be interchangeable when
// reformulating a contradiction: weight, size, shape-related area and
// volume, energy and power, force and stress, strength and durability,
// temperature, loss of substance and energy, measurement and
// manufacturing, harm and repair, and system complexity.
var relatedGroups = [][]int{
	{1, 2},
	{3, 4, 5},
	{6, 9, 19, 20},
	{7, 8, 10, 11},
	{14, 15, 27},
	{16, 17},
	{18, 21, 22},
	{28, 29, 39},
	{32, 33, 34, 35},
	{36, 37, 38},
}

// Reformulation is an alternative framing of a contradiction, substituting
// a related parameter for one side of the original pair.
type Reformulation struct {
	Improving   int     `json:"improving"`
	Worsening   int     `json:"worsening"`
	Description string  `json:"description"`
	Principles  []int   `json:"principles"` // top 3 of the mapped entry
	Confidence  float64 `json:"confidence"`
}

// SuggestReformulations substitutes each side of the pair with related
// parameters from the same group and keeps only substitutions that map
// to an existing entry. Used when an exact lookup misses, and as a
// second opinion when it hits.
func (m *Matrix) SuggestReformulations(improving, worsening, maxResults int) ([]Reformulation, error) {
	if !triz.ValidParameterID(improving) || !triz.ValidParameterID(worsening) {
		return nil, fmt.Errorf("%w: pair (%d,%d)", triz.ErrOutOfRange, improving, worsening)
	}
	if improving == worsening {
		return nil, fmt.Errorf("%w: parameter %d vs itself", triz.ErrDegenerate, improving)
	}
	if maxResults <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Reformulation
	add := func(imp, wor int, note string) {
		if imp == improving && wor == worsening {
			return
		}
		if imp == wor {
			return
		}
		e, ok := m.entries[Key{Improving: imp, Worsening: wor}]
		if !ok {
			return
		}
		top := e.Principles
		if len(top) > 3 {
			top = top[:3]
		}
		impName, worName := m.names(imp, wor)
		out = append(out, Reformulation{
			Improving:   imp,
			Worsening:   wor,
			Description: fmt.Sprintf("%s: improve %q while limiting harm to %q", note, impName, worName),
			Principles:  append([]int(nil), top...),
			Confidence:  e.Confidence,
		})
	}

	for _, alt := range related(improving) {
		add(alt, worsening, "Restate the gain")
		if len(out) >= maxResults {
			return out[:maxResults], nil
		}
	}
	for _, alt := range related(worsening) {
		add(improving, alt, "Restate the cost")
		if len(out) >= maxResults {
			return out[:maxResults], nil
		}
	}
	return out, nil
}

// related returns the other members of id's group, in group order.
func related(id int) []int {
	for _, group := range relatedGroups {
		for _, member := range group {
			if member != id {
				continue
			}
			out := make([]int, 0, len(group)-1)
			for _, other := range group {
				if other != id {
					out = append(out, other)
				}
			}
			return out
		}
	}
	return nil
}

func (m *Matrix) names(improving, worsening int) (string, string) {
	impName := fmt.Sprintf("parameter %d", improving)
	worName := fmt.Sprintf("parameter %d", worsening)
	if p, err := m.catalog.Parameter(improving); err == nil {
		impName = p.Name
	}
	if p, err := m.catalog.Parameter(worsening); err == nil {
		worName = p.Name
	}
	return impName, worName
}
