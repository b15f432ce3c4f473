// Package synth turns selected inventive principles into concrete
// solution concepts for a stated problem.
package synth

import (
	"fmt"
	"sort"
	"strings"

	"triz/internal/catalog"
	"triz/internal/session"
	"triz/internal/triz"
)

// DefaultMaxConcepts bounds concept generation when the caller passes
// no explicit cap.
const DefaultMaxConcepts = 5

// minConcepts is the floor the synthesizer works toward when enough
// principle material exists.
const minConcepts = 3

// Synthesizer generates solution concepts from principles and the
// contradictions they were recommended for.
type Synthesizer struct {
	catalog *catalog.Catalog
}

// New returns a Synthesizer over the given catalog.
func New(c *catalog.Catalog) *Synthesizer {
	return &Synthesizer{catalog: c}
}

// Generate produces between minConcepts and max concepts: one per
// selected principle, highest-confidence-associated-contradiction
// first, then a hybrid of the two strongest principles. When that falls
// short of the floor, sub-principle variants, related principles, and
// example adaptations fill up; every catalog principle carries enough
// fixed material to reach the floor alone. Feasibility reflects the
// confidence of the best matching contradiction; innovation comes from
// the principle catalog.
func (s *Synthesizer) Generate(problem string, contradictions []session.Contradiction, principleIDs []int, max int) ([]session.Concept, error) {
	if len(principleIDs) == 0 {
		return nil, fmt.Errorf("%w: no principles selected", triz.ErrInsufficientPrinciples)
	}
	if max <= 0 {
		max = DefaultMaxConcepts
	}

	principles := make([]catalog.Principle, 0, len(principleIDs))
	for _, id := range principleIDs {
		p, err := s.catalog.Principle(id)
		if err != nil {
			return nil, err
		}
		principles = append(principles, p)
	}
	// Caller order breaks ties.
	sort.SliceStable(principles, func(i, j int) bool {
		return principleConfidence(principles[i].ID, contradictions) >
			principleConfidence(principles[j].ID, contradictions)
	})

	var out []session.Concept
	add := func(c session.Concept) bool {
		if len(out) >= max {
			return false
		}
		c.ID = fmt.Sprintf("concept-%d", len(out)+1)
		out = append(out, c)
		return true
	}

	for _, p := range principles {
		if !add(s.principleConcept(problem, p, contradictions)) {
			break
		}
	}

	if len(out) < max && len(principles) >= 2 {
		add(s.hybridConcept(problem, principles[0], principles[1], contradictions))
	}

	// Fill passes run only when the selection is too small to reach the
	// floor on its own. Sub-principle variants first, then related
	// principles, then documented example adaptations.
	for _, p := range principles {
		if len(out) >= minConcepts {
			break
		}
		for i, sub := range p.SubPrinciples {
			if i == 0 {
				// The first sub-principle already shaped the base concept.
				continue
			}
			if len(out) >= minConcepts || len(out) >= max {
				break
			}
			add(s.variantConcept(problem, p, sub, contradictions))
		}
	}

	used := make(map[int]bool, len(principleIDs))
	for _, id := range principleIDs {
		used[id] = true
	}
	for _, p := range principles {
		if len(out) >= minConcepts {
			break
		}
		for _, rel := range p.Related {
			if len(out) >= minConcepts || len(out) >= max {
				break
			}
			if used[rel] {
				continue
			}
			rp, err := s.catalog.Principle(rel)
			if err != nil {
				continue
			}
			used[rel] = true
			add(s.principleConcept(problem, rp, contradictions))
		}
	}

	for _, p := range principles {
		if len(out) >= minConcepts {
			break
		}
		for _, example := range p.Examples {
			if len(out) >= minConcepts || len(out) >= max {
				break
			}
			add(s.exampleConcept(problem, p, example, contradictions))
		}
	}

	return out, nil
}

func (s *Synthesizer) principleConcept(problem string, p catalog.Principle, contradictions []session.Contradiction) session.Concept {
	var b strings.Builder
	fmt.Fprintf(&b, "Apply %s: %s", p.Name, p.Description)
	if len(p.SubPrinciples) > 0 {
		fmt.Fprintf(&b, " Concretely, %s", lowerSentence(p.SubPrinciples[0]))
	}
	if problem != "" {
		fmt.Fprintf(&b, " Target: %s.", strings.TrimRight(strings.TrimSpace(problem), "."))
	}

	innovation := clampInnovation(p.InnovationLevel)
	return session.Concept{
		Title:       fmt.Sprintf("%s approach", p.Name),
		Description: b.String(),
		Principles:  []int{p.ID},
		Pros:        prosFor(p),
		Cons:        consFor(innovation, p),
		Feasibility: feasibility([]int{p.ID}, innovation, contradictions),
		Innovation:  innovation,
	}
}

func (s *Synthesizer) hybridConcept(problem string, a, b catalog.Principle, contradictions []session.Contradiction) session.Concept {
	innovation := clampInnovation(maxInt(a.InnovationLevel, b.InnovationLevel) + 1)
	desc := fmt.Sprintf(
		"Combine %s with %s: use %s to restructure the system, then apply %s to resolve the residual conflict.",
		a.Name, b.Name, lowerSentence(a.Name), lowerSentence(b.Name))
	if problem != "" {
		desc += fmt.Sprintf(" Target: %s.", strings.TrimRight(strings.TrimSpace(problem), "."))
	}
	return session.Concept{
		Title:       fmt.Sprintf("%s + %s hybrid", a.Name, b.Name),
		Description: desc,
		Principles:  []int{a.ID, b.ID},
		Pros:        prosFor(a, b),
		Cons:        append(consFor(innovation, a, b), "Combining two principles raises integration effort"),
		Feasibility: feasibility([]int{a.ID, b.ID}, innovation, contradictions),
		Innovation:  innovation,
	}
}

// exampleConcept transfers a documented application of the principle
// onto the stated problem.
func (s *Synthesizer) exampleConcept(problem string, p catalog.Principle, example string, contradictions []session.Contradiction) session.Concept {
	desc := fmt.Sprintf("Transfer a known use of %s: %s", p.Name, strings.TrimRight(strings.TrimSpace(example), "."))
	desc += "."
	if problem != "" {
		desc += fmt.Sprintf(" Target: %s.", strings.TrimRight(strings.TrimSpace(problem), "."))
	}
	innovation := clampInnovation(p.InnovationLevel)
	return session.Concept{
		Title:       fmt.Sprintf("%s adaptation", p.Name),
		Description: desc,
		Principles:  []int{p.ID},
		Pros:        prosFor(p),
		Cons:        consFor(innovation, p),
		Feasibility: feasibility([]int{p.ID}, innovation, contradictions),
		Innovation:  innovation,
	}
}

func (s *Synthesizer) variantConcept(problem string, p catalog.Principle, sub string, contradictions []session.Contradiction) session.Concept {
	desc := fmt.Sprintf("Variant of %s: %s", p.Name, sub)
	if problem != "" {
		desc += fmt.Sprintf(" Target: %s.", strings.TrimRight(strings.TrimSpace(problem), "."))
	}
	innovation := clampInnovation(p.InnovationLevel)
	return session.Concept{
		Title:       fmt.Sprintf("%s variant", p.Name),
		Description: desc,
		Principles:  []int{p.ID},
		Pros:        prosFor(p),
		Cons:        consFor(innovation, p),
		Feasibility: feasibility([]int{p.ID}, innovation, contradictions),
		Innovation:  innovation,
	}
}

// prosFor and consFor draw their text from the fixed catalog entries;
// no free-form generation happens here.
func prosFor(ps ...catalog.Principle) []string {
	var out []string
	for _, p := range ps {
		if len(p.Examples) > 0 {
			out = append(out, fmt.Sprintf("Proven application of %s: %s", p.Name, p.Examples[0]))
		} else {
			out = append(out, fmt.Sprintf("Directly applies %s: %s", p.Name, p.Description))
		}
		if len(p.Domains) > 0 {
			out = append(out, fmt.Sprintf("%s is established in %s", p.Name, strings.Join(p.Domains, ", ")))
		}
	}
	return out
}

func consFor(innovation int, ps ...catalog.Principle) []string {
	var out []string
	if innovation >= 4 {
		out = append(out, fmt.Sprintf("High innovation level (%d/5) raises implementation risk", innovation))
	}
	for _, p := range ps {
		if len(p.SubPrinciples) > 1 {
			out = append(out, fmt.Sprintf("%s offers %d variants; the right one must be narrowed down", p.Name, len(p.SubPrinciples)))
		}
	}
	if len(out) == 0 {
		out = append(out, "Well-established approach; gains may be incremental")
	}
	return out
}

// principleConfidence is the highest confidence among contradictions
// whose recommendations include the principle, 0 when none does.
func principleConfidence(id int, contradictions []session.Contradiction) float64 {
	best := 0.0
	for _, c := range contradictions {
		for _, rec := range c.Principles {
			if rec == id && c.Confidence > best {
				best = c.Confidence
			}
		}
	}
	return best
}

// feasibility starts from the confidence of the highest-confidence
// contradiction that recommended any of the concept's principles, or
// 0.6 when the concept is not anchored to a contradiction. Highly
// inventive concepts carry a small feasibility penalty.
func feasibility(principleIDs []int, innovation int, contradictions []session.Contradiction) float64 {
	conf := 0.0
	for _, id := range principleIDs {
		if c := principleConfidence(id, contradictions); c > conf {
			conf = c
		}
	}
	base := 0.6
	if conf > 0 {
		base = conf
	}
	return clamp01(penalize(base, innovation))
}

func penalize(f float64, innovation int) float64 {
	if innovation >= 4 {
		return f - 0.1
	}
	return f
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func clampInnovation(n int) int {
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func lowerSentence(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] - 'A' + 'a'
	}
	return string(r)
}
