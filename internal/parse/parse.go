// Package parse extracts technical contradictions and an ideal final
// result from free-form problem statements. It is a deterministic
// keyword matcher; the workflow engine accepts alternatives (an LLM
// collaborator, a structured form) through the same function shape.
package parse

import (
	"sort"
	"strings"
)

// Pair is a candidate contradiction expressed as parameter ids.
type Pair struct {
	Improving   int
	Worsening   int
	Description string
}

// parameterKeywords maps engineering parameter ids to surface cues.
// Only parameters with distinctive everyday vocabulary are listed;
// matching is substring-based on the lowercased statement.
var parameterKeywords = map[int][]string{
	1:  {"weight", "mass", "heavy", "heavier", "light", "lighter"},
	3:  {"length", "longer", "shorter"},
	5:  {"area", "surface"},
	7:  {"volume", "bulky"},
	9:  {"speed", "fast", "faster", "quick", "velocity", "slow"},
	10: {"force", "thrust", "load"},
	11: {"stress", "pressure", "tension"},
	12: {"shape", "geometry", "form"},
	13: {"stability", "stable", "unstable", "wobble"},
	14: {"strength", "strong", "stronger", "break", "crack", "fracture"},
	15: {"durability", "durable", "lifetime", "wear", "lifespan"},
	17: {"temperature", "heat", "thermal", "overheat", "cooling", "hot"},
	19: {"energy", "consumption", "battery"},
	21: {"power", "wattage"},
	22: {"energy loss", "heat loss", "dissipation"},
	23: {"material waste", "leak", "scrap", "substance loss"},
	25: {"time", "delay", "waiting", "downtime", "cycle time"},
	26: {"quantity", "amount of material"},
	27: {"reliability", "reliable", "failure", "fail", "fault"},
	28: {"accuracy", "accurate", "precision", "precise", "measurement"},
	31: {"side effect", "harmful", "damage", "pollution", "noise"},
	32: {"manufactur", "fabricat", "assembly", "machining", "production cost"},
	33: {"ease of use", "usability", "user-friendly", "convenient", "operate"},
	34: {"repair", "maintenance", "maintain", "serviceability"},
	35: {"adaptability", "flexib", "adapt", "versatil"},
	36: {"complexity", "complex", "complicated", "intricate"},
	38: {"automation", "automat", "unattended"},
	39: {"productivity", "throughput", "output", "yield"},
}

// splitters separate the desired gain from the accepted cost in a
// statement. Checked in order; the first found wins.
var splitters = []string{
	"without",
	"at the expense of",
	"while keeping",
	"while",
	"but",
	"however",
	"yet",
}

// detect returns parameter ids whose keywords occur in text, in id
// order, each at most once.
func detect(text string) []int {
	text = strings.ToLower(text)
	ids := make([]int, 0, len(parameterKeywords))
	for id := range parameterKeywords {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out []int
	for _, id := range ids {
		for _, kw := range parameterKeywords[id] {
			if strings.Contains(text, kw) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// maxPairs caps how many contradictions a single statement yields.
const maxPairs = 3

// Contradictions extracts candidate contradictions from a problem
// statement. When a splitter word separates gain from cost, parameters
// found before it improve and parameters after it worsen. Without a
// splitter, consecutively mentioned parameters are paired in reading
// order. An empty result means no contradiction was recognized.
func Contradictions(text string) []Pair {
	lower := strings.ToLower(text)

	for _, sep := range splitters {
		idx := strings.Index(lower, " "+sep+" ")
		if idx < 0 {
			continue
		}
		gain := detect(lower[:idx])
		cost := detect(lower[idx+len(sep)+2:])
		pairs := crossPairs(gain, cost)
		if len(pairs) > 0 {
			return pairs
		}
	}

	// No usable splitter: pair mentions in order of appearance.
	found := detectOrdered(lower)
	var out []Pair
	for i := 0; i+1 < len(found) && len(out) < maxPairs; i += 2 {
		out = append(out, Pair{
			Improving:   found[i],
			Worsening:   found[i+1],
			Description: "inferred from parameter mentions",
		})
	}
	return out
}

func crossPairs(gain, cost []int) []Pair {
	var out []Pair
	for _, g := range gain {
		for _, c := range cost {
			if g == c {
				continue
			}
			out = append(out, Pair{
				Improving:   g,
				Worsening:   c,
				Description: "gain stated against an accepted cost",
			})
			if len(out) == maxPairs {
				return out
			}
		}
	}
	return out
}

// detectOrdered returns parameter ids ordered by first occurrence.
func detectOrdered(lower string) []int {
	type hit struct {
		id  int
		pos int
	}
	var hits []hit
	for _, id := range detect(lower) {
		best := -1
		for _, kw := range parameterKeywords[id] {
			if p := strings.Index(lower, kw); p >= 0 && (best < 0 || p < best) {
				best = p
			}
		}
		hits = append(hits, hit{id: id, pos: best})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].id < hits[j].id
	})
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}
