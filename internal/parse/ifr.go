package parse

import (
	"fmt"
	"strings"
)

// IdealResult derives an ideal final result statement: the benefit
// delivered by the system itself, with the stated cost eliminated
// rather than traded off.
func IdealResult(problem string) string {
	trimmed := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(problem), "."))
	if trimmed == "" {
		return "The system delivers the required function by itself, with no added cost, complexity, or harm."
	}

	lower := strings.ToLower(trimmed)
	for _, sep := range splitters {
		idx := strings.Index(lower, " "+sep+" ")
		if idx < 0 {
			continue
		}
		gain := strings.TrimSpace(trimmed[:idx])
		cost := strings.TrimSpace(trimmed[idx+len(sep)+2:])
		if gain == "" || cost == "" {
			continue
		}
		return fmt.Sprintf(
			"Ideally, %s by itself, while %s is fully preserved, at no added cost or complexity.",
			lowerFirst(gain), lowerFirst(cost))
	}
	return fmt.Sprintf(
		"Ideally, %s by itself, with no added cost, complexity, or harm.",
		lowerFirst(trimmed))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	// Leave likely acronyms and proper-noun starts alone only when the
	// second rune is also upper case.
	if len(r) > 1 && r[1] >= 'A' && r[1] <= 'Z' {
		return s
	}
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] - 'A' + 'a'
	}
	return string(r)
}
