package format

import (
	"fmt"
	"strings"

	"triz/internal/catalog"
	"triz/internal/matrix"
	"triz/internal/session"
)

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}

// Sessions renders the session list.
func Sessions(m Mode, sessions []*session.Session) string {
	tb := NewTable(m)
	tb.Header("ID", "Stage", "Problem", "Updated")
	tb.Columns(ColumnConfig{Number: 3, MaxWidth: 48})
	for _, s := range sessions {
		tb.Row(s.ID, s.Stage, Truncate(s.Problem, 48), s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tb.String()
}

// Principle renders a single principle with its sub-principles and
// examples.
func Principle(p catalog.Principle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Principle %d: %s\n%s\n", p.ID, p.Name, p.Description)
	if len(p.SubPrinciples) > 0 {
		b.WriteString("\nSub-principles:\n")
		for _, s := range p.SubPrinciples {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	if len(p.Examples) > 0 {
		b.WriteString("\nExamples:\n")
		for _, e := range p.Examples {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	if len(p.Domains) > 0 {
		fmt.Fprintf(&b, "\nDomains: %s\n", strings.Join(p.Domains, ", "))
	}
	if len(p.Related) > 0 {
		fmt.Fprintf(&b, "Related principles: %s\n", joinInts(p.Related))
	}
	return b.String()
}

// MatrixEntry renders an exact lookup result with the principle names
// resolved.
func MatrixEntry(c *catalog.Catalog, e matrix.Entry) string {
	var b strings.Builder
	imp, _ := c.Parameter(e.Improving)
	wor, _ := c.Parameter(e.Worsening)
	fmt.Fprintf(&b, "Improving %q while %q worsens (confidence %.2f, %d recorded applications):\n",
		imp.Name, wor.Name, e.Confidence, e.Applications)
	for _, id := range e.Principles {
		p, err := c.Principle(id)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "  %2d. %s\n", p.ID, p.Name)
	}
	return b.String()
}

// Similar renders near-miss entries for an unmapped pair.
func Similar(m Mode, c *catalog.Catalog, entries []matrix.Entry) string {
	tb := NewTable(m)
	tb.Header("Improving", "Worsening", "Principles", "Confidence")
	tb.Columns(ColumnConfig{Number: 4, Right: true})
	for _, e := range entries {
		imp, _ := c.Parameter(e.Improving)
		wor, _ := c.Parameter(e.Worsening)
		tb.Row(imp.Name, wor.Name, joinInts(e.Principles), fmt.Sprintf("%.2f", e.Confidence))
	}
	return tb.String()
}

// Concepts renders generated solution concepts.
func Concepts(concepts []session.Concept) string {
	var b strings.Builder
	for i, c := range concepts {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s\n", c.ID, c.Title)
		fmt.Fprintf(&b, "  %s\n", c.Description)
		fmt.Fprintf(&b, "  principles: %s | feasibility: %.2f | innovation: %d/5\n",
			joinInts(c.Principles), c.Feasibility, c.Innovation)
		for _, p := range c.Pros {
			fmt.Fprintf(&b, "  + %s\n", p)
		}
		for _, n := range c.Cons {
			fmt.Fprintf(&b, "  - %s\n", n)
		}
	}
	return b.String()
}

// Step renders a workflow step result: the stage, its artifacts, and
// the guidance line.
func Step(res session.Session, guidance string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "session %s | stage %d/6: %s\n", res.ID, res.Stage.Ordinal(), res.Stage)
	if res.IdealResult != "" {
		fmt.Fprintf(&b, "ideal final result: %s\n", res.IdealResult)
	}
	for _, c := range res.Contradictions {
		fmt.Fprintf(&b, "contradiction: %s (%d) vs %s (%d)", c.ImprovingName, c.Improving, c.WorseningName, c.Worsening)
		if len(c.Principles) > 0 {
			fmt.Fprintf(&b, " -> principles %s (confidence %.2f)", joinInts(c.Principles), c.Confidence)
		}
		b.WriteString("\n")
	}
	if len(res.Principles) > 0 {
		fmt.Fprintf(&b, "selected principles: %s\n", joinInts(res.Principles))
	}
	if len(res.Concepts) > 0 {
		b.WriteString(Concepts(res.Concepts))
	}
	if res.Evaluation != "" {
		fmt.Fprintf(&b, "evaluation: %s\n", res.Evaluation)
	}
	if guidance != "" {
		fmt.Fprintf(&b, "\n%s\n", guidance)
	}
	return b.String()
}
