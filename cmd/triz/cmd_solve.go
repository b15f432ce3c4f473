package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"triz/internal/format"
	"triz/internal/parse"
	"triz/internal/session"
	"triz/internal/synth"
)

var solveFlags struct {
	maxConcepts int
}

var solveCmd = &cobra.Command{
	Use:   "solve <problem>",
	Short: "One-shot analysis of a problem statement",
	Long: `Detects contradictions in the problem text, resolves them against the
matrix, and synthesizes solution concepts — without creating a session.
Use 'workflow start' for the staged, resumable flow.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().IntVar(&solveFlags.maxConcepts, "max-concepts", synth.DefaultMaxConcepts, "Maximum concepts to generate")
}

func runSolve(cmd *cobra.Command, args []string) error {
	c, m, err := loadCatalogAndMatrix()
	if err != nil {
		return err
	}
	problem := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "ideal final result: %s\n", parse.IdealResult(problem))

	var contradictions []session.Contradiction
	var ids []int
	for _, p := range parse.Contradictions(problem) {
		sc := session.Contradiction{
			Improving:   p.Improving,
			Worsening:   p.Worsening,
			Description: p.Description,
		}
		if param, err := c.Parameter(p.Improving); err == nil {
			sc.ImprovingName = param.Name
		}
		if param, err := c.Parameter(p.Worsening); err == nil {
			sc.WorseningName = param.Name
		}
		if entry, err := m.Lookup(p.Improving, p.Worsening); err == nil {
			sc.Principles = entry.Principles
			sc.Confidence = entry.Confidence
		}
		contradictions = append(contradictions, sc)

		fmt.Fprintf(out, "contradiction: %s (%d) vs %s (%d)", sc.ImprovingName, sc.Improving, sc.WorseningName, sc.Worsening)
		if len(sc.Principles) > 0 {
			fmt.Fprintf(out, " -> principles %v (confidence %.2f)", sc.Principles, sc.Confidence)
		}
		fmt.Fprintln(out)

		for _, id := range sc.Principles {
			if len(ids) < 5 && !containsInt(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	if len(contradictions) == 0 {
		fmt.Fprintln(out, "no contradiction detected; falling back to the most used principles")
	}
	if len(ids) == 0 {
		for _, pc := range m.MostUsedPrinciples(5) {
			ids = append(ids, pc.PrincipleID)
		}
	}

	concepts, err := synth.New(c).Generate(problem, contradictions, ids, solveFlags.maxConcepts)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	fmt.Fprint(out, format.Concepts(concepts))
	return nil
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
