package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"triz/internal/catalog"
	"triz/internal/format"
	"triz/internal/matrix"
	"triz/internal/triz"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Query the contradiction matrix",
}

var matrixLookupFlags struct {
	improving int
	worsening int
}

var matrixLookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Resolve an (improving, worsening) parameter pair",
	Long: `Looks up the recommended principles for a parameter pair. When the
pair is not mapped, similar mapped pairs and reformulations of the
contradiction are shown instead.`,
	RunE: runMatrixLookup,
}

var matrixParamCmd = &cobra.Command{
	Use:   "param <id>",
	Short: "Show how a parameter participates in the matrix",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatrixParam,
}

var matrixTopCmd = &cobra.Command{
	Use:   "top [k]",
	Short: "List the most recommended principles across all cells",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMatrixTop,
}

func init() {
	f := matrixLookupCmd.Flags()
	f.IntVarP(&matrixLookupFlags.improving, "improving", "i", 0, "Parameter to improve (1-39, required)")
	f.IntVarP(&matrixLookupFlags.worsening, "worsening", "w", 0, "Parameter that worsens (1-39, required)")
	_ = matrixLookupCmd.MarkFlagRequired("improving")
	_ = matrixLookupCmd.MarkFlagRequired("worsening")

	matrixCmd.AddCommand(matrixLookupCmd)
	matrixCmd.AddCommand(matrixParamCmd)
	matrixCmd.AddCommand(matrixTopCmd)
}

func loadCatalogAndMatrix() (*catalog.Catalog, *matrix.Matrix, error) {
	c, err := catalog.Load()
	if err != nil {
		return nil, nil, err
	}
	m, err := loadMatrix(c)
	if err != nil {
		return nil, nil, err
	}
	return c, m, nil
}

func runMatrixLookup(cmd *cobra.Command, _ []string) error {
	c, m, err := loadCatalogAndMatrix()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	improving, worsening := matrixLookupFlags.improving, matrixLookupFlags.worsening

	entry, err := m.Lookup(improving, worsening)
	if err == nil {
		fmt.Fprint(out, format.MatrixEntry(c, entry))
		return nil
	}
	if !errors.Is(err, triz.ErrNotFound) {
		return err
	}

	fmt.Fprintf(out, "no direct entry for (%d, %d)\n\n", improving, worsening)
	similar, err := m.FindSimilar(improving, worsening, 5)
	if err != nil {
		return err
	}
	if len(similar) > 0 {
		fmt.Fprintln(out, "similar mapped pairs:")
		fmt.Fprint(out, format.Similar(tableMode(), c, similar))
	}
	refs, err := m.SuggestReformulations(improving, worsening, 3)
	if err != nil {
		return err
	}
	for _, r := range refs {
		fmt.Fprintf(out, "reformulation: %s -> try (%d, %d), principles %v (confidence %.2f)\n",
			r.Description, r.Improving, r.Worsening, r.Principles, r.Confidence)
	}
	return nil
}

func runMatrixParam(cmd *cobra.Command, args []string) error {
	_, m, err := loadCatalogAndMatrix()
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("parameter ID must be a number, got %q", args[0])
	}
	rel, err := m.ParameterRelationships(id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "parameter %d: %s\n", rel.ParameterID, rel.ParameterName)
	fmt.Fprintf(out, "improving it worsens: %v\n", rel.FrequentlyWorsens)
	fmt.Fprintf(out, "worsened by improving: %v\n", rel.FrequentlyImproves)
	if len(rel.TopPrinciplesImprove) > 0 {
		fmt.Fprintln(out, "top principles when improving:")
		for _, pc := range rel.TopPrinciplesImprove {
			fmt.Fprintf(out, "  %2d (%d cells)\n", pc.PrincipleID, pc.Count)
		}
	}
	if len(rel.TopPrinciplesWorsen) > 0 {
		fmt.Fprintln(out, "top principles when worsening:")
		for _, pc := range rel.TopPrinciplesWorsen {
			fmt.Fprintf(out, "  %2d (%d cells)\n", pc.PrincipleID, pc.Count)
		}
	}
	return nil
}

func runMatrixTop(cmd *cobra.Command, args []string) error {
	c, m, err := loadCatalogAndMatrix()
	if err != nil {
		return err
	}
	k := 10
	if len(args) == 1 {
		if k, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("k must be a number, got %q", args[0])
		}
	}
	t := format.NewTable(tableMode())
	t.Header("Principle", "Name", "Cells")
	t.Columns(format.ColumnConfig{Number: 1, Right: true}, format.ColumnConfig{Number: 3, Right: true})
	for _, pc := range m.MostUsedPrinciples(k) {
		name := ""
		if p, err := c.Principle(pc.PrincipleID); err == nil {
			name = p.Name
		}
		t.Row(pc.PrincipleID, name, pc.Count)
	}
	fmt.Fprint(cmd.OutOrStdout(), t.String())
	return nil
}
