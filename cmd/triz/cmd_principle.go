package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"triz/internal/catalog"
	"triz/internal/format"
)

var principleCmd = &cobra.Command{
	Use:   "principle [id]",
	Short: "Show an inventive principle, or list all 40",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPrinciple,
}

func runPrinciple(cmd *cobra.Command, args []string) error {
	c, err := catalog.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		t := format.NewTable(tableMode())
		t.Header("ID", "Name", "Level", "Description")
		t.Columns(
			format.ColumnConfig{Number: 1, Right: true},
			format.ColumnConfig{Number: 4, MaxWidth: 60},
		)
		for _, p := range c.Principles() {
			t.Row(p.ID, p.Name, p.InnovationLevel, p.Description)
		}
		fmt.Fprint(out, t.String())
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("principle ID must be a number, got %q", args[0])
	}
	p, err := c.Principle(id)
	if err != nil {
		return err
	}
	fmt.Fprint(out, format.Principle(p))
	return nil
}
