package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"triz/internal/config"
	"triz/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	markdown   bool
}

// cfg is loaded once in the persistent pre-run and shared by all commands.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "triz",
	Short: "Systematic inventive problem solving from the command line",
	Long: "Triz resolves engineering trade-offs with the classical toolkit:\na 39x39 contradiction matrix, 40 inventive principles, and a staged\nworkflow from problem statement to evaluated solution concepts.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load(rootFlags.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		logging.Init(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format, os.Stderr)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", ".triz/config.yaml", "Path to config file (missing file uses defaults)")
	pf.BoolVar(&rootFlags.markdown, "markdown", false, "Render tables as Markdown instead of ASCII")

	rootCmd.AddCommand(workflowCmd)
	rootCmd.AddCommand(principleCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
