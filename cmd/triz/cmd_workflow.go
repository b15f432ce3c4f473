package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"triz/internal/format"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Run the staged problem-solving workflow",
	Long: `Drives a session through six stages: problem definition, contradiction
analysis, principle selection, solution generation, evaluation, completed.
Each 'continue' stores the current stage's input and advances one stage.`,
}

var workflowStartCmd = &cobra.Command{
	Use:   "start [problem]",
	Short: "Start a new session",
	Long: `Creates a session at the problem-definition stage. A problem statement
given here is applied as the first 'continue', landing the session in
contradiction analysis.`,
	Args: cobra.ArbitraryArgs,
	RunE: runWorkflowStart,
}

var workflowContinueCmd = &cobra.Command{
	Use:   "continue <session-id> <input>",
	Short: "Advance a session by one stage",
	Long: `Stores the input into the current stage and advances. The input depends
on the stage: the problem statement, a contradiction description or
'improving=N worsening=M' pair, a comma-separated list of principle IDs,
a review confirmation, or evaluation notes.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runWorkflowContinue,
}

var workflowResetCmd = &cobra.Command{
	Use:   "reset <session-id>",
	Short: "Return a session to the problem-definition stage",
	Long: `Discards everything the session accumulated and returns it to problem
definition. Works from any stage, completed included.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflowReset,
}

var workflowStatusCmd = &cobra.Command{
	Use:   "status <session-id>",
	Short: "Show a session without advancing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkflowStatus,
}

func init() {
	workflowCmd.AddCommand(workflowStartCmd)
	workflowCmd.AddCommand(workflowContinueCmd)
	workflowCmd.AddCommand(workflowResetCmd)
	workflowCmd.AddCommand(workflowStatusCmd)
}

func runWorkflowStart(cmd *cobra.Command, args []string) error {
	tk, err := newToolkit(cmd.Context())
	if err != nil {
		return err
	}
	defer tk.Close()

	res, err := tk.engine.Start(cmd.Context())
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}
	if len(args) > 0 {
		res, err = tk.engine.Continue(cmd.Context(), res.Session.ID, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("start workflow: %w", err)
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), format.Step(*res.Session, res.Guidance))
	return nil
}

func runWorkflowContinue(cmd *cobra.Command, args []string) error {
	tk, err := newToolkit(cmd.Context())
	if err != nil {
		return err
	}
	defer tk.Close()

	input := strings.Join(args[1:], " ")
	res, err := tk.engine.Continue(cmd.Context(), args[0], input)
	if err != nil {
		return fmt.Errorf("continue workflow: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), format.Step(*res.Session, res.Guidance))
	return nil
}

func runWorkflowReset(cmd *cobra.Command, args []string) error {
	tk, err := newToolkit(cmd.Context())
	if err != nil {
		return err
	}
	defer tk.Close()

	res, err := tk.engine.Reset(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("reset workflow: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), format.Step(*res.Session, res.Guidance))
	return nil
}

func runWorkflowStatus(cmd *cobra.Command, args []string) error {
	tk, err := newToolkit(cmd.Context())
	if err != nil {
		return err
	}
	defer tk.Close()

	res, err := tk.engine.Status(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("workflow status: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), format.Step(*res.Session, res.Guidance))
	return nil
}
