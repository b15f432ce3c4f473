package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"triz/internal/format"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored workflow sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions, newest first",
	RunE:  runSessionsList,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsCleanupFlags struct {
	maxAge time.Duration
}

var sessionsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete sessions not touched within the retention window",
	RunE:  runSessionsCleanup,
}

func init() {
	sessionsCleanupCmd.Flags().DurationVar(&sessionsCleanupFlags.maxAge, "max-age", 0,
		"Retention window (default from config, 720h)")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsCleanupCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no stored sessions")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), format.Sessions(tableMode(), sessions))
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted session %s\n", args[0])
	return nil
}

func runSessionsCleanup(cmd *cobra.Command, _ []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	maxAge := sessionsCleanupFlags.maxAge
	if maxAge <= 0 {
		maxAge = cfg.Store.MaxAge
	}
	n, err := store.Cleanup(cmd.Context(), maxAge)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d stale session(s)\n", n)
	return nil
}
