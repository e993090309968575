package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harrison/filesaggregate/internal/config"
	"github.com/harrison/filesaggregate/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command and its subcommands
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded aggregation runs",
		Long: `List previous aggregation runs recorded in .aggregate/history.db,
newest first. Use "history show <run-id>" to list the files a run copied;
any unique prefix of the run ID is accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withHistoryStore(cmd.Context(), func(ctx context.Context, store *history.Store) error {
				return listRuns(ctx, store, limit, cmd.OutOrStdout())
			})
		},
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 = all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the files copied by one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(cmd.Context(), func(ctx context.Context, store *history.Store) error {
				return showRun(ctx, store, args[0], cmd.OutOrStdout())
			})
		},
		SilenceUsage: true,
	})

	return cmd
}

// withHistoryStore opens the configured history database for root
func withHistoryStore(ctx context.Context, fn func(context.Context, *history.Store) error) error {
	root, _, err := resolveRoot()
	if err != nil {
		return err
	}

	stateDir := config.StateDir(root)
	cfg, err := config.LoadConfigFromDir(stateDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ResolvePaths(stateDir)

	if _, err := os.Stat(cfg.History.DBPath); os.IsNotExist(err) {
		return fmt.Errorf("no history recorded yet (%s does not exist)", cfg.History.DBPath)
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	return fn(ctx, store)
}

// listRuns prints a table of recent runs
func listRuns(ctx context.Context, store *history.Store, limit int, out io.Writer) error {
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tSTATUS\tCOPIED\tRENAMED\tDURATION")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			r.Copied,
			r.Renamed,
			r.Duration.Round(time.Millisecond),
		)
	}
	return w.Flush()
}

// showRun prints one run's details and its copies
func showRun(ctx context.Context, store *history.Store, id string, out io.Writer) error {
	run, copies, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run:         %s\n", run.ID)
	fmt.Fprintf(out, "Started:     %s\n", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Root:        %s\n", run.Root)
	fmt.Fprintf(out, "Destination: %s\n", run.Destination)
	fmt.Fprintf(out, "Status:      %s\n", run.Status)
	if run.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:       %s\n", run.ErrorMessage)
	}
	fmt.Fprintf(out, "Scanned:     %d\n", run.Scanned)
	fmt.Fprintf(out, "Copied:      %d (%d renamed)\n", run.Copied, run.Renamed)
	fmt.Fprintf(out, "Skipped:     %d\n", run.Skipped)
	fmt.Fprintf(out, "Duration:    %s\n", run.Duration.Round(time.Millisecond))

	if len(copies) > 0 {
		fmt.Fprintln(out)
		for _, c := range copies {
			fmt.Fprintf(out, "Copied: %s -> %s\n", c.Source, c.Destination)
		}
	}
	return nil
}

// shortID trims a UUID to its first block for table display
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
