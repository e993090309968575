package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/harrison/filesaggregate/internal/config"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// resolveRoot locates the directory the tool operates on; replaced in tests
var resolveRoot = config.ResolveRoot

// NewRootCommand creates and returns the root cobra command for aggregate
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Flatten a source tree into a single folder of copies",
		Long: `Aggregate walks the directory that contains this executable and copies
every source file (.xaml, .xaml.cs, .cs, .html, .cshtml, .css, .js, .mrt, .json)
into a single flat folder named FilesAggregate next to the executable.

Directories named .git, .vs, bin, obj, Debug, Release, packages, Migrations
and SmartAttachments are skipped entirely. The .aggregate directory at the
top of the tree holds this tool's own state and is skipped as well, so files
placed in it are never copied. When two files share a name, later
copies are renamed to <name>_1<ext>, <name>_2<ext>, and so on. Nothing in
FilesAggregate is ever overwritten or deleted, so repeated runs accumulate.

Each copy is reported on stdout as:
  Copied: <source> -> <destination>

Ambient settings (log level, run logs, history) are read from
.aggregate/config.yaml if present.`,
		Version: Version,
		Args:    cobra.NoArgs,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, self, err := resolveRoot()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runAggregate(ctx, runOptions{
				Root:      root,
				SelfPath:  self,
				Out:       cmd.OutOrStdout(),
				ErrOut:    cmd.ErrOrStderr(),
				LogLevel:  flagString(cmd, "log-level"),
				NoHistory: flagBool(cmd, "no-history"),
			})
		},
	}

	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error (default: from config)")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// flagString returns a pointer to the flag value if it was set explicitly
func flagString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

// flagBool returns a pointer to the flag value if it was set explicitly
func flagBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}
