package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/harrison/filesaggregate/internal/config"
	"github.com/harrison/filesaggregate/internal/filelock"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init subcommand
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .aggregate/config.yaml",
		Long: `Write the default configuration to .aggregate/config.yaml next to the
executable. An existing file is left untouched unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _, err := resolveRoot()
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")
			return writeDefaultConfig(root, force, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")

	return cmd
}

// writeDefaultConfig writes DefaultConfig to the state directory of root
func writeDefaultConfig(root string, force bool, out io.Writer) error {
	stateDir, err := config.EnsureStateDir(root)
	if err != nil {
		return err
	}

	path := filepath.Join(stateDir, config.ConfigFileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}
	}

	data, err := config.DefaultConfig().Marshal()
	if err != nil {
		return err
	}

	if err := filelock.LockAndWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}
