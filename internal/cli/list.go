package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/indexpilot/indexpilot/internal/project"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scaffolded indexer projects in the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		baseDir, err := resolveDataDir(cmd)
		if err != nil {
			return err
		}

		ids, err := project.NewManager(baseDir, logger).ListProjects()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No indexer projects found")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func resolveDataDir(cmd *cobra.Command) (string, error) {
	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return "", err
	}
	return filepath.Abs(dataDir)
}
