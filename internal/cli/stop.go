package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indexpilot/indexpilot/internal/project"
)

var stopCmd = &cobra.Command{
	Use:   "stop <id>",
	Short: "Stop a running indexer by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		baseDir, err := resolveDataDir(cmd)
		if err != nil {
			return err
		}

		id := args[0]
		if err := project.NewManager(baseDir, logger).StopByID(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stopped indexer %s\n", id)
		return nil
	},
}
