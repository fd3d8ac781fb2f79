package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/indexpilot/indexpilot/internal/docker"
	"github.com/indexpilot/indexpilot/internal/indexer"
	"github.com/indexpilot/indexpilot/internal/project"
	"github.com/indexpilot/indexpilot/internal/service"
)

var spawnCmd = &cobra.Command{
	Use:   "spawn",
	Short: "Scaffold an indexer project from a config file",
	Long: `Scaffold an indexer project by driving the envio wizard with the
contracts described in the config file. With --start the indexer is also
codegen'd and run in dev mode until interrupted.`,
	RunE: runSpawn,
}

func init() {
	spawnCmd.Flags().StringP("config", "c", "", "Path to the indexer config JSON file (required)")
	spawnCmd.Flags().Bool("start", false, "Run codegen and dev mode after scaffolding")
	spawnCmd.Flags().Bool("postgres", false, "Start a postgres container before dev mode")
	_ = spawnCmd.MarkFlagRequired("config")
}

func runSpawn(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := indexer.Load(configPath)
	if err != nil {
		return err
	}

	baseDir, err := resolveDataDir(cmd)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	withPostgres, err := cmd.Flags().GetBool("postgres")
	if err != nil {
		return err
	}
	if withPostgres {
		pg := docker.NewPostgres(logger)
		if err := pg.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := pg.Stop(context.Background()); err != nil {
				logger.Warn("failed to stop postgres container", "error", err)
			}
		}()
	}

	svc := service.NewContext(project.NewManager(baseDir, logger), logger)

	result, err := svc.SpawnIndexer(ctx, *cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Spawned indexer %s\n", result.ID)

	start, err := cmd.Flags().GetBool("start")
	if err != nil {
		return err
	}
	if !start {
		return nil
	}

	if err := svc.StartIndexer(ctx, result.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexer %s running in dev mode, press Ctrl-C to stop\n", result.ID)

	<-ctx.Done()
	logger.Info("shutting down indexer", "id", result.ID)
	return svc.StopIndexer(context.Background(), result.ID)
}
