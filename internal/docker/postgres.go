// Package docker manages the postgres container envio dev mode depends on.
package docker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

const (
	postgresImage   = "postgres:13-alpine"
	postgresImgRef  = "docker.io/library/postgres:13-alpine"
	containerName   = "envio-postgres"
	postgresPort    = nat.Port("5432/tcp")
	readinessDelay  = 2 * time.Second
	defaultPassword = "postgres"
)

// Postgres is the lifecycle handle for the backing database container.
type Postgres struct {
	cli         *client.Client
	containerID string
	logger      *slog.Logger

	// HostPort is the randomly assigned host port after Start.
	HostPort string
}

// NewPostgres creates an unstarted handle.
func NewPostgres(logger *slog.Logger) *Postgres {
	return &Postgres{logger: logger}
}

// Start pulls the image, creates the container with a random host port,
// starts it, and exports the POSTGRES_* environment envio reads.
func (p *Postgres) Start(ctx context.Context) error {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("failed to connect to docker: %w", err)
	}
	if _, err := cli.Ping(ctx); err != nil {
		return fmt.Errorf("docker daemon is not running: %w", err)
	}
	p.cli = cli

	pull, err := cli.ImagePull(ctx, postgresImgRef, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull %s: %w", postgresImage, err)
	}
	// The pull stream must be drained for the pull to complete.
	_, _ = io.Copy(io.Discard, pull)
	pull.Close()

	created, err := cli.ContainerCreate(ctx,
		&container.Config{
			Image: postgresImage,
			Env: []string{
				"POSTGRES_USER=postgres",
				"POSTGRES_PASSWORD=" + defaultPassword,
				"POSTGRES_DB=postgres",
			},
			ExposedPorts: nat.PortSet{postgresPort: struct{}{}},
		},
		&container.HostConfig{
			PortBindings: nat.PortMap{
				// Host port 0 lets docker assign a free port, so concurrent
				// indexer instances do not collide.
				postgresPort: []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: "0"}},
			},
		},
		nil, nil, containerName)
	if err != nil {
		return fmt.Errorf("failed to create postgres container: %w", err)
	}

	if err := cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start postgres container: %w", err)
	}

	info, err := cli.ContainerInspect(ctx, created.ID)
	if err != nil {
		return fmt.Errorf("failed to inspect postgres container: %w", err)
	}
	bindings := info.NetworkSettings.Ports[postgresPort]
	if len(bindings) == 0 || bindings[0].HostPort == "" {
		return fmt.Errorf("failed to get postgres container port")
	}
	p.HostPort = bindings[0].HostPort
	p.containerID = created.ID

	select {
	case <-time.After(readinessDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	for k, v := range map[string]string{
		"POSTGRES_HOST":     "localhost",
		"POSTGRES_PORT":     p.HostPort,
		"POSTGRES_USER":     "postgres",
		"POSTGRES_PASSWORD": defaultPassword,
		"POSTGRES_DB":       "postgres",
	} {
		os.Setenv(k, v)
	}

	p.logger.Info("postgres container started", "id", created.ID, "port", p.HostPort)
	return nil
}

// Stop stops and force-removes the container. No-op if Start never ran.
func (p *Postgres) Stop(ctx context.Context) error {
	if p.cli == nil || p.containerID == "" {
		return nil
	}
	if err := p.cli.ContainerStop(ctx, p.containerID, container.StopOptions{}); err != nil {
		return fmt.Errorf("failed to stop postgres container: %w", err)
	}
	if err := p.cli.ContainerRemove(ctx, p.containerID, container.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("failed to remove postgres container: %w", err)
	}
	p.containerID = ""
	return nil
}
