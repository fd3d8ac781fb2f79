// Package service keeps the registry of indexer instances and drives their
// lifecycle: scaffold, start, stop.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/indexpilot/indexpilot/internal/indexer"
	"github.com/indexpilot/indexpilot/internal/project"
)

// Status is the lifecycle state of one indexer instance.
type Status string

const (
	StatusConfigured Status = "configured"
	StatusStarting   Status = "starting"
	StatusRunning    Status = "running"
	StatusFailed     Status = "failed"
	StatusStopped    Status = "stopped"
)

// IndexerProcess is one registered indexer instance.
type IndexerProcess struct {
	ID         string
	Config     indexer.IndexerConfig
	OutputDir  string
	Status     Status
	FailReason string

	project *project.Project
}

// ProjectManager is the project-lifecycle surface the registry needs;
// *project.Manager satisfies it.
type ProjectManager interface {
	InitProject(ctx context.Context, id string, contracts []indexer.ContractConfig) (*project.Project, error)
	RunCodegen(ctx context.Context, p *project.Project) error
	StartDev(ctx context.Context, p *project.Project) error
	StopDev(ctx context.Context, p *project.Project) error
}

// SpawnResult reports a successful spawn.
type SpawnResult struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Context is the shared registry. Individual import runs are independent;
// only the registry map itself is guarded.
type Context struct {
	mu       sync.RWMutex
	indexers map[string]*IndexerProcess
	manager  ProjectManager
	logger   *slog.Logger
}

// NewContext creates an empty registry over a project manager.
func NewContext(manager ProjectManager, logger *slog.Logger) *Context {
	return &Context{
		indexers: make(map[string]*IndexerProcess),
		manager:  manager,
		logger:   logger,
	}
}

func generateIndexerID(name string) string {
	cleaned := strings.ToLower(name)
	cleaned = strings.ReplaceAll(cleaned, " ", "_")
	cleaned = strings.ReplaceAll(cleaned, "-", "_")
	return fmt.Sprintf("indexer_%s_%s", cleaned, uuid.New())
}

// SpawnIndexer validates the config, scaffolds its project, and registers the
// instance as Configured.
func (c *Context) SpawnIndexer(ctx context.Context, cfg indexer.IndexerConfig) (*SpawnResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := generateIndexerID(cfg.Name)
	c.logger.Info("spawning indexer", "id", id, "contracts", len(cfg.Contracts))

	proj, err := c.manager.InitProject(ctx, id, cfg.Contracts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize project: %w", err)
	}

	c.mu.Lock()
	c.indexers[id] = &IndexerProcess{
		ID:        id,
		Config:    cfg,
		OutputDir: proj.Dir,
		Status:    StatusConfigured,
		project:   proj,
	}
	c.mu.Unlock()

	return &SpawnResult{ID: id, Message: "Indexer spawned successfully"}, nil
}

// StartIndexer runs codegen and launches dev mode for a configured instance.
func (c *Context) StartIndexer(ctx context.Context, id string) error {
	proc, err := c.get(id)
	if err != nil {
		return err
	}

	c.setStatus(id, StatusStarting, "")
	if err := c.manager.RunCodegen(ctx, proc.project); err != nil {
		c.setStatus(id, StatusFailed, err.Error())
		return err
	}
	if err := c.manager.StartDev(ctx, proc.project); err != nil {
		c.setStatus(id, StatusFailed, err.Error())
		return err
	}
	c.setStatus(id, StatusRunning, "")
	return nil
}

// StopIndexer stops a running instance.
func (c *Context) StopIndexer(ctx context.Context, id string) error {
	proc, err := c.get(id)
	if err != nil {
		return err
	}
	if err := c.manager.StopDev(ctx, proc.project); err != nil {
		return err
	}
	c.setStatus(id, StatusStopped, "")
	return nil
}

// ListIndexers returns the registered ids in sorted order.
func (c *Context) ListIndexers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.indexers))
	for id := range c.indexers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IndexerStatus returns the lifecycle state of an instance.
func (c *Context) IndexerStatus(id string) (Status, error) {
	proc, err := c.get(id)
	if err != nil {
		return "", err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return proc.Status, nil
}

// IndexerConfig returns the configuration an instance was spawned with.
func (c *Context) IndexerConfig(id string) (indexer.IndexerConfig, error) {
	proc, err := c.get(id)
	if err != nil {
		return indexer.IndexerConfig{}, err
	}
	return proc.Config, nil
}

func (c *Context) get(id string) (*IndexerProcess, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	proc, ok := c.indexers[id]
	if !ok {
		return nil, fmt.Errorf("indexer %s not found", id)
	}
	return proc, nil
}

func (c *Context) setStatus(id string, status Status, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if proc, ok := c.indexers[id]; ok {
		proc.Status = status
		proc.FailReason = reason
	}
}
