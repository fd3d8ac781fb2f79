// Package project manages envio project directories: scaffolding them through
// the interactive wizard, then codegen and dev-mode lifecycle on the result.
package project

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/indexpilot/indexpilot/internal/abi"
	"github.com/indexpilot/indexpilot/internal/indexer"
	"github.com/indexpilot/indexpilot/internal/term"
	"github.com/indexpilot/indexpilot/internal/wizard"
)

// ConfigFileName is the artifact the wizard must leave behind. Its presence
// (and well-formedness) is the real success criterion; the wizard's own
// success prompt is an unreliable heuristic.
const ConfigFileName = "config.yaml"

const envioBinary = "envio"

// Project is one scaffolded envio project.
type Project struct {
	ID  string
	Dir string

	devProcess *exec.Cmd
}

// WizardRunner drives the scaffolding wizard inside a project directory.
// Tests substitute a fake that writes (or withholds) the config artifact.
type WizardRunner interface {
	Run(ctx context.Context, projectDir string, contracts []indexer.ContractConfig) error
}

// Manager creates and operates projects under a base directory. Each project
// gets its own subdirectory keyed by indexer id, so concurrent import runs
// never share a working directory.
type Manager struct {
	baseDir  string
	logger   *slog.Logger
	resolver *abi.Resolver
	runner   WizardRunner
}

// NewManager creates a manager scaffolding projects with the real wizard.
func NewManager(baseDir string, logger *slog.Logger) *Manager {
	return &Manager{
		baseDir:  baseDir,
		logger:   logger,
		resolver: abi.NewResolver(logger),
		runner:   &envioWizard{logger: logger},
	}
}

// NewManagerWithRunner creates a manager with a custom wizard runner.
func NewManagerWithRunner(baseDir string, logger *slog.Logger, runner WizardRunner) *Manager {
	m := NewManager(baseDir, logger)
	m.runner = runner
	return m
}

// InitProject scaffolds a new project: writes the per-contract ABI files,
// drives the wizard to completion, then verifies the config artifact exists.
func (m *Manager) InitProject(ctx context.Context, id string, contracts []indexer.ContractConfig) (*Project, error) {
	if len(contracts) == 0 {
		return nil, fmt.Errorf("no contracts provided for initialization")
	}

	projectDir := filepath.Join(m.baseDir, id)
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}

	if err := m.resolver.WriteAll(ctx, projectDir, contracts); err != nil {
		return nil, err
	}

	if err := m.runner.Run(ctx, projectDir, contracts); err != nil {
		return nil, err
	}

	if err := m.verifyArtifact(projectDir); err != nil {
		return nil, err
	}

	m.logger.Info("project scaffolding verified", "id", id, "dir", projectDir)
	return &Project{ID: id, Dir: projectDir}, nil
}

// verifyArtifact checks the wizard actually produced a parseable config file.
func (m *Manager) verifyArtifact(projectDir string) error {
	path := filepath.Join(projectDir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return &wizard.ImportError{
			Kind: wizard.FailArtifactMissing,
			Err:  fmt.Errorf("%s not created: %w", ConfigFileName, err),
		}
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc) == 0 {
		return &wizard.ImportError{
			Kind: wizard.FailArtifactMissing,
			Err:  fmt.Errorf("%s is not a usable config: %v", ConfigFileName, err),
		}
	}
	return nil
}

// RunCodegen runs envio codegen inside an initialized project.
func (m *Manager) RunCodegen(ctx context.Context, p *Project) error {
	if _, err := os.Stat(filepath.Join(p.Dir, ConfigFileName)); err != nil {
		return fmt.Errorf("%s not found, project may not be initialized: %w", ConfigFileName, err)
	}

	cmd := exec.CommandContext(ctx, envioBinary, "codegen")
	cmd.Dir = p.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("codegen failed: %w", err)
	}
	return nil
}

// StartDev launches the project's indexer in dev mode and keeps the process
// handle on the project.
func (m *Manager) StartDev(ctx context.Context, p *Project) error {
	if p.devProcess != nil {
		return fmt.Errorf("project already has a running process")
	}

	cmd := exec.CommandContext(ctx, envioBinary, "dev")
	cmd.Dir = p.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start dev mode: %w", err)
	}

	m.logger.Info("dev mode started", "id", p.ID, "pid", cmd.Process.Pid)
	p.devProcess = cmd
	return nil
}

// StopDev kills the dev process and asks envio to stop cleanly.
func (m *Manager) StopDev(ctx context.Context, p *Project) error {
	if p.devProcess == nil {
		return nil
	}

	if err := p.devProcess.Process.Kill(); err != nil {
		m.logger.Warn("failed to kill dev process", "id", p.ID, "error", err)
	}
	_ = p.devProcess.Wait()
	p.devProcess = nil

	cmd := exec.CommandContext(ctx, envioBinary, "stop")
	cmd.Dir = p.Dir
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to stop indexer cleanly: %w", err)
	}
	return nil
}

// ListProjects returns the ids of scaffolded projects under the base
// directory, in directory order. Only directories holding a config artifact
// count; half-finished scaffolds are skipped.
func (m *Manager) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read base directory: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(m.baseDir, entry.Name(), ConfigFileName)); err == nil {
			ids = append(ids, entry.Name())
		}
	}
	return ids, nil
}

// StopByID asks envio to stop the indexer scaffolded under an id, without
// needing the process handle of the run that started it.
func (m *Manager) StopByID(ctx context.Context, id string) error {
	dir := filepath.Join(m.baseDir, id)
	if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err != nil {
		return fmt.Errorf("no project found for %s: %w", id, err)
	}
	cmd := exec.CommandContext(ctx, envioBinary, "stop")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to stop indexer %s: %w", id, err)
	}
	return nil
}

// CheckHealth reports whether the dev process is still running.
func (m *Manager) CheckHealth(p *Project) bool {
	if p.devProcess == nil {
		return false
	}
	return p.devProcess.ProcessState == nil
}

// envioWizard runs the real envio wizard under a PTY.
type envioWizard struct {
	logger *slog.Logger
}

func (w *envioWizard) Run(ctx context.Context, projectDir string, contracts []indexer.ContractConfig) error {
	sess, err := term.Spawn(w.logger, envioBinary, []string{"init", "contract-import", "local"}, projectDir)
	if err != nil {
		return &wizard.ImportError{Kind: wizard.FailSpawn, Err: err}
	}

	opts := wizard.Options{Logger: w.logger}
	transcript, err := wizard.OpenTranscript(filepath.Join(projectDir, "wizard.ndjson"))
	if err != nil {
		w.logger.Warn("transcript disabled", "error", err)
	} else {
		opts.Transcript = transcript
		defer transcript.Close()
	}

	return wizard.NewDriver(sess, projectDir, contracts, opts).Run(ctx)
}
