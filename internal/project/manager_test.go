package project

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexpilot/indexpilot/internal/indexer"
	"github.com/indexpilot/indexpilot/internal/wizard"
)

// fakeRunner stands in for the wizard: it writes whatever artifact content it
// is configured with, or returns a canned error.
type fakeRunner struct {
	artifact string
	err      error

	gotDir       string
	gotContracts []indexer.ContractConfig
}

func (f *fakeRunner) Run(_ context.Context, projectDir string, contracts []indexer.ContractConfig) error {
	f.gotDir = projectDir
	f.gotContracts = contracts
	if f.err != nil {
		return f.err
	}
	if f.artifact != "" {
		return os.WriteFile(filepath.Join(projectDir, ConfigFileName), []byte(f.artifact), 0644)
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testContracts() []indexer.ContractConfig {
	return []indexer.ContractConfig{{
		Name:   "Greeter",
		Source: indexer.AbiSource(`[{"type":"event"}]`, ""),
		Deployments: []indexer.Deployment{
			{NetworkID: "1", Address: "0x1"},
		},
	}}
}

const validArtifact = `
name: greeter
networks:
  - id: 1
    contracts:
      - name: Greeter
`

func TestInitProject(t *testing.T) {
	baseDir := t.TempDir()
	runner := &fakeRunner{artifact: validArtifact}
	m := NewManagerWithRunner(baseDir, testLogger(), runner)

	p, err := m.InitProject(context.Background(), "indexer_greeter_1", testContracts())
	require.NoError(t, err)
	assert.Equal(t, "indexer_greeter_1", p.ID)
	assert.Equal(t, filepath.Join(baseDir, "indexer_greeter_1"), p.Dir)
	assert.Equal(t, p.Dir, runner.gotDir)
	assert.Len(t, runner.gotContracts, 1)

	// The inline ABI must be on disk before the wizard starts.
	data, err := os.ReadFile(filepath.Join(p.Dir, "abis", "Greeter_abi.json"))
	require.NoError(t, err)
	assert.Equal(t, `[{"type":"event"}]`, string(data))
}

func TestInitProject_NoContracts(t *testing.T) {
	m := NewManagerWithRunner(t.TempDir(), testLogger(), &fakeRunner{})
	_, err := m.InitProject(context.Background(), "x", nil)
	assert.ErrorContains(t, err, "no contracts")
}

func TestInitProject_WizardError(t *testing.T) {
	wantErr := &wizard.ImportError{Kind: wizard.FailHang}
	m := NewManagerWithRunner(t.TempDir(), testLogger(), &fakeRunner{err: wantErr})

	_, err := m.InitProject(context.Background(), "x", testContracts())
	var ie *wizard.ImportError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, wizard.FailHang, ie.Kind)
}

func TestInitProject_ArtifactMissing(t *testing.T) {
	// The runner "succeeds" without writing config.yaml: a wizard run that
	// printed a success prompt but produced nothing.
	m := NewManagerWithRunner(t.TempDir(), testLogger(), &fakeRunner{})

	_, err := m.InitProject(context.Background(), "x", testContracts())
	var ie *wizard.ImportError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, wizard.FailArtifactMissing, ie.Kind)
}

func TestInitProject_ArtifactUnparseable(t *testing.T) {
	m := NewManagerWithRunner(t.TempDir(), testLogger(), &fakeRunner{artifact: "\t{nope"})

	_, err := m.InitProject(context.Background(), "x", testContracts())
	var ie *wizard.ImportError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, wizard.FailArtifactMissing, ie.Kind)
}

func TestInitProject_ArtifactEmpty(t *testing.T) {
	m := NewManagerWithRunner(t.TempDir(), testLogger(), &fakeRunner{artifact: "\n"})

	_, err := m.InitProject(context.Background(), "x", testContracts())
	var ie *wizard.ImportError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, wizard.FailArtifactMissing, ie.Kind)
}

func TestRunCodegen_RequiresConfig(t *testing.T) {
	m := NewManagerWithRunner(t.TempDir(), testLogger(), &fakeRunner{})
	p := &Project{ID: "x", Dir: t.TempDir()}

	err := m.RunCodegen(context.Background(), p)
	assert.ErrorContains(t, err, "not found")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestListProjects(t *testing.T) {
	baseDir := t.TempDir()
	m := NewManagerWithRunner(baseDir, testLogger(), &fakeRunner{artifact: validArtifact})

	ids, err := m.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = m.InitProject(context.Background(), "indexer_a_1", testContracts())
	require.NoError(t, err)
	_, err = m.InitProject(context.Background(), "indexer_b_2", testContracts())
	require.NoError(t, err)

	// A directory without the config artifact is a half-finished scaffold.
	require.NoError(t, os.MkdirAll(filepath.Join(baseDir, "indexer_broken"), 0755))

	ids, err = m.ListProjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"indexer_a_1", "indexer_b_2"}, ids)
}

func TestListProjects_MissingBaseDir(t *testing.T) {
	m := NewManagerWithRunner(filepath.Join(t.TempDir(), "nope"), testLogger(), &fakeRunner{})
	ids, err := m.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStopByID_UnknownProject(t *testing.T) {
	m := NewManagerWithRunner(t.TempDir(), testLogger(), &fakeRunner{})
	assert.ErrorContains(t, m.StopByID(context.Background(), "missing"), "no project found")
}

func TestCheckHealth_NoProcess(t *testing.T) {
	m := NewManagerWithRunner(t.TempDir(), testLogger(), &fakeRunner{})
	assert.False(t, m.CheckHealth(&Project{ID: "x"}))
}

func TestStopDev_NoProcessIsNoop(t *testing.T) {
	m := NewManagerWithRunner(t.TempDir(), testLogger(), &fakeRunner{})
	assert.NoError(t, m.StopDev(context.Background(), &Project{ID: "x"}))
}
