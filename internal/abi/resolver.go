// Package abi resolves contract ABIs from their configured sources and lays
// them out at the predictable paths the wizard driver later types into the
// "path to your json abi file" prompt.
package abi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/indexpilot/indexpilot/internal/indexer"
)

// DefaultExplorerAPI is used for Explorer sources with no endpoint of their
// own; ENVIO_API_URL overrides it.
const DefaultExplorerAPI = "https://envio.dev/api"

const fetchTimeout = 30 * time.Second

// Path returns where a contract's ABI file lives inside a project directory.
func Path(projectDir, contractName string) string {
	return filepath.Join(projectDir, "abis", contractName+"_abi.json")
}

// Resolver fetches ABI text for contract sources.
type Resolver struct {
	client *http.Client
	logger *slog.Logger
}

// NewResolver creates a resolver with a bounded-timeout HTTP client.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{
		client: &http.Client{Timeout: fetchTimeout},
		logger: logger,
	}
}

// Resolve returns the ABI text for a source. Inferred sources resolve to the
// empty string: the wizard fetches those itself.
func (r *Resolver) Resolve(ctx context.Context, source indexer.ContractSource) (string, error) {
	switch source.Kind {
	case indexer.SourceAbi:
		if source.InlineText != "" {
			return source.InlineText, nil
		}
		if source.RemoteURL != "" {
			return r.fetch(ctx, source.RemoteURL)
		}
		return "", fmt.Errorf("no ABI source provided")
	case indexer.SourceExplorer:
		endpoint := source.APIEndpoint
		if endpoint == "" {
			endpoint = os.Getenv("ENVIO_API_URL")
		}
		if endpoint == "" {
			endpoint = DefaultExplorerAPI
		}
		return r.fetch(ctx, endpoint)
	case indexer.SourceInferred:
		return "", nil
	default:
		return "", fmt.Errorf("unknown contract source kind %q", source.Kind)
	}
}

// WriteAll resolves and writes the ABI file for every contract that yields
// ABI text, creating the abis directory first.
func (r *Resolver) WriteAll(ctx context.Context, projectDir string, contracts []indexer.ContractConfig) error {
	abisDir := filepath.Join(projectDir, "abis")
	if err := os.MkdirAll(abisDir, 0755); err != nil {
		return fmt.Errorf("failed to create abis directory: %w", err)
	}

	for _, contract := range contracts {
		text, err := r.Resolve(ctx, contract.Source)
		if err != nil {
			return fmt.Errorf("contract %s: %w", contract.Name, err)
		}
		if text == "" {
			continue
		}
		path := Path(projectDir, contract.Name)
		r.logger.Info("writing contract ABI", "contract", contract.Name, "path", path)
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return fmt.Errorf("failed to write ABI for %s: %w", contract.Name, err)
		}
	}
	return nil
}

func (r *Resolver) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build ABI request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch ABI: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ABI fetch returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ABI response: %w", err)
	}
	return string(body), nil
}
