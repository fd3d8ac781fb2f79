// Package indexer defines the configuration model for an indexer instance:
// which contracts to index, where their ABIs come from, and where each
// contract is deployed.
package indexer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// SourceKind discriminates the ContractSource union in JSON.
type SourceKind string

const (
	// SourceAbi supplies the ABI directly, either inline or via a URL.
	SourceAbi SourceKind = "abi"
	// SourceExplorer fetches the ABI from a block-explorer API.
	SourceExplorer SourceKind = "explorer"
	// SourceInferred provides no ABI; the scaffolding wizard fetches it itself.
	SourceInferred SourceKind = "inferred"
)

// ContractSource describes where a contract's ABI comes from. Exactly one
// variant is active, selected by Kind.
type ContractSource struct {
	Kind SourceKind `json:"kind"`

	// Abi variant: exactly one of InlineText/RemoteURL should be set.
	InlineText string `json:"inline_text,omitempty"`
	RemoteURL  string `json:"remote_url,omitempty"`

	// Explorer variant.
	APIEndpoint string `json:"api_endpoint,omitempty"`
}

// AbiSource builds an Abi-kind source from inline text or a URL.
func AbiSource(inlineText, remoteURL string) ContractSource {
	return ContractSource{Kind: SourceAbi, InlineText: inlineText, RemoteURL: remoteURL}
}

// ExplorerSource builds an Explorer-kind source.
func ExplorerSource(apiEndpoint string) ContractSource {
	return ContractSource{Kind: SourceExplorer, APIEndpoint: apiEndpoint}
}

// InferredSource builds an Inferred-kind source.
func InferredSource() ContractSource {
	return ContractSource{Kind: SourceInferred}
}

func (s ContractSource) validate() error {
	switch s.Kind {
	case SourceAbi:
		if s.InlineText == "" && s.RemoteURL == "" {
			return fmt.Errorf("abi source needs inline_text or remote_url")
		}
		if s.InlineText != "" && s.RemoteURL != "" {
			return fmt.Errorf("abi source must set only one of inline_text, remote_url")
		}
	case SourceExplorer, SourceInferred:
	default:
		return fmt.Errorf("unknown source kind %q", s.Kind)
	}
	return nil
}

// Deployment is one on-chain deployment of a contract. NetworkID may be a
// numeric chain id or a human network name; both forms resolve through the
// network package. StartBlock is a pointer so that an explicit genesis start
// (0) is distinct from "let the wizard pick".
type Deployment struct {
	NetworkID    string  `json:"network_id"`
	Address      string  `json:"address"`
	RPCURL       string  `json:"rpc_url"`
	ProxyAddress string  `json:"proxy_address,omitempty"`
	StartBlock   *uint64 `json:"start_block,omitempty"`
}

// StartAt is a convenience for building deployments with an explicit start
// block.
func StartAt(block uint64) *uint64 { return &block }

// ContractConfig is one contract to index, with its ordered deployments.
// Deployment order matters: the wizard driver walks it in list order.
type ContractConfig struct {
	Name        string         `json:"name"`
	Source      ContractSource `json:"source"`
	Deployments []Deployment   `json:"deployments"`
}

// IndexerConfig is the top-level configuration for one indexer instance.
type IndexerConfig struct {
	Name      string           `json:"name"`
	Contracts []ContractConfig `json:"contracts"`
}

// Validate checks the configuration is complete enough to drive an import run.
func (c *IndexerConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("indexer name cannot be empty")
	}
	if len(c.Contracts) == 0 {
		return fmt.Errorf("at least one contract configuration is required")
	}
	for _, contract := range c.Contracts {
		if contract.Name == "" {
			return fmt.Errorf("contract name cannot be empty")
		}
		if err := contract.Source.validate(); err != nil {
			return fmt.Errorf("contract %s: %w", contract.Name, err)
		}
		if len(contract.Deployments) == 0 {
			return fmt.Errorf("contract %s has no deployments", contract.Name)
		}
		for _, d := range contract.Deployments {
			if d.NetworkID == "" {
				return fmt.Errorf("contract %s: deployment missing network_id", contract.Name)
			}
			if d.Address == "" {
				return fmt.Errorf("contract %s: deployment missing address", contract.Name)
			}
		}
	}
	return nil
}

// Load reads and validates an IndexerConfig from a JSON file.
func Load(path string) (*IndexerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg IndexerConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config as indented JSON.
func (c *IndexerConfig) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// NormalizeAddress returns the address in 0x-prefixed form. Applying it twice
// yields the same result as once.
func NormalizeAddress(addr string) string {
	if strings.HasPrefix(addr, "0x") {
		return addr
	}
	return "0x" + addr
}
