// Package network holds the table of chains the indexer can target and the
// bidirectional id/name resolution used when answering wizard prompts.
package network

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tier is a rough data-quality ranking for a hosted network endpoint.
type Tier string

const (
	TierDevelopment  Tier = "development"
	TierExperimental Tier = "experimental"
	TierBronze       Tier = "bronze"
	TierSilver       Tier = "silver"
	TierGold         Tier = "gold"
)

// Info describes one supported network.
type Info struct {
	Name           string
	NetworkID      uint64
	RPCURL         string
	Tier           Tier
	SupportsTraces bool
}

func hypersync(id uint64, name, slug string, tier Tier, traces bool) Info {
	return Info{
		Name:           name,
		NetworkID:      id,
		RPCURL:         fmt.Sprintf("https://%s.hypersync.xyz", slug),
		Tier:           tier,
		SupportsTraces: traces,
	}
}

// Supported maps chain id to network info for every network the hosted sync
// endpoints cover.
var Supported = buildTable()

func buildTable() map[uint64]Info {
	networks := []Info{
		hypersync(1, "Ethereum Mainnet", "eth", TierGold, true),
		hypersync(5, "Goerli", "goerli", TierBronze, false),
		hypersync(10, "Optimism", "optimism", TierGold, false),
		hypersync(14, "Flare", "flare", TierBronze, false),
		hypersync(30, "Rootstock", "rootstock", TierSilver, false),
		hypersync(42, "Lukso", "lukso", TierBronze, false),
		hypersync(44, "Crab", "crab", TierBronze, false),
		hypersync(46, "Darwinia", "darwinia", TierSilver, false),
		hypersync(56, "BSC", "bsc", TierGold, false),
		hypersync(97, "BSC Testnet", "bsc-testnet", TierExperimental, false),
		hypersync(100, "Gnosis", "gnosis", TierBronze, true),
		hypersync(137, "Polygon", "polygon", TierGold, false),
		hypersync(148, "Shimmer EVM", "shimmer-evm", TierSilver, false),
		hypersync(169, "Manta", "manta", TierSilver, false),
		hypersync(196, "X Layer", "x-layer", TierSilver, false),
		hypersync(204, "opBNB", "opbnb", TierSilver, true),
		hypersync(250, "Fantom", "fantom", TierGold, false),
		hypersync(255, "Kroma", "kroma", TierBronze, false),
		hypersync(288, "Boba", "boba", TierSilver, false),
		hypersync(324, "ZKSync", "zksync", TierGold, false),
		hypersync(1088, "Metis", "metis", TierGold, false),
		hypersync(1101, "Polygon zkEVM", "polygon-zkevm", TierBronze, false),
		hypersync(1123, "B2 Testnet", "b2-testnet", TierDevelopment, false),
		hypersync(1135, "Lisk", "lisk", TierSilver, false),
		hypersync(1284, "Moonbeam", "moonbeam", TierSilver, false),
		hypersync(1287, "Moonbase Alpha", "moonbase-alpha", TierGold, false),
		hypersync(1301, "Unichain Sepolia", "unichain-sepolia", TierDevelopment, false),
		hypersync(2001, "C1 Milkomeda", "c1-milkomeda", TierBronze, false),
		hypersync(2810, "Morph Testnet", "morph-testnet", TierExperimental, false),
		hypersync(2818, "Morph", "morph", TierBronze, false),
		hypersync(4200, "Merlin", "merlin", TierSilver, false),
		hypersync(4201, "Lukso Testnet", "lukso-testnet", TierBronze, false),
		hypersync(5000, "Mantle", "mantle", TierGold, false),
		hypersync(5115, "Citrea Testnet", "citrea-testnet", TierExperimental, false),
		hypersync(5845, "Tangle", "tangle", TierDevelopment, false),
		hypersync(7000, "Zeta", "zeta", TierGold, false),
		hypersync(7560, "Cyber", "cyber", TierSilver, false),
		hypersync(8453, "Base", "base", TierSilver, false),
		hypersync(8888, "Chiliz", "chiliz", TierSilver, false),
		hypersync(10200, "Gnosis Chiado", "gnosis-chiado", TierBronze, false),
		hypersync(17000, "Holesky", "holesky", TierSilver, false),
		hypersync(17864, "Mev Commit", "mev-commit", TierBronze, false),
		hypersync(34443, "Mode", "mode", TierSilver, false),
		hypersync(42161, "Arbitrum", "arbitrum", TierSilver, false),
		hypersync(42170, "Arbitrum Nova", "arbitrum-nova", TierGold, false),
		hypersync(42220, "Celo", "celo", TierSilver, false),
		hypersync(43113, "Fuji", "fuji", TierSilver, false),
		hypersync(43114, "Avalanche", "avalanche", TierGold, false),
		hypersync(48900, "Zircuit", "zircuit", TierGold, false),
		hypersync(50104, "Sophon", "sophon", TierBronze, false),
		hypersync(59144, "Linea", "linea", TierSilver, false),
		hypersync(80002, "Polygon Amoy", "polygon-amoy", TierSilver, false),
		hypersync(80084, "Berachain Bartio", "berachain-bartio", TierSilver, false),
		hypersync(81457, "Blast", "blast", TierSilver, false),
		hypersync(84532, "Base Sepolia", "base-sepolia", TierGold, false),
		hypersync(421614, "Arbitrum Sepolia", "arbitrum-sepolia", TierGold, false),
		hypersync(534352, "Scroll", "scroll", TierSilver, false),
		hypersync(696969, "Galadriel Devnet", "galadriel-devnet", TierBronze, false),
		hypersync(7225878, "Saakuru", "saakuru", TierSilver, false),
		hypersync(7777777, "Zora", "zora", TierBronze, false),
		hypersync(11155111, "Sepolia", "sepolia", TierGold, false),
		hypersync(11155420, "Optimism Sepolia", "optimism-sepolia", TierGold, false),
		hypersync(16858666, "Internal Test Chain", "internal-test-chain", TierDevelopment, false),
		hypersync(168587773, "Blast Sepolia", "blast-sepolia", TierSilver, false),
		hypersync(245022934, "Neon EVM", "neon-evm", TierSilver, false),
		hypersync(531050104, "Sophon Testnet", "sophon-testnet", TierExperimental, false),
		hypersync(1313161554, "Aurora", "aurora", TierSilver, false),
		hypersync(1666600000, "Harmony Shard 0", "harmony-shard-0", TierSilver, false),
	}

	m := make(map[uint64]Info, len(networks))
	for _, n := range networks {
		m[n.NetworkID] = n
	}
	return m
}

// Validate returns the network info for a supported chain id.
func Validate(networkID uint64) (Info, error) {
	info, ok := Supported[networkID]
	if !ok {
		return Info{}, fmt.Errorf("unsupported network ID: %d", networkID)
	}
	return info, nil
}

// ResolveToID maps a network name or numeric string to the numeric chain id
// string the wizard expects. Unknown values pass through unchanged.
func ResolveToID(networkID string) string {
	if _, err := strconv.ParseUint(networkID, 10, 64); err == nil {
		return networkID
	}
	for id, info := range Supported {
		if strings.EqualFold(info.Name, networkID) {
			return strconv.FormatUint(id, 10)
		}
	}
	return networkID
}

// ResolveToName maps a numeric chain id string to its human network name.
// Non-numeric or unknown values pass through unchanged.
func ResolveToName(networkID string) string {
	id, err := strconv.ParseUint(networkID, 10, 64)
	if err != nil {
		return networkID
	}
	if info, ok := Supported[id]; ok {
		return info.Name
	}
	return networkID
}

// SupportedIDs returns every supported chain id in ascending order.
func SupportedIDs() []uint64 {
	ids := make([]uint64, 0, len(Supported))
	for id := range Supported {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// WithTraces returns the networks whose endpoints serve trace data.
func WithTraces() []Info {
	var out []Info
	for _, info := range Supported {
		if info.SupportsTraces {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NetworkID < out[j].NetworkID })
	return out
}

// ByTier returns the networks in a given tier.
func ByTier(tier Tier) []Info {
	var out []Info
	for _, info := range Supported {
		if info.Tier == tier {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NetworkID < out[j].NetworkID })
	return out
}
