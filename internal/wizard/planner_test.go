package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexpilot/indexpilot/internal/indexer"
)

func deployment(networkID, address string) indexer.Deployment {
	return indexer.Deployment{NetworkID: networkID, Address: address, RPCURL: "http://rpc.local"}
}

func singleContract(source indexer.ContractSource, deployments ...indexer.Deployment) []indexer.ContractConfig {
	return []indexer.ContractConfig{{Name: "Token", Source: source, Deployments: deployments}}
}

func TestPlan_AddAnotherOffsets(t *testing.T) {
	tests := []struct {
		name      string
		contracts []indexer.ContractConfig
		cursor    Cursor
		wantKeys  int
		wantAdv   Advance
	}{
		{
			name: "next deployment same network",
			contracts: singleContract(indexer.ExplorerSource(""),
				deployment("1", "0x1"), deployment("1", "0x2")),
			cursor:   Cursor{},
			wantKeys: 1,
			wantAdv:  AdvanceDeployment,
		},
		{
			name: "next deployment different network",
			contracts: singleContract(indexer.ExplorerSource(""),
				deployment("1", "0x1"), deployment("10", "0x2")),
			cursor:   Cursor{},
			wantKeys: 2,
			wantAdv:  AdvanceDeployment,
		},
		{
			name: "same network spelled as name and id",
			contracts: singleContract(indexer.ExplorerSource(""),
				deployment("Ethereum Mainnet", "0x1"), deployment("1", "0x2")),
			cursor:   Cursor{},
			wantKeys: 1,
			wantAdv:  AdvanceDeployment,
		},
		{
			name: "deployments exhausted, another contract remains",
			contracts: append(
				singleContract(indexer.ExplorerSource(""), deployment("1", "0x1")),
				indexer.ContractConfig{
					Name:        "Vault",
					Source:      indexer.ExplorerSource(""),
					Deployments: []indexer.Deployment{deployment("10", "0x2")},
				}),
			cursor:   Cursor{},
			wantKeys: 3,
			wantAdv:  AdvanceContract,
		},
		{
			name:      "everything exhausted takes the default",
			contracts: singleContract(indexer.ExplorerSource(""), deployment("1", "0x1")),
			cursor:    Cursor{},
			wantKeys:  0,
			wantAdv:   AdvanceNone,
		},
	}

	planner := NewPlanner("/tmp/project")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, adv, err := planner.Plan(PromptAddAnother, tt.cursor, tt.contracts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdv, adv)
			if tt.wantKeys == 0 {
				assert.Equal(t, ActionPressEnter, action.Type)
			} else {
				require.Equal(t, ActionPressKeys, action.Type)
				assert.Len(t, action.Keys, tt.wantKeys)
			}
		})
	}
}

func TestPlan_ImportSource(t *testing.T) {
	planner := NewPlanner("/tmp/project")

	action, _, err := planner.Plan(PromptImportSource, Cursor{},
		singleContract(indexer.AbiSource("{}", ""), deployment("1", "0x1")))
	require.NoError(t, err)
	require.Equal(t, ActionPressKeys, action.Type)
	assert.Len(t, action.Keys, 1)

	action, _, err = planner.Plan(PromptImportSource, Cursor{},
		singleContract(indexer.ExplorerSource(""), deployment("1", "0x1")))
	require.NoError(t, err)
	assert.Equal(t, ActionPressEnter, action.Type)

	action, _, err = planner.Plan(PromptImportSource, Cursor{},
		singleContract(indexer.InferredSource(), deployment("1", "0x1")))
	require.NoError(t, err)
	assert.Equal(t, ActionPressEnter, action.Type)
}

func TestPlan_FieldAnswers(t *testing.T) {
	contracts := singleContract(indexer.AbiSource("{}", ""), indexer.Deployment{
		NetworkID:  "Optimism",
		Address:    "abcdef",
		RPCURL:     "http://op.local",
		StartBlock: indexer.StartAt(1200),
	})
	planner := NewPlanner("/data/proj")

	action, _, err := planner.Plan(PromptContractName, Cursor{}, contracts)
	require.NoError(t, err)
	assert.Equal(t, typeText("Token"), action)

	action, _, err = planner.Plan(PromptContractAddress, Cursor{}, contracts)
	require.NoError(t, err)
	assert.Equal(t, typeText("0xabcdef"), action)

	action, _, err = planner.Plan(PromptNetworkID, Cursor{}, contracts)
	require.NoError(t, err)
	assert.Equal(t, typeText("10"), action)

	action, _, err = planner.Plan(PromptAbiPath, Cursor{}, contracts)
	require.NoError(t, err)
	assert.Equal(t, typeText("/data/proj/abis/Token_abi.json"), action)

	action, _, err = planner.Plan(PromptRPCURL, Cursor{}, contracts)
	require.NoError(t, err)
	assert.Equal(t, typeText("http://op.local"), action)

	action, _, err = planner.Plan(PromptStartBlock, Cursor{}, contracts)
	require.NoError(t, err)
	assert.Equal(t, typeText("1200"), action)
}

func TestPlan_StartBlock(t *testing.T) {
	planner := NewPlanner("/tmp")

	// Genesis is a real answer, not the same as leaving the field unset.
	contracts := singleContract(indexer.ExplorerSource(""), indexer.Deployment{
		NetworkID:  "1",
		Address:    "0x1",
		StartBlock: indexer.StartAt(0),
	})
	action, _, err := planner.Plan(PromptStartBlock, Cursor{}, contracts)
	require.NoError(t, err)
	assert.Equal(t, typeText("0"), action)

	contracts = singleContract(indexer.ExplorerSource(""), indexer.Deployment{
		NetworkID: "1",
		Address:   "0x1",
	})
	action, _, err = planner.Plan(PromptStartBlock, Cursor{}, contracts)
	require.NoError(t, err)
	assert.Equal(t, ActionPressEnter, action.Type)
}

func TestPlan_ProxyAddressPreferred(t *testing.T) {
	contracts := singleContract(indexer.ExplorerSource(""), indexer.Deployment{
		NetworkID:    "1",
		Address:      "0x1111",
		ProxyAddress: "2222",
	})

	action, _, err := NewPlanner("/tmp").Plan(PromptContractAddress, Cursor{}, contracts)
	require.NoError(t, err)
	assert.Equal(t, typeText("0x2222"), action)
}

func TestPlan_StaticDefaults(t *testing.T) {
	contracts := singleContract(indexer.ExplorerSource(""), deployment("1", "0x1"))
	planner := NewPlanner("/tmp")

	action, adv, err := planner.Plan(PromptFolderName, Cursor{}, contracts)
	require.NoError(t, err)
	assert.Equal(t, typeText("."), action)
	assert.Equal(t, AdvanceNone, adv)

	for _, kind := range []PromptKind{PromptLanguage, PromptEventSelection, PromptBlockchainList, PromptNetworkChoice} {
		action, adv, err := planner.Plan(kind, Cursor{}, contracts)
		require.NoError(t, err)
		assert.Equal(t, ActionPressEnter, action.Type, "kind %s", kind)
		assert.Equal(t, AdvanceNone, adv)
	}

	action, _, err = planner.Plan(PromptAPIToken, Cursor{}, contracts)
	require.NoError(t, err)
	require.Equal(t, ActionPressKeys, action.Type)
	assert.Len(t, action.Keys, 2)
}

func TestPlan_TerminalPrompts(t *testing.T) {
	contracts := singleContract(indexer.ExplorerSource(""), deployment("1", "0x1"))
	planner := NewPlanner("/tmp")

	for _, kind := range []PromptKind{PromptTemplateReady, PromptFinalDone} {
		action, _, err := planner.Plan(kind, Cursor{}, contracts)
		require.NoError(t, err)
		assert.Equal(t, ActionFinish, action.Type)
		assert.True(t, action.Success)
	}
}

func TestPlan_UnrecognizedAnswersEnter(t *testing.T) {
	contracts := singleContract(indexer.ExplorerSource(""), deployment("1", "0x1"))
	action, adv, err := NewPlanner("/tmp").Plan(PromptUnrecognized, Cursor{}, contracts)
	require.NoError(t, err)
	assert.Equal(t, ActionPressEnter, action.Type)
	assert.Equal(t, AdvanceNone, adv)
}

func TestPlan_CursorOutOfRange(t *testing.T) {
	contracts := singleContract(indexer.ExplorerSource(""), deployment("1", "0x1"))
	planner := NewPlanner("/tmp")

	_, _, err := planner.Plan(PromptContractName, Cursor{Contract: 1}, contracts)
	assert.Error(t, err)

	_, _, err = planner.Plan(PromptContractName, Cursor{Deployment: 5}, contracts)
	assert.Error(t, err)
}
