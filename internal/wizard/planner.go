package wizard

import (
	"fmt"
	"strconv"

	"github.com/indexpilot/indexpilot/internal/abi"
	"github.com/indexpilot/indexpilot/internal/indexer"
	"github.com/indexpilot/indexpilot/internal/network"
)

// KeyDown is the raw escape sequence for a "move down" keystroke in the
// wizard's terminal menus.
const KeyDown = "\x1b[B"

// ActionType discriminates planner actions.
type ActionType int

const (
	// ActionTypeText types literal text followed by Enter.
	ActionTypeText ActionType = iota
	// ActionPressEnter accepts the wizard's default.
	ActionPressEnter
	// ActionPressKeys sends raw key sequences, then Enter to confirm the
	// selected menu position.
	ActionPressKeys
	// ActionFinish ends the interaction loop.
	ActionFinish
)

// Action is the planner's answer to one classified prompt.
type Action struct {
	Type    ActionType
	Text    string
	Keys    []string
	Success bool
}

func typeText(text string) Action { return Action{Type: ActionTypeText, Text: text} }

func pressEnter() Action { return Action{Type: ActionPressEnter} }

func pressKeys(keys ...string) Action { return Action{Type: ActionPressKeys, Keys: keys} }

func finish(success bool) Action { return Action{Type: ActionFinish, Success: success} }

// Planner maps (prompt, cursor, contracts) to an action. It is pure: it never
// touches the terminal or the cursor, it only returns instructions.
type Planner struct {
	projectDir string
}

// NewPlanner creates a planner answering with paths relative to projectDir.
func NewPlanner(projectDir string) *Planner {
	return &Planner{projectDir: projectDir}
}

// Plan returns the action for a classified prompt plus the cursor advance the
// driver must apply after acting. The advance is computed from the item the
// wizard will ask about NEXT; deciding the menu offset after moving the
// cursor instead would select the wrong menu entry.
func (p *Planner) Plan(kind PromptKind, cur Cursor, contracts []indexer.ContractConfig) (Action, Advance, error) {
	if cur.Contract < 0 || cur.Contract >= len(contracts) {
		return Action{}, AdvanceNone, fmt.Errorf("cursor contract %d out of range (%d contracts)", cur.Contract, len(contracts))
	}
	contract := contracts[cur.Contract]
	if cur.Deployment < 0 || cur.Deployment >= len(contract.Deployments) {
		return Action{}, AdvanceNone, fmt.Errorf("cursor deployment %d out of range for contract %s (%d deployments)",
			cur.Deployment, contract.Name, len(contract.Deployments))
	}
	deployment := contract.Deployments[cur.Deployment]

	switch kind {
	case PromptFolderName:
		// The manager already created and entered the project directory.
		return typeText("."), AdvanceNone, nil

	case PromptLanguage, PromptEventSelection, PromptBlockchainList, PromptNetworkChoice:
		return pressEnter(), AdvanceNone, nil

	case PromptImportSource:
		// Explorer and Inferred sources take the wizard's default (explorer
		// import); an explicit ABI selects the "local file" entry below it.
		if contract.Source.Kind == indexer.SourceAbi {
			return pressKeys(KeyDown), AdvanceNone, nil
		}
		return pressEnter(), AdvanceNone, nil

	case PromptAbiPath:
		return typeText(abi.Path(p.projectDir, contract.Name)), AdvanceNone, nil

	case PromptNetworkID:
		return typeText(network.ResolveToID(deployment.NetworkID)), AdvanceNone, nil

	case PromptContractName:
		return typeText(contract.Name), AdvanceNone, nil

	case PromptContractAddress:
		addr := deployment.Address
		if deployment.ProxyAddress != "" {
			addr = deployment.ProxyAddress
		}
		return typeText(indexer.NormalizeAddress(addr)), AdvanceNone, nil

	case PromptRPCURL:
		if deployment.RPCURL == "" {
			return pressEnter(), AdvanceNone, nil
		}
		return typeText(deployment.RPCURL), AdvanceNone, nil

	case PromptStartBlock:
		if deployment.StartBlock == nil {
			return pressEnter(), AdvanceNone, nil
		}
		return typeText(strconv.FormatUint(*deployment.StartBlock, 10)), AdvanceNone, nil

	case PromptAddAnother:
		return planAddAnother(cur, contracts), planAddAnotherAdvance(cur, contracts), nil

	case PromptAPIToken:
		// Skip the token: two moves down selects the "no, continue" entry.
		return pressKeys(KeyDown, KeyDown), AdvanceNone, nil

	case PromptTemplateReady, PromptFinalDone:
		return finish(true), AdvanceNone, nil

	default:
		// Unrecognized prompts get a single Enter as a safe default; the
		// driver logs them so the rule table can be extended.
		return pressEnter(), AdvanceNone, nil
	}
}

// planAddAnother picks the menu offset for "Would you like to add another
// contract?". The menu is, in order: no / yes same network new address / yes
// different network / yes new contract. The offset must describe the item the
// driver is about to feed next.
func planAddAnother(cur Cursor, contracts []indexer.ContractConfig) Action {
	contract := contracts[cur.Contract]
	if cur.Deployment+1 < len(contract.Deployments) {
		current := contract.Deployments[cur.Deployment]
		next := contract.Deployments[cur.Deployment+1]
		if sameNetwork(current, next) {
			return pressKeys(KeyDown)
		}
		return pressKeys(KeyDown, KeyDown)
	}
	if cur.Contract+1 < len(contracts) {
		return pressKeys(KeyDown, KeyDown, KeyDown)
	}
	// Nothing left: the default menu position means "no more contracts".
	return pressEnter()
}

func planAddAnotherAdvance(cur Cursor, contracts []indexer.ContractConfig) Advance {
	contract := contracts[cur.Contract]
	if cur.Deployment+1 < len(contract.Deployments) {
		return AdvanceDeployment
	}
	if cur.Contract+1 < len(contracts) {
		return AdvanceContract
	}
	return AdvanceNone
}

// sameNetwork compares deployments by resolved chain id, so "1" and
// "Ethereum Mainnet" count as the same network.
func sameNetwork(a, b indexer.Deployment) bool {
	return network.ResolveToID(a.NetworkID) == network.ResolveToID(b.NetworkID)
}
