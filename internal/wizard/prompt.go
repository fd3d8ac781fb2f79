// Package wizard drives the envio contract-import wizard over a
// pseudo-terminal: it classifies prompt text, plans responses against the
// configured contract list, and runs the read-classify-respond loop until the
// wizard signals completion.
//
// The wizard has no formal grammar and its prompt wording drifts between
// releases, so classification runs over an ordered rule table instead of
// scattered conditionals. Rules are matched most specific first; callers can
// supply their own table when the wizard's text changes.
package wizard

import "strings"

// PromptKind identifies a known wizard prompt.
type PromptKind string

const (
	PromptFolderName      PromptKind = "folder_name"
	PromptLanguage        PromptKind = "language"
	PromptEventSelection  PromptKind = "event_selection"
	PromptAbiPath         PromptKind = "abi_path"
	PromptImportSource    PromptKind = "import_source"
	PromptBlockchainList  PromptKind = "blockchain_list"
	PromptNetworkChoice   PromptKind = "network_choice"
	PromptNetworkID       PromptKind = "network_id"
	PromptContractName    PromptKind = "contract_name"
	PromptContractAddress PromptKind = "contract_address"
	PromptAddAnother      PromptKind = "add_another_contract"
	PromptAPIToken        PromptKind = "api_token"
	PromptRPCURL          PromptKind = "rpc_url"
	PromptStartBlock      PromptKind = "start_block"
	PromptTemplateReady   PromptKind = "template_ready"
	PromptFinalDone       PromptKind = "final_done"
	PromptUnrecognized    PromptKind = "unrecognized"
)

// Rule matches one PromptKind. A rule matches when any Line substring appears
// on the question line, every LineAll substring appears on the question line,
// or any Window substring appears anywhere in the accumulated window (menu
// options are printed on the lines below the question, so some variants can
// only be recognized from context).
type Rule struct {
	Kind    PromptKind
	Line    []string
	LineAll []string
	Window  []string
}

func (r Rule) matches(question, window string) bool {
	for _, sub := range r.Line {
		if strings.Contains(question, sub) {
			return true
		}
	}
	if len(r.LineAll) > 0 {
		all := true
		for _, sub := range r.LineAll {
			if !strings.Contains(question, sub) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	for _, sub := range r.Window {
		if strings.Contains(window, sub) {
			return true
		}
	}
	return false
}

// DefaultRules is the prompt table for the wizard versions this tool has been
// run against. Order is precedence: "Specify a folder name" must be checked
// before the contract-name rule because both contain "name".
func DefaultRules() []Rule {
	return []Rule{
		{Kind: PromptTemplateReady, Line: []string{"Project template ready"},
			Window: []string{"Project template ready"}},
		{Kind: PromptFinalDone, Line: []string{"add a token later to your .env file"},
			Window: []string{"and add a token later to your .env file"}},
		{Kind: PromptFolderName, Line: []string{"Specify a folder name"}},
		{Kind: PromptLanguage, Line: []string{
			"Which language would you like to use?", "Javascript", "Typescript", "ReScript",
		}},
		{Kind: PromptEventSelection, Line: []string{"Which events would you like to index?"},
			LineAll: []string{"space to select one", "type to filter"}},
		{Kind: PromptAbiPath, Line: []string{"What is the path to your json abi file?"}},
		{Kind: PromptImportSource, Line: []string{"Would you like to import from a block explorer or a local abi?"},
			LineAll: []string{"block explorer", "local abi"}},
		{Kind: PromptBlockchainList, Line: []string{"Which blockchain would you like to import a contract from?"}},
		{Kind: PromptNetworkChoice, Line: []string{"Choose network:", "<Enter Network Id>"}},
		{Kind: PromptNetworkID, Line: []string{"Enter the network id:"}},
		{Kind: PromptAddAnother, Line: []string{"Would you like to add another contract?"}},
		{Kind: PromptContractAddress, Line: []string{"What is the address of the contract?"}},
		{Kind: PromptContractName, Line: []string{
			"What is the name of this contract?",
			"Use the proxy address if your abi is a proxy implementation",
		}},
		{Kind: PromptRPCURL, Line: []string{"Enter the rpc url", "What is the RPC URL"}},
		{Kind: PromptStartBlock, Line: []string{"start block", "Which block would you like to start indexing from?"}},
		{Kind: PromptAPIToken, Line: []string{
			"Add an API token for HyperSync to your .env file?",
			"Add your API token:",
		}},
		// Last resort for closing announcements that only carry the token URL.
		// This sits below the API-token rule so a help line quoting the URL
		// inside the token prompt does not end the run early.
		{Kind: PromptFinalDone, Window: []string{"envio.dev/app/api-tokens"}},
	}
}

// Classification is the result of classifying an output window.
type Classification struct {
	Kind PromptKind
	// Prompt is the question line that matched; for PromptUnrecognized it is
	// the raw unmatched question text, empty when no question arrived at all.
	Prompt string
}

// Classify inspects the accumulated output window and returns exactly one
// PromptKind. It is a pure function of its inputs: no I/O, no state.
//
// The most recent line containing a question mark is the question line. When
// no line contains one, only Window patterns apply (the terminal prompts like
// "Project template ready" are announcements, not questions); if nothing
// matches the result is Unrecognized with empty text, meaning no new prompt
// has arrived yet.
func Classify(window string, rules []Rule) Classification {
	question := lastQuestionLine(window)
	for _, rule := range rules {
		if rule.matches(question, window) {
			prompt := question
			if prompt == "" {
				prompt = strings.TrimSpace(window)
			}
			return Classification{Kind: rule.Kind, Prompt: prompt}
		}
	}
	return Classification{Kind: PromptUnrecognized, Prompt: question}
}

func lastQuestionLine(window string) string {
	lines := strings.Split(window, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], "?") {
			return strings.TrimSpace(lines[i])
		}
	}
	return ""
}
