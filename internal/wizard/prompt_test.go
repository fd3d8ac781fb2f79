package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_KnownPrompts(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name   string
		window string
		want   PromptKind
	}{
		{
			name:   "folder name",
			window: "? Specify a folder name (or . for current directory)?\n",
			want:   PromptFolderName,
		},
		{
			name:   "language",
			window: "? Which language would you like to use?\n> Javascript\n  Typescript\n  ReScript\n",
			want:   PromptLanguage,
		},
		{
			name:   "event selection",
			window: "? Which events would you like to index? (press space to select one, type to filter)\n",
			want:   PromptEventSelection,
		},
		{
			name:   "abi path",
			window: "? What is the path to your json abi file?\n",
			want:   PromptAbiPath,
		},
		{
			name:   "import source",
			window: "? Would you like to import from a block explorer or a local abi?\n",
			want:   PromptImportSource,
		},
		{
			name:   "network menu",
			window: "? Choose network:\n> <Enter Network Id>\n  Ethereum Mainnet\n",
			want:   PromptNetworkChoice,
		},
		{
			name:   "network id",
			window: "? Enter the network id:\n",
			want:   PromptNetworkID,
		},
		{
			name:   "contract name",
			window: "? What is the name of this contract?\n",
			want:   PromptContractName,
		},
		{
			name:   "contract address",
			window: "? What is the address of the contract?\n",
			want:   PromptContractAddress,
		},
		{
			name:   "add another contract",
			window: "? Would you like to add another contract?\n> No\n  Yes\n",
			want:   PromptAddAnother,
		},
		{
			name:   "api token",
			window: "? Add an API token for HyperSync to your .env file?\n",
			want:   PromptAPIToken,
		},
		{
			name:   "template ready without question mark",
			window: "Project template ready\n",
			want:   PromptTemplateReady,
		},
		{
			name:   "final token hint",
			window: "You can always visit 'https://envio.dev/app/api-tokens' and add a token later to your .env file.\n",
			want:   PromptFinalDone,
		},
		{
			name:   "url-only closing announcement",
			window: "Visit https://envio.dev/app/api-tokens to create a token\n",
			want:   PromptFinalDone,
		},
		{
			name:   "api token prompt quoting the token url in help text",
			window: "? Add an API token for HyperSync to your .env file?\n  Get one at https://envio.dev/app/api-tokens\n",
			want:   PromptAPIToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.window, rules)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

// The folder-name prompt and the contract-name prompt both contain "name";
// precedence comes from table order, not from accident.
func TestClassify_Precedence(t *testing.T) {
	rules := DefaultRules()

	got := Classify("? Specify a folder name for this contract setup?\n", rules)
	assert.Equal(t, PromptFolderName, got.Kind)

	got = Classify("? What is the name of this contract?\n", rules)
	assert.Equal(t, PromptContractName, got.Kind)
}

func TestClassify_MostRecentQuestionWins(t *testing.T) {
	window := "? Which language would you like to use?\nTypescript\n? What is the name of this contract?\n"
	got := Classify(window, DefaultRules())
	assert.Equal(t, PromptContractName, got.Kind)
}

func TestClassify_NoQuestionMark(t *testing.T) {
	got := Classify("Downloading template files...\nInstalling dependencies\n", DefaultRules())
	assert.Equal(t, PromptUnrecognized, got.Kind)
	assert.Empty(t, got.Prompt)
}

func TestClassify_UnrecognizedKeepsRawText(t *testing.T) {
	got := Classify("? Is this a prompt nobody has seen before?\n", DefaultRules())
	require.Equal(t, PromptUnrecognized, got.Kind)
	assert.Equal(t, "? Is this a prompt nobody has seen before?", got.Prompt)
}

// Classification must be a pure function of the window: same input, same
// result, no hidden state.
func TestClassify_Deterministic(t *testing.T) {
	rules := DefaultRules()
	window := "? Would you like to add another contract?\n> No\n"

	first := Classify(window, rules)
	second := Classify(window, rules)
	assert.Equal(t, first, second)
}
