package wizard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/indexpilot/indexpilot/internal/indexer"
	"github.com/indexpilot/indexpilot/internal/term"
)

// Terminal is the session surface the driver needs. *term.Session satisfies
// it; tests use a scripted fake that replays recorded wizard transcripts.
type Terminal interface {
	ReadAvailable(timeout time.Duration) (lines []string, eof bool, err error)
	SendText(text string) error
	SendControl(b byte) error
	WaitForExit() term.ExitOutcome
	Close() error
}

const (
	keyEnter = 0x0d // carriage return, what the wizard's menus expect
	keyCtrlC = 0x03

	defaultReadTimeout      = 2 * time.Second
	defaultEmptyReadCeiling = 15
)

// Options tune one driver run. Zero values select the defaults.
type Options struct {
	// ReadTimeout bounds each read step.
	ReadTimeout time.Duration
	// EmptyReadCeiling is how many consecutive reads may yield no new prompt
	// before the run is declared hung.
	EmptyReadCeiling int
	// Rules overrides the prompt table, for wizard versions whose text has
	// drifted from DefaultRules.
	Rules []Rule
	// Transcript, when set, receives one entry per classify/act cycle.
	Transcript *Transcript
	Logger     *slog.Logger
}

// Driver runs the read-classify-respond loop against one wizard session. One
// driver owns one terminal, one cursor, and one immutable contract list; it
// is not reusable across runs.
type Driver struct {
	term      Terminal
	planner   *Planner
	contracts []indexer.ContractConfig
	opts      Options

	cursor     Cursor
	lastPrompt PromptKind
}

// NewDriver builds a driver for a spawned wizard session. The contract list
// must be non-empty and is not copied; the caller must not mutate it while
// the run is active.
func NewDriver(t Terminal, projectDir string, contracts []indexer.ContractConfig, opts Options) *Driver {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	if opts.EmptyReadCeiling <= 0 {
		opts.EmptyReadCeiling = defaultEmptyReadCeiling
	}
	if opts.Rules == nil {
		opts.Rules = DefaultRules()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Driver{
		term:      t,
		planner:   NewPlanner(projectDir),
		contracts: contracts,
		opts:      opts,
	}
}

// Run drives the session until the wizard signals completion, then drains and
// reaps the child. The terminal is closed on every return path. All returned
// errors are *ImportError values carrying the last prompt and cursor.
func (d *Driver) Run(ctx context.Context) error {
	defer d.term.Close()

	if err := d.interact(ctx); err != nil {
		return err
	}
	d.drain()
	return d.reap()
}

// interact is the Interacting state: repeat read/classify/plan/act until the
// planner returns Finish.
func (d *Driver) interact(ctx context.Context) error {
	var window strings.Builder
	emptyReads := 0

	for {
		if err := ctx.Err(); err != nil {
			return d.fail(FailCanceled, err)
		}

		lines, eof, err := d.term.ReadAvailable(d.opts.ReadTimeout)
		if err != nil {
			return d.fail(FailUnexpectedTermination, err)
		}
		if len(lines) > 0 {
			// Flowing output is not a hang, even when none of it is a
			// prompt; template download and extraction phases are chatty.
			emptyReads = 0
		}
		for _, line := range lines {
			window.WriteString(line)
			window.WriteByte('\n')
		}

		cls := Classify(window.String(), d.opts.Rules)
		if cls.Kind == PromptUnrecognized && cls.Prompt == "" {
			// No new prompt yet. End-of-input here means the wizard died
			// before ever reporting success.
			if eof {
				return d.fail(FailUnexpectedTermination, nil)
			}
			if len(lines) == 0 {
				emptyReads++
				if emptyReads > d.opts.EmptyReadCeiling {
					return d.fail(FailHang, nil)
				}
			}
			continue
		}
		emptyReads = 0
		d.lastPrompt = cls.Kind

		if cls.Kind == PromptUnrecognized {
			d.opts.Logger.Warn("unrecognized wizard prompt, answering with Enter",
				"prompt", cls.Prompt, "contract", d.cursor.Contract, "deployment", d.cursor.Deployment)
		}

		action, advance, err := d.planner.Plan(cls.Kind, d.cursor, d.contracts)
		if err != nil {
			return d.fail(FailUnexpectedTermination, err)
		}

		d.opts.Logger.Debug("answering prompt",
			"kind", cls.Kind, "prompt", cls.Prompt,
			"contract", d.cursor.Contract, "deployment", d.cursor.Deployment)
		d.record(cls, action)

		if err := d.act(action); err != nil {
			return d.fail(FailWrite, err)
		}
		d.cursor = d.cursor.Apply(advance)
		// The window is consumed by a successful classification; stale menu
		// text must not bleed into the next prompt.
		window.Reset()

		if action.Type == ActionFinish {
			return nil
		}
		if eof {
			return d.fail(FailUnexpectedTermination, nil)
		}
	}
}

func (d *Driver) act(action Action) error {
	switch action.Type {
	case ActionTypeText:
		if err := d.term.SendText(action.Text); err != nil {
			return err
		}
		return d.term.SendControl(keyEnter)
	case ActionPressKeys:
		for _, key := range action.Keys {
			if err := d.term.SendText(key); err != nil {
				return err
			}
		}
		return d.term.SendControl(keyEnter)
	case ActionPressEnter:
		return d.term.SendControl(keyEnter)
	case ActionFinish:
		// Acknowledge the final prompt so the wizard proceeds to teardown.
		return d.term.SendControl(keyEnter)
	}
	return nil
}

// drain nudges the child toward exit after a successful run: an interrupt
// followed by explicit exit instructions, so a wizard version that lingers at
// a shell-like prompt does not hang the reap. Write errors are expected here
// when the child is already gone.
func (d *Driver) drain() {
	_ = d.term.SendControl(keyCtrlC)
	_ = d.term.SendText("exit")
	_ = d.term.SendControl(keyEnter)
	_ = d.term.SendText("quit")
	_ = d.term.SendControl(keyEnter)
}

// reap waits for process exit. Because drain interrupts the child, a signal
// death or a nonzero code after a success prompt is normal teardown; only an
// undeterminable status is an error.
func (d *Driver) reap() error {
	outcome := d.term.WaitForExit()
	switch outcome.State {
	case term.Exited, term.Signaled:
		d.opts.Logger.Info("wizard process finished", "outcome", outcome.String())
		return nil
	default:
		return d.fail(FailUnexpectedTermination, nil)
	}
}

func (d *Driver) fail(kind FailureKind, err error) error {
	return &ImportError{Kind: kind, Prompt: d.lastPrompt, Cursor: d.cursor, Err: err}
}

func (d *Driver) record(cls Classification, action Action) {
	if d.opts.Transcript == nil {
		return
	}
	if err := d.opts.Transcript.Record(Entry{
		Time:   time.Now().UTC(),
		Kind:   cls.Kind,
		Prompt: cls.Prompt,
		Action: actionLabel(action),
		Cursor: d.cursor,
	}); err != nil {
		d.opts.Logger.Warn("failed to record transcript entry", "error", err)
	}
}

func actionLabel(action Action) string {
	switch action.Type {
	case ActionTypeText:
		return "type:" + action.Text
	case ActionPressKeys:
		return "keys:" + strings.TrimSpace(strings.Repeat("down ", len(action.Keys)))
	case ActionFinish:
		return "finish"
	default:
		return "enter"
	}
}
