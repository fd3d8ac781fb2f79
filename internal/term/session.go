// Package term owns a child process attached to a pseudo-terminal and
// exposes line-buffered reads with a bounded wait, raw keystroke writes, and
// exit observation. Interactive wizards detect non-TTY stdin and switch to
// non-interactive output, so a real PTY is required rather than pipes.
package term

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// ExitState classifies how the child process ended.
type ExitState int

const (
	// ExitUnknown means the exit status could not be determined.
	ExitUnknown ExitState = iota
	// Exited means the process exited on its own with a code.
	Exited
	// Signaled means the process was terminated by a signal.
	Signaled
)

// ExitOutcome is the observed end state of the child process.
type ExitOutcome struct {
	State  ExitState
	Code   int
	Signal syscall.Signal
}

func (o ExitOutcome) String() string {
	switch o.State {
	case Exited:
		return fmt.Sprintf("exited with code %d", o.Code)
	case Signaled:
		return fmt.Sprintf("terminated by signal %s", o.Signal)
	default:
		return "unknown exit status"
	}
}

// readBufferSize is the chunk size for PTY master reads.
const readBufferSize = 4096

// settleDelay is how long ReadAvailable keeps listening after it already has
// at least one complete line, so prompts split across writes arrive whole.
const settleDelay = 100 * time.Millisecond

// ansiEscape strips terminal control sequences before line matching; the
// wizard colors its prompts and the codes would break substring matches.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// Session is a child process attached to a pseudo-terminal. The process and
// the terminal are one scoped resource: Close releases both on every path.
type Session struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	logger *slog.Logger

	chunks  chan []byte // closed by the pump goroutine on end-of-input
	partial string      // trailing incomplete line carried between reads

	waitOnce sync.Once
	waitErr  error

	closeOnce sync.Once
	closeErr  error
}

// Spawn launches a command under a new pseudo-terminal in dir.
func Spawn(logger *slog.Logger, name string, args []string, dir string) (*Session, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s under a pty: %w", name, err)
	}
	_ = pty.Setsize(ptmx, &pty.Winsize{Rows: 40, Cols: 120})

	logger.Info("spawned wizard process", "cmd", name, "args", args, "pid", cmd.Process.Pid)

	s := &Session{
		cmd:    cmd,
		ptmx:   ptmx,
		logger: logger,
		chunks: make(chan []byte, 64),
	}
	go s.pump()
	return s, nil
}

// pump copies PTY output into the chunk channel until the stream ends. A PTY
// master read fails with EIO once the child closes its side; both that and a
// plain EOF end the stream.
func (s *Session) pump() {
	defer close(s.chunks)
	buf := make([]byte, readBufferSize)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.chunks <- chunk
		}
		if err != nil {
			return
		}
	}
}

// ReadAvailable returns the complete lines that arrive before the timeout
// elapses. It never blocks past the timeout. eof reports that the stream
// reached end-of-input, which is distinct from a timeout with no output. A
// trailing partial line is kept for the next call and flushed on eof.
func (s *Session) ReadAvailable(timeout time.Duration) (lines []string, eof bool, err error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	settleTimer := time.NewTimer(settleDelay)
	settleTimer.Stop()
	defer settleTimer.Stop()

	for {
		var settle <-chan time.Time
		if len(lines) > 0 {
			settle = settleTimer.C
		}

		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				if rest := strings.TrimSpace(stripControl(s.partial)); rest != "" {
					lines = append(lines, rest)
				}
				s.partial = ""
				return lines, true, nil
			}
			hadLines := len(lines) > 0
			lines = append(lines, s.appendChunk(chunk)...)
			if !hadLines && len(lines) > 0 {
				settleTimer.Reset(settleDelay)
			}
		case <-deadline.C:
			return lines, false, nil
		case <-settle:
			return lines, false, nil
		}
	}
}

// appendChunk folds a raw chunk into the partial buffer and returns any
// complete lines it produced.
func (s *Session) appendChunk(chunk []byte) []string {
	s.partial += string(chunk)
	var lines []string
	for {
		i := strings.IndexByte(s.partial, '\n')
		if i < 0 {
			return lines
		}
		line := stripControl(s.partial[:i])
		s.partial = s.partial[i+1:]
		lines = append(lines, line)
	}
}

func stripControl(line string) string {
	line = ansiEscape.ReplaceAllString(line, "")
	return strings.TrimRight(line, "\r")
}

// SendText writes raw bytes to the pseudo-terminal.
func (s *Session) SendText(text string) error {
	if _, err := s.ptmx.WriteString(text); err != nil {
		return fmt.Errorf("pty write failed: %w", err)
	}
	return nil
}

// SendControl writes a single control byte, e.g. 0x0d (Enter) or 0x03
// (Ctrl-C).
func (s *Session) SendControl(b byte) error {
	if _, err := s.ptmx.Write([]byte{b}); err != nil {
		return fmt.Errorf("pty control write failed: %w", err)
	}
	return nil
}

// awaitExit reaps the child exactly once. Output still arriving is discarded
// from here on: without a consumer the pump blocks on a full chunk channel,
// the PTY buffer fills, and a chatty child would never reach its exit.
func (s *Session) awaitExit() {
	s.waitOnce.Do(func() {
		go func() {
			for range s.chunks {
			}
		}()
		s.waitErr = s.cmd.Wait()
	})
}

// WaitForExit blocks until the child exits and classifies the outcome. Safe
// to call more than once.
func (s *Session) WaitForExit() ExitOutcome {
	s.awaitExit()

	state, ok := processState(s.cmd, s.waitErr)
	if !ok {
		return ExitOutcome{State: ExitUnknown}
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return ExitOutcome{State: Signaled, Signal: ws.Signal()}
		}
		if ws.Exited() {
			return ExitOutcome{State: Exited, Code: ws.ExitStatus()}
		}
		return ExitOutcome{State: ExitUnknown}
	}
	return ExitOutcome{State: Exited, Code: state.ExitCode()}
}

func processState(cmd *exec.Cmd, waitErr error) (*os.ProcessState, bool) {
	if cmd.ProcessState != nil {
		return cmd.ProcessState, true
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok && exitErr.ProcessState != nil {
		return exitErr.ProcessState, true
	}
	return nil, false
}

// Close releases the session: a best-effort kill if the child has not exited,
// then reap and close the terminal. Idempotent; every driver exit path calls
// it so no child process outlives its run.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.cmd.ProcessState == nil && s.cmd.Process != nil {
			if err := s.cmd.Process.Kill(); err != nil && !strings.Contains(err.Error(), "already finished") {
				s.logger.Warn("failed to kill wizard process", "pid", s.cmd.Process.Pid, "error", err)
			}
			s.awaitExit()
		}
		s.closeErr = s.ptmx.Close()
	})
	return s.closeErr
}
