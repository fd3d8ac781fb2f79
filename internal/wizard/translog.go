package wizard

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Entry is one classify/act cycle of a wizard run.
type Entry struct {
	Time   time.Time  `json:"ts"`
	Kind   PromptKind `json:"kind"`
	Prompt string     `json:"prompt"`
	Action string     `json:"action"`
	Cursor Cursor     `json:"cursor"`
}

// Transcript appends run entries to a newline-delimited JSON file. The file
// is the maintenance record for the prompt table: unrecognized prompts show
// up here with their raw text.
type Transcript struct {
	file   *os.File
	writer *bufio.Writer
}

// OpenTranscript opens (or creates) a transcript file for appending.
func OpenTranscript(path string) (*Transcript, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	return &Transcript{file: f, writer: bufio.NewWriter(f)}, nil
}

// Record appends one entry as a single JSON line and flushes, so a crashed
// run still leaves a complete record.
func (t *Transcript) Record(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript entry: %w", err)
	}
	if _, err := t.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write transcript entry: %w", err)
	}
	if err := t.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write transcript newline: %w", err)
	}
	return t.writer.Flush()
}

// Close flushes and closes the underlying file.
func (t *Transcript) Close() error {
	if err := t.writer.Flush(); err != nil {
		t.file.Close()
		return err
	}
	return t.file.Close()
}
