package wizard

import "fmt"

// FailureKind classifies terminal import failures. None of these are retried
// here; retry policy belongs to the caller, starting from a clean directory.
type FailureKind string

const (
	// FailSpawn means the wizard executable could not be launched.
	FailSpawn FailureKind = "spawn_failure"
	// FailWrite means the pseudo-terminal closed mid-write.
	FailWrite FailureKind = "write_failure"
	// FailHang means no new output arrived within the configured ceiling.
	FailHang FailureKind = "hang_detected"
	// FailUnexpectedTermination means the process exited before a success
	// prompt was observed.
	FailUnexpectedTermination FailureKind = "unexpected_termination"
	// FailArtifactMissing means the wizard reported success but the expected
	// config file was never written.
	FailArtifactMissing FailureKind = "artifact_missing"
	// FailCanceled means the caller abandoned the run.
	FailCanceled FailureKind = "canceled"
)

// ImportError is a terminal failure of one import run. It carries the last
// classified prompt and the cursor position so a failed run can be traced to
// the exact contract/deployment iteration the automation was on.
type ImportError struct {
	Kind   FailureKind
	Prompt PromptKind
	Cursor Cursor
	Err    error
}

func (e *ImportError) Error() string {
	msg := fmt.Sprintf("%s (last prompt %s, contract %d deployment %d)",
		e.Kind, e.Prompt, e.Cursor.Contract, e.Cursor.Deployment)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ImportError) Unwrap() error { return e.Err }
