package types

import "encoding/json"

// FailureKind classifies a per-entry problem reported by the engine.
type FailureKind string

const (
	// TraversalWarning: a file or subdirectory could not be sized.
	TraversalWarning FailureKind = "traversal_warning"
	// ScanCandidateFailure: a whole candidate could not be sized and was dropped.
	ScanCandidateFailure FailureKind = "scan_candidate_failure"
	// ConflictDeclined: the target existed and the merge was declined.
	ConflictDeclined FailureKind = "conflict_declined"
	// MoveFailure: the move or its bookkeeping failed; source is untouched
	// or the failure is otherwise recoverable.
	MoveFailure FailureKind = "move_failure"
	// DanglingSourceFailure: content was moved but the link back could not
	// be created, so the original path is now missing.
	DanglingSourceFailure FailureKind = "dangling_source"
	// UndoRecordFailure: a log record could not be restored.
	UndoRecordFailure FailureKind = "undo_record_failure"
	// PreconditionFailure: the operation could not start.
	PreconditionFailure FailureKind = "precondition_failure"
)

// Severity orders failure kinds; higher is worse.
func (k FailureKind) Severity() int {
	switch k {
	case ConflictDeclined:
		return 0
	case TraversalWarning:
		return 1
	case ScanCandidateFailure, UndoRecordFailure:
		return 2
	case MoveFailure, PreconditionFailure:
		return 3
	case DanglingSourceFailure:
		return 4
	default:
		return 3
	}
}

// Failure is structured data describing what went wrong with one path.
type Failure struct {
	Kind FailureKind `json:"kind" yaml:"kind"`
	Path string      `json:"path" yaml:"path"`
	Err  error       `json:"-" yaml:"-"`
}

// Reason returns the underlying error text, or an empty string.
func (f Failure) Reason() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

func (f Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind) + ": " + f.Path
	}
	return string(f.Kind) + ": " + f.Path + ": " + f.Err.Error()
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (f Failure) Unwrap() error {
	return f.Err
}

// FilterFailures returns the failures of the given kind.
func FilterFailures(failures []Failure, kind FailureKind) []Failure {
	var out []Failure
	for _, f := range failures {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

type failureView struct {
	Kind   FailureKind `json:"kind" yaml:"kind"`
	Path   string      `json:"path" yaml:"path"`
	Reason string      `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// MarshalJSON includes the underlying error text as "reason".
func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(failureView{Kind: f.Kind, Path: f.Path, Reason: f.Reason()})
}

// MarshalYAML includes the underlying error text as "reason".
func (f Failure) MarshalYAML() (interface{}, error) {
	return failureView{Kind: f.Kind, Path: f.Path, Reason: f.Reason()}, nil
}
