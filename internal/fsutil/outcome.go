package fsutil

import "fmt"

// OutcomeKind classifies the result of a single artifact write.
type OutcomeKind int

const (
	// OutcomeWritten means the destination now holds the rendered content.
	OutcomeWritten OutcomeKind = iota
	// OutcomeSkippedExisting means the destination already existed and the
	// idempotency policy left it untouched.
	OutcomeSkippedExisting
	// OutcomeFailed means the write did not complete; the destination is
	// guaranteed to be either absent or holding its previous content.
	OutcomeFailed
)

// String returns a stable, log-friendly name for the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeWritten:
		return "written"
	case OutcomeSkippedExisting:
		return "skipped-existing"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// WriteOutcome records what happened to one destination path.
// Err is non-nil only when Kind is OutcomeFailed.
type WriteOutcome struct {
	Path string
	Kind OutcomeKind
	Err  error
}

// OK reports whether the outcome is terminal-success (written or skipped).
func (o WriteOutcome) OK() bool {
	return o.Kind != OutcomeFailed
}
