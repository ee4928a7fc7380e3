package outputcache

// Status classifies the outcome of an update cycle.
type Status int

const (
	// StatusOK means the cycle completed and the index was republished.
	StatusOK Status = iota

	// StatusCancelled means the cycle was abandoned because the caller's
	// context was cancelled. The index is left unchanged; transfers that
	// already completed are not rolled back.
	StatusCancelled

	// StatusFailed means the cycle could not run to completion. The
	// index is left unchanged and the next cycle re-attempts whatever is
	// still needed.
	StatusFailed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports one update cycle's outcome to the orchestrator.
//
// Err is set for StatusFailed and StatusCancelled; Copied and Deleted
// count the transfer units that took effect before the cycle ended,
// whatever the status.
type Result struct {
	Status  Status
	Err     error
	Copied  int
	Deleted int
}
