package assets

// Status describes a record's position in its load state machine.
//
// Transitions only ever move forward:
//
//	StatusQueued → StatusLoading → StatusReady
//	                            ↘  StatusFailed
//
// StatusReady and StatusFailed are terminal. A record inserted with a value
// starts directly at StatusReady; a record created by [Load] starts at
// StatusQueued; a record created by [Generate] starts at StatusLoading.
type Status int

const (
	// StatusQueued means the record carries an origin describing how to
	// produce its value, but no work has started.
	StatusQueued Status = iota

	// StatusLoading means background work has been dispatched and the
	// record's value is not yet available.
	StatusLoading

	// StatusReady means the record holds its value. Terminal.
	StatusReady

	// StatusFailed means the load failed; the error is stored in the
	// record. Terminal.
	StatusFailed
)

// Terminal reports whether no further transition can occur from s.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusFailed
}

// String returns the status name for logging and diagnostics.
func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
