package assets

import "errors"

// Sentinel errors returned by the store and record transition protocol.
var (
	// ErrNotReady is returned by Record.Value when the record has not
	// reached a terminal state yet. Callers that need the value now should
	// use Record.Wait instead of polling.
	ErrNotReady = errors.New("assets: record not ready")

	// ErrBadTransition is returned when a state transition would move the
	// record backwards (e.g. completing an already-failed record). The
	// record is left unchanged.
	ErrBadTransition = errors.New("assets: invalid state transition")

	// ErrStoreClosed is recorded as the failure of every record that was
	// still queued or loading when the store shut down, and returned by
	// entry points called after Close.
	ErrStoreClosed = errors.New("assets: store closed")

	// ErrTaskAbandoned wraps the failure recorded when a background load
	// terminated without producing a value (panic in the work function).
	ErrTaskAbandoned = errors.New("assets: background load abandoned")
)
