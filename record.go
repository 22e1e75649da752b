package assets

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Record is the authoritative storage cell for one asset: a process-unique
// identity, optional diagnostic name and origin path, and the load state
// machine. The store keeps the strong reference to every record it creates;
// callers normally reach a record only by upgrading a [Handle].
//
// Record is safe for concurrent use. State transitions take the write lock
// and are linearizable: a concurrent reader observes exactly one of the
// defined states, never a partially applied transition.
type Record[T any] struct {
	id   uuid.UUID
	name string
	path string

	mu     sync.RWMutex
	status Status
	value  T
	err    error

	// done is closed exactly once, when the record reaches a terminal
	// state. It is the blocking-wait primitive behind Wait.
	done chan struct{}

	// logger is inherited from the creating store.
	logger *slog.Logger
}

// newRecord creates a record in the given initial state. Only the store
// constructs records; the transition protocol is the public surface.
func newRecord[T any](logger *slog.Logger, status Status, path string, opts ...RecordOption) *Record[T] {
	var ro recordOptions
	for _, opt := range opts {
		opt(&ro)
	}
	r := &Record[T]{
		id:     uuid.New(),
		name:   ro.name,
		path:   path,
		status: status,
		done:   make(chan struct{}),
		logger: logger,
	}
	if status.Terminal() {
		close(r.done)
	}
	return r
}

// ID returns the record's process-unique identity.
func (r *Record[T]) ID() uuid.UUID { return r.id }

// Name returns the optional human-readable name, or "".
func (r *Record[T]) Name() string { return r.name }

// Path returns the origin path or key the record was created with, or "".
// For records created by [Insert] there is no origin.
func (r *Record[T]) Path() string { return r.path }

// Status returns the record's current state tag.
func (r *Record[T]) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Value returns the asset value if the record is terminal.
// It returns [ErrNotReady] while the record is queued or loading, and the
// recorded load error if the record failed. Value never blocks.
func (r *Record[T]) Value() (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch r.status {
	case StatusReady:
		return r.value, nil
	case StatusFailed:
		var zero T
		return zero, r.err
	default:
		var zero T
		return zero, ErrNotReady
	}
}

// Poll is the non-blocking readiness check: it returns the value (if ready),
// the current state tag, and the load error (if failed), without waiting.
func (r *Record[T]) Poll() (T, Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value, r.status, r.err
}

// Err returns the load error if the record failed, or nil.
func (r *Record[T]) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Done returns a channel that is closed when the record reaches a terminal
// state. It can be selected on together with other channels; for plain
// waiting use Wait.
func (r *Record[T]) Done() <-chan struct{} { return r.done }

// Wait blocks until the record reaches a terminal state or ctx is done.
// On StatusReady it returns the value; on StatusFailed the recorded error;
// on context expiry the context's error. Wait is the only blocking point in
// the package and it is always bounded by the caller's context.
func (r *Record[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		return r.Value()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// StartLoading transitions the record from StatusQueued to StatusLoading.
// External load drivers call this when they pick up a queued record.
// It returns [ErrBadTransition] from any other state.
func (r *Record[T]) StartLoading() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusQueued {
		return ErrBadTransition
	}
	r.status = StatusLoading
	r.logger.Debug("asset loading", r.logAttrs()...)
	return nil
}

// Complete transitions the record to StatusReady with the given value.
// Permitted from StatusQueued or StatusLoading; from a terminal state it
// returns [ErrBadTransition] and leaves the record unchanged, so a late
// background completion can never overwrite a recorded failure.
func (r *Record[T]) Complete(value T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Terminal() {
		return ErrBadTransition
	}
	r.status = StatusReady
	r.value = value
	close(r.done)
	r.logger.Debug("asset ready", r.logAttrs()...)
	return nil
}

// Fail transitions the record to StatusFailed with the given error.
// Permitted from StatusQueued or StatusLoading; from a terminal state it
// returns [ErrBadTransition]. A nil err is recorded as ErrTaskAbandoned so a
// failed record always carries a non-nil error.
func (r *Record[T]) Fail(err error) error {
	if err == nil {
		err = ErrTaskAbandoned
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Terminal() {
		return ErrBadTransition
	}
	r.status = StatusFailed
	r.err = err
	close(r.done)
	r.logger.Warn("asset load failed", append(r.logAttrs(), slog.Any("err", err))...)
	return nil
}

// Info returns a point-in-time snapshot of the record's metadata and state,
// without exposing the value.
func (r *Record[T]) Info() Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Info{
		ID:     r.id,
		Name:   r.name,
		Path:   r.path,
		Status: r.status,
		Err:    r.err,
	}
}

// logAttrs returns the identifying attributes for log records.
// Reads only immutable fields, so it is safe with or without the lock.
func (r *Record[T]) logAttrs() []any {
	attrs := []any{slog.String("id", r.id.String())}
	if r.name != "" {
		attrs = append(attrs, slog.String("name", r.name))
	}
	if r.path != "" {
		attrs = append(attrs, slog.String("path", r.path))
	}
	return attrs
}

// erased is the type-erasure surface: the store holds heterogeneous records
// behind this interface so assets of differing concrete types share one
// collection. The unexported method seals it to *Record[T]; recovering a
// concrete record is always a checked type assertion, never a reinterpretation.
type erased interface {
	Info() Info
	failErased(err error) bool
}

// failErased transitions to StatusFailed without the generic value type.
// Used by Store.Close to cancel in-flight records. Returns false if the
// record was already terminal.
func (r *Record[T]) failErased(err error) bool {
	return r.Fail(err) == nil
}

var _ erased = (*Record[int])(nil)
