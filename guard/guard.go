// Package guard confines a value to the goroutine that wrapped it.
//
// Native graphics handles (GL objects, WebGPU surfaces bound to a pinned OS
// thread) are safe to *move* between goroutines as opaque values but must
// only be *used* on the goroutine that created them. Guard makes that
// discipline explicit: the guard itself can be stored, queued and sent
// anywhere, while every access first checks the caller's identity and
// deterministically fails off-owner instead of corrupting state.
//
// The unit of confinement is the goroutine. A render goroutine that owns a
// native context pins its OS thread with runtime.LockOSThread, so goroutine
// confinement implies thread confinement for the handles it guards.
package guard

import (
	"fmt"

	"github.com/gogpu/assets/internal/goid"
)

// ConfinementError reports an access to a guarded value from a goroutine
// other than its owner. It indicates an architectural bug at the call site,
// not a recoverable runtime condition: [Guard.MustGet] panics with it rather
// than returning it.
type ConfinementError struct {
	// Owner is the goroutine the guard was constructed on.
	Owner uint64
	// Caller is the goroutine that attempted the access.
	Caller uint64
}

func (e *ConfinementError) Error() string {
	return fmt.Sprintf("guard: value owned by goroutine %d accessed from goroutine %d", e.Owner, e.Caller)
}

// Guard wraps a value that must only be accessed on the goroutine that
// constructed the guard. The guard itself may be freely relocated; only
// access, not possession, is restricted.
//
// All accessors are safe to call from any goroutine: off-owner they report
// failure without touching the value.
type Guard[T any] struct {
	value T
	owner uint64

	// released is set when TryIntoInner hands the value back. Only the
	// owner goroutine ever reads or writes it after construction, so it
	// needs no synchronization.
	released bool
}

// New wraps value, recording the current goroutine as its owner.
func New[T any](value T) *Guard[T] {
	return &Guard[T]{
		value: value,
		owner: goid.Current(),
	}
}

// Owned reports whether the calling goroutine is the guard's owner.
func (g *Guard[T]) Owned() bool {
	return g.owner == goid.Current()
}

// Get returns a pointer to the guarded value if called on the owner
// goroutine, and (nil, false) otherwise. There is no fallback and no stale
// copy: off-owner callers get nothing.
func (g *Guard[T]) Get() (*T, bool) {
	if !g.Owned() || g.released {
		return nil, false
	}
	return &g.value, true
}

// MustGet returns a pointer to the guarded value or panics with a
// [*ConfinementError] when called off-owner (or after the value was taken
// with TryIntoInner). Use it at call sites where being on the wrong
// goroutine is a bug that should surface loudly.
func (g *Guard[T]) MustGet() *T {
	caller := goid.Current()
	if caller != g.owner {
		panic(&ConfinementError{Owner: g.owner, Caller: caller})
	}
	if g.released {
		panic(&ConfinementError{Owner: g.owner, Caller: caller})
	}
	return &g.value
}

// TryIntoInner takes the value out of the guard. It succeeds only on the
// owner goroutine; elsewhere it returns (zero, false) and leaves the guard
// intact so the caller may still relocate it (e.g. send it back to the owner
// for teardown). After a successful take the guard is spent: all further
// accesses fail.
func (g *Guard[T]) TryIntoInner() (T, bool) {
	if !g.Owned() || g.released {
		var zero T
		return zero, false
	}
	value := g.value
	var zero T
	g.value = zero
	g.released = true
	return value, true
}
