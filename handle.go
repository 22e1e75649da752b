package assets

import (
	"weak"

	"github.com/google/uuid"
)

// Handle is a non-owning reference to a [Record]. Handles are small values:
// copy them freely, store them in components, send them to other goroutines.
// A handle never extends the record's lifetime; once the store releases its
// strong reference and no other strong reference remains, Upgrade fails.
//
// The zero Handle is valid and upgrades to nothing.
type Handle[T any] struct {
	id  uuid.UUID
	ref weak.Pointer[Record[T]]
}

// makeHandle derives a weak handle from a strong record reference.
func makeHandle[T any](r *Record[T]) Handle[T] {
	return Handle[T]{
		id:  r.id,
		ref: weak.Make(r),
	}
}

// Upgrade returns a strong reference to the record, or (nil, false) if the
// record no longer exists. It never panics and is safe to call from any
// goroutine. The returned record keeps the asset alive for as long as the
// caller retains it, so short-lived use at call sites is preferred.
func (h Handle[T]) Upgrade() (*Record[T], bool) {
	r := h.ref.Value()
	return r, r != nil
}

// ID returns the identity of the referenced record. The identity remains
// valid for comparison even after the record itself is gone.
func (h Handle[T]) ID() uuid.UUID { return h.id }

// Equal reports whether two handles reference the same record, by record
// identity. Two handles obtained from separate copies of each other compare
// equal; handles to distinct records never do.
func (h Handle[T]) Equal(other Handle[T]) bool {
	return h.id == other.id
}
