package assets

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// LoadFunc produces an asset value or a descriptive failure. Work functions
// run on their own goroutine: they must be safe to execute off the calling
// goroutine and must not assume which goroutine runs them.
type LoadFunc[T any] func() (T, error)

// Info is a point-in-time snapshot of one record's metadata and state, used
// for enumeration and diagnostics. It never carries the asset value.
type Info struct {
	ID     uuid.UUID
	Name   string
	Path   string
	Status Status
	Err    error
}

// Store owns the strong references to every asset record it creates and is
// the single point of insertion and load scheduling. Records of differing
// concrete types share one type-erased collection; callers hold only weak
// [Handle] values.
//
// A Store is not a global: create one with [New], pass it explicitly, and
// release it with [Store.Close] (or [Store.Shutdown] for a bounded wait on
// in-flight loads).
//
// Store is safe for concurrent use. Insertion is append-mostly and guarded
// by a store-level mutex, coarser than the per-record locking.
type Store struct {
	mu      sync.Mutex
	records []erased
	closed  bool

	// wg tracks background load goroutines dispatched by Generate.
	wg sync.WaitGroup

	logger *slog.Logger
}

// New creates an empty store.
func New(opts ...StoreOption) *Store {
	var so storeOptions
	for _, opt := range opts {
		opt(&so)
	}
	return &Store{logger: so.logger}
}

// log returns the store's logger, falling back to the package logger.
func (s *Store) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return Logger()
}

// retain stores a strong reference to the record unless the store is closed.
// Returns false if the store no longer retains records.
func (s *Store) retain(r erased) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.records = append(s.records, r)
	return true
}

// retainLoading is retain for records whose work runs on a background
// goroutine. The WaitGroup registration happens in the same critical section,
// so every successful Add is ordered before Close sets closed and therefore
// before Shutdown's Wait; a failed retain never registers a worker.
func (s *Store) retainLoading(r erased) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.records = append(s.records, r)
	s.wg.Add(1)
	return true
}

// Insert wraps an already-available value as a ready record, stores a strong
// reference internally and returns a weak handle. Insert always succeeds.
//
// After Close the store retains nothing, so the returned handle lapses as
// soon as the record is collected.
func Insert[T any](s *Store, value T, opts ...RecordOption) Handle[T] {
	r := newRecord[T](s.log(), StatusReady, "", opts...)
	r.value = value
	s.retain(r)
	s.log().Debug("asset inserted", r.logAttrs()...)
	return makeHandle(r)
}

// Load creates a record in StatusQueued carrying origin and returns a weak
// handle. Load starts no work: a separate driver is expected to pick the
// record up and walk it through the transition protocol
// ([Record.StartLoading], [Record.Complete], [Record.Fail]).
//
// If the store is already closed the record is created failed with
// [ErrStoreClosed]. Nothing retains that failed record, so upgrade the
// handle promptly: once the record is collected the only observation left
// is a failed [Handle.Upgrade].
func Load[T any](s *Store, origin string, opts ...RecordOption) Handle[T] {
	r := newRecord[T](s.log(), StatusQueued, origin, opts...)
	if !s.retain(r) {
		_ = r.Fail(ErrStoreClosed)
		return makeHandle(r)
	}
	s.log().Debug("asset queued", r.logAttrs()...)
	return makeHandle(r)
}

// Generate creates a record in StatusLoading and dispatches work on its own
// goroutine. Generate never blocks the caller. When the work completes, the
// record transitions to StatusReady with its value, or StatusFailed with its
// error; a panic in the work function is recovered and recorded as an
// [ErrTaskAbandoned] failure so handle holders never observe a record stuck
// in StatusLoading.
//
// If the store is already closed the work is not dispatched and the record
// is created failed with [ErrStoreClosed]. Nothing retains that failed
// record, so upgrade the handle promptly: once the record is collected the
// only observation left is a failed [Handle.Upgrade].
func Generate[T any](s *Store, origin string, work LoadFunc[T], opts ...RecordOption) Handle[T] {
	r := newRecord[T](s.log(), StatusLoading, origin, opts...)
	if !s.retainLoading(r) {
		_ = r.Fail(ErrStoreClosed)
		return makeHandle(r)
	}
	s.log().Debug("asset generating", r.logAttrs()...)

	go func() {
		defer s.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				// The transition no-ops if the record already
				// reached a terminal state (e.g. Close failed it).
				_ = r.Fail(fmt.Errorf("%w: panic: %v", ErrTaskAbandoned, p))
			}
		}()
		value, err := work()
		if err != nil {
			_ = r.Fail(err)
			return
		}
		_ = r.Complete(value)
	}()
	return makeHandle(r)
}

// Lookup recovers a typed handle for a live record by identity, or a zero
// handle if the record is gone or its concrete type does not match T.
// The downcast is a checked type assertion.
func Lookup[T any](s *Store, id uuid.UUID) (Handle[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		r, ok := rec.(*Record[T])
		if ok && r.id == id {
			return makeHandle(r), true
		}
	}
	return Handle[T]{}, false
}

// Records returns a snapshot of every live record's metadata and state tag,
// in insertion order. Values are not exposed; diagnostic and hot-reload
// collaborators correlate on ID, name and path.
func (s *Store) Records() []Info {
	s.mu.Lock()
	records := make([]erased, len(s.records))
	copy(records, s.records)
	s.mu.Unlock()

	infos := make([]Info, len(records))
	for i, r := range records {
		infos[i] = r.Info()
	}
	return infos
}

// Len returns the number of records the store currently retains.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Remove drops the store's strong reference to one record. Handles already
// derived from it lapse once no other strong reference keeps it alive.
// Remove is the eviction extension point; the baseline store never evicts.
func (s *Store) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.Info().ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// Close shuts the store down: every record still queued or loading is failed
// with [ErrStoreClosed] so waiters wake instead of hanging, and all strong
// references are released, letting weak handles lapse. Close returns
// immediately; background work already in flight keeps running but its late
// result is discarded by the forward-only transition rule. Close is
// idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	records := s.records
	s.records = nil
	s.mu.Unlock()

	cancelled := 0
	for _, r := range records {
		if r.failErased(ErrStoreClosed) {
			cancelled++
		}
	}
	s.log().Debug("store closed",
		slog.Int("records", len(records)),
		slog.Int("cancelled", cancelled))
}

// Shutdown closes the store and then waits, bounded by ctx, for background
// load goroutines to finish. It returns ctx's error if the wait was cut
// short; the store is closed either way.
func (s *Store) Shutdown(ctx context.Context) error {
	s.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
