package assets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestInsertImmediatelyReady(t *testing.T) {
	s := New()
	defer s.Close()

	h := Insert(s, 3.14, WithName("pi"))
	r, ok := h.Upgrade()
	if !ok {
		t.Fatal("Upgrade failed right after Insert")
	}
	if got := r.Status(); got != StatusReady {
		t.Errorf("status = %v, want ready", got)
	}
	v, err := r.Value()
	if err != nil || v != 3.14 {
		t.Errorf("Value = (%v, %v), want (3.14, nil)", v, err)
	}
	if r.Name() != "pi" {
		t.Errorf("Name = %q, want pi", r.Name())
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestLoadQueuedUntilDriven(t *testing.T) {
	s := New()
	defer s.Close()

	h := Load[[]byte](s, "models/fox.glb")
	r, ok := h.Upgrade()
	if !ok {
		t.Fatal("Upgrade failed after Load")
	}
	if got := r.Status(); got != StatusQueued {
		t.Fatalf("status = %v, want queued", got)
	}
	if r.Path() != "models/fox.glb" {
		t.Errorf("Path = %q", r.Path())
	}

	// An external driver walks the record through the protocol.
	if err := r.StartLoading(); err != nil {
		t.Fatal(err)
	}
	if err := r.Complete([]byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	v, err := r.Value()
	if err != nil || len(v) != 3 {
		t.Errorf("Value = (%v, %v)", v, err)
	}
}

func TestGenerateSuccess(t *testing.T) {
	s := New()
	defer s.Close()

	gate := make(chan struct{})
	h := Generate(s, "tex.png", func() ([]byte, error) {
		<-gate
		return []byte("pixels"), nil
	})

	r, ok := h.Upgrade()
	if !ok {
		t.Fatal("Upgrade failed after Generate")
	}
	if got := r.Status(); got != StatusLoading {
		t.Fatalf("status before work completes = %v, want loading", got)
	}

	close(gate)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := r.Wait(ctx)
	if err != nil || string(v) != "pixels" {
		t.Errorf("Wait = (%q, %v), want (pixels, nil)", v, err)
	}
}

func TestGenerateFailure(t *testing.T) {
	s := New()
	defer s.Close()

	loadErr := errors.New("corrupt file")
	h := Generate(s, "bad.png", func() (int, error) {
		return 0, loadErr
	})

	r, _ := h.Upgrade()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := r.Wait(ctx); !errors.Is(err, loadErr) {
		t.Errorf("Wait = %v, want the load error", err)
	}
	if got := r.Status(); got != StatusFailed {
		t.Errorf("status = %v, want failed", got)
	}

	// A handle derived after completion observes the same failure.
	h2, ok := Lookup[int](s, h.ID())
	if !ok {
		t.Fatal("Lookup failed for a live record")
	}
	r2, _ := h2.Upgrade()
	if err := r2.Err(); !errors.Is(err, loadErr) {
		t.Errorf("late handle Err = %v, want the load error", err)
	}
}

func TestGeneratePanicBecomesFailure(t *testing.T) {
	s := New()
	defer s.Close()

	h := Generate(s, "boom", func() (int, error) {
		panic("loader bug")
	})

	r, _ := h.Upgrade()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := r.Wait(ctx)
	if !errors.Is(err, ErrTaskAbandoned) {
		t.Errorf("Wait = %v, want ErrTaskAbandoned", err)
	}
	if got := r.Status(); got != StatusFailed {
		t.Errorf("status = %v, want failed (never stuck loading)", got)
	}
}

func TestLookup(t *testing.T) {
	s := New()
	defer s.Close()

	h := Insert(s, "value")

	if got, ok := Lookup[string](s, h.ID()); !ok || !got.Equal(h) {
		t.Error("Lookup did not find the record by identity")
	}
	// Type mismatch is a checked miss, not a corruption.
	if _, ok := Lookup[int](s, h.ID()); ok {
		t.Error("Lookup succeeded with the wrong concrete type")
	}
	if _, ok := Lookup[string](s, Handle[string]{}.ID()); ok {
		t.Error("Lookup succeeded for an unknown identity")
	}
}

func TestRecordsEnumeration(t *testing.T) {
	s := New()
	defer s.Close()

	Insert(s, 1, WithName("one"))
	Load[string](s, "b.txt")
	Generate(s, "c.bin", func() ([]byte, error) { return nil, errors.New("nope") })

	infos := s.Records()
	if len(infos) != 3 {
		t.Fatalf("Records returned %d entries, want 3", len(infos))
	}
	// Insertion order, heterogeneous types in one collection.
	if infos[0].Name != "one" || infos[0].Status != StatusReady {
		t.Errorf("infos[0] = %+v", infos[0])
	}
	if infos[1].Path != "b.txt" || infos[1].Status != StatusQueued {
		t.Errorf("infos[1] = %+v", infos[1])
	}
	if infos[2].Path != "c.bin" {
		t.Errorf("infos[2] = %+v", infos[2])
	}
}

func TestCloseFailsPendingRecords(t *testing.T) {
	s := New()

	queued := Load[int](s, "never-driven")
	gate := make(chan struct{})
	defer close(gate)
	loading := Generate(s, "wedged", func() (int, error) {
		<-gate
		return 0, nil
	})
	done := Insert(s, 5)

	// Hold strong references across Close so the records stay observable.
	qr, _ := queued.Upgrade()
	lr, _ := loading.Upgrade()
	dr, _ := done.Upgrade()

	s.Close()

	if err := qr.Err(); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("queued record Err = %v, want ErrStoreClosed", err)
	}
	if err := lr.Err(); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("loading record Err = %v, want ErrStoreClosed", err)
	}
	if got := dr.Status(); got != StatusReady {
		t.Errorf("ready record disturbed by Close: %v", got)
	}

	// A waiter blocked on the wedged record is woken, not hung.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := lr.Wait(ctx); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Wait after Close = %v, want ErrStoreClosed", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	s := New()
	Insert(s, 1)
	s.Close()
	s.Close()
}

func TestLateCompletionAfterCloseDiscarded(t *testing.T) {
	s := New()

	gate := make(chan struct{})
	h := Generate(s, "slow", func() (int, error) {
		<-gate
		return 42, nil
	})
	r, _ := h.Upgrade()

	s.Close()
	close(gate)

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	// The record failed at Close; the late success must not resurrect it.
	if got := r.Status(); got != StatusFailed {
		t.Errorf("status = %v, want failed", got)
	}
	if err := r.Err(); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Err = %v, want ErrStoreClosed", err)
	}
}

func TestEntryPointsAfterClose(t *testing.T) {
	s := New()
	s.Close()

	lh := Load[int](s, "x")
	lr, ok := lh.Upgrade()
	if !ok {
		t.Fatal("Load after Close returned a dead handle")
	}
	if err := lr.Err(); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Load after Close Err = %v, want ErrStoreClosed", err)
	}

	h := Generate(s, "y", func() (int, error) {
		t.Error("work dispatched on a closed store")
		return 0, nil
	})
	r, ok := h.Upgrade()
	if !ok {
		t.Fatal("Generate after Close returned a dead handle")
	}
	if err := r.Err(); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Generate after Close Err = %v, want ErrStoreClosed", err)
	}
	if s.Len() != 0 {
		t.Errorf("closed store retained %d records", s.Len())
	}
}

func TestShutdownBounded(t *testing.T) {
	s := New()

	gate := make(chan struct{})
	defer close(gate)
	Generate(s, "wedged", func() (int, error) {
		<-gate
		return 0, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown on wedged work = %v, want DeadlineExceeded", err)
	}
}

// A Generate racing Shutdown must either be refused by the closed store or
// be fully waited for: work never begins executing after Shutdown has
// reported a clean wait.
func TestShutdownWaitsForRacingGenerate(t *testing.T) {
	for i := 0; i < 200; i++ {
		s := New()

		var returned atomic.Bool
		var spawner sync.WaitGroup
		spawner.Add(1)
		go func() {
			defer spawner.Done()
			Generate(s, "racy", func() (int, error) {
				if returned.Load() {
					t.Errorf("iteration %d: work started after Shutdown returned", i)
				}
				return 1, nil
			})
		}()

		if err := s.Shutdown(context.Background()); err != nil {
			t.Fatalf("iteration %d: Shutdown = %v", i, err)
		}
		returned.Store(true)
		spawner.Wait()
	}
}

func TestRemove(t *testing.T) {
	s := New()
	defer s.Close()

	h1 := Insert(s, 1)
	h2 := Insert(s, 2)

	if !s.Remove(h1.ID()) {
		t.Error("Remove missed a live record")
	}
	if s.Remove(h1.ID()) {
		t.Error("Remove found an already-removed record")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if _, ok := h2.Upgrade(); !ok {
		t.Error("unrelated record evicted")
	}
}
