// Package assets provides the resource-ownership core for GPU applications:
// asynchronous, at-most-once loading of keyed assets behind weak handles.
//
// # Overview
//
// A [Store] owns the authoritative storage for every asset it creates. Callers
// receive a [Handle], a cheap, copyable, weak reference that can be passed to
// any goroutine. Upgrading a handle yields the record only while the store (or
// another strong reference) keeps it alive; once the store releases a record,
// upgrades fail cleanly instead of resurrecting it.
//
// Each record tracks its load progress through a forward-only state machine:
//
//	StatusQueued → StatusLoading → StatusReady
//	                            ↘  StatusFailed
//
// Ready and Failed are terminal. A failed load stores its error in the record
// so every handle holder observes the failure; it is never silently left
// "still loading".
//
// # Quick start
//
//	store := assets.New()
//	defer store.Close()
//
//	// Immediate insertion: the record is Ready from the start.
//	h := assets.Insert(store, myMesh)
//
//	// Background generation: returns at once, work runs on its own goroutine.
//	tex := assets.Generate(store, "fox.png", texture.File("fox.png"))
//
//	if rec, ok := tex.Upgrade(); ok {
//	    value, err := rec.Wait(ctx) // or rec.Poll() for a non-blocking check
//	    ...
//	}
//
// # Sub-packages
//
//   - guard: goroutine-confined values for native GPU handles that may be
//     moved between goroutines but only dereferenced on the one that made them
//   - gpures: guard-wrapped gpucontext device/queue/adapter handles
//   - blob, texture, font, shader: load functions for common asset kinds
//   - watch: fsnotify-based hot-reload watcher
//
// # Concurrency
//
// Store and Record are safe for concurrent use. Generate and Load never block
// the caller; waiting for a value is an explicit, context-bounded operation on
// the record. Per-record state transitions are linearizable: a concurrent
// reader observes exactly one of the defined states, never a torn mix.
package assets
