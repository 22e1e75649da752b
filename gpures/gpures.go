// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpures carries GPU context handles across goroutines safely.
//
// Device, queue and adapter objects obtained from a [gpucontext.DeviceProvider]
// are only valid on the goroutine that owns the GPU context (typically the
// render goroutine, pinned to its OS thread with runtime.LockOSThread).
// [Confine] wraps the provider in a confinement guard: the resulting Context
// can be stored and sent anywhere, but every accessor that reaches the
// native handles deterministically fails off-owner instead of handing out a
// handle the caller must not touch.
package gpures

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/assets/guard"
)

// Context is a goroutine-confined view of a GPU device provider.
// Possession is free; access is restricted to the confining goroutine.
type Context struct {
	provider *guard.Guard[gpucontext.DeviceProvider]

	// surfaceFormat is captured at Confine time. It is plain immutable
	// data, not a native handle, so it stays readable from any goroutine.
	surfaceFormat gputypes.TextureFormat
}

// Confine wraps provider, recording the current goroutine as the owner of
// its device, queue and adapter handles. Call it on the goroutine that
// created the GPU context.
func Confine(provider gpucontext.DeviceProvider) *Context {
	return &Context{
		provider:      guard.New(provider),
		surfaceFormat: provider.SurfaceFormat(),
	}
}

// Owned reports whether the calling goroutine may access the handles.
func (c *Context) Owned() bool { return c.provider.Owned() }

// Device returns the device handle on the owning goroutine, (nil, false)
// elsewhere.
func (c *Context) Device() (gpucontext.Device, bool) {
	p, ok := c.provider.Get()
	if !ok {
		return nil, false
	}
	return (*p).Device(), true
}

// Queue returns the queue handle on the owning goroutine, (nil, false)
// elsewhere.
func (c *Context) Queue() (gpucontext.Queue, bool) {
	p, ok := c.provider.Get()
	if !ok {
		return nil, false
	}
	return (*p).Queue(), true
}

// Adapter returns the adapter handle on the owning goroutine, (nil, false)
// elsewhere.
func (c *Context) Adapter() (gpucontext.Adapter, bool) {
	p, ok := c.provider.Get()
	if !ok {
		return nil, false
	}
	return (*p).Adapter(), true
}

// MustDevice returns the device handle or panics with a
// *guard.ConfinementError off-owner. Use where being on the wrong goroutine
// is an architectural bug that should surface loudly.
func (c *Context) MustDevice() gpucontext.Device {
	return (*c.provider.MustGet()).Device()
}

// SurfaceFormat returns the provider's surface format as captured at
// Confine time. Safe from any goroutine.
func (c *Context) SurfaceFormat() gputypes.TextureFormat {
	return c.surfaceFormat
}

// Release takes the provider back out of the guard for teardown. It
// succeeds only on the owning goroutine; elsewhere it returns (nil, false)
// and the Context remains usable, so it can still be sent home to the owner.
func (c *Context) Release() (gpucontext.DeviceProvider, bool) {
	return c.provider.TryIntoInner()
}

// NullProvider is a DeviceProvider with no GPU behind it. It stands in for
// a real provider in tests and CPU-only configurations.
type NullProvider struct{}

// Device returns nil for the null provider.
func (NullProvider) Device() gpucontext.Device { return nil }

// Queue returns nil for the null provider.
func (NullProvider) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null provider.
func (NullProvider) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns unknown adapter metadata for the null provider.
func (NullProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns undefined format for the null provider.
func (NullProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullProvider implements gpucontext.DeviceProvider.
var _ gpucontext.DeviceProvider = NullProvider{}
