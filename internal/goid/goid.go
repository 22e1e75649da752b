// Package goid exposes the identity of the current goroutine.
//
// The runtime does not surface goroutine IDs on purpose; the confinement
// guard needs them only as an opaque identity to compare against, never for
// scheduling decisions. The ID is parsed from the first line of the
// goroutine's stack header ("goroutine 123 [running]:"), which has been
// stable across every Go release since the format was introduced.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

var prefix = []byte("goroutine ")

// Current returns the ID of the calling goroutine.
func Current() uint64 {
	// The header fits comfortably in 64 bytes; runtime.Stack truncates
	// the rest, which is all we want.
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse extracts the goroutine ID from a stack header.
// Panics on malformed input: the header comes from the runtime, so a parse
// failure means the format changed and the guard package cannot work at all.
func parse(stack []byte) uint64 {
	s := bytes.TrimPrefix(stack, prefix)
	i := bytes.IndexByte(s, ' ')
	if i < 0 {
		panic("goid: malformed stack header: " + string(stack))
	}
	id, err := strconv.ParseUint(string(s[:i]), 10, 64)
	if err != nil {
		panic("goid: malformed goroutine id: " + string(stack))
	}
	return id
}
