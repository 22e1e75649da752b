// Package font parses font assets via go-text/typesetting.
//
// The parsed [font.Font] is read-only and safe to share between goroutines,
// which makes it the right unit to hold in an asset store: parse once under
// a background load, hand the same Font to every consumer. Per-render Face
// objects (which carry mutable state and are not concurrent-safe) should be
// created at the call site, outside the store.
package font

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"

	"github.com/gogpu/assets"
	"github.com/gogpu/assets/blob"
)

// Parse parses TTF/OTF font data.
func Parse(data []byte) (*font.Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("font: parse: %w", err)
	}
	return face.Font, nil
}

// Load parses the font at path, reading through the blob package so
// compressed sources work transparently.
func Load(path string) (*font.Font, error) {
	data, err := blob.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// File adapts a path into a load function for [assets.Generate]:
//
//	h := assets.Generate(store, "Inter.ttf", font.File("Inter.ttf"))
func File(path string) assets.LoadFunc[*font.Font] {
	return func() (*font.Font, error) {
		return Load(path)
	}
}
