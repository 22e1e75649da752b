// Package blob loads raw asset bytes from disk, transparently decompressing
// compressed asset packs by file extension (.lz4, .xz).
package blob

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"

	"github.com/gogpu/assets"
)

// DefaultMaxSize caps how many decompressed bytes ReadFile will produce.
// Compressed assets expand; the cap keeps a corrupt or hostile file from
// exhausting memory.
const DefaultMaxSize = 1 << 30 // 1 GiB

// ErrTooLarge is returned when an asset exceeds the size cap.
var ErrTooLarge = errors.New("blob: asset exceeds size limit")

// Open opens path for reading. If the file name ends in a recognized
// compression extension the returned reader yields the decompressed stream.
// The caller must close the returned ReadCloser.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("blob: open: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".lz4":
		return &wrapped{r: lz4.NewReader(f), c: f}, nil
	case ".xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("blob: xz header: %w", err)
		}
		return &wrapped{r: xr, c: f}, nil
	default:
		return f, nil
	}
}

// wrapped pairs a decompressing reader with the file it draws from, so
// closing the blob closes the underlying file.
type wrapped struct {
	r io.Reader
	c io.Closer
}

func (w *wrapped) Read(p []byte) (int, error) { return w.r.Read(p) }
func (w *wrapped) Close() error               { return w.c.Close() }

// ReadFile reads the whole (decompressed) content of path, up to
// DefaultMaxSize bytes. Larger assets fail with ErrTooLarge.
func ReadFile(path string) ([]byte, error) {
	return ReadFileLimit(path, DefaultMaxSize)
}

// ReadFileLimit reads the whole (decompressed) content of path, failing with
// ErrTooLarge if it exceeds limit bytes.
func ReadFileLimit(path string, limit int64) ([]byte, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	// Read one byte past the limit to tell "exactly limit" from "over".
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("blob: read %s: %w", path, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("blob: read %s: %w", path, ErrTooLarge)
	}
	return data, nil
}

// File adapts a path into a load function for [assets.Generate]:
//
//	h := assets.Generate(store, path, blob.File(path))
func File(path string) assets.LoadFunc[[]byte] {
	return func() ([]byte, error) {
		return ReadFile(path)
	}
}

// StemExt returns the extension of path with any compression suffix
// stripped: "mesh.obj.lz4" → ".obj". Loaders that dispatch on extension use
// it so compressed assets route the same as plain ones.
func StemExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lz4", ".xz":
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	return strings.ToLower(filepath.Ext(path))
}
