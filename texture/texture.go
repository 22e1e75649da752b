// Package texture decodes image assets into GPU-uploadable RGBA textures.
//
// Supported formats: PNG, JPEG (standard library) and BMP, TIFF, WebP
// (golang.org/x/image). Sources compressed with lz4 or xz load through the
// blob package, so "fox.png.lz4" decodes the same as "fox.png".
package texture

import (
	"errors"
	"fmt"
	"image"
	"io"

	// Registered decoders. Decode dispatches on content, not extension.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/assets"
	"github.com/gogpu/assets/blob"
)

// ErrEmptyImage is returned when a decoded image has no pixels.
var ErrEmptyImage = errors.New("texture: image has no pixels")

// Texture is a decoded image in tightly packed, non-premultiplied RGBA,
// ready for upload as [gputypes.TextureFormatRGBA8Unorm].
type Texture struct {
	// Pix holds the pixel data. Row stride is always 4*width.
	Pix *image.NRGBA

	// Format is the GPU texture format the pixel data matches.
	Format gputypes.TextureFormat
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.Pix.Rect.Dx() }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.Pix.Rect.Dy() }

// Decode reads one image from r, auto-detecting the format, and converts it
// to RGBA.
func Decode(r io.Reader) (*Texture, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("texture: decode: %w", err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("texture: %s: %w", format, ErrEmptyImage)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return &Texture{Pix: dst, Format: gputypes.TextureFormatRGBA8Unorm}, nil
}

// Load decodes the image at path, reading through the blob package so
// compressed sources work transparently.
func Load(path string) (*Texture, error) {
	r, err := blob.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return Decode(r)
}

// File adapts a path into a load function for [assets.Generate]:
//
//	h := assets.Generate(store, "fox.png", texture.File("fox.png"))
func File(path string) assets.LoadFunc[*Texture] {
	return func() (*Texture, error) {
		return Load(path)
	}
}
