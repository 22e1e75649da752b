package texture

import (
	"image"
	"math/bits"

	xdraw "golang.org/x/image/draw"
)

// MipmapChain holds pre-computed downscaled versions of a texture.
//
// Level 0 is the original full-resolution image; each further level halves
// both dimensions (clamped to 1) until the image is 1×1. Chains feed GPU
// texture uploads with MipLevelCount > 1.
type MipmapChain struct {
	levels []*image.NRGBA
}

// Levels returns the number of mip levels, including level 0.
func (c *MipmapChain) Levels() int { return len(c.levels) }

// Level returns the image for one mip level. Level 0 is the original.
func (c *MipmapChain) Level(i int) *image.NRGBA { return c.levels[i] }

// GenerateMipmaps builds the full mip chain for t.
//
// Downscaling uses a bilinear kernel, which for the exact factor-of-two
// steps of a mip chain is equivalent to a 2x2 box filter. The original
// image becomes level 0 and is not copied. Returns nil for a nil texture.
func GenerateMipmaps(t *Texture) *MipmapChain {
	if t == nil || t.Pix == nil {
		return nil
	}

	w, h := t.Width(), t.Height()
	numLevels := 1 + bits.Len(uint(max(w, h)-1))

	chain := &MipmapChain{levels: make([]*image.NRGBA, 0, numLevels)}
	chain.levels = append(chain.levels, t.Pix)

	for w > 1 || h > 1 {
		w = max(1, w/2)
		h = max(1, h/2)
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		src := chain.levels[len(chain.levels)-1]
		xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		chain.levels = append(chain.levels, dst)
	}
	return chain
}
