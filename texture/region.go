package texture

import (
	"fmt"

	"github.com/gogpu/cglib/bitmap"
	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/spans"
)

// SubTextureFunc receives one tile touched by ForeachSubTextureInRegion.
// sub holds tile-local normalized coordinates (s1, t1, s2, t2); meta holds the
// part of the requested region the tile covers, normalized to the whole
// texture.
type SubTextureFunc func(tile driver.Texture, sub, meta [4]float64)

// ForeachSubTextureInRegion calls fn for every tile intersecting the
// normalized rectangle (tx1, ty1)-(tx2, ty2). Coordinates outside [0, 1]
// repeat the texture. The texture is allocated first if needed.
func (t *Texture2DSliced) ForeachSubTextureInRegion(tx1, ty1, tx2, ty2 float64, fn SubTextureFunc) error {
	if err := t.Allocate(); err != nil {
		return err
	}
	w, h := float64(t.width), float64(t.height)

	// Iteration runs in pixels; meta coordinates are normalized again for fn.
	coords := [4]float64{tx1 * w, ty1 * h, tx2 * w, ty2 * h}
	spans.ForeachInRegion(t.xSpans, t.ySpans, coords, w, h, spans.WrapRepeat, spans.WrapRepeat,
		func(tile int, sub, virtual [4]float64) {
			meta := [4]float64{
				virtual[0] / w,
				virtual[1] / h,
				virtual[2] / w,
				virtual[3] / h,
			}
			fn(t.pool.tiles[tile], sub, meta)
		})
	return nil
}

// ReadPixels copies the logical texture into dst, which must match its size.
// Waste is not read. Every tile must implement driver.Reader.
func (t *Texture2DSliced) ReadPixels(dst *bitmap.Bitmap) error {
	if err := t.Allocate(); err != nil {
		return err
	}
	if dst.Width() != t.width || dst.Height() != t.height {
		return fmt.Errorf("%w: read %dx%d texture into %dx%d bitmap",
			driver.ErrOutOfBounds, t.width, t.height, dst.Width(), dst.Height())
	}
	for y, ys := range t.ySpans {
		for x, xs := range t.xSpans {
			tile := t.pool.tiles[y*len(t.xSpans)+x]
			r, ok := tile.(driver.Reader)
			if !ok {
				return fmt.Errorf("texture: tile (%d,%d) read back: %w", x, y, driver.ErrUnsupported)
			}
			tmp, err := bitmap.New(tile.Width(), tile.Height(), dst.Format())
			if err != nil {
				return fmt.Errorf("texture: read back: %w", err)
			}
			if err := r.ReadPixels(tmp); err != nil {
				return fmt.Errorf("texture: tile (%d,%d) read back: %w", x, y, err)
			}
			if err := tmp.CopySubregion(dst, 0, 0, xs.Start, ys.Start, xs.Used(), ys.Used()); err != nil {
				return fmt.Errorf("texture: read back: %w", err)
			}
		}
	}
	return nil
}
