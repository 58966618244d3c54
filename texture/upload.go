package texture

import (
	"fmt"

	"github.com/gogpu/cglib/bitmap"
	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/spans"
)

// cover is the part of one span touched by an upload, in texture pixels.
type cover struct {
	pos        int // where the span starts
	start, end int // intersected range
}

func wholeSpan(s spans.Span) cover {
	return cover{pos: s.Start, start: s.Start, end: s.End()}
}

func iterCover(it *spans.Iter) cover {
	return cover{pos: int(it.Pos()), start: int(it.IntersectStart()), end: int(it.IntersectEnd())}
}

// uploadBitmap fills every tile from bmp, which must already be in the
// texture's format and cover the whole texture.
func (t *Texture2DSliced) uploadBitmap(bmp *bitmap.Bitmap) error {
	for y, ys := range t.ySpans {
		for x, xs := range t.xSpans {
			tile := t.pool.tiles[y*len(t.xSpans)+x]
			if err := tile.SetRegion(bmp, xs.Start, ys.Start, 0, 0, xs.Used(), ys.Used()); err != nil {
				return fmt.Errorf("%w: upload tile (%d,%d): %w", ErrAllocation, x, y, err)
			}
			if err := t.setWaste(bmp, tile, xs, ys, wholeSpan(xs), wholeSpan(ys), 0, 0, 0, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// setWaste replicates edge pixels into the waste of tile when the upload
// reached the last used column or row of its span. The right waste is
// filled first; the bottom waste then extends its rows over the right waste
// with the last pixel of each row. (srcX, srcY) in bmp maps to texture pixel
// (dstX, dstY).
func (t *Texture2DSliced) setWaste(bmp *bitmap.Bitmap, tile driver.Texture, xs, ys spans.Span, xc, yc cover, srcX, srcY, dstX, dstY int) error {
	needX := xs.Waste > 0 && xc.end-xc.pos >= xs.Used()
	needY := ys.Waste > 0 && yc.end-yc.pos >= ys.Used()
	if !needX && !needY {
		return nil
	}

	data, err := bmp.Map()
	if err != nil {
		return fmt.Errorf("%w: map source: %w", ErrAllocation, err)
	}
	defer bmp.Unmap()

	format := bmp.Format()
	bpp := format.BytesPerPixel()
	stride := bmp.Rowstride()

	if needX {
		h := yc.end - yc.start
		row := srcY + yc.start - dstY
		col := srcX + xs.Start + xs.Used() - dstX - 1

		waste, err := bitmap.New(xs.Waste, h, format)
		if err != nil {
			return fmt.Errorf("%w: right waste: %w", ErrAllocation, err)
		}
		buf := waste.Data()
		for wy := 0; wy < h; wy++ {
			px := data[(row+wy)*stride+col*bpp:][:bpp]
			for wx := 0; wx < xs.Waste; wx++ {
				copy(buf[(wy*xs.Waste+wx)*bpp:], px)
			}
		}
		if err := tile.SetRegion(waste, 0, 0, xs.Used(), yc.start-ys.Start, xs.Waste, h); err != nil {
			return fmt.Errorf("%w: right waste: %w", ErrAllocation, err)
		}
	}

	if needY {
		interW := xc.end - xc.start
		copyW := interW
		if xc.end-xc.pos >= xs.Used() {
			copyW = xs.Size + xc.pos - xc.start
		}
		row := srcY + ys.Start + ys.Used() - dstY - 1
		col := srcX + xc.start - dstX

		waste, err := bitmap.New(copyW, ys.Waste, format)
		if err != nil {
			return fmt.Errorf("%w: bottom waste: %w", ErrAllocation, err)
		}
		buf := waste.Data()
		src := data[row*stride+col*bpp:][:interW*bpp]
		for wy := 0; wy < ys.Waste; wy++ {
			line := buf[wy*copyW*bpp : (wy+1)*copyW*bpp]
			copy(line, src)
			for wx := interW; wx < copyW; wx++ {
				copy(line[wx*bpp:(wx+1)*bpp], line[(wx-1)*bpp:wx*bpp])
			}
		}
		if err := tile.SetRegion(waste, 0, 0, xc.start-xc.pos, ys.Used(), copyW, ys.Waste); err != nil {
			return fmt.Errorf("%w: bottom waste: %w", ErrAllocation, err)
		}
	}
	return nil
}

// SetRegion copies a w x h block of bmp starting at (srcX, srcY) into the
// texture at (dstX, dstY), allocating first if needed. Only tiles that
// intersect the destination are touched, and their waste is repaired.
func (t *Texture2DSliced) SetRegion(srcX, srcY, dstX, dstY, w, h int, bmp *bitmap.Bitmap) error {
	if err := t.Allocate(); err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	if srcX < 0 || srcY < 0 || srcX+w > bmp.Width() || srcY+h > bmp.Height() ||
		dstX < 0 || dstY < 0 || dstX+w > t.width || dstY+h > t.height {
		return fmt.Errorf("%w: %dx%d from (%d,%d) to (%d,%d) in %dx%d texture",
			driver.ErrOutOfBounds, w, h, srcX, srcY, dstX, dstY, t.width, t.height)
	}

	upload, err := bmp.ConvertForUpload(t.format, false)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return t.uploadSubregion(srcX, srcY, dstX, dstY, w, h, upload)
}

func (t *Texture2DSliced) uploadSubregion(srcX, srcY, dstX, dstY, w, h int, bmp *bitmap.Bitmap) error {
	interH := 0
	sourceY := srcY
	for iy := spans.NewIter(t.ySpans, float64(t.height), float64(dstY), float64(dstY+h), spans.WrapRepeat); !iy.Done(); iy.Next() {
		ys := iy.Span()
		yc := iterCover(iy)
		interH = yc.end - yc.start

		interW := 0
		sourceX := srcX
		for ix := spans.NewIter(t.xSpans, float64(t.width), float64(dstX), float64(dstX+w), spans.WrapRepeat); !ix.Done(); ix.Next() {
			xs := ix.Span()
			xc := iterCover(ix)
			interW = xc.end - xc.start

			tile := t.pool.tiles[iy.Index()*len(t.xSpans)+ix.Index()]
			if err := tile.SetRegion(bmp, sourceX, sourceY, xc.start-xc.pos, yc.start-yc.pos, interW, interH); err != nil {
				return fmt.Errorf("%w: update tile (%d,%d): %w", ErrAllocation, ix.Index(), iy.Index(), err)
			}
			if err := t.setWaste(bmp, tile, xs, ys, xc, yc, srcX, srcY, dstX, dstY); err != nil {
				return err
			}
			sourceX += interW
		}
		sourceY += interH
	}
	return nil
}
