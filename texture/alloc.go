package texture

import (
	"fmt"

	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/internal/debug"
	"github.com/gogpu/cglib/internal/util"
	"github.com/gogpu/cglib/pixelformat"
	"github.com/gogpu/cglib/spans"
)

// Allocate creates the tiles and uploads the loader's data. It is a no-op on
// an allocated texture. On failure no tiles remain and the texture stays
// unallocated.
func (t *Texture2DSliced) Allocate() error {
	if t.destroyed {
		return ErrDestroyed
	}
	if t.allocated {
		return nil
	}
	if t.loader == nil {
		return fmt.Errorf("%w: no loader", ErrUnsupportedSource)
	}

	var err error
	switch t.loader.Source {
	case SourceSized:
		err = t.allocateWithSize()
	case SourceBitmap:
		err = t.allocateFromBitmap()
	default:
		err = fmt.Errorf("%w: source %d", ErrUnsupportedSource, t.loader.Source)
	}
	if err != nil {
		return err
	}

	for _, tile := range t.pool.tiles {
		tile.SetFilters(t.minFilter, t.magFilter)
		tile.SetWrapModes(t.wrapS, t.wrapT)
	}
	t.allocated = true
	t.loader = nil
	return nil
}

func (t *Texture2DSliced) allocateWithSize() error {
	format := t.internalFormat(pixelformat.Any)
	if err := t.allocateSlices(t.loader.Width, t.loader.Height, format); err != nil {
		return err
	}
	t.width, t.height, t.format = t.loader.Width, t.loader.Height, format
	return nil
}

func (t *Texture2DSliced) allocateFromBitmap() error {
	bmp := t.loader.Bitmap
	if bmp == nil {
		return fmt.Errorf("%w: bitmap loader without bitmap", ErrUnsupportedSource)
	}
	format := t.internalFormat(bmp.Format())

	upload, err := bmp.ConvertForUpload(format, t.loader.CanConvertInPlace)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if err := t.allocateSlices(bmp.Width(), bmp.Height(), format); err != nil {
		return err
	}
	if err := t.uploadBitmap(upload); err != nil {
		t.freeSlices()
		return err
	}
	t.width, t.height, t.format = bmp.Width(), bmp.Height(), format
	return nil
}

func (t *Texture2DSliced) allocateSlices(w, h int, format pixelformat.Format) error {
	if err := t.setupSpans(w, h, format); err != nil {
		return err
	}
	if err := t.pool.allocate(t.xSpans, t.ySpans, format); err != nil {
		t.xSpans, t.ySpans = nil, nil
		return err
	}
	return nil
}

func (t *Texture2DSliced) freeSlices() {
	t.pool.destroy()
	t.xSpans, t.ySpans = nil, nil
}

// setupSpans picks the largest tile size the driver accepts and slices both
// axes with it.
func (t *Texture2DSliced) setupSpans(w, h int, format pixelformat.Format) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrSize, w, h)
	}

	policy := spans.PolicyRect
	maxW, maxH := w, h
	tileCap := t.maxTileSize
	if !t.drv.HasFeature(driver.FeatureTextureNPOT) {
		policy = spans.PolicyPOT
		maxW, maxH = util.NextPOT(w), util.NextPOT(h)
		tileCap = util.PrevPOT(tileCap)
	}

	// A negative waste budget forces a single tile.
	if t.maxWaste <= -1 {
		if !t.drv.CanCreateTexture2D(maxW, maxH, format) {
			return fmt.Errorf("%w: sliced texture size of %d x %d not possible with max waste set to -1",
				ErrSize, w, h)
		}
		t.xSpans = []spans.Span{{Start: 0, Size: maxW, Waste: maxW - w}}
		t.ySpans = []spans.Span{{Start: 0, Size: maxH, Waste: maxH - h}}
		return nil
	}

	if tileCap > 0 {
		maxW, maxH = min(maxW, tileCap), min(maxH, tileCap)
	}
	for !t.drv.CanCreateTexture2D(maxW, maxH, format) {
		if maxW > maxH {
			maxW /= 2
		} else {
			maxH /= 2
		}
		if maxW == 0 || maxH == 0 {
			return fmt.Errorf("%w: no suitable slice geometry found for %d x %d", ErrSize, w, h)
		}
	}

	t.xSpans = policy.Spans(w, maxW, t.maxWaste)
	t.ySpans = policy.Spans(h, maxH, t.maxWaste)
	debug.Note(debug.Slicing, "setup spans",
		"policy", policy, "tile_width", maxW, "tile_height", maxH,
		"x_spans", len(t.xSpans), "y_spans", len(t.ySpans))
	return nil
}
