package bitmap

import (
	"fmt"

	"github.com/gogpu/cglib/pixelformat"
)

// Convert returns a new bitmap holding b's pixels in format.
func (b *Bitmap) Convert(format pixelformat.Format) (*Bitmap, error) {
	dst, err := New(b.width, b.height, format)
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.height; y++ {
		if err := pixelformat.ConvertRow(dst.Row(y), format, b.Row(y), b.format, b.width); err != nil {
			return nil, fmt.Errorf("bitmap: convert: %w", err)
		}
	}
	return dst, nil
}

// ConvertInPlace rewrites b's pixels as format. The formats must have the
// same pixel size.
func (b *Bitmap) ConvertInPlace(format pixelformat.Format) error {
	if format.BytesPerPixel() != b.format.BytesPerPixel() {
		return fmt.Errorf("bitmap: in-place %v -> %v: %w", b.format, format, pixelformat.ErrUnsupportedConversion)
	}
	for y := 0; y < b.height; y++ {
		row := b.Row(y)
		if err := pixelformat.ConvertRow(row, format, row, b.format, b.width); err != nil {
			return fmt.Errorf("bitmap: convert: %w", err)
		}
	}
	b.format = format
	return nil
}

// ConvertForUpload returns a bitmap whose pixels are in internal so they can
// be written to a texture of that format. It returns b itself when no
// conversion is needed. When canConvertInPlace is set and the pixel sizes
// match, b is rewritten instead of copied.
func (b *Bitmap) ConvertForUpload(internal pixelformat.Format, canConvertInPlace bool) (*Bitmap, error) {
	if internal == b.format {
		return b, nil
	}
	if !pixelformat.CanConvert(b.format, internal) {
		return nil, fmt.Errorf("bitmap: upload %v as %v: %w", b.format, internal, pixelformat.ErrUnsupportedConversion)
	}
	if canConvertInPlace && internal.BytesPerPixel() == b.format.BytesPerPixel() {
		if err := b.ConvertInPlace(internal); err != nil {
			return nil, err
		}
		return b, nil
	}
	return b.Convert(internal)
}
