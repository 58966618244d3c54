// Package bitmap holds CPU-side pixel buffers used as texture upload sources
// and read-back destinations.
//
// A Bitmap is a width x height grid of pixels in a pixelformat.Format with
// an explicit rowstride. Bitmaps created with NewForData wrap caller memory
// without copying.
package bitmap

import (
	"errors"
	"fmt"

	"github.com/gogpu/cglib/pixelformat"
)

// Common errors for bitmap operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("bitmap: invalid dimensions")

	// ErrInvalidFormat is returned when the format has no pixel layout.
	ErrInvalidFormat = errors.New("bitmap: invalid format")

	// ErrInvalidStride is returned when rowstride is less than one packed row.
	ErrInvalidStride = errors.New("bitmap: rowstride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("bitmap: data buffer too small")

	// ErrAlreadyMapped is returned by Map when the bitmap is already mapped.
	ErrAlreadyMapped = errors.New("bitmap: already mapped")

	// ErrOutOfBounds is returned when a region exceeds the bitmap bounds.
	ErrOutOfBounds = errors.New("bitmap: region out of bounds")
)

// Bitmap is a CPU pixel buffer.
//
// Bitmaps are not safe for concurrent mutation.
type Bitmap struct {
	data      []byte
	width     int
	height    int
	rowstride int
	format    pixelformat.Format
	mapped    bool
}

// New allocates a zeroed, tightly packed bitmap.
func New(width, height int, format pixelformat.Format) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	rowstride := format.RowBytes(width)
	return &Bitmap{
		data:      make([]byte, rowstride*height),
		width:     width,
		height:    height,
		rowstride: rowstride,
		format:    format,
	}, nil
}

// NewForData wraps existing pixel memory without copying. A rowstride of 0
// means tightly packed. The last row only needs to hold width pixels.
func NewForData(data []byte, width, height int, format pixelformat.Format, rowstride int) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	minStride := format.RowBytes(width)
	if rowstride == 0 {
		rowstride = minStride
	}
	if rowstride < minStride {
		return nil, ErrInvalidStride
	}
	if need := rowstride*(height-1) + minStride; len(data) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrDataTooSmall, len(data), need)
	}
	return &Bitmap{
		data:      data,
		width:     width,
		height:    height,
		rowstride: rowstride,
		format:    format,
	}, nil
}

// Width returns the width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Bitmap) Height() int { return b.height }

// Rowstride returns the distance in bytes between consecutive rows.
func (b *Bitmap) Rowstride() int { return b.rowstride }

// Format returns the pixel format.
func (b *Bitmap) Format() pixelformat.Format { return b.format }

// Data returns the backing memory.
func (b *Bitmap) Data() []byte { return b.data }

// Map gives exclusive access to the pixel memory until Unmap.
func (b *Bitmap) Map() ([]byte, error) {
	if b.mapped {
		return nil, ErrAlreadyMapped
	}
	b.mapped = true
	return b.data, nil
}

// Unmap ends a Map. Unmapping an unmapped bitmap is a no-op.
func (b *Bitmap) Unmap() { b.mapped = false }

// Row returns the packed bytes of row y, or nil if y is out of range.
func (b *Bitmap) Row(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.rowstride
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// Pixel returns the bytes of pixel (x, y), or nil if out of range.
func (b *Bitmap) Pixel(x, y int) []byte {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return nil
	}
	bpp := b.format.BytesPerPixel()
	off := y*b.rowstride + x*bpp
	return b.data[off : off+bpp]
}

// Copy returns a tightly packed deep copy.
func (b *Bitmap) Copy() *Bitmap {
	dst, _ := New(b.width, b.height, b.format)
	for y := 0; y < b.height; y++ {
		copy(dst.Row(y), b.Row(y))
	}
	return dst
}

// CopySubregion copies a width x height block from b at (srcX, srcY) into
// dst at (dstX, dstY). Both bitmaps must share a format.
func (b *Bitmap) CopySubregion(dst *Bitmap, srcX, srcY, dstX, dstY, width, height int) error {
	if b.format != dst.format {
		return fmt.Errorf("bitmap: copy between %v and %v: %w", b.format, dst.format, ErrInvalidFormat)
	}
	if !inBounds(b, srcX, srcY, width, height) || !inBounds(dst, dstX, dstY, width, height) {
		return ErrOutOfBounds
	}
	bpp := b.format.BytesPerPixel()
	n := width * bpp
	for y := 0; y < height; y++ {
		so := (srcY+y)*b.rowstride + srcX*bpp
		do := (dstY+y)*dst.rowstride + dstX*bpp
		copy(dst.data[do:do+n], b.data[so:so+n])
	}
	return nil
}

func inBounds(b *Bitmap, x, y, w, h int) bool {
	return x >= 0 && y >= 0 && w >= 0 && h >= 0 && x+w <= b.width && y+h <= b.height
}
