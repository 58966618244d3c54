// Package texture implements sliced 2D textures: one logical texture backed
// by a grid of driver textures (tiles) when the driver cannot hold it in one
// piece.
//
// Tiles are laid out by the spans package. When the power-of-two policy pads
// the last tile of an axis, the padding ("waste") is filled with copies of
// the edge pixels so that linear filtering and repeat sampling do not show a
// seam.
package texture

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/cglib/bitmap"
	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/internal/debug"
	"github.com/gogpu/cglib/pixelformat"
	"github.com/gogpu/cglib/spans"
)

// Texture errors.
var (
	// ErrSize is returned when no tile geometry the driver accepts exists.
	ErrSize = errors.New("texture: unsupported size")

	// ErrAllocation is returned when the driver fails to create or fill a tile.
	ErrAllocation = errors.New("texture: allocation failed")

	// ErrFormat is returned when pixel data cannot be converted to the
	// texture's format.
	ErrFormat = errors.New("texture: unsupported format")

	// ErrUnsupportedSource is returned when allocating from a loader source
	// sliced textures cannot consume.
	ErrUnsupportedSource = errors.New("texture: unsupported source")

	// ErrDestroyed is returned when using a destroyed texture.
	ErrDestroyed = errors.New("texture: destroyed")
)

// DefaultMaxWaste is the waste budget used by the context when none is
// configured.
const DefaultMaxWaste = 127

// Type classifies textures for pipeline code generation.
type Type int

const (
	Type2D Type = iota
	Type3D
	TypeRectangle
)

// String returns the GLSL-style sampler suffix.
func (t Type) String() string {
	switch t {
	case Type2D:
		return "2D"
	case Type3D:
		return "3D"
	case TypeRectangle:
		return "Rect"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Source identifies what a texture is allocated from.
type Source int

const (
	SourceSized Source = iota
	SourceBitmap
	SourceForeign
	SourceEGLImage
)

// Loader describes the pending data source of an unallocated texture. It is
// consumed by the first successful allocation.
type Loader struct {
	Source Source
	Width  int
	Height int

	// Bitmap is the source for SourceBitmap.
	Bitmap *bitmap.Bitmap
	// CanConvertInPlace lets allocation rewrite Bitmap instead of copying it.
	CanConvertInPlace bool
}

// Option configures a Texture2DSliced.
type Option func(*Texture2DSliced)

// WithMaxTileSize caps tile dimensions at n regardless of what the driver
// accepts. Zero means no cap.
func WithMaxTileSize(n int) Option {
	return func(t *Texture2DSliced) { t.maxTileSize = n }
}

var nextID atomic.Uint64

// Texture2DSliced is a logical 2D texture split into driver tiles.
//
// A Texture2DSliced is not safe for concurrent use.
type Texture2DSliced struct {
	id     uint64
	drv    driver.Driver
	loader *Loader

	width, height int
	maxWaste      int
	maxTileSize   int

	components    pixelformat.Components
	premultiplied bool
	format        pixelformat.Format

	minFilter, magFilter driver.Filter
	wrapS, wrapT         driver.WrapMode

	allocated bool
	destroyed bool

	xSpans []spans.Span
	ySpans []spans.Span
	pool   tilePool
}

func newTexture(drv driver.Driver, w, h, maxWaste int, format pixelformat.Format, l *Loader, opts []Option) *Texture2DSliced {
	t := &Texture2DSliced{
		id:            nextID.Add(1),
		drv:           drv,
		loader:        l,
		width:         w,
		height:        h,
		maxWaste:      maxWaste,
		components:    format.Components(),
		premultiplied: true,
		format:        format,
		minFilter:     driver.FilterLinear,
		magFilter:     driver.FilterLinear,
		wrapS:         driver.WrapAutomatic,
		wrapT:         driver.WrapAutomatic,
		pool:          tilePool{drv: drv},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewWithSize creates an unallocated w x h texture with premultiplied RGBA
// storage. Tiles are created by Allocate.
func NewWithSize(drv driver.Driver, w, h, maxWaste int, opts ...Option) *Texture2DSliced {
	l := &Loader{Source: SourceSized, Width: w, Height: h}
	return newTexture(drv, w, h, maxWaste, pixelformat.RGBA8888Pre, l, opts)
}

// NewFromBitmap creates an unallocated texture holding bmp's pixels.
func NewFromBitmap(drv driver.Driver, bmp *bitmap.Bitmap, maxWaste int, opts ...Option) *Texture2DSliced {
	return newFromBitmap(drv, bmp, maxWaste, false, opts)
}

func newFromBitmap(drv driver.Driver, bmp *bitmap.Bitmap, maxWaste int, inPlace bool, opts []Option) *Texture2DSliced {
	l := &Loader{
		Source:            SourceBitmap,
		Width:             bmp.Width(),
		Height:            bmp.Height(),
		Bitmap:            bmp,
		CanConvertInPlace: inPlace,
	}
	return newTexture(drv, bmp.Width(), bmp.Height(), maxWaste, bmp.Format(), l, opts)
}

// NewFromLoader creates an unallocated texture from an explicit loader.
// Only SourceSized and SourceBitmap loaders can be allocated.
func NewFromLoader(drv driver.Driver, l Loader, maxWaste int, opts ...Option) *Texture2DSliced {
	format := pixelformat.RGBA8888Pre
	if l.Source == SourceBitmap && l.Bitmap != nil {
		format = l.Bitmap.Format()
		l.Width, l.Height = l.Bitmap.Width(), l.Bitmap.Height()
	}
	return newTexture(drv, l.Width, l.Height, maxWaste, format, &l, opts)
}

// NewFromData wraps data as a bitmap and allocates a texture from it
// immediately. A rowstride of 0 means tightly packed.
func NewFromData(drv driver.Driver, w, h, maxWaste int, format pixelformat.Format, rowstride int, data []byte, opts ...Option) (*Texture2DSliced, error) {
	if format == pixelformat.Any {
		return nil, fmt.Errorf("%w: data format must be concrete", ErrFormat)
	}
	bmp, err := bitmap.NewForData(data, w, h, format, rowstride)
	if err != nil {
		return nil, fmt.Errorf("texture: wrap data: %w", err)
	}
	t := newFromBitmap(drv, bmp, maxWaste, false, opts)
	if err := t.Allocate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewFromFile decodes an image file into an unallocated texture. The decoded
// bitmap is private, so allocation may convert it in place.
func NewFromFile(drv driver.Driver, path string, maxWaste int, opts ...Option) (*Texture2DSliced, error) {
	bmp, err := bitmap.Load(path)
	if err != nil {
		return nil, err
	}
	return newFromBitmap(drv, bmp, maxWaste, true, opts), nil
}

// ID returns a process-unique identifier.
func (t *Texture2DSliced) ID() uint64 { return t.id }

// Type reports Type2D.
func (t *Texture2DSliced) Type() Type { return Type2D }

// Width returns the logical width in pixels.
func (t *Texture2DSliced) Width() int { return t.width }

// Height returns the logical height in pixels.
func (t *Texture2DSliced) Height() int { return t.height }

// MaxWaste returns the waste budget the texture was created with.
func (t *Texture2DSliced) MaxWaste() int { return t.maxWaste }

// Format returns the storage format. Before allocation this is the format
// of the source.
func (t *Texture2DSliced) Format() pixelformat.Format { return t.format }

// IsAllocated reports whether tiles exist.
func (t *Texture2DSliced) IsAllocated() bool { return t.allocated }

// XSpans returns the horizontal tile intervals. Nil before allocation.
func (t *Texture2DSliced) XSpans() []spans.Span { return t.xSpans }

// YSpans returns the vertical tile intervals. Nil before allocation.
func (t *Texture2DSliced) YSpans() []spans.Span { return t.ySpans }

// Tiles returns the tile textures in row-major order.
func (t *Texture2DSliced) Tiles() []driver.Texture { return t.pool.tiles }

// Tile returns the tile in column x, row y.
func (t *Texture2DSliced) Tile(x, y int) driver.Texture {
	return t.pool.tiles[y*len(t.xSpans)+x]
}

// SetPremultiplied chooses whether color storage is premultiplied.
// It has no effect once the texture is allocated.
func (t *Texture2DSliced) SetPremultiplied(premultiplied bool) {
	if t.allocated {
		debug.Logger().Warn("texture: premultiplied state changed after allocation", "id", t.id)
		return
	}
	t.premultiplied = premultiplied
}

// SetComponents chooses which channels the texture stores.
// It has no effect once the texture is allocated.
func (t *Texture2DSliced) SetComponents(c pixelformat.Components) {
	if t.allocated {
		debug.Logger().Warn("texture: components changed after allocation", "id", t.id)
		return
	}
	t.components = c
}

// internalFormat picks the storage format for the configured components,
// preferring src when it already stores them.
func (t *Texture2DSliced) internalFormat(src pixelformat.Format) pixelformat.Format {
	switch t.components {
	case pixelformat.ComponentsA:
		return pixelformat.A8
	case pixelformat.ComponentsRG:
		return pixelformat.RG88
	case pixelformat.ComponentsRGB:
		if src == pixelformat.RGB888 || src == pixelformat.BGR888 {
			return src
		}
		return pixelformat.RGB888
	case pixelformat.ComponentsDepth, pixelformat.ComponentsDepthStencil:
		if src.HasDepth() {
			return src
		}
		return pixelformat.Depth24Stencil8
	}

	f := pixelformat.RGBA8888
	if src != pixelformat.Any && src.HasAlpha() && src != pixelformat.A8 &&
		pixelformat.CanConvert(src, pixelformat.RGBA8888) {
		f = src
	}
	if t.premultiplied {
		return f.Premultiply()
	}
	return f.PremultStem()
}

// IsSliced reports whether more than one tile is needed. It allocates the
// texture if necessary; a texture that fails to allocate is not sliced.
func (t *Texture2DSliced) IsSliced() bool {
	if !t.allocated {
		if err := t.Allocate(); err != nil {
			return false
		}
	}
	return len(t.xSpans) != 1 || len(t.ySpans) != 1
}

// CanHardwareRepeat reports whether the sampler can repeat the texture
// directly: exactly one tile, no waste, and the tile itself repeats.
func (t *Texture2DSliced) CanHardwareRepeat() bool {
	if len(t.pool.tiles) != 1 {
		return false
	}
	if t.xSpans[0].Waste > 0 || t.ySpans[0].Waste > 0 {
		return false
	}
	return t.pool.tiles[0].CanHardwareRepeat()
}

// IsForeign reports whether the first tile wraps external storage.
func (t *Texture2DSliced) IsForeign() bool {
	if len(t.pool.tiles) == 0 {
		return false
	}
	if f, ok := t.pool.tiles[0].(driver.Foreigner); ok {
		return f.IsForeign()
	}
	return false
}

// SetFilters sets the min and mag filters on every tile, now and after
// allocation.
func (t *Texture2DSliced) SetFilters(min, mag driver.Filter) {
	t.minFilter, t.magFilter = min, mag
	for _, tile := range t.pool.tiles {
		tile.SetFilters(min, mag)
	}
}

// SetWrapModes sets the wrap modes on every tile, now and after allocation.
func (t *Texture2DSliced) SetWrapModes(s, u driver.WrapMode) {
	t.wrapS, t.wrapT = s, u
	for _, tile := range t.pool.tiles {
		tile.SetWrapModes(s, u)
	}
}

// PrePaint prepares every tile for sampling.
func (t *Texture2DSliced) PrePaint() {
	for _, tile := range t.pool.tiles {
		if p, ok := tile.(driver.PrePainter); ok {
			p.PrePaint()
		}
	}
}

// Destroy frees every tile. The texture cannot be used afterwards.
func (t *Texture2DSliced) Destroy() {
	t.pool.destroy()
	t.xSpans, t.ySpans = nil, nil
	t.loader = nil
	t.allocated = false
	t.destroyed = true
}
