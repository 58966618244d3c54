// Package memory implements driver.Driver with textures held in CPU memory.
//
// It serves as a software fallback and as a deterministic driver for tests:
// the maximum texture size and NPOT support are configurable, creation can be
// made to fail at a chosen call, and every texture supports readback.
package memory

import (
	"fmt"

	"github.com/gogpu/cglib/bitmap"
	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/internal/util"
	"github.com/gogpu/cglib/pixelformat"
)

// DefaultMaxTextureSize is the largest texture dimension accepted when no
// WithMaxTextureSize option is given.
const DefaultMaxTextureSize = 4096

// Option configures a Driver.
type Option func(*Driver)

// WithMaxTextureSize limits both texture dimensions to n.
func WithMaxTextureSize(n int) Option {
	return func(d *Driver) { d.maxSize = n }
}

// WithoutNPOT makes the driver reject non-power-of-two textures.
func WithoutNPOT() Option {
	return func(d *Driver) { d.npot = false }
}

// WithCreateFailure makes the n-th CreateTexture2D call (1-based) fail.
func WithCreateFailure(n int) Option {
	return func(d *Driver) { d.failAt = n }
}

// Driver is a CPU texture driver. It is not safe for concurrent use.
type Driver struct {
	maxSize int
	npot    bool
	failAt  int

	creates int
	live    int
}

// New returns a driver with NPOT support and DefaultMaxTextureSize.
func New(opts ...Option) *Driver {
	d := &Driver{maxSize: DefaultMaxTextureSize, npot: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Live returns the number of textures created and not yet destroyed.
func (d *Driver) Live() int { return d.live }

// Creates returns the number of CreateTexture2D calls so far.
func (d *Driver) Creates() int { return d.creates }

// HasFeature implements driver.Driver.
func (d *Driver) HasFeature(f driver.Feature) bool {
	switch f {
	case driver.FeatureTextureNPOT, driver.FeatureTextureNPOTRepeat:
		return d.npot
	case driver.FeatureReadPixels:
		return true
	default:
		return false
	}
}

// CanCreateTexture2D implements driver.Driver.
func (d *Driver) CanCreateTexture2D(width, height int, format pixelformat.Format) bool {
	if width <= 0 || height <= 0 || width > d.maxSize || height > d.maxSize {
		return false
	}
	if !d.npot && (!util.IsPOT(width) || !util.IsPOT(height)) {
		return false
	}
	return format.IsValid() && !format.HasDepth()
}

// CreateTexture2D implements driver.Driver.
func (d *Driver) CreateTexture2D(width, height int, format pixelformat.Format) (driver.Texture, error) {
	d.creates++
	if d.failAt > 0 && d.creates == d.failAt {
		return nil, fmt.Errorf("memory: injected failure on create %d: %w", d.creates, driver.ErrUnsupported)
	}
	if !d.CanCreateTexture2D(width, height, format) {
		return nil, fmt.Errorf("%w: %dx%d %v", driver.ErrUnsupported, width, height, format)
	}
	bmp, err := bitmap.New(width, height, format)
	if err != nil {
		return nil, fmt.Errorf("memory: %w", err)
	}
	d.live++
	return &Texture{
		d:     d,
		bmp:   bmp,
		min:   driver.FilterLinear,
		mag:   driver.FilterLinear,
		wrapS: driver.WrapAutomatic,
		wrapT: driver.WrapAutomatic,
	}, nil
}

// Texture is a CPU texture.
type Texture struct {
	d            *Driver
	bmp          *bitmap.Bitmap
	min, mag     driver.Filter
	wrapS, wrapT driver.WrapMode
	prePaints    int
	destroyed    bool
}

func (t *Texture) Width() int                 { return t.bmp.Width() }
func (t *Texture) Height() int                { return t.bmp.Height() }
func (t *Texture) Format() pixelformat.Format { return t.bmp.Format() }

// SetRegion implements driver.Texture.
func (t *Texture) SetRegion(src *bitmap.Bitmap, srcX, srcY, dstX, dstY, width, height int) error {
	if t.destroyed {
		return driver.ErrDestroyed
	}
	if err := driver.CheckRegion(t.Width(), t.Height(), t.Format(), src, srcX, srcY, dstX, dstY, width, height); err != nil {
		return err
	}
	return src.CopySubregion(t.bmp, srcX, srcY, dstX, dstY, width, height)
}

// CanHardwareRepeat implements driver.Texture.
func (t *Texture) CanHardwareRepeat() bool {
	return t.d.npot || (util.IsPOT(t.Width()) && util.IsPOT(t.Height()))
}

func (t *Texture) SetFilters(min, mag driver.Filter) { t.min, t.mag = min, mag }
func (t *Texture) SetWrapModes(s, u driver.WrapMode) { t.wrapS, t.wrapT = s, u }

// Filters returns the current min and mag filters.
func (t *Texture) Filters() (min, mag driver.Filter) { return t.min, t.mag }

// WrapModes returns the current wrap modes.
func (t *Texture) WrapModes() (s, u driver.WrapMode) { return t.wrapS, t.wrapT }

// PrePaint implements driver.PrePainter by counting calls.
func (t *Texture) PrePaint() { t.prePaints++ }

// PrePaints returns how many times PrePaint was called.
func (t *Texture) PrePaints() int { return t.prePaints }

// IsForeign implements driver.Foreigner. Memory textures are never foreign.
func (t *Texture) IsForeign() bool { return false }

// Bitmap exposes the texture storage.
func (t *Texture) Bitmap() *bitmap.Bitmap { return t.bmp }

// ReadPixels implements driver.Reader.
func (t *Texture) ReadPixels(dst *bitmap.Bitmap) error {
	if t.destroyed {
		return driver.ErrDestroyed
	}
	if dst.Width() != t.Width() || dst.Height() != t.Height() {
		return fmt.Errorf("%w: read %dx%d into %dx%d", driver.ErrOutOfBounds,
			t.Width(), t.Height(), dst.Width(), dst.Height())
	}
	for y := 0; y < t.Height(); y++ {
		if err := pixelformat.ConvertRow(dst.Row(y), dst.Format(), t.bmp.Row(y), t.Format(), t.Width()); err != nil {
			return fmt.Errorf("memory: read pixels: %w", err)
		}
	}
	return nil
}

// Destroy implements driver.Texture. Destroying twice is a no-op.
func (t *Texture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.d.live--
}

var (
	_ driver.Driver     = (*Driver)(nil)
	_ driver.Texture    = (*Texture)(nil)
	_ driver.Reader     = (*Texture)(nil)
	_ driver.Foreigner  = (*Texture)(nil)
	_ driver.PrePainter = (*Texture)(nil)
)
