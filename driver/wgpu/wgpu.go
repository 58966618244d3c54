//go:build !nogpu

// Package wgpu implements driver.Driver on a gogpu/wgpu HAL device.
//
// Each tile keeps a CPU shadow of its contents. Region updates are applied to
// the shadow and the whole tile is re-uploaded with Queue.WriteTexture, which
// also makes readback possible without a staging buffer.
package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/cglib/bitmap"
	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/internal/debug"
	"github.com/gogpu/cglib/pixelformat"
)

// ErrNoHAL is returned by NewFromProvider when the provider does not expose
// HAL device and queue objects.
var ErrNoHAL = errors.New("wgpu: provider does not expose HAL types")

// Driver creates tile textures on a HAL device.
//
// Driver is not safe for concurrent use.
type Driver struct {
	device hal.Device
	queue  hal.Queue
	limits gputypes.Limits
	live   int
}

// New wraps device and queue. If limits is nil, default limits are used.
func New(device hal.Device, queue hal.Queue, limits *gputypes.Limits) *Driver {
	lim := gputypes.DefaultLimits()
	if limits != nil {
		lim = *limits
	}
	return &Driver{device: device, queue: queue, limits: lim}
}

// NewFromProvider shares the device of an external provider (for example a
// gogpu application). The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func NewFromProvider(provider gpucontext.DeviceProvider, limits *gputypes.Limits) (*Driver, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return New(device, queue, limits), nil
}

// Live returns the number of textures created and not yet destroyed.
func (d *Driver) Live() int { return d.live }

// HasFeature implements driver.Driver. WebGPU textures may be any size and
// repeat at any size; readback is served from the shadow copy.
func (d *Driver) HasFeature(f driver.Feature) bool {
	switch f {
	case driver.FeatureTextureNPOT, driver.FeatureTextureNPOTRepeat, driver.FeatureReadPixels:
		return true
	default:
		return false
	}
}

// CanCreateTexture2D implements driver.Driver.
func (d *Driver) CanCreateTexture2D(width, height int, format pixelformat.Format) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	maxDim := int(d.limits.MaxTextureDimension2D)
	if width > maxDim || height > maxDim {
		return false
	}
	_, ok := format.GPUFormat()
	return ok && !format.HasDepth()
}

// shadowFormat returns the CPU layout matching the GPU texture bytes.
func shadowFormat(f pixelformat.Format) pixelformat.Format {
	switch f {
	case pixelformat.RGB888:
		return pixelformat.RGBA8888
	case pixelformat.BGR888:
		return pixelformat.BGRA8888
	default:
		return f
	}
}

// CreateTexture2D implements driver.Driver.
func (d *Driver) CreateTexture2D(width, height int, format pixelformat.Format) (driver.Texture, error) {
	if !d.CanCreateTexture2D(width, height, format) {
		return nil, fmt.Errorf("%w: %dx%d %v", driver.ErrUnsupported, width, height, format)
	}
	gpuFormat, _ := format.GPUFormat()

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: "cglib_tile",
		Size: hal.Extent3D{
			Width:              uint32(width),  //nolint:gosec // G115: bounded by MaxTextureDimension2D
			Height:             uint32(height), //nolint:gosec // G115: bounded by MaxTextureDimension2D
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gpuFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create tile texture: %w", err)
	}

	shadow, err := bitmap.New(width, height, shadowFormat(format))
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: shadow: %w", err)
	}
	d.live++
	return &Texture{
		d:         d,
		tex:       tex,
		format:    format,
		gpuFormat: gpuFormat,
		shadow:    shadow,
		min:       driver.FilterLinear,
		mag:       driver.FilterLinear,
		wrapS:     driver.WrapAutomatic,
		wrapT:     driver.WrapAutomatic,
	}, nil
}

// Texture is one HAL texture with its CPU shadow.
type Texture struct {
	d         *Driver
	tex       hal.Texture
	sampler   hal.Sampler
	format    pixelformat.Format
	gpuFormat gputypes.TextureFormat
	shadow    *bitmap.Bitmap

	min, mag     driver.Filter
	wrapS, wrapT driver.WrapMode
	destroyed    bool
}

func (t *Texture) Width() int                 { return t.shadow.Width() }
func (t *Texture) Height() int                { return t.shadow.Height() }
func (t *Texture) Format() pixelformat.Format { return t.format }

// HAL returns the underlying texture for binding.
func (t *Texture) HAL() hal.Texture { return t.tex }

// GPUFormat returns the texture format on the device.
func (t *Texture) GPUFormat() gputypes.TextureFormat { return t.gpuFormat }

// SetRegion implements driver.Texture.
func (t *Texture) SetRegion(src *bitmap.Bitmap, srcX, srcY, dstX, dstY, width, height int) error {
	if t.destroyed {
		return driver.ErrDestroyed
	}
	if err := driver.CheckRegion(t.Width(), t.Height(), t.format, src, srcX, srcY, dstX, dstY, width, height); err != nil {
		return err
	}

	sbpp := t.format.BytesPerPixel()
	dbpp := t.shadow.Format().BytesPerPixel()
	for y := 0; y < height; y++ {
		s := src.Row(srcY + y)[srcX*sbpp : (srcX+width)*sbpp]
		d := t.shadow.Row(dstY + y)[dstX*dbpp : (dstX+width)*dbpp]
		if err := pixelformat.ConvertRow(d, t.shadow.Format(), s, t.format, width); err != nil {
			return fmt.Errorf("wgpu: expand row: %w", err)
		}
	}
	if err := t.flush(); err != nil {
		return fmt.Errorf("wgpu: upload: %w", err)
	}
	return nil
}

func (t *Texture) flush() error {
	w, h := uint32(t.Width()), uint32(t.Height()) //nolint:gosec // G115: validated on creation
	return t.d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
		},
		t.shadow.Data(),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(t.shadow.Rowstride()), //nolint:gosec // G115: validated on creation
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
}

// ReadPixels implements driver.Reader from the shadow copy.
func (t *Texture) ReadPixels(dst *bitmap.Bitmap) error {
	if t.destroyed {
		return driver.ErrDestroyed
	}
	if dst.Width() != t.Width() || dst.Height() != t.Height() {
		return fmt.Errorf("%w: read %dx%d into %dx%d", driver.ErrOutOfBounds,
			t.Width(), t.Height(), dst.Width(), dst.Height())
	}
	for y := 0; y < t.Height(); y++ {
		if err := pixelformat.ConvertRow(dst.Row(y), dst.Format(), t.shadow.Row(y), t.shadow.Format(), t.Width()); err != nil {
			return fmt.Errorf("wgpu: read pixels: %w", err)
		}
	}
	return nil
}

// CanHardwareRepeat implements driver.Texture.
func (t *Texture) CanHardwareRepeat() bool { return true }

// SetFilters implements driver.Texture. The sampler is rebuilt on next use.
func (t *Texture) SetFilters(min, mag driver.Filter) {
	if min == t.min && mag == t.mag {
		return
	}
	t.min, t.mag = min, mag
	t.dropSampler()
}

// SetWrapModes implements driver.Texture. The sampler is rebuilt on next use.
func (t *Texture) SetWrapModes(s, u driver.WrapMode) {
	if s == t.wrapS && u == t.wrapT {
		return
	}
	t.wrapS, t.wrapT = s, u
	t.dropSampler()
}

func (t *Texture) dropSampler() {
	if t.sampler != nil {
		t.d.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
}

// Sampler returns a sampler matching the current filters and wrap modes.
func (t *Texture) Sampler() (hal.Sampler, error) {
	if t.destroyed {
		return nil, driver.ErrDestroyed
	}
	if t.sampler != nil {
		return t.sampler, nil
	}
	minFilter, mipFilter := filterMode(t.min)
	magFilter, _ := filterMode(t.mag)
	s, err := t.d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "cglib_tile_sampler",
		AddressModeU: addressMode(t.wrapS),
		AddressModeV: addressMode(t.wrapT),
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    magFilter,
		MinFilter:    minFilter,
		MipmapFilter: mipFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sampler: %w", err)
	}
	t.sampler = s
	return s, nil
}

// filterMode splits a filter into its texel filter and mipmap filter.
func filterMode(f driver.Filter) (texel, mip gputypes.FilterMode) {
	switch f {
	case driver.FilterNearest, driver.FilterNearestMipmapNearest:
		return gputypes.FilterModeNearest, gputypes.FilterModeNearest
	case driver.FilterLinearMipmapNearest:
		return gputypes.FilterModeLinear, gputypes.FilterModeNearest
	case driver.FilterNearestMipmapLinear:
		return gputypes.FilterModeNearest, gputypes.FilterModeLinear
	default:
		return gputypes.FilterModeLinear, gputypes.FilterModeLinear
	}
}

func addressMode(w driver.WrapMode) gputypes.AddressMode {
	switch w {
	case driver.WrapRepeat:
		return gputypes.AddressModeRepeat
	case driver.WrapMirroredRepeat:
		return gputypes.AddressModeMirrorRepeat
	default:
		return gputypes.AddressModeClampToEdge
	}
}

// Destroy implements driver.Texture. Destroying twice is a no-op.
func (t *Texture) Destroy() {
	if t.destroyed {
		return
	}
	t.dropSampler()
	t.d.device.DestroyTexture(t.tex)
	t.destroyed = true
	t.d.live--
	debug.Note(debug.Slicing, "destroy tile", "width", t.Width(), "height", t.Height())
}

var (
	_ driver.Driver  = (*Driver)(nil)
	_ driver.Texture = (*Texture)(nil)
	_ driver.Reader  = (*Texture)(nil)
)
