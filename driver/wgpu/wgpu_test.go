//go:build !nogpu

package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/cglib/bitmap"
	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/pixelformat"
	"github.com/gogpu/cglib/texture"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

func TestCanCreateTexture2D(t *testing.T) {
	device, queue := createNoopDevice(t)
	limits := gputypes.DefaultLimits()
	limits.MaxTextureDimension2D = 512
	d := New(device, queue, &limits)

	tests := []struct {
		name   string
		w, h   int
		format pixelformat.Format
		want   bool
	}{
		{"npot", 300, 17, pixelformat.RGBA8888Pre, true},
		{"max", 512, 512, pixelformat.BGRA8888, true},
		{"too wide", 513, 1, pixelformat.RGBA8888, false},
		{"unmapped format", 4, 4, pixelformat.RGB565, false},
		{"depth", 4, 4, pixelformat.Depth24Stencil8, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.CanCreateTexture2D(tt.w, tt.h, tt.format); got != tt.want {
				t.Errorf("CanCreateTexture2D(%d, %d, %v) = %v, want %v", tt.w, tt.h, tt.format, got, tt.want)
			}
		})
	}
	if !d.HasFeature(driver.FeatureTextureNPOT) {
		t.Error("WebGPU textures must support NPOT")
	}
}

func TestSetRegionReadPixels(t *testing.T) {
	device, queue := createNoopDevice(t)
	d := New(device, queue, nil)

	tex, err := d.CreateTexture2D(3, 2, pixelformat.RGB888)
	if err != nil {
		t.Fatal(err)
	}
	if got := tex.(*Texture).GPUFormat(); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("GPUFormat() = %v, want RGBA8Unorm", got)
	}

	src, _ := bitmap.New(2, 1, pixelformat.RGB888)
	copy(src.Data(), []byte{1, 2, 3, 4, 5, 6})
	if err := tex.SetRegion(src, 0, 0, 1, 1, 2, 1); err != nil {
		t.Fatal(err)
	}

	out, _ := bitmap.New(3, 2, pixelformat.RGBA8888)
	if err := tex.(driver.Reader).ReadPixels(out); err != nil {
		t.Fatal(err)
	}
	if got := out.Pixel(2, 1); got[0] != 4 || got[1] != 5 || got[2] != 6 || got[3] != 255 {
		t.Errorf("pixel (2,1) = %v, want [4 5 6 255]", got)
	}

	wrong, _ := bitmap.New(1, 1, pixelformat.RGBA8888)
	if err := tex.SetRegion(wrong, 0, 0, 0, 0, 1, 1); !errors.Is(err, driver.ErrFormatMismatch) {
		t.Errorf("format mismatch err = %v", err)
	}

	tex.Destroy()
	tex.Destroy()
	if d.Live() != 0 {
		t.Errorf("Live() = %d after destroy", d.Live())
	}
	if err := tex.SetRegion(src, 0, 0, 0, 0, 1, 1); !errors.Is(err, driver.ErrDestroyed) {
		t.Errorf("SetRegion after destroy = %v", err)
	}
}

func TestSamplerRebuild(t *testing.T) {
	device, queue := createNoopDevice(t)
	d := New(device, queue, nil)
	tex, err := d.CreateTexture2D(8, 8, pixelformat.RGBA8888Pre)
	if err != nil {
		t.Fatal(err)
	}
	wt := tex.(*Texture)
	s1, err := wt.Sampler()
	if err != nil {
		t.Fatal(err)
	}
	if s2, _ := wt.Sampler(); s2 != s1 {
		t.Error("unchanged state must reuse the sampler")
	}
	wt.SetWrapModes(driver.WrapRepeat, driver.WrapMirroredRepeat)
	if wt.sampler != nil {
		t.Error("changing wrap modes must drop the cached sampler")
	}
	if _, err := wt.Sampler(); err != nil {
		t.Fatal(err)
	}
	tex.Destroy()
}

func TestFilterMode(t *testing.T) {
	tests := []struct {
		f         driver.Filter
		texel, mp gputypes.FilterMode
	}{
		{driver.FilterNearest, gputypes.FilterModeNearest, gputypes.FilterModeNearest},
		{driver.FilterLinear, gputypes.FilterModeLinear, gputypes.FilterModeLinear},
		{driver.FilterLinearMipmapNearest, gputypes.FilterModeLinear, gputypes.FilterModeNearest},
		{driver.FilterNearestMipmapLinear, gputypes.FilterModeNearest, gputypes.FilterModeLinear},
	}
	for _, tt := range tests {
		texel, mip := filterMode(tt.f)
		if texel != tt.texel || mip != tt.mp {
			t.Errorf("filterMode(%v) = %v, %v; want %v, %v", tt.f, texel, mip, tt.texel, tt.mp)
		}
	}
}

type halProvider struct {
	gpucontext.DeviceProvider
	device hal.Device
	queue  hal.Queue
}

func (p halProvider) HalDevice() any { return p.device }
func (p halProvider) HalQueue() any  { return p.queue }

type plainProvider struct {
	gpucontext.DeviceProvider
}

func TestNewFromProvider(t *testing.T) {
	device, queue := createNoopDevice(t)
	d, err := NewFromProvider(halProvider{device: device, queue: queue}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.device != device || d.queue != queue {
		t.Error("provider device not stored")
	}
	if _, err := NewFromProvider(plainProvider{}, nil); !errors.Is(err, ErrNoHAL) {
		t.Errorf("NewFromProvider without HAL = %v, want ErrNoHAL", err)
	}
}

var errDeviceLost = errors.New("device lost")

// failingQueue rejects every texture write.
type failingQueue struct {
	hal.Queue
}

func (failingQueue) WriteTexture(*hal.ImageCopyTexture, []byte, *hal.ImageDataLayout, *hal.Extent3D) error {
	return errDeviceLost
}

func TestUploadErrorPropagates(t *testing.T) {
	device, queue := createNoopDevice(t)
	d := New(device, failingQueue{queue}, nil)

	tex, err := d.CreateTexture2D(4, 4, pixelformat.RGBA8888)
	if err != nil {
		t.Fatal(err)
	}
	src, _ := bitmap.New(4, 4, pixelformat.RGBA8888)
	if err := tex.SetRegion(src, 0, 0, 0, 0, 4, 4); !errors.Is(err, errDeviceLost) {
		t.Errorf("SetRegion() error = %v, want device lost", err)
	}
	tex.Destroy()

	sliced := texture.NewFromBitmap(d, src, texture.DefaultMaxWaste)
	err = sliced.Allocate()
	if !errors.Is(err, texture.ErrAllocation) || !errors.Is(err, errDeviceLost) {
		t.Fatalf("Allocate() error = %v, want ErrAllocation wrapping device lost", err)
	}
	if sliced.IsAllocated() || len(sliced.Tiles()) != 0 {
		t.Error("failed allocation left tiles behind")
	}
	if got := d.Live(); got != 0 {
		t.Errorf("Live() = %d after failed upload, want 0", got)
	}
}
