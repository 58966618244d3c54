package pixelformat

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestFormatMetadata(t *testing.T) {
	tests := []struct {
		f       Format
		bpp     int
		comp    Components
		premult bool
		alpha   bool
	}{
		{A8, 1, ComponentsA, false, true},
		{RGB888, 3, ComponentsRGB, false, false},
		{RGBA8888Pre, 4, ComponentsRGBA, true, true},
		{RGBA16161616F, 8, ComponentsRGBA, false, true},
		{RGBA32323232FPre, 16, ComponentsRGBA, true, true},
		{Depth24Stencil8, 4, ComponentsDepthStencil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			if got := tt.f.BytesPerPixel(); got != tt.bpp {
				t.Errorf("BytesPerPixel = %d, want %d", got, tt.bpp)
			}
			if got := tt.f.Components(); got != tt.comp {
				t.Errorf("Components = %v, want %v", got, tt.comp)
			}
			if got := tt.f.IsPremultiplied(); got != tt.premult {
				t.Errorf("IsPremultiplied = %v, want %v", got, tt.premult)
			}
			if got := tt.f.HasAlpha(); got != tt.alpha {
				t.Errorf("HasAlpha = %v, want %v", got, tt.alpha)
			}
		})
	}
}

func TestPremultVariants(t *testing.T) {
	if got := RGBA8888.Premultiply(); got != RGBA8888Pre {
		t.Errorf("Premultiply(RGBA8888) = %v", got)
	}
	if got := RGBA8888Pre.PremultStem(); got != RGBA8888 {
		t.Errorf("PremultStem(RGBA8888Pre) = %v", got)
	}
	if got := A8.Premultiply(); got != A8 {
		t.Errorf("Premultiply(A8) = %v, want A8", got)
	}
	if got := RGB888.Premultiply(); got != RGB888 {
		t.Errorf("Premultiply(RGB888) = %v, want RGB888", got)
	}
	if got := BGRA8888Pre.TogglePremult(); got != BGRA8888 {
		t.Errorf("TogglePremult(BGRA8888Pre) = %v", got)
	}
	if RGB888.CanBePremultiplied() || A8.CanBePremultiplied() {
		t.Error("formats without color+alpha must not be premultipliable")
	}
}

func TestFlips(t *testing.T) {
	if got := RGBA8888Pre.FlipRGBOrder(); got != BGRA8888Pre {
		t.Errorf("FlipRGBOrder = %v", got)
	}
	if got := BGRA8888.FlipAlphaPosition(); got != ABGR8888 {
		t.Errorf("FlipAlphaPosition = %v", got)
	}
	if got := A8.FlipRGBOrder(); got != A8 {
		t.Errorf("FlipRGBOrder(A8) = %v", got)
	}
}

func TestAnyAndInvalid(t *testing.T) {
	if Any.IsValid() || Any.BytesPerPixel() != 0 {
		t.Error("Any must carry no metadata")
	}
	if Any.String() != "ANY" {
		t.Errorf("String = %q", Any.String())
	}
	if Format(200).IsValid() {
		t.Error("out of range format reported valid")
	}
}

func TestGPUFormat(t *testing.T) {
	tests := []struct {
		f    Format
		want gputypes.TextureFormat
		ok   bool
	}{
		{RGBA8888Pre, gputypes.TextureFormatRGBA8Unorm, true},
		{BGR888, gputypes.TextureFormatBGRA8Unorm, true},
		{A8, gputypes.TextureFormatR8Unorm, true},
		{RGB565, gputypes.TextureFormatUndefined, false},
	}
	for _, tt := range tests {
		got, ok := tt.f.GPUFormat()
		if got != tt.want || ok != tt.ok {
			t.Errorf("%v.GPUFormat() = %v, %v; want %v, %v", tt.f, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConvertRow(t *testing.T) {
	src := []byte{255, 0, 0, 128, 10, 20, 30, 255}

	dst := make([]byte, 8)
	if err := ConvertRow(dst, BGRA8888, src, RGBA8888, 2); err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 255, 128, 30, 20, 10, 255}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("swizzle: got %v, want %v", dst, want)
		}
	}

	if err := ConvertRow(dst, RGBA8888Pre, src, RGBA8888, 2); err != nil {
		t.Fatal(err)
	}
	if dst[0] != 128 || dst[3] != 128 || dst[4] != 10 {
		t.Fatalf("premultiply: got %v", dst)
	}

	rgb := make([]byte, 6)
	if err := ConvertRow(rgb, RGB888, src, RGBA8888, 2); err != nil {
		t.Fatal(err)
	}
	if rgb[0] != 255 || rgb[5] != 30 {
		t.Fatalf("drop alpha: got %v", rgb)
	}

	a := make([]byte, 2)
	if err := ConvertRow(a, A8, src, RGBA8888, 2); err != nil {
		t.Fatal(err)
	}
	if a[0] != 128 || a[1] != 255 {
		t.Fatalf("extract alpha: got %v", a)
	}
}

func TestUnpremultiplyRoundTrip(t *testing.T) {
	src := []byte{200, 100, 50, 255, 0, 0, 0, 0}
	pre := make([]byte, 8)
	back := make([]byte, 8)
	if err := ConvertRow(pre, RGBA8888Pre, src, RGBA8888, 2); err != nil {
		t.Fatal(err)
	}
	if err := ConvertRow(back, RGBA8888, pre, RGBA8888Pre, 2); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if back[i] != src[i] {
			t.Fatalf("opaque round trip: got %v, want %v", back[:4], src[:4])
		}
	}
	if back[4] != 0 || back[7] != 0 {
		t.Fatalf("transparent pixel: got %v", back[4:])
	}
}

func TestConvertUnsupported(t *testing.T) {
	err := ConvertRow(make([]byte, 8), RGBA8888, make([]byte, 4), RGB565, 2)
	if !errors.Is(err, ErrUnsupportedConversion) {
		t.Fatalf("err = %v, want ErrUnsupportedConversion", err)
	}
}
