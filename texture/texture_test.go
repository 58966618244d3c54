package texture

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/gogpu/cglib/bitmap"
	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/driver/memory"
	"github.com/gogpu/cglib/pixelformat"
	"github.com/gogpu/cglib/spans"
)

func solid(t *testing.T, w, h int, px [4]byte) *bitmap.Bitmap {
	t.Helper()
	b, err := bitmap.New(w, h, pixelformat.RGBA8888Pre)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(b.Data()); i += 4 {
		copy(b.Data()[i:], px[:])
	}
	return b
}

func random(t *testing.T, r *rand.Rand, w, h int) *bitmap.Bitmap {
	t.Helper()
	b, err := bitmap.New(w, h, pixelformat.RGBA8888Pre)
	if err != nil {
		t.Fatal(err)
	}
	r.Read(b.Data())
	// Keep the data valid premultiplied so conversions are lossless.
	for i := 3; i < len(b.Data()); i += 4 {
		b.Data()[i] = 255
	}
	return b
}

// coordinate bitmap: pixel (x, y) = [x, y, 7, 255].
func coords(t *testing.T, w, h int) *bitmap.Bitmap {
	t.Helper()
	b, err := bitmap.New(w, h, pixelformat.RGBA8888Pre)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copy(b.Pixel(x, y), []byte{byte(x), byte(y), 7, 255})
		}
	}
	return b
}

func tilePixel(tex *Texture2DSliced, tx, ty, x, y int) []byte {
	return tex.Tile(tx, ty).(*memory.Texture).Bitmap().Pixel(x, y)
}

func TestNPOTSlicingWithTileCap(t *testing.T) {
	d := memory.New()
	color := [4]byte{10, 20, 30, 255}
	tex := NewFromBitmap(d, solid(t, 300, 300, color), DefaultMaxWaste, WithMaxTileSize(256))
	if err := tex.Allocate(); err != nil {
		t.Fatal(err)
	}

	want := []spans.Span{{Start: 0, Size: 256, Waste: 0}, {Start: 256, Size: 44, Waste: 0}}
	if !reflect.DeepEqual(tex.XSpans(), want) || !reflect.DeepEqual(tex.YSpans(), want) {
		t.Fatalf("spans = %v x %v, want %v", tex.XSpans(), tex.YSpans(), want)
	}
	if len(tex.Tiles()) != 4 || d.Live() != 4 {
		t.Fatalf("tiles = %d, live = %d, want 4", len(tex.Tiles()), d.Live())
	}
	if got := tilePixel(tex, 0, 0, 0, 0); !bytes.Equal(got, color[:]) {
		t.Errorf("tile (0,0) first pixel = %v, want %v", got, color)
	}
	if got := tilePixel(tex, 1, 1, 43, 43); !bytes.Equal(got, color[:]) {
		t.Errorf("tile (1,1) last pixel = %v, want %v", got, color)
	}
	if !tex.IsSliced() {
		t.Error("IsSliced() = false for 2x2 tiles")
	}
	if tex.CanHardwareRepeat() {
		t.Error("CanHardwareRepeat() = true for a sliced texture")
	}
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	drivers := []struct {
		name string
		new  func() driver.Driver
		opts []Option
	}{
		{"npot", func() driver.Driver { return memory.New() }, []Option{WithMaxTileSize(16)}},
		{"pot", func() driver.Driver { return memory.New(memory.WithoutNPOT(), memory.WithMaxTextureSize(16)) }, nil},
		{"pot no waste", func() driver.Driver { return memory.New(memory.WithoutNPOT(), memory.WithMaxTextureSize(32)) }, nil},
	}
	for _, dd := range drivers {
		t.Run(dd.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				w, h := 1+r.Intn(70), 1+r.Intn(70)
				src := random(t, r, w, h)
				maxWaste := DefaultMaxWaste
				if dd.name == "pot no waste" {
					maxWaste = 0
				}
				tex := NewFromBitmap(dd.new(), src, maxWaste, dd.opts...)
				if err := tex.Allocate(); err != nil {
					t.Fatalf("%dx%d: %v", w, h, err)
				}
				out, _ := bitmap.New(w, h, pixelformat.RGBA8888Pre)
				if err := tex.ReadPixels(out); err != nil {
					t.Fatal(err)
				}
				if !bytes.Equal(out.Data(), src.Data()) {
					t.Fatalf("%dx%d: read back differs from upload", w, h)
				}
				checkWaste(t, tex)
			}
		})
	}
}

// checkWaste verifies that every waste texel replicates the nearest used
// edge texel of its tile.
func checkWaste(t *testing.T, tex *Texture2DSliced) {
	t.Helper()
	for ty, ys := range tex.YSpans() {
		for tx, xs := range tex.XSpans() {
			for y := 0; y < ys.Size; y++ {
				for x := 0; x < xs.Size; x++ {
					if x < xs.Used() && y < ys.Used() {
						continue
					}
					ex, ey := min(x, xs.Used()-1), min(y, ys.Used()-1)
					got := tilePixel(tex, tx, ty, x, y)
					want := tilePixel(tex, tx, ty, ex, ey)
					if !bytes.Equal(got, want) {
						t.Fatalf("tile (%d,%d) waste (%d,%d) = %v, want edge (%d,%d) = %v",
							tx, ty, x, y, got, ex, ey, want)
					}
				}
			}
		}
	}
}

func TestWasteLayout(t *testing.T) {
	d := memory.New(memory.WithoutNPOT(), memory.WithMaxTextureSize(8))
	src := coords(t, 5, 13)
	tex := NewFromBitmap(d, src, DefaultMaxWaste)
	if err := tex.Allocate(); err != nil {
		t.Fatal(err)
	}
	if want := []spans.Span{{Start: 0, Size: 8, Waste: 3}}; !reflect.DeepEqual(tex.XSpans(), want) {
		t.Fatalf("x spans = %v, want %v", tex.XSpans(), want)
	}
	if want := []spans.Span{{Start: 0, Size: 8, Waste: 0}, {Start: 8, Size: 8, Waste: 3}}; !reflect.DeepEqual(tex.YSpans(), want) {
		t.Fatalf("y spans = %v, want %v", tex.YSpans(), want)
	}

	tests := []struct {
		tile, x, y int
		want       []byte
	}{
		{0, 6, 3, []byte{4, 3, 7, 255}},  // right waste, top tile
		{1, 7, 2, []byte{4, 10, 7, 255}}, // right waste, bottom tile
		{1, 1, 6, []byte{1, 12, 7, 255}}, // bottom waste
		{1, 7, 7, []byte{4, 12, 7, 255}}, // corner
	}
	for _, tt := range tests {
		if got := tilePixel(tex, 0, tt.tile, tt.x, tt.y); !bytes.Equal(got, tt.want) {
			t.Errorf("tile %d (%d,%d) = %v, want %v", tt.tile, tt.x, tt.y, got, tt.want)
		}
	}

	// Updating the bottom-right corner refreshes only the touched waste.
	patch := solid(t, 3, 3, [4]byte{9, 9, 9, 255})
	if err := tex.SetRegion(0, 0, 2, 10, 3, 3, patch); err != nil {
		t.Fatal(err)
	}
	after := []struct {
		x, y int
		want []byte
	}{
		{6, 6, []byte{9, 9, 9, 255}},
		{6, 3, []byte{9, 9, 9, 255}},
		{6, 0, []byte{4, 8, 7, 255}},
		{0, 6, []byte{0, 12, 7, 255}},
		{3, 7, []byte{9, 9, 9, 255}},
	}
	for _, tt := range after {
		if got := tilePixel(tex, 0, 1, tt.x, tt.y); !bytes.Equal(got, tt.want) {
			t.Errorf("after update (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	checkWaste(t, tex)
}

func TestSubregionUpdatesMatchModel(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	d := memory.New(memory.WithoutNPOT(), memory.WithMaxTextureSize(16))
	const w, h = 37, 29
	model := random(t, r, w, h)
	tex := NewFromBitmap(d, model.Copy(), DefaultMaxWaste)
	if err := tex.Allocate(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		uw, uh := 1+r.Intn(w), 1+r.Intn(h)
		dx, dy := r.Intn(w-uw+1), r.Intn(h-uh+1)
		patch := random(t, r, uw+2, uh+2)
		sx, sy := r.Intn(3), r.Intn(3)
		if err := tex.SetRegion(sx, sy, dx, dy, uw, uh, patch); err != nil {
			t.Fatal(err)
		}
		if err := patch.CopySubregion(model, sx, sy, dx, dy, uw, uh); err != nil {
			t.Fatal(err)
		}
		checkWaste(t, tex)
	}

	out, _ := bitmap.New(w, h, pixelformat.RGBA8888Pre)
	if err := tex.ReadPixels(out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Data(), model.Data()) {
		t.Fatal("texture contents diverged from model after updates")
	}
}

func TestWasteIdempotent(t *testing.T) {
	d := memory.New(memory.WithoutNPOT(), memory.WithMaxTextureSize(8))
	src := coords(t, 11, 6)
	tex := NewFromBitmap(d, src, DefaultMaxWaste)
	if err := tex.Allocate(); err != nil {
		t.Fatal(err)
	}
	snapshot := func() [][]byte {
		var out [][]byte
		for _, tile := range tex.Tiles() {
			out = append(out, append([]byte(nil), tile.(*memory.Texture).Bitmap().Data()...))
		}
		return out
	}
	first := snapshot()
	for i := 0; i < 2; i++ {
		if err := tex.SetRegion(0, 0, 0, 0, 11, 6, src); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual(first, snapshot()) {
		t.Fatal("re-uploading identical data changed tile contents")
	}
}

func TestAllocationRollback(t *testing.T) {
	d := memory.New(memory.WithCreateFailure(3))
	tex := NewWithSize(d, 20, 20, DefaultMaxWaste, WithMaxTileSize(8))
	err := tex.Allocate()
	if !errors.Is(err, ErrAllocation) || !errors.Is(err, driver.ErrUnsupported) {
		t.Fatalf("Allocate() = %v, want ErrAllocation wrapping the driver error", err)
	}
	if d.Live() != 0 {
		t.Errorf("Live() = %d after rollback, want 0", d.Live())
	}
	if tex.IsAllocated() || tex.Tiles() != nil || tex.XSpans() != nil {
		t.Error("failed allocation left state behind")
	}

	// The loader survives a failure, so a retry can succeed.
	if err := tex.Allocate(); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(tex.Tiles()) != 9 {
		t.Errorf("tiles = %d, want 9", len(tex.Tiles()))
	}
}

func TestNoSlicing(t *testing.T) {
	tests := []struct {
		name    string
		d       *memory.Driver
		wantErr error
		span    spans.Span
	}{
		{"too big", memory.New(memory.WithMaxTextureSize(256)), ErrSize, spans.Span{}},
		{"npot", memory.New(memory.WithMaxTextureSize(512)), nil, spans.Span{Start: 0, Size: 300, Waste: 0}},
		{"pot", memory.New(memory.WithoutNPOT(), memory.WithMaxTextureSize(512)), nil, spans.Span{Start: 0, Size: 512, Waste: 212}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := NewWithSize(tt.d, 300, 300, -1)
			err := tex.Allocate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Allocate() = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := tex.XSpans(); len(got) != 1 || got[0] != tt.span {
				t.Errorf("x spans = %v, want [%v]", got, tt.span)
			}
			if tex.IsSliced() {
				t.Error("IsSliced() = true with max waste -1")
			}
		})
	}
}

func TestNoGeometry(t *testing.T) {
	tex := NewWithSize(memory.New(), 64, 64, 0)
	tex.SetComponents(pixelformat.ComponentsDepthStencil)
	if err := tex.Allocate(); !errors.Is(err, ErrSize) {
		t.Fatalf("Allocate() = %v, want ErrSize", err)
	}
}

func TestUnsupportedSource(t *testing.T) {
	tex := NewFromLoader(memory.New(), Loader{Source: SourceForeign, Width: 4, Height: 4}, 0)
	if err := tex.Allocate(); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("Allocate() = %v, want ErrUnsupportedSource", err)
	}
}

func TestInternalFormat(t *testing.T) {
	straight, _ := bitmap.New(2, 2, pixelformat.BGRA8888)
	tests := []struct {
		name    string
		src     *bitmap.Bitmap
		premult bool
		want    pixelformat.Format
	}{
		{"premultiplied by default", straight, true, pixelformat.BGRA8888Pre},
		{"straight", straight, false, pixelformat.BGRA8888},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := NewFromBitmap(memory.New(), tt.src.Copy(), 0)
			tex.SetPremultiplied(tt.premult)
			if err := tex.Allocate(); err != nil {
				t.Fatal(err)
			}
			if tex.Format() != tt.want {
				t.Errorf("Format() = %v, want %v", tex.Format(), tt.want)
			}
		})
	}

	alpha, _ := bitmap.New(2, 2, pixelformat.A8)
	tex := NewFromBitmap(memory.New(), alpha, 0)
	if err := tex.Allocate(); err != nil {
		t.Fatal(err)
	}
	if tex.Format() != pixelformat.A8 {
		t.Errorf("A8 source stored as %v", tex.Format())
	}
}

func TestFormatErrors(t *testing.T) {
	if _, err := NewFromData(memory.New(), 2, 2, 0, pixelformat.Any, 0, make([]byte, 16)); !errors.Is(err, ErrFormat) {
		t.Errorf("NewFromData(Any) = %v, want ErrFormat", err)
	}
	tex, err := NewFromData(memory.New(), 2, 2, 0, pixelformat.RGBA8888Pre, 0, make([]byte, 16))
	if err != nil {
		t.Fatal(err)
	}
	odd, _ := bitmap.New(2, 2, pixelformat.RGB565)
	if err := tex.SetRegion(0, 0, 0, 0, 2, 2, odd); !errors.Is(err, ErrFormat) {
		t.Errorf("SetRegion(RGB565) = %v, want ErrFormat", err)
	}
	if err := tex.SetRegion(0, 0, 1, 1, 2, 2, odd); !errors.Is(err, driver.ErrOutOfBounds) {
		t.Errorf("SetRegion out of bounds = %v, want ErrOutOfBounds", err)
	}
}

func TestForeachSubTextureInRegion(t *testing.T) {
	tex := NewWithSize(memory.New(), 300, 300, 0, WithMaxTileSize(256))
	type call struct {
		tile      driver.Texture
		sub, meta [4]float64
	}
	var calls []call
	err := tex.ForeachSubTextureInRegion(0, 0, 1, 1, func(tile driver.Texture, sub, meta [4]float64) {
		calls = append(calls, call{tile, sub, meta})
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 4 {
		t.Fatalf("got %d tiles, want 4", len(calls))
	}
	last := calls[3]
	if last.tile != tex.Tile(1, 1) {
		t.Error("last callback is not tile (1,1)")
	}
	if last.sub != [4]float64{0, 0, 1, 1} {
		t.Errorf("sub coords = %v", last.sub)
	}
	if want := [4]float64{256.0 / 300, 256.0 / 300, 1, 1}; !approx(last.meta, want) {
		t.Errorf("meta coords = %v, want %v", last.meta, want)
	}

	// A repeated region visits tiles again.
	calls = calls[:0]
	if err := tex.ForeachSubTextureInRegion(0.5, 0, 1.5, 0.5, func(tile driver.Texture, sub, meta [4]float64) {
		calls = append(calls, call{tile, sub, meta})
	}); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 3 {
		t.Fatalf("repeated region: got %d tiles, want 3", len(calls))
	}
	if calls[2].meta[2] != 1.5 {
		t.Errorf("repeated meta s2 = %v, want 1.5", calls[2].meta[2])
	}
}

func TestPropagation(t *testing.T) {
	tex := NewWithSize(memory.New(), 20, 10, 0, WithMaxTileSize(8))
	tex.SetFilters(driver.FilterNearest, driver.FilterNearest)
	if err := tex.Allocate(); err != nil {
		t.Fatal(err)
	}
	tex.SetWrapModes(driver.WrapClampToEdge, driver.WrapRepeat)
	tex.PrePaint()
	for i, tile := range tex.Tiles() {
		mt := tile.(*memory.Texture)
		if min, mag := mt.Filters(); min != driver.FilterNearest || mag != driver.FilterNearest {
			t.Errorf("tile %d filters = %v, %v", i, min, mag)
		}
		if s, u := mt.WrapModes(); s != driver.WrapClampToEdge || u != driver.WrapRepeat {
			t.Errorf("tile %d wrap = %v, %v", i, s, u)
		}
		if mt.PrePaints() != 1 {
			t.Errorf("tile %d pre-paints = %d", i, mt.PrePaints())
		}
	}
	if tex.IsForeign() {
		t.Error("IsForeign() = true for memory tiles")
	}
}

func TestDestroy(t *testing.T) {
	d := memory.New()
	tex := NewWithSize(d, 10, 10, 0, WithMaxTileSize(4))
	if err := tex.Allocate(); err != nil {
		t.Fatal(err)
	}
	tex.Destroy()
	if d.Live() != 0 {
		t.Errorf("Live() = %d after Destroy", d.Live())
	}
	if err := tex.Allocate(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Allocate() after Destroy = %v", err)
	}
}

func TestSingleTileHardwareRepeat(t *testing.T) {
	tex := NewWithSize(memory.New(), 64, 32, 0)
	if tex.IsSliced() {
		t.Fatal("64x32 must fit one tile")
	}
	if !tex.CanHardwareRepeat() {
		t.Error("single waste-free tile should repeat in hardware")
	}
	if tex.Type() != Type2D || tex.ID() == 0 {
		t.Errorf("Type() = %v, ID() = %d", tex.Type(), tex.ID())
	}
}

func approx(a, b [4]float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}
