package driver

import (
	"errors"
	"testing"

	"github.com/gogpu/cglib/bitmap"
	"github.com/gogpu/cglib/pixelformat"
)

func TestCheckRegion(t *testing.T) {
	src, err := bitmap.New(4, 4, pixelformat.RGBA8888Pre)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name                 string
		format               pixelformat.Format
		sx, sy, dx, dy, w, h int
		want                 error
	}{
		{"fits", pixelformat.RGBA8888Pre, 0, 0, 4, 4, 4, 4, nil},
		{"format", pixelformat.RGBA8888, 0, 0, 0, 0, 1, 1, ErrFormatMismatch},
		{"source overflow", pixelformat.RGBA8888Pre, 2, 0, 0, 0, 3, 1, ErrOutOfBounds},
		{"dest overflow", pixelformat.RGBA8888Pre, 0, 0, 6, 0, 3, 1, ErrOutOfBounds},
		{"negative", pixelformat.RGBA8888Pre, 0, 0, -1, 0, 1, 1, ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRegion(8, 8, tt.format, src, tt.sx, tt.sy, tt.dx, tt.dy, tt.w, tt.h)
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckRegion() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFilterUsesMipmaps(t *testing.T) {
	if FilterLinear.UsesMipmaps() {
		t.Error("FilterLinear.UsesMipmaps() = true")
	}
	if !FilterLinearMipmapLinear.UsesMipmaps() {
		t.Error("FilterLinearMipmapLinear.UsesMipmaps() = false")
	}
}
