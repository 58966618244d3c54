package pixelformat

import (
	"errors"
	"fmt"
)

// ErrUnsupportedConversion is returned when no pixel converter exists
// between two formats.
var ErrUnsupportedConversion = errors.New("pixelformat: unsupported conversion")

// channel offsets of R, G, B, A within a pixel; -1 when absent.
type layout struct{ r, g, b, a int }

var layouts = map[Format]layout{
	A8:          {-1, -1, -1, 0},
	RGB888:      {0, 1, 2, -1},
	BGR888:      {2, 1, 0, -1},
	RGBA8888:    {0, 1, 2, 3},
	BGRA8888:    {2, 1, 0, 3},
	ARGB8888:    {1, 2, 3, 0},
	ABGR8888:    {3, 2, 1, 0},
	RGBA8888Pre: {0, 1, 2, 3},
	BGRA8888Pre: {2, 1, 0, 3},
	ARGB8888Pre: {1, 2, 3, 0},
	ABGR8888Pre: {3, 2, 1, 0},
}

// CanConvert reports whether Convert supports src -> dst.
func CanConvert(src, dst Format) bool {
	if src == dst && src.IsValid() {
		return true
	}
	_, okSrc := layouts[src]
	_, okDst := layouts[dst]
	return okSrc && okDst
}

// ConvertRow converts width pixels from src (in srcFormat) into dst (in
// dstFormat). src and dst may alias only when both formats have the same
// pixel size.
func ConvertRow(dst []byte, dstFormat Format, src []byte, srcFormat Format, width int) error {
	if !CanConvert(srcFormat, dstFormat) {
		return fmt.Errorf("%w: %v -> %v", ErrUnsupportedConversion, srcFormat, dstFormat)
	}
	sbpp, dbpp := srcFormat.BytesPerPixel(), dstFormat.BytesPerPixel()
	if len(src) < width*sbpp || len(dst) < width*dbpp {
		return fmt.Errorf("pixelformat: row buffer too small for %d pixels", width)
	}
	if srcFormat == dstFormat {
		copy(dst[:width*dbpp], src[:width*sbpp])
		return nil
	}

	sl, dl := layouts[srcFormat], layouts[dstFormat]
	premult := dstFormat.IsPremultiplied() && !srcFormat.IsPremultiplied() && sl.a >= 0
	unpremult := srcFormat.IsPremultiplied() && !dstFormat.IsPremultiplied() && dl.r >= 0

	var px [4]byte
	for i := 0; i < width; i++ {
		s := src[i*sbpp : i*sbpp+sbpp]
		unpack(&px, s, sl)
		switch {
		case premult:
			premultiplyPixel(&px)
		case unpremult:
			unpremultiplyPixel(&px)
		}
		pack(dst[i*dbpp:i*dbpp+dbpp], &px, dl)
	}
	return nil
}

func unpack(px *[4]byte, s []byte, l layout) {
	if l.r >= 0 {
		px[0], px[1], px[2] = s[l.r], s[l.g], s[l.b]
	} else {
		px[0], px[1], px[2] = 0, 0, 0
	}
	if l.a >= 0 {
		px[3] = s[l.a]
	} else {
		px[3] = 0xff
	}
}

func pack(d []byte, px *[4]byte, l layout) {
	if l.r >= 0 {
		d[l.r], d[l.g], d[l.b] = px[0], px[1], px[2]
	}
	if l.a >= 0 {
		d[l.a] = px[3]
	}
}

// mul8 computes round(c*a/255) without division.
func mul8(c, a byte) byte {
	t := uint32(c)*uint32(a) + 128
	return byte(((t >> 8) + t) >> 8)
}

func premultiplyPixel(px *[4]byte) {
	a := px[3]
	px[0] = mul8(px[0], a)
	px[1] = mul8(px[1], a)
	px[2] = mul8(px[2], a)
}

func unpremultiplyPixel(px *[4]byte) {
	a := uint32(px[3])
	if a == 0 {
		px[0], px[1], px[2] = 0, 0, 0
		return
	}
	for i := 0; i < 3; i++ {
		v := (uint32(px[i])*255 + a/2) / a
		if v > 255 {
			v = 255
		}
		px[i] = byte(v)
	}
}
