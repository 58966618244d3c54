// Package pixelformat describes the pixel layouts understood by cglib.
//
// Every Format carries static metadata (bytes per pixel, component layout,
// premultiplication and endianness classification) looked up from a table,
// so the queries are cheap enough to call per row during uploads.
package pixelformat

import "fmt"

// Format identifies a pixel storage layout.
type Format uint8

const (
	// Any means "no preference"; it is only valid as an argument asking
	// cglib to pick a format and has no metadata.
	Any Format = iota

	A8
	RG88
	RGB565
	RGB888
	BGR888
	RGBA4444
	RGBA4444Pre
	RGBA5551
	RGBA5551Pre
	RGBA8888
	BGRA8888
	ARGB8888
	ABGR8888
	RGBA8888Pre
	BGRA8888Pre
	ARGB8888Pre
	ABGR8888Pre
	RGBA1010102
	RGBA1010102Pre
	RGBA16161616F
	RGBA16161616FPre
	RGBA32323232F
	RGBA32323232FPre
	Depth16
	Depth32
	Depth24Stencil8

	formatCount
)

// Components describes which channels a format stores.
type Components uint8

const (
	ComponentsA Components = iota + 1
	ComponentsRG
	ComponentsRGB
	ComponentsRGBA
	ComponentsDepth
	ComponentsDepthStencil
)

// String returns a human-readable name for the component layout.
func (c Components) String() string {
	switch c {
	case ComponentsA:
		return "A"
	case ComponentsRG:
		return "RG"
	case ComponentsRGB:
		return "RGB"
	case ComponentsRGBA:
		return "RGBA"
	case ComponentsDepth:
		return "Depth"
	case ComponentsDepthStencil:
		return "DepthStencil"
	default:
		return fmt.Sprintf("Components(%d)", uint8(c))
	}
}

// info is the static metadata for a format.
type info struct {
	name          string
	bytesPerPixel int
	components    Components
	premultiplied bool
	endian        bool // packed into a machine word, so byte order depends on the host
	hasAlpha      bool
	premultPeer   Format // the premultiplied/straight counterpart, or Any
}

var infoTable = [formatCount]info{
	A8:               {"A_8", 1, ComponentsA, false, false, true, Any},
	RG88:             {"RG_88", 2, ComponentsRG, false, false, false, Any},
	RGB565:           {"RGB_565", 2, ComponentsRGB, false, true, false, Any},
	RGB888:           {"RGB_888", 3, ComponentsRGB, false, false, false, Any},
	BGR888:           {"BGR_888", 3, ComponentsRGB, false, false, false, Any},
	RGBA4444:         {"RGBA_4444", 2, ComponentsRGBA, false, true, true, RGBA4444Pre},
	RGBA4444Pre:      {"RGBA_4444_PRE", 2, ComponentsRGBA, true, true, true, RGBA4444},
	RGBA5551:         {"RGBA_5551", 2, ComponentsRGBA, false, true, true, RGBA5551Pre},
	RGBA5551Pre:      {"RGBA_5551_PRE", 2, ComponentsRGBA, true, true, true, RGBA5551},
	RGBA8888:         {"RGBA_8888", 4, ComponentsRGBA, false, false, true, RGBA8888Pre},
	BGRA8888:         {"BGRA_8888", 4, ComponentsRGBA, false, false, true, BGRA8888Pre},
	ARGB8888:         {"ARGB_8888", 4, ComponentsRGBA, false, false, true, ARGB8888Pre},
	ABGR8888:         {"ABGR_8888", 4, ComponentsRGBA, false, false, true, ABGR8888Pre},
	RGBA8888Pre:      {"RGBA_8888_PRE", 4, ComponentsRGBA, true, false, true, RGBA8888},
	BGRA8888Pre:      {"BGRA_8888_PRE", 4, ComponentsRGBA, true, false, true, BGRA8888},
	ARGB8888Pre:      {"ARGB_8888_PRE", 4, ComponentsRGBA, true, false, true, ARGB8888},
	ABGR8888Pre:      {"ABGR_8888_PRE", 4, ComponentsRGBA, true, false, true, ABGR8888},
	RGBA1010102:      {"RGBA_1010102", 4, ComponentsRGBA, false, true, true, RGBA1010102Pre},
	RGBA1010102Pre:   {"RGBA_1010102_PRE", 4, ComponentsRGBA, true, true, true, RGBA1010102},
	RGBA16161616F:    {"RGBA_16161616F", 8, ComponentsRGBA, false, false, true, RGBA16161616FPre},
	RGBA16161616FPre: {"RGBA_16161616F_PRE", 8, ComponentsRGBA, true, false, true, RGBA16161616F},
	RGBA32323232F:    {"RGBA_32323232F", 16, ComponentsRGBA, false, false, true, RGBA32323232FPre},
	RGBA32323232FPre: {"RGBA_32323232F_PRE", 16, ComponentsRGBA, true, false, true, RGBA32323232F},
	Depth16:          {"DEPTH_16", 2, ComponentsDepth, false, false, false, Any},
	Depth32:          {"DEPTH_32", 4, ComponentsDepth, false, false, false, Any},
	Depth24Stencil8:  {"DEPTH_24_STENCIL_8", 4, ComponentsDepthStencil, false, true, false, Any},
}

// IsValid reports whether f is a concrete format with metadata.
func (f Format) IsValid() bool {
	return f > Any && f < formatCount
}

func (f Format) info() info {
	if !f.IsValid() {
		return info{}
	}
	return infoTable[f]
}

// String returns the format name, e.g. "RGBA_8888_PRE".
func (f Format) String() string {
	if f == Any {
		return "ANY"
	}
	if !f.IsValid() {
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
	return infoTable[f].name
}

// BytesPerPixel returns the storage size of one pixel, or 0 for Any.
func (f Format) BytesPerPixel() int { return f.info().bytesPerPixel }

// RowBytes returns the tightly packed size of a row of width pixels.
func (f Format) RowBytes(width int) int { return width * f.BytesPerPixel() }

// Components returns the channel layout of f.
func (f Format) Components() Components { return f.info().components }

// IsEndianDependent reports whether the format packs channels into a machine
// word so that its byte layout depends on host endianness.
func (f Format) IsEndianDependent() bool { return f.info().endian }

// IsPremultiplied reports whether color channels are premultiplied by alpha.
func (f Format) IsPremultiplied() bool { return f.info().premultiplied }

// HasAlpha reports whether the format stores an alpha channel.
func (f Format) HasAlpha() bool { return f.info().hasAlpha }

// HasDepth reports whether the format stores depth (optionally with stencil).
func (f Format) HasDepth() bool {
	c := f.Components()
	return c == ComponentsDepth || c == ComponentsDepthStencil
}

// CanBePremultiplied reports whether a premultiplied variant exists.
// A8 has alpha but nothing to multiply it into.
func (f Format) CanBePremultiplied() bool {
	return f != A8 && f.HasAlpha()
}

// PremultStem returns the straight-alpha variant of f (f itself if it is
// not premultiplied).
func (f Format) PremultStem() Format {
	if f.IsPremultiplied() {
		return f.info().premultPeer
	}
	return f
}

// Premultiply returns the premultiplied variant of f, or f if none exists.
func (f Format) Premultiply() Format {
	if f.CanBePremultiplied() && !f.IsPremultiplied() {
		return f.info().premultPeer
	}
	return f
}

// TogglePremult swaps between the premultiplied and straight variants.
func (f Format) TogglePremult() Format {
	if p := f.info().premultPeer; p != Any {
		return p
	}
	return f
}

var rgbFlips = map[Format]Format{
	RGB888: BGR888, BGR888: RGB888,
	RGBA8888: BGRA8888, BGRA8888: RGBA8888,
	ARGB8888: ABGR8888, ABGR8888: ARGB8888,
	RGBA8888Pre: BGRA8888Pre, BGRA8888Pre: RGBA8888Pre,
	ARGB8888Pre: ABGR8888Pre, ABGR8888Pre: ARGB8888Pre,
}

// FlipRGBOrder swaps the red and blue channel positions (RGBA <-> BGRA).
// Formats without a swapped counterpart are returned unchanged.
func (f Format) FlipRGBOrder() Format {
	if g, ok := rgbFlips[f]; ok {
		return g
	}
	return f
}

var alphaFlips = map[Format]Format{
	RGBA8888: ARGB8888, ARGB8888: RGBA8888,
	BGRA8888: ABGR8888, ABGR8888: BGRA8888,
	RGBA8888Pre: ARGB8888Pre, ARGB8888Pre: RGBA8888Pre,
	BGRA8888Pre: ABGR8888Pre, ABGR8888Pre: BGRA8888Pre,
}

// FlipAlphaPosition moves alpha between the first and the last channel
// (RGBA <-> ARGB). Formats without a counterpart are returned unchanged.
func (f Format) FlipAlphaPosition() Format {
	if g, ok := alphaFlips[f]; ok {
		return g
	}
	return f
}

// ForComponents returns the preferred 8-bit storage format for a component
// layout, premultiplied when requested and meaningful.
func ForComponents(c Components, premultiplied bool) Format {
	switch c {
	case ComponentsA:
		return A8
	case ComponentsRG:
		return RG88
	case ComponentsRGB:
		return RGB888
	case ComponentsDepth:
		return Depth16
	case ComponentsDepthStencil:
		return Depth24Stencil8
	default:
		if premultiplied {
			return RGBA8888Pre
		}
		return RGBA8888
	}
}
