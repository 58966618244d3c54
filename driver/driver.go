// Package driver defines the capability and per-tile texture interfaces the
// sliced texture engine allocates against.
//
// A Driver answers capability queries and creates single 2D textures; the
// texture package composes many of them into one sliced texture. Concrete
// drivers live in driver/memory (CPU) and driver/wgpu (GPU).
package driver

import (
	"errors"
	"fmt"

	"github.com/gogpu/cglib/bitmap"
	"github.com/gogpu/cglib/pixelformat"
)

// Driver errors.
var (
	// ErrFormatMismatch is returned when an upload source is not in the
	// texture's format.
	ErrFormatMismatch = errors.New("driver: bitmap format does not match texture")

	// ErrOutOfBounds is returned when an upload region exceeds the source or
	// destination bounds.
	ErrOutOfBounds = errors.New("driver: region out of bounds")

	// ErrUnsupported is returned when a texture cannot be created with the
	// requested size or format.
	ErrUnsupported = errors.New("driver: unsupported texture")

	// ErrDestroyed is returned when using a destroyed texture.
	ErrDestroyed = errors.New("driver: texture destroyed")
)

// Feature is a driver capability.
type Feature int

const (
	// FeatureTextureNPOT means textures may have non-power-of-two sizes.
	FeatureTextureNPOT Feature = iota + 1

	// FeatureTextureNPOTRepeat means non-power-of-two textures also support
	// hardware repeat wrapping.
	FeatureTextureNPOTRepeat

	// FeatureReadPixels means textures implement Reader.
	FeatureReadPixels
)

// String returns the feature name.
func (f Feature) String() string {
	switch f {
	case FeatureTextureNPOT:
		return "TextureNPOT"
	case FeatureTextureNPOTRepeat:
		return "TextureNPOTRepeat"
	case FeatureReadPixels:
		return "ReadPixels"
	default:
		return fmt.Sprintf("Feature(%d)", int(f))
	}
}

// Filter is a texture minification or magnification filter.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
	FilterNearestMipmapNearest
	FilterLinearMipmapNearest
	FilterNearestMipmapLinear
	FilterLinearMipmapLinear
)

// UsesMipmaps reports whether the filter samples mipmap levels.
func (f Filter) UsesMipmaps() bool {
	return f >= FilterNearestMipmapNearest
}

// WrapMode controls sampling outside [0, 1].
type WrapMode int

const (
	// WrapAutomatic lets the pipeline choose repeat or clamp per draw.
	WrapAutomatic WrapMode = iota
	WrapRepeat
	WrapMirroredRepeat
	WrapClampToEdge
)

// String returns the wrap mode name.
func (w WrapMode) String() string {
	switch w {
	case WrapAutomatic:
		return "automatic"
	case WrapRepeat:
		return "repeat"
	case WrapMirroredRepeat:
		return "mirrored-repeat"
	case WrapClampToEdge:
		return "clamp-to-edge"
	default:
		return fmt.Sprintf("WrapMode(%d)", int(w))
	}
}

// Driver creates single 2D textures and answers capability queries.
type Driver interface {
	HasFeature(f Feature) bool

	// CanCreateTexture2D reports whether a texture of the given size and
	// format can be created. It must not allocate.
	CanCreateTexture2D(width, height int, format pixelformat.Format) bool

	CreateTexture2D(width, height int, format pixelformat.Format) (Texture, error)
}

// Texture is one allocated 2D texture, used as a tile of a sliced texture.
type Texture interface {
	Width() int
	Height() int
	Format() pixelformat.Format

	// SetRegion copies a width x height block of src starting at (srcX, srcY)
	// to (dstX, dstY). src must already be in the texture's format.
	SetRegion(src *bitmap.Bitmap, srcX, srcY, dstX, dstY, width, height int) error

	CanHardwareRepeat() bool
	SetFilters(min, mag Filter)
	SetWrapModes(s, t WrapMode)
	Destroy()
}

// Reader is implemented by textures that support readback.
type Reader interface {
	// ReadPixels copies the whole texture into dst, converting to dst's format.
	ReadPixels(dst *bitmap.Bitmap) error
}

// Foreigner is implemented by textures that may wrap externally owned storage.
type Foreigner interface {
	IsForeign() bool
}

// PrePainter is implemented by textures that need preparation before they
// are sampled (for example, regenerating mipmaps).
type PrePainter interface {
	PrePaint()
}

// CheckRegion validates an upload against a texture of size (texW, texH)
// and format texFormat. Drivers call it at the top of SetRegion.
func CheckRegion(texW, texH int, texFormat pixelformat.Format, src *bitmap.Bitmap, srcX, srcY, dstX, dstY, width, height int) error {
	if src.Format() != texFormat {
		return fmt.Errorf("%w: %v into %v", ErrFormatMismatch, src.Format(), texFormat)
	}
	if width < 0 || height < 0 ||
		srcX < 0 || srcY < 0 || srcX+width > src.Width() || srcY+height > src.Height() ||
		dstX < 0 || dstY < 0 || dstX+width > texW || dstY+height > texH {
		return fmt.Errorf("%w: %dx%d from (%d,%d) to (%d,%d) in %dx%d",
			ErrOutOfBounds, width, height, srcX, srcY, dstX, dstY, texW, texH)
	}
	return nil
}
