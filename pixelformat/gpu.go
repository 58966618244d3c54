package pixelformat

import "github.com/gogpu/gputypes"

// GPUFormat maps f to the WebGPU texture format used to store it.
//
// RGB888 and BGR888 have no three-byte GPU equivalent; they map to the
// four-byte format and callers must expand rows before upload (see
// NeedsExpansion). The second result is false when no mapping exists.
func (f Format) GPUFormat() (gputypes.TextureFormat, bool) {
	switch f {
	case A8:
		return gputypes.TextureFormatR8Unorm, true
	case RGBA8888, RGBA8888Pre, RGB888:
		return gputypes.TextureFormatRGBA8Unorm, true
	case BGRA8888, BGRA8888Pre, BGR888:
		return gputypes.TextureFormatBGRA8Unorm, true
	case Depth24Stencil8:
		return gputypes.TextureFormatDepth24PlusStencil8, true
	default:
		return gputypes.TextureFormatUndefined, false
	}
}

// NeedsExpansion reports whether rows in f must be widened to four bytes per
// pixel before they can be written to the texture returned by GPUFormat.
func (f Format) NeedsExpansion() bool {
	return f == RGB888 || f == BGR888
}
