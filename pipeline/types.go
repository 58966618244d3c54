package pipeline

import "math"

// Color is a straight RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Opaque reports whether the alpha component is 1.
func (c Color) Opaque() bool { return c.A == 1 }

// Common colors.
var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Transparent = Color{}
)

// BlendEnable controls whether blending is used when drawing.
type BlendEnable int

const (
	// BlendEnableAutomatic enables blending only when the pipeline can
	// produce translucent fragments.
	BlendEnableAutomatic BlendEnable = iota
	BlendEnableEnabled
	BlendEnableDisabled
)

func (b BlendEnable) String() string {
	switch b {
	case BlendEnableAutomatic:
		return "automatic"
	case BlendEnableEnabled:
		return "enabled"
	case BlendEnableDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// CompareFunc is used for both alpha and depth testing. A fragment passes
// when "value FUNC reference" holds.
type CompareFunc int

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

// BlendEquation combines the weighted source and destination.
type BlendEquation int

const (
	BlendEquationAdd BlendEquation = iota
	BlendEquationSubtract
	BlendEquationReverseSubtract
)

// BlendFactor weights one side of a blend equation.
type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcColor
	BlendFactorOneMinusSrcColor
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
	BlendFactorConstant
	BlendFactorOneMinusConstant
	BlendFactorSrcAlphaSaturate
)

// BlendState holds the blend equations, factors and constant.
type BlendState struct {
	EquationRGB   BlendEquation
	EquationAlpha BlendEquation
	SrcRGB        BlendFactor
	DstRGB        BlendFactor
	SrcAlpha      BlendFactor
	DstAlpha      BlendFactor
	Constant      Color
}

// DefaultBlendState is premultiplied source-over.
func DefaultBlendState() BlendState {
	return BlendState{
		EquationRGB:   BlendEquationAdd,
		EquationAlpha: BlendEquationAdd,
		SrcRGB:        BlendFactorOne,
		DstRGB:        BlendFactorOneMinusSrcAlpha,
		SrcAlpha:      BlendFactorOne,
		DstAlpha:      BlendFactorOneMinusSrcAlpha,
	}
}

// IsSrcCopy reports whether blending with b just writes the source.
func (b BlendState) IsSrcCopy() bool {
	return b.EquationRGB == BlendEquationAdd && b.EquationAlpha == BlendEquationAdd &&
		b.SrcRGB == BlendFactorOne && b.DstRGB == BlendFactorZero &&
		b.SrcAlpha == BlendFactorOne && b.DstAlpha == BlendFactorZero
}

// DepthState configures depth testing and writing.
type DepthState struct {
	TestEnabled  bool
	TestFunc     CompareFunc
	WriteEnabled bool
	RangeNear    float32
	RangeFar     float32
}

// DefaultDepthState has testing off, writes on and a [0, 1] range.
func DefaultDepthState() DepthState {
	return DepthState{
		TestFunc:     CompareLess,
		WriteEnabled: true,
		RangeFar:     1,
	}
}

// ColorMask selects which color channels are written.
type ColorMask uint32

const (
	ColorMaskRed ColorMask = 1 << iota
	ColorMaskGreen
	ColorMaskBlue
	ColorMaskAlpha

	ColorMaskNone ColorMask = 0
	ColorMaskAll            = ColorMaskRed | ColorMaskGreen | ColorMaskBlue | ColorMaskAlpha
)

// CullFaceMode selects which faces are discarded.
type CullFaceMode int

const (
	CullFaceNone CullFaceMode = iota
	CullFaceFront
	CullFaceBack
	CullFaceBoth
)

// Winding is the vertex order of front faces.
type Winding int

const (
	WindingCounterClockwise Winding = iota
	WindingClockwise
)

// CullFaceState pairs the cull mode with the front face winding.
type CullFaceState struct {
	Mode         CullFaceMode
	FrontWinding Winding
}

func f32bits(f float32) uint32 { return math.Float32bits(f) }
