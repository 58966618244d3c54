package pipeline

import "github.com/gogpu/gputypes"

// BlendComponent describes a blend component (color or alpha).
type BlendComponent struct {
	SrcFactor gputypes.BlendFactor
	DstFactor gputypes.BlendFactor
	Operation gputypes.BlendOperation
}

// GPUBlendState is the color target blend of a render pipeline.
type GPUBlendState struct {
	Color BlendComponent
	Alpha BlendComponent
}

// RenderState is the fixed function state of a pipeline expressed in
// WebGPU terms.
type RenderState struct {
	// Blend is nil when blending is off.
	Blend         *GPUBlendState
	BlendConstant Color
	WriteMask     gputypes.ColorWriteMask

	FrontFace gputypes.FrontFace
	CullMode  gputypes.CullMode
	// CullAll is set for CullFaceBoth, which render pipelines cannot
	// express; draws should be skipped.
	CullAll bool

	DepthWriteEnabled bool
	DepthCompare      gputypes.CompareFunction
}

// RenderState resolves the fixed function state of p.
func (p *Pipeline) RenderState() RenderState {
	var rs RenderState
	if p.RealBlendEnabled() {
		b := p.Blend()
		rs.Blend = &GPUBlendState{
			Color: BlendComponent{
				SrcFactor: gpuBlendFactor(b.SrcRGB),
				DstFactor: gpuBlendFactor(b.DstRGB),
				Operation: gpuBlendOperation(b.EquationRGB),
			},
			Alpha: BlendComponent{
				SrcFactor: gpuBlendFactor(b.SrcAlpha),
				DstFactor: gpuBlendFactor(b.DstAlpha),
				Operation: gpuBlendOperation(b.EquationAlpha),
			},
		}
		rs.BlendConstant = b.Constant
	}

	switch m := p.ColorMask(); m {
	case ColorMaskAll:
		rs.WriteMask = gputypes.ColorWriteMaskAll
	case ColorMaskNone:
		rs.WriteMask = gputypes.ColorWriteMaskNone
	default:
		// Channel bits match WebGPU's red, green, blue, alpha order.
		rs.WriteMask = gputypes.ColorWriteMask(m)
	}

	cf := p.cullFace()
	rs.FrontFace = gputypes.FrontFaceCCW
	if cf.FrontWinding == WindingClockwise {
		rs.FrontFace = gputypes.FrontFaceCW
	}
	switch cf.Mode {
	case CullFaceFront:
		rs.CullMode = gputypes.CullModeFront
	case CullFaceBack:
		rs.CullMode = gputypes.CullModeBack
	case CullFaceBoth:
		rs.CullMode = gputypes.CullModeNone
		rs.CullAll = true
	default:
		rs.CullMode = gputypes.CullModeNone
	}

	d := p.DepthState()
	rs.DepthWriteEnabled = d.WriteEnabled
	rs.DepthCompare = gputypes.CompareFunctionAlways
	if d.TestEnabled {
		rs.DepthCompare = gpuCompare(d.TestFunc)
	}
	return rs
}

func gpuBlendFactor(f BlendFactor) gputypes.BlendFactor {
	switch f {
	case BlendFactorZero:
		return gputypes.BlendFactorZero
	case BlendFactorSrcColor:
		return gputypes.BlendFactorSrc
	case BlendFactorOneMinusSrcColor:
		return gputypes.BlendFactorOneMinusSrc
	case BlendFactorSrcAlpha:
		return gputypes.BlendFactorSrcAlpha
	case BlendFactorOneMinusSrcAlpha:
		return gputypes.BlendFactorOneMinusSrcAlpha
	case BlendFactorDstColor:
		return gputypes.BlendFactorDst
	case BlendFactorOneMinusDstColor:
		return gputypes.BlendFactorOneMinusDst
	case BlendFactorDstAlpha:
		return gputypes.BlendFactorDstAlpha
	case BlendFactorOneMinusDstAlpha:
		return gputypes.BlendFactorOneMinusDstAlpha
	case BlendFactorConstant:
		return gputypes.BlendFactorConstant
	case BlendFactorOneMinusConstant:
		return gputypes.BlendFactorOneMinusConstant
	case BlendFactorSrcAlphaSaturate:
		return gputypes.BlendFactorSrcAlphaSaturated
	default:
		return gputypes.BlendFactorOne
	}
}

func gpuBlendOperation(e BlendEquation) gputypes.BlendOperation {
	switch e {
	case BlendEquationSubtract:
		return gputypes.BlendOperationSubtract
	case BlendEquationReverseSubtract:
		return gputypes.BlendOperationReverseSubtract
	default:
		return gputypes.BlendOperationAdd
	}
}

func gpuCompare(f CompareFunc) gputypes.CompareFunction {
	switch f {
	case CompareNever:
		return gputypes.CompareFunctionNever
	case CompareLess:
		return gputypes.CompareFunctionLess
	case CompareEqual:
		return gputypes.CompareFunctionEqual
	case CompareLessEqual:
		return gputypes.CompareFunctionLessEqual
	case CompareGreater:
		return gputypes.CompareFunctionGreater
	case CompareNotEqual:
		return gputypes.CompareFunctionNotEqual
	case CompareGreaterEqual:
		return gputypes.CompareFunctionGreaterEqual
	default:
		return gputypes.CompareFunctionAlways
	}
}
