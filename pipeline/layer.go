package pipeline

import (
	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/internal/util"
	"github.com/gogpu/cglib/pixelformat"
	"github.com/gogpu/cglib/texture"
)

// LayerTexture is the part of a texture a layer needs to know about.
// *texture.Texture2DSliced implements it.
type LayerTexture interface {
	ID() uint64
	Format() pixelformat.Format
	Type() texture.Type
}

// Sampler holds per-layer filtering and wrapping.
type Sampler struct {
	MinFilter driver.Filter
	MagFilter driver.Filter
	WrapS     driver.WrapMode
	WrapT     driver.WrapMode
}

// DefaultSampler samples linearly with automatic wrapping.
func DefaultSampler() Sampler {
	return Sampler{
		MinFilter: driver.FilterLinear,
		MagFilter: driver.FilterLinear,
		WrapS:     driver.WrapAutomatic,
		WrapT:     driver.WrapAutomatic,
	}
}

// CombineFunc combines up to three arguments of a texture combine.
type CombineFunc int

const (
	CombineReplace CombineFunc = iota
	CombineModulate
	CombineAdd
	CombineAddSigned
	CombineInterpolate
	CombineSubtract
	CombineDot3RGB
	CombineDot3RGBA
)

// NArgs returns how many arguments f reads.
func (f CombineFunc) NArgs() int {
	switch f {
	case CombineReplace:
		return 1
	case CombineInterpolate:
		return 3
	default:
		return 2
	}
}

// CombineSource selects a combine argument.
type CombineSource int

const (
	// SourceTexture is this layer's texture sample.
	SourceTexture CombineSource = iota
	// SourceConstant is the layer's combine constant.
	SourceConstant
	// SourcePrimaryColor is the interpolated vertex color.
	SourcePrimaryColor
	// SourcePrevious is the result of the previous layer, or the primary
	// color for the first layer.
	SourcePrevious
)

// CombineOp selects which part of a source an argument uses.
type CombineOp int

const (
	OpSrcColor CombineOp = iota
	OpOneMinusSrcColor
	OpSrcAlpha
	OpOneMinusSrcAlpha
)

// CombineChannel describes the combine for either RGB or alpha.
type CombineChannel struct {
	Func    CombineFunc
	Sources [3]CombineSource
	Ops     [3]CombineOp
}

// Combine holds the RGB and alpha combines of a layer.
type Combine struct {
	RGB   CombineChannel
	Alpha CombineChannel
}

// DefaultCombine modulates the previous result with the texture.
func DefaultCombine() Combine {
	return Combine{
		RGB: CombineChannel{
			Func:    CombineModulate,
			Sources: [3]CombineSource{SourcePrevious, SourceTexture, SourceTexture},
			Ops:     [3]CombineOp{OpSrcColor, OpSrcColor, OpSrcColor},
		},
		Alpha: CombineChannel{
			Func:    CombineModulate,
			Sources: [3]CombineSource{SourcePrevious, SourceTexture, SourceTexture},
			Ops:     [3]CombineOp{OpSrcAlpha, OpSrcAlpha, OpSrcAlpha},
		},
	}
}

func (c CombineChannel) equal(o CombineChannel) bool {
	if c.Func != o.Func {
		return false
	}
	for i := 0; i < c.Func.NArgs(); i++ {
		if c.Sources[i] != o.Sources[i] || c.Ops[i] != o.Ops[i] {
			return false
		}
	}
	return true
}

func (c CombineChannel) hash(h util.Hash) util.Hash {
	h = h.Uint32(uint32(c.Func))
	for i := 0; i < c.Func.NArgs(); i++ {
		h = h.Uint32(uint32(c.Sources[i])).Uint32(uint32(c.Ops[i]))
	}
	return h
}

func (c CombineChannel) uses(src CombineSource) bool {
	for i := 0; i < c.Func.NArgs(); i++ {
		if c.Sources[i] == src {
			return true
		}
	}
	return false
}

// isDefaultAlpha reports whether the alpha channel is the stock
// PREVIOUS[A] * TEXTURE[A] modulate.
func (c CombineChannel) isDefaultAlpha() bool {
	return c.Func == CombineModulate &&
		c.Sources[0] == SourcePrevious && c.Ops[0] == OpSrcAlpha &&
		c.Sources[1] == SourceTexture && c.Ops[1] == OpSrcAlpha
}

// Layer is one texture unit of a pipeline. Layers are identified by an
// arbitrary index and ordered by it.
type Layer struct {
	Index             int
	TextureType       texture.Type
	Texture           LayerTexture
	Sampler           Sampler
	Combine           Combine
	CombineConstant   Color
	PointSpriteCoords bool
}

func newLayer(index int) Layer {
	return Layer{
		Index:       index,
		TextureType: texture.Type2D,
		Sampler:     DefaultSampler(),
		Combine:     DefaultCombine(),
	}
}

// HasAlpha reports whether the layer may produce alpha below 1.
func (l *Layer) HasAlpha() bool {
	if !l.Combine.Alpha.isDefaultAlpha() {
		return true
	}
	return l.Texture != nil && l.Texture.Format().HasAlpha()
}

func textureID(t LayerTexture) uint64 {
	if t == nil {
		return 0
	}
	return t.ID()
}

func (l *Layer) equal(o *Layer, state LayerState, flags EvalFlags) bool {
	if state&LayerStateIndex != 0 && l.Index != o.Index {
		return false
	}
	if state&(LayerStateTextureType|LayerStateTextureData) != 0 && l.TextureType != o.TextureType {
		return false
	}
	if state&LayerStateTextureData != 0 && flags&EvalFlagIgnoreTextureData == 0 &&
		textureID(l.Texture) != textureID(o.Texture) {
		return false
	}
	if state&LayerStateSampler != 0 && l.Sampler != o.Sampler {
		return false
	}
	if state&LayerStateCombine != 0 &&
		(!l.Combine.RGB.equal(o.Combine.RGB) || !l.Combine.Alpha.equal(o.Combine.Alpha)) {
		return false
	}
	if state&LayerStateCombineConstant != 0 && l.CombineConstant != o.CombineConstant {
		return false
	}
	if state&LayerStatePointSpriteCoords != 0 && l.PointSpriteCoords != o.PointSpriteCoords {
		return false
	}
	return true
}

func (l *Layer) hash(h util.Hash, state LayerState, flags EvalFlags) util.Hash {
	if state&LayerStateIndex != 0 {
		h = h.Uint32(uint32(l.Index))
	}
	if state&(LayerStateTextureType|LayerStateTextureData) != 0 {
		h = h.Uint32(uint32(l.TextureType))
	}
	if state&LayerStateTextureData != 0 && flags&EvalFlagIgnoreTextureData == 0 {
		h = h.Uint64(textureID(l.Texture))
	}
	if state&LayerStateSampler != 0 {
		s := l.Sampler
		h = h.Uint32(uint32(s.MinFilter)).Uint32(uint32(s.MagFilter)).
			Uint32(uint32(s.WrapS)).Uint32(uint32(s.WrapT))
	}
	if state&LayerStateCombine != 0 {
		h = l.Combine.Alpha.hash(l.Combine.RGB.hash(h))
	}
	if state&LayerStateCombineConstant != 0 {
		h = hashColor(h, l.CombineConstant)
	}
	if state&LayerStatePointSpriteCoords != 0 {
		h = h.Bool(l.PointSpriteCoords)
	}
	return h
}

// copyGroups brings the groups in state from src into l, resetting the
// others to their defaults.
func (l *Layer) copyGroups(src *Layer, state LayerState) {
	*l = newLayer(src.Index)
	if state&(LayerStateTextureType|LayerStateTextureData) != 0 {
		l.TextureType = src.TextureType
	}
	if state&LayerStateTextureData != 0 {
		l.Texture = src.Texture
	}
	if state&LayerStateSampler != 0 {
		l.Sampler = src.Sampler
	}
	if state&LayerStateCombine != 0 {
		l.Combine = src.Combine
	}
	if state&LayerStateCombineConstant != 0 {
		l.CombineConstant = src.CombineConstant
	}
	if state&LayerStatePointSpriteCoords != 0 {
		l.PointSpriteCoords = src.PointSpriteCoords
	}
}

func hashColor(h util.Hash, c Color) util.Hash {
	return h.Uint32(f32bits(c.R)).Uint32(f32bits(c.G)).Uint32(f32bits(c.B)).Uint32(f32bits(c.A))
}

func layersEqual(a, b []Layer, state LayerState, flags EvalFlags) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(&b[i], state, flags) {
			return false
		}
	}
	return true
}

// findLayer returns the position of the layer with index, or the position
// it would be inserted at and false.
func findLayer(layers []Layer, index int) (int, bool) {
	for i := range layers {
		if layers[i].Index == index {
			return i, true
		}
		if layers[i].Index > index {
			return i, false
		}
	}
	return len(layers), false
}
