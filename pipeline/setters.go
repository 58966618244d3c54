package pipeline

// setValue writes a single-valued group. It does nothing when the value is
// already in effect.
func setValue[T comparable](p *Pipeline, state State, field func(*node) *T, v T) {
	n := p.node()
	auth := p.g.authority(n, state)
	if *field(auth) == v {
		return
	}
	p.g.change(n, auth, state)
	*field(n) = v
	p.g.updateAuthority(n, auth, state)
}

func getValue[T any](p *Pipeline, state State, field func(*node) *T) T {
	return *field(p.g.authority(p.node(), state))
}

func colorField(n *node) *Color             { return &n.color }
func blendEnableField(n *node) *BlendEnable { return &n.blendEnable }
func alphaFuncField(n *node) *CompareFunc   { return &n.big.alphaFunc }
func alphaRefField(n *node) *float32        { return &n.big.alphaRef }
func blendField(n *node) *BlendState        { return &n.big.blend }
func depthField(n *node) *DepthState        { return &n.big.depth }
func nonZeroPointField(n *node) *bool       { return &n.big.nonZeroPointSize }
func pointSizeField(n *node) *float32       { return &n.big.pointSize }
func perVertexPointField(n *node) *bool     { return &n.big.perVertexPointSize }
func colorMaskField(n *node) *ColorMask     { return &n.big.colorMask }
func cullFaceField(n *node) *CullFaceState  { return &n.big.cullFace }

// SetColor sets the primary color used when no vertex colors are given.
func (p *Pipeline) SetColor(c Color) { setValue(p, StateColor, colorField, c) }

// Color returns the primary color.
func (p *Pipeline) Color() Color { return getValue(p, StateColor, colorField) }

// SetBlendEnable overrides the automatic blending decision.
func (p *Pipeline) SetBlendEnable(b BlendEnable) {
	setValue(p, StateBlendEnable, blendEnableField, b)
}

// BlendEnable returns the blend enable mode.
func (p *Pipeline) BlendEnable() BlendEnable {
	return getValue(p, StateBlendEnable, blendEnableField)
}

// SetAlphaTestFunction discards fragments whose alpha fails "alpha fn
// reference".
func (p *Pipeline) SetAlphaTestFunction(fn CompareFunc, reference float32) {
	setValue(p, StateAlphaFunc, alphaFuncField, fn)
	setValue(p, StateAlphaFuncReference, alphaRefField, reference)
}

// AlphaTestFunction returns the alpha test function.
func (p *Pipeline) AlphaTestFunction() CompareFunc {
	return getValue(p, StateAlphaFunc, alphaFuncField)
}

// AlphaTestReference returns the alpha test reference value.
func (p *Pipeline) AlphaTestReference() float32 {
	return getValue(p, StateAlphaFuncReference, alphaRefField)
}

// SetBlend replaces the blend equations, factors and constant.
func (p *Pipeline) SetBlend(b BlendState) { setValue(p, StateBlend, blendField, b) }

// Blend returns the blend state.
func (p *Pipeline) Blend() BlendState { return getValue(p, StateBlend, blendField) }

// SetBlendConstant changes only the blend constant.
func (p *Pipeline) SetBlendConstant(c Color) {
	b := p.Blend()
	b.Constant = c
	p.SetBlend(b)
}

// SetDepthState replaces the depth test and write configuration.
func (p *Pipeline) SetDepthState(d DepthState) { setValue(p, StateDepth, depthField, d) }

// DepthState returns the depth state.
func (p *Pipeline) DepthState() DepthState { return getValue(p, StateDepth, depthField) }

// SetPointSize sets the size of points. A size of 0 leaves the size to
// the vertex stage.
func (p *Pipeline) SetPointSize(size float32) {
	cur := p.PointSize()
	if cur == size {
		return
	}
	if (cur > 0) != (size > 0) {
		setValue(p, StateNonZeroPointSize, nonZeroPointField, size > 0)
	}
	setValue(p, StatePointSize, pointSizeField, size)
}

// PointSize returns the point size.
func (p *Pipeline) PointSize() float32 { return getValue(p, StatePointSize, pointSizeField) }

// NonZeroPointSize reports whether a fixed point size is set.
func (p *Pipeline) NonZeroPointSize() bool {
	return getValue(p, StateNonZeroPointSize, nonZeroPointField)
}

// SetPerVertexPointSize takes point sizes from a vertex attribute.
func (p *Pipeline) SetPerVertexPointSize(enable bool) {
	setValue(p, StatePerVertexPointSize, perVertexPointField, enable)
}

// PerVertexPointSize reports whether point sizes come from vertices.
func (p *Pipeline) PerVertexPointSize() bool {
	return getValue(p, StatePerVertexPointSize, perVertexPointField)
}

// SetColorMask selects the color channels that are written.
func (p *Pipeline) SetColorMask(m ColorMask) { setValue(p, StateLogicOps, colorMaskField, m) }

// ColorMask returns the color write mask.
func (p *Pipeline) ColorMask() ColorMask { return getValue(p, StateLogicOps, colorMaskField) }

// SetCullFaceMode selects which faces are culled.
func (p *Pipeline) SetCullFaceMode(m CullFaceMode) {
	cf := p.cullFace()
	cf.Mode = m
	setValue(p, StateCullFace, cullFaceField, cf)
}

// SetFrontFaceWinding selects the winding of front faces.
func (p *Pipeline) SetFrontFaceWinding(w Winding) {
	cf := p.cullFace()
	cf.FrontWinding = w
	setValue(p, StateCullFace, cullFaceField, cf)
}

// CullFaceMode returns the cull mode.
func (p *Pipeline) CullFaceMode() CullFaceMode { return p.cullFace().Mode }

// FrontFaceWinding returns the front face winding.
func (p *Pipeline) FrontFaceWinding() Winding { return p.cullFace().FrontWinding }

func (p *Pipeline) cullFace() CullFaceState {
	return getValue(p, StateCullFace, cullFaceField)
}
