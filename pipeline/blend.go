package pipeline

// needsBlending decides whether drawing with n requires blending.
func (g *Graph) needsBlending(n *node, unknownColorAlpha bool) bool {
	switch g.authority(n, StateBlendEnable).blendEnable {
	case BlendEnableDisabled:
		return false
	case BlendEnableEnabled:
		return true
	}

	// ADD(SRC_COLOR, 0) is how blending is usually turned off.
	if g.authority(n, StateBlend).big.blend.IsSrcCopy() {
		return false
	}
	if unknownColorAlpha {
		return true
	}
	if !g.authority(n, StateColor).color.Opaque() {
		return true
	}
	layers := g.authority(n, StateLayers).layers
	for i := range layers {
		if layers[i].HasAlpha() {
			return true
		}
	}
	if len(g.authority(n, StateVertexSnippets).big.vertexSnippets) > 0 ||
		len(g.authority(n, StateFragmentSnippets).big.fragmentSnippets) > 0 {
		return true
	}
	return false
}

func (g *Graph) updateRealBlendEnable(n *node, unknownColorAlpha bool) {
	if !n.realBlendDirty && n.unknownColorAlpha == unknownColorAlpha {
		return
	}
	v := g.needsBlending(n, unknownColorAlpha)
	if v != n.realBlend {
		n.hashes = nil
	}
	n.realBlend = v
	n.unknownColorAlpha = unknownColorAlpha
	n.realBlendDirty = false
}

func (g *Graph) realBlendEnabled(n *node) bool {
	g.updateRealBlendEnable(n, n.unknownColorAlpha)
	return n.realBlend
}

// RealBlendEnabled reports whether blending is used when drawing with p,
// taking the blend enable mode, blend factors, color, layer textures and
// snippets into account.
func (p *Pipeline) RealBlendEnabled() bool {
	return p.g.realBlendEnabled(p.node())
}
