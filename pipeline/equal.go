package pipeline

import "github.com/gogpu/cglib/internal/util"

// groupEqual compares one sparse group between two authorities.
func groupEqual(a, b *node, g State, layerState LayerState, flags EvalFlags) bool {
	if a == b {
		return true
	}
	switch g {
	case StateColor:
		return a.color == b.color
	case StateBlendEnable:
		return a.blendEnable == b.blendEnable
	case StateLayers:
		return layersEqual(a.layers, b.layers, layerState, flags)
	case StateAlphaFunc:
		return a.big.alphaFunc == b.big.alphaFunc
	case StateAlphaFuncReference:
		return a.big.alphaRef == b.big.alphaRef
	case StateBlend:
		return a.big.blend == b.big.blend
	case StateDepth:
		return a.big.depth == b.big.depth
	case StateNonZeroPointSize:
		return a.big.nonZeroPointSize == b.big.nonZeroPointSize
	case StatePointSize:
		return a.big.pointSize == b.big.pointSize
	case StatePerVertexPointSize:
		return a.big.perVertexPointSize == b.big.perVertexPointSize
	case StateLogicOps:
		return a.big.colorMask == b.big.colorMask
	case StateCullFace:
		return a.big.cullFace == b.big.cullFace
	case StateUniforms:
		return a.big.uniforms.equal(&b.big.uniforms)
	case StateVertexSnippets:
		return snippetsEqual(a.big.vertexSnippets, b.big.vertexSnippets)
	case StateFragmentSnippets:
		return snippetsEqual(a.big.fragmentSnippets, b.big.fragmentSnippets)
	}
	return true
}

func groupHash(h util.Hash, a *node, g State, layerState LayerState, flags EvalFlags) util.Hash {
	switch g {
	case StateColor:
		return hashColor(h, a.color)
	case StateBlendEnable:
		return h.Uint32(uint32(a.blendEnable))
	case StateLayers:
		h = h.Uint32(uint32(len(a.layers)))
		for i := range a.layers {
			h = a.layers[i].hash(h, layerState, flags)
		}
		return h
	case StateAlphaFunc:
		return h.Uint32(uint32(a.big.alphaFunc))
	case StateAlphaFuncReference:
		return h.Uint32(f32bits(a.big.alphaRef))
	case StateBlend:
		b := a.big.blend
		h = h.Uint32(uint32(b.EquationRGB)).Uint32(uint32(b.EquationAlpha)).
			Uint32(uint32(b.SrcRGB)).Uint32(uint32(b.DstRGB)).
			Uint32(uint32(b.SrcAlpha)).Uint32(uint32(b.DstAlpha))
		return hashColor(h, b.Constant)
	case StateDepth:
		d := a.big.depth
		return h.Bool(d.TestEnabled).Uint32(uint32(d.TestFunc)).Bool(d.WriteEnabled).
			Uint32(f32bits(d.RangeNear)).Uint32(f32bits(d.RangeFar))
	case StateNonZeroPointSize:
		return h.Bool(a.big.nonZeroPointSize)
	case StatePointSize:
		return h.Uint32(f32bits(a.big.pointSize))
	case StatePerVertexPointSize:
		return h.Bool(a.big.perVertexPointSize)
	case StateLogicOps:
		return h.Uint32(uint32(a.big.colorMask))
	case StateCullFace:
		return h.Uint32(uint32(a.big.cullFace.Mode)).Uint32(uint32(a.big.cullFace.FrontWinding))
	case StateUniforms:
		return a.big.uniforms.hash(h)
	case StateVertexSnippets:
		return hashSnippets(h, a.big.vertexSnippets)
	case StateFragmentSnippets:
		return hashSnippets(h, a.big.fragmentSnippets)
	}
	return h
}

func hashSnippets(h util.Hash, list []*Snippet) util.Hash {
	h = h.Uint32(uint32(len(list)))
	for _, s := range list {
		h = h.Uint64(s.id)
	}
	return h
}

// compareDifferences returns the union of the differences of every node
// between a and b and their closest common ancestor.
func (g *Graph) compareDifferences(a, b *node) State {
	da, db := g.depth(a), g.depth(b)
	var diff State
	for ; da > db; da-- {
		diff |= a.differences
		a = g.parentOf(a)
	}
	for ; db > da; db-- {
		diff |= b.differences
		b = g.parentOf(b)
	}
	for a != b {
		diff |= a.differences | b.differences
		a, b = g.parentOf(a), g.parentOf(b)
	}
	return diff
}

func (g *Graph) depth(n *node) int {
	d := 0
	for n = g.parentOf(n); n != nil; n = g.parentOf(n) {
		d++
	}
	return d
}

// CompareDifferences returns the groups that may differ between a and b:
// every group overridden on the path from either pipeline to their common
// ancestor.
func CompareDifferences(a, b *Pipeline) State {
	return a.g.compareDifferences(a.node(), b.node())
}

func (g *Graph) equal(a, b *node, state State, layerState LayerState, flags EvalFlags) bool {
	if a == b {
		return true
	}
	if state&StateRealBlendEnable != 0 {
		if g.realBlendEnabled(a) != g.realBlendEnabled(b) {
			return false
		}
	}
	diff := g.compareDifferences(a, b) & state & StateAllSparse
	eq := true
	diff.forEach(func(s State) {
		if eq {
			eq = groupEqual(g.authority(a, s), g.authority(b, s), s, layerState, flags)
		}
	})
	return eq
}

// Equal reports whether a and b have equal values for every group in
// state. Layers are compared on the groups in layerState.
func Equal(a, b *Pipeline, state State, layerState LayerState, flags EvalFlags) bool {
	return a.g.equal(a.node(), b.node(), state, layerState, flags)
}

func (g *Graph) hash(n *node, state State, layerState LayerState, flags EvalFlags) uint32 {
	key := hashKey{state, layerState, flags}
	if h, ok := n.hashes[key]; ok {
		return h
	}
	var h util.Hash
	(state & StateAllSparse).forEach(func(s State) {
		h = groupHash(h, g.authority(n, s), s, layerState, flags)
	})
	if state&StateRealBlendEnable != 0 {
		h = h.Bool(g.realBlendEnabled(n))
	}
	sum := h.Finish()
	if n.hashes == nil {
		n.hashes = make(map[hashKey]uint32)
	}
	n.hashes[key] = sum
	return sum
}

// Hash returns a hash of the groups in state, consistent with Equal for
// the same arguments.
func Hash(p *Pipeline, state State, layerState LayerState, flags EvalFlags) uint32 {
	return p.g.hash(p.node(), state, layerState, flags)
}

func (g *Graph) findEquivalentParent(n *node, state State, layerState LayerState, flags EvalFlags) *node {
	mask := state | StateLayers
	best := g.authority(n, mask)
	for {
		parent := g.parentOf(best)
		if parent == nil {
			return best
		}
		cand := g.authority(parent, mask)
		if !g.equal(n, cand, mask, layerState, flags) {
			return best
		}
		best = cand
	}
}

// FindEquivalentParent returns the furthest ancestor of p that has the
// same values for state and for the given layer groups, so per-state
// caches can be shared between every pipeline deriving from it.
func FindEquivalentParent(p *Pipeline, state State, layerState LayerState) *Pipeline {
	return p.g.findEquivalentParent(p.node(), state, layerState, 0).handle
}

func (g *Graph) deepCopy(n *node, state State, layerState LayerState) *node {
	c := g.alloc(g.root)
	c.refs = 1
	c.breadcrumb = "deep copy"
	(state & StateAllSparse).forEach(func(s State) {
		auth := g.authority(n, s)
		copyGroups(c, auth, s)
		if s == StateLayers {
			for i := range c.layers {
				c.layers[i].copyGroups(&auth.layers[i], layerState)
			}
		}
		c.differences |= s
	})
	return c
}

// DeepCopy returns a new pipeline deriving directly from the default one
// with the values of p for the groups in state. Layers keep only the
// groups in layerState. The copy does not depend on p.
func DeepCopy(p *Pipeline, state State, layerState LayerState) *Pipeline {
	return p.g.deepCopy(p.node(), state, layerState).handle
}
