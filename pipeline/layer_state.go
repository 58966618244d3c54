package pipeline

import (
	"slices"

	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/texture"
)

// modifyLayer applies fn to the layer with index, creating the layer with
// default state if it does not exist. unchanged short-circuits writes that
// would have no effect on an existing layer.
func (p *Pipeline) modifyLayer(index int, unchanged func(*Layer) bool, fn func(*Layer)) {
	n := p.node()
	auth := p.g.authority(n, StateLayers)
	i, ok := findLayer(auth.layers, index)
	if ok && unchanged(&auth.layers[i]) {
		return
	}
	p.g.change(n, auth, StateLayers)
	if !ok {
		n.layers = slices.Insert(n.layers, i, newLayer(index))
	}
	fn(&n.layers[i])
	p.g.updateAuthority(n, auth, StateLayers)
}

func (p *Pipeline) layers() []Layer {
	return p.g.authority(p.node(), StateLayers).layers
}

// SetLayerTexture sets the texture sampled by a layer. A nil texture keeps
// the layer's texture type and samples a default texture.
func (p *Pipeline) SetLayerTexture(index int, tex LayerTexture) {
	typ := texture.Type2D
	if tex != nil {
		typ = tex.Type()
	}
	p.modifyLayer(index,
		func(l *Layer) bool {
			if tex == nil {
				return l.Texture == nil
			}
			return l.Texture != nil && l.Texture.ID() == tex.ID() && l.TextureType == typ
		},
		func(l *Layer) {
			l.Texture = tex
			if tex != nil {
				l.TextureType = typ
			}
		})
}

// SetLayerTextureType sets the texture target of a layer without a texture.
func (p *Pipeline) SetLayerTextureType(index int, typ texture.Type) {
	p.modifyLayer(index,
		func(l *Layer) bool { return l.TextureType == typ },
		func(l *Layer) {
			l.TextureType = typ
			if l.Texture != nil && l.Texture.Type() != typ {
				l.Texture = nil
			}
		})
}

// SetLayerFilters sets the minification and magnification filters.
func (p *Pipeline) SetLayerFilters(index int, min, mag driver.Filter) {
	if mag.UsesMipmaps() {
		p.g.logger().Warn("pipeline: magnification filter cannot use mipmaps", "filter", mag)
		return
	}
	p.modifyLayer(index,
		func(l *Layer) bool { return l.Sampler.MinFilter == min && l.Sampler.MagFilter == mag },
		func(l *Layer) { l.Sampler.MinFilter, l.Sampler.MagFilter = min, mag })
}

// SetLayerWrapModes sets the wrap modes along s and t.
func (p *Pipeline) SetLayerWrapModes(index int, s, t driver.WrapMode) {
	p.modifyLayer(index,
		func(l *Layer) bool { return l.Sampler.WrapS == s && l.Sampler.WrapT == t },
		func(l *Layer) { l.Sampler.WrapS, l.Sampler.WrapT = s, t })
}

// SetLayerCombine sets how a layer combines with the previous one. Dot3
// functions are only valid for the RGB channel.
func (p *Pipeline) SetLayerCombine(index int, c Combine) {
	if c.Alpha.Func == CombineDot3RGB || c.Alpha.Func == CombineDot3RGBA {
		p.g.logger().Warn("pipeline: dot3 combine is not valid for the alpha channel", "layer", index)
		return
	}
	p.modifyLayer(index,
		func(l *Layer) bool { return l.Combine.RGB.equal(c.RGB) && l.Combine.Alpha.equal(c.Alpha) },
		func(l *Layer) { l.Combine = c })
}

// SetLayerCombineConstant sets the constant used by SourceConstant.
func (p *Pipeline) SetLayerCombineConstant(index int, c Color) {
	p.modifyLayer(index,
		func(l *Layer) bool { return l.CombineConstant == c },
		func(l *Layer) { l.CombineConstant = c })
}

// SetLayerPointSpriteCoords replaces texture coordinates with point sprite
// coordinates when drawing points.
func (p *Pipeline) SetLayerPointSpriteCoords(index int, enable bool) {
	p.modifyLayer(index,
		func(l *Layer) bool { return l.PointSpriteCoords == enable },
		func(l *Layer) { l.PointSpriteCoords = enable })
}

// RemoveLayer removes the layer with index if it exists.
func (p *Pipeline) RemoveLayer(index int) {
	n := p.node()
	auth := p.g.authority(n, StateLayers)
	if _, ok := findLayer(auth.layers, index); !ok {
		return
	}
	p.g.change(n, auth, StateLayers)
	i, _ := findLayer(n.layers, index)
	n.layers = slices.Delete(n.layers, i, i+1)
	p.g.updateAuthority(n, auth, StateLayers)
}

// PruneToNLayers keeps only the first count layers.
func (p *Pipeline) PruneToNLayers(count int) {
	n := p.node()
	auth := p.g.authority(n, StateLayers)
	if count < 0 || len(auth.layers) <= count {
		return
	}
	p.g.change(n, auth, StateLayers)
	n.layers = slices.Clip(n.layers[:count])
	p.g.updateAuthority(n, auth, StateLayers)
}

// NLayers returns the number of layers.
func (p *Pipeline) NLayers() int { return len(p.layers()) }

// Layer returns a copy of the layer with index.
func (p *Pipeline) Layer(index int) (Layer, bool) {
	layers := p.layers()
	i, ok := findLayer(layers, index)
	if !ok {
		return Layer{}, false
	}
	return layers[i], true
}

// Layers returns copies of all layers ordered by index.
func (p *Pipeline) Layers() []Layer { return slices.Clone(p.layers()) }

// LayerTexture returns the texture of a layer, or nil.
func (p *Pipeline) LayerTexture(index int) LayerTexture {
	l, ok := p.Layer(index)
	if !ok {
		return nil
	}
	return l.Texture
}

// ForeachLayer calls fn with each layer index in order until fn returns
// false.
func (p *Pipeline) ForeachLayer(fn func(index int) bool) {
	for _, l := range p.Layers() {
		if !fn(l.Index) {
			return
		}
	}
}
