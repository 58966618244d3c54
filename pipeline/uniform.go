package pipeline

import (
	"slices"

	"github.com/gogpu/cglib/internal/bitmask"
	"github.com/gogpu/cglib/internal/util"
)

// BoxedType identifies the payload of a BoxedValue.
type BoxedType int

const (
	BoxedNone BoxedType = iota
	BoxedInt
	BoxedFloat
	BoxedMatrix
)

// BoxedValue holds a uniform value: Count elements of Size components
// (or Size x Size column-major matrices).
type BoxedValue struct {
	Type   BoxedType
	Size   int
	Count  int
	Floats []float32
	Ints   []int32
}

func (v *BoxedValue) equal(o *BoxedValue) bool {
	return v.Type == o.Type && v.Size == o.Size && v.Count == o.Count &&
		slices.Equal(v.Floats, o.Floats) && slices.Equal(v.Ints, o.Ints)
}

func (v *BoxedValue) hash(h util.Hash) util.Hash {
	h = h.Uint32(uint32(v.Type)).Uint32(uint32(v.Size)).Uint32(uint32(v.Count))
	for _, f := range v.Floats {
		h = h.Uint32(f32bits(f))
	}
	for _, i := range v.Ints {
		h = h.Uint32(uint32(i))
	}
	return h
}

// uniformsState is the value of the uniforms group: an override mask
// indexed by location and a value for every set bit.
type uniformsState struct {
	mask   bitmask.Bitmask
	values map[int]BoxedValue
}

func (u *uniformsState) clone() uniformsState {
	c := uniformsState{mask: u.mask.Clone()}
	if len(u.values) > 0 {
		c.values = make(map[int]BoxedValue, len(u.values))
		for k, v := range u.values {
			c.values[k] = v
		}
	}
	return c
}

func (u *uniformsState) equal(o *uniformsState) bool {
	if !u.mask.Equal(o.mask) {
		return false
	}
	eq := true
	u.mask.ForEachSet(func(loc int) {
		if !eq {
			return
		}
		a, b := u.values[loc], o.values[loc]
		eq = a.equal(&b)
	})
	return eq
}

func (u *uniformsState) hash(h util.Hash) util.Hash {
	u.mask.ForEachSet(func(loc int) {
		v := u.values[loc]
		h = v.hash(h.Uint32(uint32(loc)))
	})
	return h
}

// uniformRegistry maps uniform names to context-wide locations.
type uniformRegistry struct {
	names     []string
	locations map[string]int
}

func (r *uniformRegistry) location(name string) int {
	if loc, ok := r.locations[name]; ok {
		return loc
	}
	if r.locations == nil {
		r.locations = make(map[string]int)
	}
	loc := len(r.names)
	r.names = append(r.names, name)
	r.locations[name] = loc
	return loc
}

// UniformLocation returns the location for name, assigning the next free
// location the first time a name is seen.
func (g *Graph) UniformLocation(name string) int {
	return g.uniforms.location(name)
}

// UniformName returns the name registered for loc.
func (g *Graph) UniformName(loc int) (string, bool) {
	if loc < 0 || loc >= len(g.uniforms.names) {
		return "", false
	}
	return g.uniforms.names[loc], true
}

// SetUniform1f sets a float uniform.
func (p *Pipeline) SetUniform1f(location int, v float32) {
	p.setUniform(location, BoxedValue{Type: BoxedFloat, Size: 1, Count: 1, Floats: []float32{v}})
}

// SetUniform1i sets an int uniform.
func (p *Pipeline) SetUniform1i(location int, v int32) {
	p.setUniform(location, BoxedValue{Type: BoxedInt, Size: 1, Count: 1, Ints: []int32{v}})
}

// SetUniformFloat sets count vectors of nComponents floats.
func (p *Pipeline) SetUniformFloat(location, nComponents, count int, values []float32) {
	need := nComponents * count
	if nComponents < 1 || nComponents > 4 || count < 1 || len(values) < need {
		p.g.logger().Warn("pipeline: invalid float uniform",
			"location", location, "components", nComponents, "count", count)
		return
	}
	p.setUniform(location, BoxedValue{
		Type: BoxedFloat, Size: nComponents, Count: count,
		Floats: slices.Clone(values[:need]),
	})
}

// SetUniformInt sets count vectors of nComponents ints.
func (p *Pipeline) SetUniformInt(location, nComponents, count int, values []int32) {
	need := nComponents * count
	if nComponents < 1 || nComponents > 4 || count < 1 || len(values) < need {
		p.g.logger().Warn("pipeline: invalid int uniform",
			"location", location, "components", nComponents, "count", count)
		return
	}
	p.setUniform(location, BoxedValue{
		Type: BoxedInt, Size: nComponents, Count: count,
		Ints: slices.Clone(values[:need]),
	})
}

// SetUniformMatrix sets count dimensions x dimensions matrices. Values are
// column-major unless transpose is set.
func (p *Pipeline) SetUniformMatrix(location, dimensions, count int, transpose bool, values []float32) {
	per := dimensions * dimensions
	need := per * count
	if dimensions < 2 || dimensions > 4 || count < 1 || len(values) < need {
		p.g.logger().Warn("pipeline: invalid matrix uniform",
			"location", location, "dimensions", dimensions, "count", count)
		return
	}
	m := slices.Clone(values[:need])
	if transpose {
		for k := 0; k < count; k++ {
			src := values[k*per : (k+1)*per]
			dst := m[k*per : (k+1)*per]
			for y := 0; y < dimensions; y++ {
				for x := 0; x < dimensions; x++ {
					dst[y*dimensions+x] = src[x*dimensions+y]
				}
			}
		}
	}
	p.setUniform(location, BoxedValue{Type: BoxedMatrix, Size: dimensions, Count: count, Floats: m})
}

func (p *Pipeline) setUniform(location int, v BoxedValue) {
	n := p.node()
	if location < 0 || location >= len(p.g.uniforms.names) {
		p.g.logger().Warn("pipeline: unknown uniform location", "location", location)
		return
	}
	auth := p.g.authority(n, StateUniforms)
	au := &auth.big.uniforms
	if au.mask.Has(location) {
		if cur := au.values[location]; cur.equal(&v) {
			return
		}
	}
	p.g.change(n, auth, StateUniforms)
	u := &n.big.uniforms
	u.mask = u.mask.Set(location)
	if u.values == nil {
		u.values = make(map[int]BoxedValue)
	}
	u.values[location] = v
	p.g.updateAuthority(n, auth, StateUniforms)
}

// Uniform returns the value set for location, if any.
func (p *Pipeline) Uniform(location int) (BoxedValue, bool) {
	auth := p.g.authority(p.node(), StateUniforms)
	u := &auth.big.uniforms
	if !u.mask.Has(location) {
		return BoxedValue{}, false
	}
	return u.values[location], true
}
