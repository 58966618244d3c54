package pipeline

// Pipeline is a handle to a node of a Graph. A handle keeps its identity
// across copy-on-write: mutating a pipeline never invalidates it, while
// pipelines copied from it earlier keep the values they saw.
type Pipeline struct {
	g   *Graph
	id  nodeID
	gen uint32
}

func (p *Pipeline) lookup() *node {
	if p == nil || p.g == nil || int(p.id) >= len(p.g.nodes) {
		return nil
	}
	n := p.g.nodes[p.id]
	if !n.live || n.gen != p.gen {
		return nil
	}
	return n
}

func (p *Pipeline) node() *node {
	n := p.lookup()
	if n == nil {
		panic(ErrStaleHandle)
	}
	return n
}

// Valid reports whether the handle still refers to a live pipeline.
func (p *Pipeline) Valid() bool { return p.lookup() != nil }

// Graph returns the graph p belongs to.
func (p *Pipeline) Graph() *Graph { return p.g }

// Copy returns a new pipeline deriving from p with no differences of its
// own. The copy keeps p alive.
func (p *Pipeline) Copy() *Pipeline {
	src := p.node()
	n := p.g.alloc(src)
	n.refs = 1
	n.realBlend = src.realBlend
	n.realBlendDirty = src.realBlendDirty
	n.unknownColorAlpha = src.unknownColorAlpha
	n.breadcrumb = "copy"
	return n.handle
}

// WeakCopy is like Copy but the new pipeline does not keep p alive and
// does not need to be preserved when p changes. If p is modified or freed
// the weak copy is destroyed and fn is called once with userData.
//
// A weak copy that itself has regular copies behaves like a regular child
// until those copies are released.
func (p *Pipeline) WeakCopy(fn DestroyFunc, userData any) *Pipeline {
	c := p.Copy()
	n := p.g.nodes[c.id]
	n.weak = true
	n.destroyFn = fn
	n.destroyData = userData
	n.breadcrumb = "weak copy"
	return c
}

// Ref adds a reference and returns p.
func (p *Pipeline) Ref() *Pipeline {
	p.node().refs++
	return p
}

// Release drops a reference. Releasing a destroyed pipeline is a no-op.
func (p *Pipeline) Release() {
	n := p.lookup()
	if n == nil {
		return
	}
	if n.refs > 0 {
		n.refs--
	}
	if n.destroying {
		return
	}
	p.g.collect(n)
}

// IsWeak reports whether p was created by WeakCopy.
func (p *Pipeline) IsWeak() bool { return p.node().weak }

// Parent returns the pipeline p derives from, or nil for the root.
func (p *Pipeline) Parent() *Pipeline {
	parent := p.g.parentOf(p.node())
	if parent == nil {
		return nil
	}
	return parent.handle
}

// Age is incremented on every modification of p.
func (p *Pipeline) Age() uint32 { return p.node().age }

// Differences returns the groups p overrides relative to its parent.
func (p *Pipeline) Differences() State { return p.node().differences }

// Authority returns the ancestor, possibly p itself, that holds the value
// of any of the groups in state.
func (p *Pipeline) Authority(state State) *Pipeline {
	return p.g.authority(p.node(), state).handle
}

// SetStaticBreadcrumb attaches a debug label.
func (p *Pipeline) SetStaticBreadcrumb(s string) { p.node().breadcrumb = s }

// Breadcrumb returns the debug label.
func (p *Pipeline) Breadcrumb() string { return p.node().breadcrumb }
