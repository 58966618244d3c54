package pipeline

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/gogpu/cglib/internal/debug"
)

// ErrStaleHandle is the panic value when a destroyed pipeline is used.
var ErrStaleHandle = errors.New("pipeline: use of a destroyed pipeline")

type nodeID int32

const noNode nodeID = -1

// DestroyFunc is called when a weak pipeline is destroyed because its
// parent changed or went away. The handle is invalid once fn returns.
type DestroyFunc func(p *Pipeline, userData any)

// bigState holds the groups that most pipelines never override.
type bigState struct {
	alphaFunc          CompareFunc
	alphaRef           float32
	blend              BlendState
	depth              DepthState
	nonZeroPointSize   bool
	pointSize          float32
	perVertexPointSize bool
	colorMask          ColorMask
	cullFace           CullFaceState
	uniforms           uniformsState
	vertexSnippets     []*Snippet
	fragmentSnippets   []*Snippet
}

func (b *bigState) snippets(s State) *[]*Snippet {
	if s == StateVertexSnippets {
		return &b.vertexSnippets
	}
	return &b.fragmentSnippets
}

type hashKey struct {
	state  State
	layers LayerState
	flags  EvalFlags
}

// node is one arena slot. Values are only meaningful for the groups in
// differences.
type node struct {
	id     nodeID
	gen    uint32
	live   bool
	handle *Pipeline

	parent   nodeID
	children []nodeID
	slot     int // index in the parent's children
	refs     int

	weak        bool
	destroying  bool
	destroyFn   DestroyFunc
	destroyData any

	differences State
	age         uint32

	color       Color
	blendEnable BlendEnable
	layers      []Layer
	big         *bigState

	hashes            map[hashKey]uint32
	realBlend         bool
	realBlendDirty    bool
	unknownColorAlpha bool
	program           *Program
	breadcrumb        string
}

// Graph owns every pipeline node of one context. It is not safe for
// concurrent use.
type Graph struct {
	nodes []*node
	free  []nodeID
	root  *node
	live  int

	uniforms uniformRegistry

	backend   Backend
	compile   Compiler
	cacheSize int
	cache     *programCache
	nop       *Program
}

// Option configures a Graph.
type Option func(*Graph)

// WithBackend selects the program backend.
func WithBackend(b Backend) Option {
	return func(g *Graph) { g.backend = b }
}

// WithProgramCacheSize bounds the number of distinct program hashes kept.
func WithProgramCacheSize(n int) Option {
	return func(g *Graph) {
		if n > 0 {
			g.cacheSize = n
		}
	}
}

// WithCompiler replaces the WGSL to SPIR-V compiler.
func WithCompiler(c Compiler) Option {
	return func(g *Graph) {
		if c != nil {
			g.compile = c
		}
	}
}

// NewGraph creates a graph whose root pipeline holds the default value of
// every state group.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		backend:   BackendShader,
		compile:   compileWGSL,
		cacheSize: DefaultProgramCacheSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.cache = newProgramCache(g, g.cacheSize)
	g.nop = &Program{Backend: BackendNop}

	root := g.alloc(nil)
	root.refs = 1
	root.differences = StateAllSparse
	root.color = White
	root.blendEnable = BlendEnableAutomatic
	root.big = &bigState{
		alphaFunc: CompareAlways,
		blend:     DefaultBlendState(),
		depth:     DefaultDepthState(),
		colorMask: ColorMaskAll,
		cullFace:  CullFaceState{Mode: CullFaceNone, FrontWinding: WindingCounterClockwise},
	}
	root.breadcrumb = "default pipeline"
	g.root = root
	return g
}

// Root returns the default pipeline. It is the authority for every group
// no other pipeline overrides and should not be modified.
func (g *Graph) Root() *Pipeline { return g.root.handle }

// New returns a new pipeline deriving from the default one.
func (g *Graph) New() *Pipeline {
	p := g.root.handle.Copy()
	g.nodes[p.id].breadcrumb = "new"
	return p
}

// Live returns the number of live nodes, including the root and nodes kept
// alive only by their children.
func (g *Graph) Live() int { return g.live }

// Close drops every cached program. Pipelines stay usable.
func (g *Graph) Close() { g.cache.purge() }

func (g *Graph) logger() *slog.Logger { return debug.Logger() }

func (g *Graph) alloc(parent *node) *node {
	var n *node
	if k := len(g.free); k > 0 {
		id := g.free[k-1]
		g.free = g.free[:k-1]
		n = g.nodes[id]
		*n = node{id: id, gen: n.gen}
	} else {
		n = &node{id: nodeID(len(g.nodes))}
		g.nodes = append(g.nodes, n)
	}
	n.live = true
	n.parent = noNode
	n.realBlendDirty = true
	n.handle = &Pipeline{g: g, id: n.id, gen: n.gen}
	g.live++
	if parent != nil {
		g.attach(n, parent)
	}
	return n
}

// release returns the slot to the free list and invalidates its handle.
func (g *Graph) release(n *node) {
	id, gen := n.id, n.gen+1
	*n = node{id: id, gen: gen, parent: noNode}
	g.free = append(g.free, id)
	g.live--
}

func (g *Graph) parentOf(n *node) *node {
	if n.parent == noNode {
		return nil
	}
	return g.nodes[n.parent]
}

func (g *Graph) attach(n, parent *node) {
	n.parent = parent.id
	n.slot = len(parent.children)
	parent.children = append(parent.children, n.id)
}

func (g *Graph) detach(n *node) {
	parent := g.parentOf(n)
	if parent == nil {
		return
	}
	last := len(parent.children) - 1
	moved := parent.children[last]
	parent.children[n.slot] = moved
	g.nodes[moved].slot = n.slot
	parent.children = parent.children[:last]
	n.parent = noNode
}

// authority returns the nearest node, starting at n, that overrides any of
// the groups in state.
func (g *Graph) authority(n *node, state State) *node {
	for a := n; a != nil; a = g.parentOf(a) {
		if a.differences&state != 0 {
			return a
		}
	}
	panic("pipeline: no authority for " + state.String())
}

// holdsParent reports whether c keeps its parent alive. Weak nodes only do
// so while they have a child that holds them.
func (g *Graph) holdsParent(c *node) bool {
	if !c.weak {
		return true
	}
	for _, id := range c.children {
		if g.holdsParent(g.nodes[id]) {
			return true
		}
	}
	return false
}

func (g *Graph) needed(n *node) bool {
	if n.refs > 0 || n == g.root {
		return true
	}
	for _, id := range n.children {
		if g.holdsParent(g.nodes[id]) {
			return true
		}
	}
	return false
}

// collect frees n and then any ancestor that is no longer needed.
func (g *Graph) collect(n *node) {
	for n != nil && n.live {
		parent := g.parentOf(n)
		if g.needed(n) {
			if !n.weak {
				return
			}
		} else {
			g.freeNode(n)
		}
		n = parent
	}
}

func (g *Graph) freeNode(n *node) {
	g.destroyWeakChildren(n)
	g.detach(n)
	g.release(n)
}

// destroyWeakChildren destroys the weak children of n that nothing holds.
func (g *Graph) destroyWeakChildren(n *node) {
	if len(n.children) == 0 {
		return
	}
	for _, id := range slices.Clone(n.children) {
		c := g.nodes[id]
		if c.live && c.weak && !g.holdsParent(c) {
			g.destroyWeak(c)
		}
	}
}

func (g *Graph) destroyWeak(c *node) {
	c.destroying = true
	g.destroyWeakChildren(c)
	debug.Note(debug.Pipeline, "destroying weak pipeline", "breadcrumb", c.breadcrumb)
	if c.destroyFn != nil {
		c.destroyFn(c.handle, c.destroyData)
	}
	g.detach(c)
	g.release(c)
}

// preChangeNotify must run before any group in change is written on n.
// Unheld weak children are destroyed; remaining dependants move to a
// snapshot of n so they keep seeing the old values.
func (g *Graph) preChangeNotify(n *node, change State) {
	g.destroyWeakChildren(n)
	if len(n.children) > 0 {
		g.copyOnWrite(n)
	}
	if n.program != nil && change&codegenState != 0 {
		debug.Note(debug.Program, "dropping program after codegen change", "change", change)
		n.program = nil
	}
	if change&StateAffectsBlending != 0 {
		n.realBlendDirty = true
	}
	n.age++
	n.hashes = nil
}

func (g *Graph) copyOnWrite(n *node) {
	snap := g.alloc(g.parentOf(n))
	snap.differences = n.differences
	copyGroups(snap, n, n.differences)
	snap.program = n.program
	snap.realBlend = n.realBlend
	snap.realBlendDirty = n.realBlendDirty
	snap.unknownColorAlpha = n.unknownColorAlpha
	snap.breadcrumb = "copy-on-write"

	for _, id := range n.children {
		g.nodes[id].parent = snap.id
	}
	snap.children, n.children = n.children, nil
	debug.Note(debug.Pipeline, "copy-on-write", "breadcrumb", n.breadcrumb, "children", len(snap.children))
}

// change prepares n for a write to state. auth is the authority that held
// the value before the write; its value is copied into n so partial
// updates start from the current state.
func (g *Graph) change(n, auth *node, state State) {
	g.preChangeNotify(n, state)
	if n != auth {
		copyGroups(n, auth, state)
	}
}

// updateAuthority records n as the authority for state after a write, or
// drops the difference again when the new value matches the inherited one.
func (g *Graph) updateAuthority(n, auth *node, state State) {
	if n == auth {
		parent := g.parentOf(n)
		if parent == nil {
			return
		}
		if groupEqual(n, g.authority(parent, state), state, LayerStateAll, 0) {
			n.differences &^= state
		}
		return
	}
	n.differences |= state
	g.pruneRedundantAncestry(n)
}

// pruneRedundantAncestry reparents n past ancestors whose differences n
// now overrides entirely.
func (g *Graph) pruneRedundantAncestry(n *node) {
	old := g.parentOf(n)
	if old == nil {
		return
	}
	np := old
	for {
		gp := g.parentOf(np)
		if gp == nil || np.differences|n.differences != n.differences {
			break
		}
		np = gp
	}
	if np == old {
		return
	}
	g.detach(n)
	g.attach(n, np)
	n.hashes = nil
	debug.Note(debug.Pipeline, "pruned redundant ancestry", "breadcrumb", n.breadcrumb)
	g.collect(old)
}

// copyGroups copies the values of the groups in state from src to dst.
func copyGroups(dst, src *node, state State) {
	if state&StateColor != 0 {
		dst.color = src.color
	}
	if state&StateBlendEnable != 0 {
		dst.blendEnable = src.blendEnable
	}
	if state&StateLayers != 0 {
		dst.layers = slices.Clone(src.layers)
	}
	if state&StateNeedsBigState == 0 {
		return
	}
	if dst.big == nil {
		dst.big = &bigState{}
	}
	d, s := dst.big, src.big
	if state&StateAlphaFunc != 0 {
		d.alphaFunc = s.alphaFunc
	}
	if state&StateAlphaFuncReference != 0 {
		d.alphaRef = s.alphaRef
	}
	if state&StateBlend != 0 {
		d.blend = s.blend
	}
	if state&StateDepth != 0 {
		d.depth = s.depth
	}
	if state&StateNonZeroPointSize != 0 {
		d.nonZeroPointSize = s.nonZeroPointSize
	}
	if state&StatePointSize != 0 {
		d.pointSize = s.pointSize
	}
	if state&StatePerVertexPointSize != 0 {
		d.perVertexPointSize = s.perVertexPointSize
	}
	if state&StateLogicOps != 0 {
		d.colorMask = s.colorMask
	}
	if state&StateCullFace != 0 {
		d.cullFace = s.cullFace
	}
	if state&StateUniforms != 0 {
		d.uniforms = s.uniforms.clone()
	}
	if state&StateVertexSnippets != 0 {
		d.vertexSnippets = slices.Clone(s.vertexSnippets)
	}
	if state&StateFragmentSnippets != 0 {
		d.fragmentSnippets = slices.Clone(s.fragmentSnippets)
	}
}
