package pipeline

import (
	"sync/atomic"

	"github.com/gogpu/cglib/internal/debug"
)

// Hook is a point in the generated shader where a snippet is inserted.
type Hook int

const (
	// HookVertexGlobals puts declarations at module scope before the
	// vertex entry point.
	HookVertexGlobals Hook = iota
	// HookVertex wraps the whole vertex stage body.
	HookVertex
	// HookVertexTransform wraps the position transform.
	HookVertexTransform
	// HookFragmentGlobals puts declarations at module scope before the
	// fragment entry point.
	HookFragmentGlobals
	// HookFragment wraps the layer combine in the fragment stage.
	HookFragment
)

// IsVertex reports whether the hook belongs to the vertex stage.
func (h Hook) IsVertex() bool { return h <= HookVertexTransform }

func (h Hook) String() string {
	switch h {
	case HookVertexGlobals:
		return "vertex-globals"
	case HookVertex:
		return "vertex"
	case HookVertexTransform:
		return "vertex-transform"
	case HookFragmentGlobals:
		return "fragment-globals"
	case HookFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

var nextSnippetID atomic.Uint64

// Snippet is a piece of WGSL attached to a hook. Declarations go at module
// scope, Pre runs before the hooked code, Replace substitutes it and Post
// runs after it. A snippet can no longer be modified once it has been
// added to a pipeline.
type Snippet struct {
	id           uint64
	hook         Hook
	declarations string
	pre          string
	replace      string
	post         string
	attached     bool
}

// NewSnippet creates a snippet for hook.
func NewSnippet(hook Hook, declarations, post string) *Snippet {
	return &Snippet{
		id:           nextSnippetID.Add(1),
		hook:         hook,
		declarations: declarations,
		post:         post,
	}
}

func (s *Snippet) Hook() Hook           { return s.hook }
func (s *Snippet) Declarations() string { return s.declarations }
func (s *Snippet) Pre() string          { return s.pre }
func (s *Snippet) Replace() string      { return s.replace }
func (s *Snippet) Post() string         { return s.post }

func (s *Snippet) mutable(field string) bool {
	if s.attached {
		debug.Logger().Warn("pipeline: snippet is immutable once attached to a pipeline",
			"field", field, "hook", s.hook)
		return false
	}
	return true
}

// SetDeclarations replaces the module scope declarations.
func (s *Snippet) SetDeclarations(src string) {
	if s.mutable("declarations") {
		s.declarations = src
	}
}

// SetPre replaces the code run before the hook.
func (s *Snippet) SetPre(src string) {
	if s.mutable("pre") {
		s.pre = src
	}
}

// SetReplace replaces the hooked code itself.
func (s *Snippet) SetReplace(src string) {
	if s.mutable("replace") {
		s.replace = src
	}
}

// SetPost replaces the code run after the hook.
func (s *Snippet) SetPost(src string) {
	if s.mutable("post") {
		s.post = src
	}
}

// snippetsEqual compares lists by snippet identity.
func snippetsEqual(a, b []*Snippet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// AddSnippet appends s to the vertex or fragment snippet list depending on
// its hook.
func (p *Pipeline) AddSnippet(s *Snippet) {
	state := StateFragmentSnippets
	if s.hook.IsVertex() {
		state = StateVertexSnippets
	}
	n := p.node()
	auth := p.g.authority(n, state)
	p.g.change(n, auth, state)
	s.attached = true
	list := n.big.snippets(state)
	*list = append(append([]*Snippet(nil), (*list)...), s)
	p.g.updateAuthority(n, auth, state)
}

// Snippets returns the vertex and fragment snippets in attach order.
func (p *Pipeline) Snippets() (vertex, fragment []*Snippet) {
	n := p.node()
	v := p.g.authority(n, StateVertexSnippets).big.vertexSnippets
	f := p.g.authority(n, StateFragmentSnippets).big.fragmentSnippets
	return v, f
}
