package pipeline

import "testing"

func TestSnippetImmutableOnceAttached(t *testing.T) {
	g := newTestGraph()
	p := g.New()
	s := NewSnippet(HookFragment, "const k: f32 = 0.5;", "frag_color = frag_color * k;")
	s.SetPre("let before = 1.0;")
	p.AddSnippet(s)

	s.SetPost("frag_color = vec4<f32>(1.0);")
	s.SetReplace("return;")
	s.SetDeclarations("")

	if got := s.Post(); got != "frag_color = frag_color * k;" {
		t.Errorf("Post() = %q after attach", got)
	}
	if got := s.Replace(); got != "" {
		t.Errorf("Replace() = %q after attach", got)
	}
	if got := s.Pre(); got != "let before = 1.0;" {
		t.Errorf("Pre() = %q, want value set before attach", got)
	}
	if got := s.Declarations(); got == "" {
		t.Error("Declarations() cleared after attach")
	}
}

func TestSnippetLists(t *testing.T) {
	g := newTestGraph()
	p := g.New()
	v := NewSnippet(HookVertex, "", "vout.color = vec4<f32>(1.0);")
	f1 := NewSnippet(HookFragment, "", "")
	f2 := NewSnippet(HookFragmentGlobals, "fn helper() {}", "")
	p.AddSnippet(v)
	p.AddSnippet(f1)

	c := p.Copy()
	c.AddSnippet(f2)

	vs, fs := c.Snippets()
	if len(vs) != 1 || vs[0] != v {
		t.Errorf("vertex snippets = %v, want [v]", vs)
	}
	if len(fs) != 2 || fs[0] != f1 || fs[1] != f2 {
		t.Errorf("fragment snippets = %v, want [f1 f2]", fs)
	}
	if _, pf := p.Snippets(); len(pf) != 1 {
		t.Errorf("parent fragment snippets = %d, want 1", len(pf))
	}

	if Equal(p, c, StateFragmentSnippets, 0, 0) {
		t.Error("pipelines with different snippet lists compared equal")
	}
	if !Equal(p, c, StateVertexSnippets, 0, 0) {
		t.Error("vertex snippet lists should be equal")
	}
}

func TestHookIsVertex(t *testing.T) {
	tests := []struct {
		hook Hook
		want bool
	}{
		{HookVertexGlobals, true},
		{HookVertex, true},
		{HookVertexTransform, true},
		{HookFragmentGlobals, false},
		{HookFragment, false},
	}
	for _, tt := range tests {
		if got := tt.hook.IsVertex(); got != tt.want {
			t.Errorf("%v.IsVertex() = %v, want %v", tt.hook, got, tt.want)
		}
	}
}
