package pipeline

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/cglib/internal/debug"
)

// Backend selects how pipelines are turned into programs.
type Backend int

const (
	// BackendShader generates WGSL and compiles it to SPIR-V.
	BackendShader Backend = iota
	// BackendNop produces empty programs. Useful without a GPU.
	BackendNop
)

func (b Backend) String() string {
	switch b {
	case BackendShader:
		return "shader"
	case BackendNop:
		return "nop"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend converts "shader" or "nop" into a Backend.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "shader", "":
		return BackendShader, nil
	case "nop":
		return BackendNop, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// Errors returned while flushing.
var (
	ErrUnknownBackend = errors.New("pipeline: unknown backend")
	ErrShaderCompile  = errors.New("pipeline: shader compilation failed")
)

// DefaultProgramCacheSize is the number of program hashes kept by default.
const DefaultProgramCacheSize = 256

// Groups that change the generated shader. Alpha testing is done in the
// fragment shader, so the function is part of codegen while the reference
// is a uniform. Point sizes have no WGSL equivalent.
const (
	codegenState      = StateLayers | StateAlphaFunc | StateVertexSnippets | StateFragmentSnippets
	codegenLayerState = LayerStateTextureType | LayerStateCombine
	codegenFlags      = EvalFlagIgnoreTextureData
)

// Compiler turns WGSL source into SPIR-V bytes.
type Compiler func(source string) ([]byte, error)

func compileWGSL(source string) ([]byte, error) {
	return naga.Compile(source)
}

// Program is the result of flushing a pipeline.
type Program struct {
	Backend Backend
	// Source is the generated WGSL module with vs_main and fs_main.
	Source string
	// SPIRV holds little-endian SPIR-V words.
	SPIRV []uint32
	// NLayers is the number of texture layers the program samples.
	NLayers int
}

// FlushOptions adjust a pipeline for a single draw without modifying it.
type FlushOptions struct {
	// UnknownColorAlpha tells the blend decision that vertex colors may
	// be translucent.
	UnknownColorAlpha bool
	// DisableLayers removes the layers whose position has its bit set.
	DisableLayers uint32
	// Layer0Override replaces the texture of the first layer.
	Layer0Override LayerTexture
}

func (o *FlushOptions) hasOverrides() bool {
	return o.DisableLayers != 0 || o.Layer0Override != nil
}

// applyOverrides modifies p according to opts.
func (p *Pipeline) applyOverrides(opts *FlushOptions) {
	layers := p.layers()
	if opts.DisableLayers != 0 {
		var drop []int
		for i, l := range layers {
			if i < 32 && opts.DisableLayers&(1<<uint(i)) != 0 {
				drop = append(drop, l.Index)
			}
		}
		for _, idx := range drop {
			p.RemoveLayer(idx)
		}
		layers = p.layers()
	}
	if opts.Layer0Override != nil && len(layers) > 0 {
		p.SetLayerTexture(layers[0].Index, opts.Layer0Override)
	}
}

type prePainter interface {
	PrePaint()
}

// Flush prepares p for drawing: it settles the blend decision, returns a
// program for the graph's backend and lets layer textures prepare
// themselves.
func (g *Graph) Flush(p *Pipeline, opts FlushOptions) (*Program, error) {
	target := p
	if opts.hasOverrides() {
		target = p.Copy()
		target.SetStaticBreadcrumb("flush overrides")
		defer target.Release()
		target.applyOverrides(&opts)
	}
	n := target.node()
	g.updateRealBlendEnable(n, opts.UnknownColorAlpha)

	prog, err := g.program(n)
	if err != nil {
		return nil, err
	}
	for _, l := range g.authority(n, StateLayers).layers {
		if pp, ok := l.Texture.(prePainter); ok {
			pp.PrePaint()
		}
	}
	return prog, nil
}

func (g *Graph) program(n *node) (*Program, error) {
	switch g.backend {
	case BackendNop:
		return g.nop, nil
	case BackendShader:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownBackend, g.backend)
	}

	auth := g.findEquivalentParent(n, codegenState, codegenLayerState, codegenFlags)
	if auth.program != nil {
		return auth.program, nil
	}
	if prog := g.cache.lookup(auth); prog != nil {
		debug.Note(debug.Program, "program cache hit", "breadcrumb", auth.breadcrumb)
		auth.program = prog
		return prog, nil
	}

	src := g.generateWGSL(auth)
	spirv, err := g.compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	prog := &Program{
		Backend: BackendShader,
		Source:  src,
		SPIRV:   spirvWords(spirv),
		NLayers: len(g.authority(auth, StateLayers).layers),
	}
	debug.Note(debug.Program, "generated program", "layers", prog.NLayers, "words", len(prog.SPIRV))
	g.cache.insert(auth, prog)
	auth.program = prog
	return prog, nil
}

// spirvWords converts little-endian SPIR-V bytes to words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}

// CachedPrograms returns the number of program hashes in the cache.
func (g *Graph) CachedPrograms() int { return g.cache.len() }
