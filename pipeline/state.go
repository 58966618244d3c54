package pipeline

import "strings"

// State is a set of pipeline state groups. Each sparse group is owned by
// exactly one authority along a pipeline's ancestry.
type State uint32

// Sparse state groups.
const (
	StateColor State = 1 << iota
	StateBlendEnable
	StateLayers
	StateAlphaFunc
	StateAlphaFuncReference
	StateBlend
	StateDepth
	StateNonZeroPointSize
	StatePointSize
	StatePerVertexPointSize
	StateLogicOps
	StateCullFace
	StateUniforms
	StateVertexSnippets
	StateFragmentSnippets

	// StateRealBlendEnable is derived from other groups and never recorded
	// as a difference.
	StateRealBlendEnable
)

const sparseCount = 15

// Group masks.
const (
	StateAll       State = 1<<(sparseCount+1) - 1
	StateAllSparse       = StateAll &^ StateRealBlendEnable

	StateAffectsBlending = StateColor | StateBlendEnable | StateLayers |
		StateBlend | StateVertexSnippets | StateFragmentSnippets

	// StateNeedsBigState groups live in a block allocated on first use.
	StateNeedsBigState = StateAlphaFunc | StateAlphaFuncReference |
		StateBlend | StateDepth | StateNonZeroPointSize | StatePointSize |
		StatePerVertexPointSize | StateLogicOps | StateCullFace |
		StateUniforms | StateVertexSnippets | StateFragmentSnippets

	// StateMultiProperty groups can be partially updated, so a new
	// authority starts from a copy of the previous value.
	StateMultiProperty = StateLayers | StateBlend | StateDepth |
		StateLogicOps | StateCullFace | StateUniforms |
		StateVertexSnippets | StateFragmentSnippets
)

var stateNames = [...]string{
	"color",
	"blend-enable",
	"layers",
	"alpha-func",
	"alpha-func-reference",
	"blend",
	"depth",
	"non-zero-point-size",
	"point-size",
	"per-vertex-point-size",
	"logic-ops",
	"cull-face",
	"uniforms",
	"vertex-snippets",
	"fragment-snippets",
	"real-blend-enable",
}

// String returns the group names joined by '|'.
func (s State) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	s.forEach(func(g State) {
		parts = append(parts, stateNames[g.index()])
	})
	return strings.Join(parts, "|")
}

// forEach calls fn for every single-group bit in s, lowest first.
func (s State) forEach(fn func(State)) {
	for i := 0; i <= sparseCount; i++ {
		if g := State(1) << i; s&g != 0 {
			fn(g)
		}
	}
}

func (s State) index() int {
	for i := 0; i <= sparseCount; i++ {
		if s == State(1)<<i {
			return i
		}
	}
	return -1
}

// LayerState is a set of layer state groups.
type LayerState uint32

// Layer state groups.
const (
	LayerStateIndex LayerState = 1 << iota
	LayerStateTextureType
	LayerStateTextureData
	LayerStateSampler
	LayerStateCombine
	LayerStateCombineConstant
	LayerStatePointSpriteCoords

	LayerStateAll = LayerStateIndex | LayerStateTextureType |
		LayerStateTextureData | LayerStateSampler | LayerStateCombine |
		LayerStateCombineConstant | LayerStatePointSpriteCoords
)

// EvalFlags modify how Equal and Hash compare state.
type EvalFlags uint32

// EvalFlagIgnoreTextureData compares layer textures by type only.
const EvalFlagIgnoreTextureData EvalFlags = 1 << 0
