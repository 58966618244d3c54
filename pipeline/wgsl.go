package pipeline

import (
	"fmt"
	"strings"

	"github.com/gogpu/cglib/texture"
)

// generateWGSL emits a module with a vs_main and an fs_main entry point.
//
// Bindings: group 0 binding 0 is the builtin uniform block; layer i uses
// group 1 bindings 2i (texture) and 2i+1 (sampler). Vertex attributes are
// position at location 0, color at 1 and one texture coordinate per layer
// from location 2.
func (g *Graph) generateWGSL(n *node) string {
	layers := g.authority(n, StateLayers).layers
	alphaFunc := g.authority(n, StateAlphaFunc).big.alphaFunc
	vsnips := g.authority(n, StateVertexSnippets).big.vertexSnippets
	fsnips := g.authority(n, StateFragmentSnippets).big.fragmentSnippets

	var b strings.Builder
	w := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	w("struct Builtins {")
	w("    mvp: mat4x4<f32>,")
	w("    color: vec4<f32>,")
	for i := range layers {
		w("    layer%d_constant: vec4<f32>,", i)
	}
	w("    alpha_ref: f32,")
	w("}")
	w("")
	w("@group(0) @binding(0) var<uniform> cg: Builtins;")
	for i := range layers {
		w("@group(1) @binding(%d) var layer%d_texture: %s;", 2*i, i, wgslTextureType(layers[i].TextureType))
		w("@group(1) @binding(%d) var layer%d_sampler: sampler;", 2*i+1, i)
	}
	w("")
	w("struct VertexInput {")
	w("    @location(0) position: vec4<f32>,")
	w("    @location(1) color: vec4<f32>,")
	for i := range layers {
		w("    @location(%d) tex_coord%d: vec4<f32>,", i+2, i)
	}
	w("}")
	w("")
	w("struct VertexOutput {")
	w("    @builtin(position) position: vec4<f32>,")
	w("    @location(0) color: vec4<f32>,")
	for i := range layers {
		w("    @location(%d) tex_coord%d: vec4<f32>,", i+1, i)
	}
	w("}")
	w("")

	writeDeclarations(&b, vsnips)

	// Vertex stage.
	w("@vertex")
	w("fn vs_main(vin: VertexInput) -> VertexOutput {")
	w("    var vout: VertexOutput;")
	vertexBody := func() {
		hookWrap(&b, vsnips, HookVertexTransform, func() {
			w("    vout.position = cg.mvp * vin.position;")
		})
		w("    vout.color = vin.color;")
		for i := range layers {
			w("    vout.tex_coord%d = vin.tex_coord%d;", i, i)
		}
	}
	hookWrap(&b, vsnips, HookVertex, vertexBody)
	w("    return vout;")
	w("}")
	w("")

	writeDeclarations(&b, fsnips)

	// Fragment stage.
	w("@fragment")
	w("fn fs_main(vout: VertexOutput) -> @location(0) vec4<f32> {")
	w("    var frag_color: vec4<f32> = vout.color;")
	hookWrap(&b, fsnips, HookFragment, func() {
		prev := "vout.color"
		for i := range layers {
			l := &layers[i]
			w("    let layer%d_sample = textureSample(layer%d_texture, layer%d_sampler, vout.tex_coord%d.%s);",
				i, i, i, i, coordSwizzle(l.TextureType))
			rgb := combineExpr(l.Combine.RGB, i, prev, true)
			var alpha string
			if l.Combine.RGB.Func == CombineDot3RGBA {
				alpha = "layer" + fmt.Sprint(i) + "_rgb.x"
			} else {
				alpha = combineExpr(l.Combine.Alpha, i, prev, false)
			}
			w("    let layer%d_rgb = %s;", i, rgb)
			w("    let layer%d = vec4<f32>(layer%d_rgb, %s);", i, i, alpha)
			prev = fmt.Sprintf("layer%d", i)
		}
		w("    frag_color = %s;", prev)
	})
	if test := alphaTest(alphaFunc); test != "" {
		w("    %s", test)
	}
	w("    return frag_color;")
	w("}")
	return b.String()
}

func writeDeclarations(b *strings.Builder, snippets []*Snippet) {
	for _, s := range snippets {
		if s.declarations != "" {
			b.WriteString(s.declarations)
			b.WriteString("\n\n")
		}
	}
}

// hookWrap emits the snippets for hook around body. The last snippet with
// a replacement wins; pre and post code of every snippet is kept in order.
func hookWrap(b *strings.Builder, snippets []*Snippet, hook Hook, body func()) {
	var replace *Snippet
	for _, s := range snippets {
		if s.hook != hook {
			continue
		}
		if s.pre != "" {
			writeIndented(b, s.pre)
		}
		if s.replace != "" {
			replace = s
		}
	}
	if replace != nil {
		writeIndented(b, replace.replace)
	} else {
		body()
	}
	for _, s := range snippets {
		if s.hook == hook && s.post != "" {
			writeIndented(b, s.post)
		}
	}
}

func writeIndented(b *strings.Builder, src string) {
	for _, line := range strings.Split(strings.TrimRight(src, "\n"), "\n") {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func wgslTextureType(t texture.Type) string {
	if t == texture.Type3D {
		return "texture_3d<f32>"
	}
	return "texture_2d<f32>"
}

func coordSwizzle(t texture.Type) string {
	if t == texture.Type3D {
		return "xyz"
	}
	return "xy"
}

func sourceExpr(src CombineSource, layer int, prev string) string {
	switch src {
	case SourceTexture:
		return fmt.Sprintf("layer%d_sample", layer)
	case SourceConstant:
		return fmt.Sprintf("cg.layer%d_constant", layer)
	case SourcePrimaryColor:
		return "vout.color"
	default:
		return prev
	}
}

func argExpr(src CombineSource, op CombineOp, layer int, prev string, rgb bool) string {
	s := sourceExpr(src, layer, prev)
	if rgb {
		switch op {
		case OpOneMinusSrcColor:
			return fmt.Sprintf("(vec3<f32>(1.0) - %s.rgb)", s)
		case OpSrcAlpha:
			return fmt.Sprintf("vec3<f32>(%s.a)", s)
		case OpOneMinusSrcAlpha:
			return fmt.Sprintf("vec3<f32>(1.0 - %s.a)", s)
		default:
			return s + ".rgb"
		}
	}
	switch op {
	case OpOneMinusSrcColor, OpOneMinusSrcAlpha:
		return fmt.Sprintf("(1.0 - %s.a)", s)
	default:
		return s + ".a"
	}
}

func combineExpr(c CombineChannel, layer int, prev string, rgb bool) string {
	var a [3]string
	for i := 0; i < c.Func.NArgs(); i++ {
		a[i] = argExpr(c.Sources[i], c.Ops[i], layer, prev, rgb)
	}
	half, one := "0.5", "1.0"
	if rgb {
		half, one = "vec3<f32>(0.5)", "vec3<f32>(1.0)"
	}
	switch c.Func {
	case CombineReplace:
		return a[0]
	case CombineAdd:
		return fmt.Sprintf("(%s + %s)", a[0], a[1])
	case CombineAddSigned:
		return fmt.Sprintf("(%s + %s - %s)", a[0], a[1], half)
	case CombineSubtract:
		return fmt.Sprintf("(%s - %s)", a[0], a[1])
	case CombineInterpolate:
		return fmt.Sprintf("(%s * %s + %s * (%s - %s))", a[0], a[2], a[1], one, a[2])
	case CombineDot3RGB, CombineDot3RGBA:
		return fmt.Sprintf("vec3<f32>(4.0 * dot(%s - %s, %s - %s))", a[0], half, a[1], half)
	default:
		return fmt.Sprintf("(%s * %s)", a[0], a[1])
	}
}

func alphaTest(fn CompareFunc) string {
	var op string
	switch fn {
	case CompareAlways:
		return ""
	case CompareNever:
		return "discard;"
	case CompareLess:
		op = "<"
	case CompareEqual:
		op = "=="
	case CompareLessEqual:
		op = "<="
	case CompareGreater:
		op = ">"
	case CompareNotEqual:
		op = "!="
	default:
		op = ">="
	}
	return fmt.Sprintf("if (!(frag_color.a %s cg.alpha_ref)) { discard; }", op)
}
