// Package cglib provides GPU pipeline state tracking and large textures
// sliced into driver-sized tiles.
//
// # Overview
//
// A Context binds a texture driver to a graph of pipelines. Pipelines are
// cheap copy-on-write descriptions of draw state (color, blending, depth,
// texture layers, uniforms, shader snippets). Flushing a pipeline decides
// whether blending is needed and returns a compiled program, shared by
// every pipeline that generates the same shader.
//
// Textures larger than the driver allows, or with sizes it cannot handle,
// are split into a grid of tiles. The padding of power-of-two tiles is
// filled with copies of edge pixels so filtering does not show seams.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/cglib"
//	    "github.com/gogpu/cglib/driver/memory"
//	    "github.com/gogpu/cglib/pipeline"
//	)
//
//	ctx, err := cglib.NewContext(memory.New())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	tex, err := ctx.NewTextureFromFile("photo.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := tex.Allocate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	p := ctx.NewPipeline()
//	p.SetLayerTexture(0, tex)
//	prog, err := ctx.FlushPipeline(p, pipeline.FlushOptions{})
//
// # Architecture
//
// The library is organized into:
//   - Public API: Context, Config, options, logger
//   - pipeline: state graph, equality and hashing, program generation
//   - texture, spans: sliced textures and their tile layout
//   - driver: tile storage on the CPU (driver/memory) or a GPU (driver/wgpu)
//   - bitmap, pixelformat: pixel storage, decoding and conversion
//
// # Configuration
//
// Options can be given in code or loaded from TOML with LoadConfig; see
// Config for the keys.
package cglib
