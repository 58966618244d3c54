package cglib

import (
	"fmt"

	"github.com/gogpu/cglib/bitmap"
	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/internal/debug"
	"github.com/gogpu/cglib/pipeline"
	"github.com/gogpu/cglib/pixelformat"
	"github.com/gogpu/cglib/texture"
)

// Context ties a driver to a pipeline graph and carries the defaults for
// textures created through it. Nothing in cglib keeps a global context;
// pass it where it is needed.
//
// A Context is not safe for concurrent use.
type Context struct {
	drv    driver.Driver
	cfg    Config
	graph  *pipeline.Graph
	debug  debug.Category
	closed bool
}

// NewContext creates a context on drv.
//
// Example:
//
//	ctx, err := cglib.NewContext(memory.New(), cglib.WithMaxTileSize(512))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
func NewContext(drv driver.Driver, opts ...Option) (*Context, error) {
	if drv == nil {
		return nil, fmt.Errorf("%w: nil driver", ErrInvalidConfig)
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	backend, _ := pipeline.ParseBackend(cfg.Backend)
	cats, _ := debug.ParseCategories(cfg.Debug)
	debug.Enable(cats)

	if cfg.DisableNPOT {
		drv = potDriver{drv}
	}
	ctx := &Context{
		drv:   drv,
		cfg:   cfg,
		debug: cats,
		graph: pipeline.NewGraph(
			pipeline.WithBackend(backend),
			pipeline.WithProgramCacheSize(cfg.ProgramCacheSize),
		),
	}
	Logger().Debug("cglib: context created",
		"backend", backend, "max_waste", cfg.MaxWaste, "max_tile_size", cfg.MaxTileSize)
	return ctx, nil
}

// potDriver reports no non-power-of-two support.
type potDriver struct {
	driver.Driver
}

func (d potDriver) HasFeature(f driver.Feature) bool {
	if f == driver.FeatureTextureNPOT || f == driver.FeatureTextureNPOTRepeat {
		return false
	}
	return d.Driver.HasFeature(f)
}

// Driver returns the driver textures are created on.
func (c *Context) Driver() driver.Driver { return c.drv }

// Config returns the effective configuration.
func (c *Context) Config() Config { return c.cfg }

// Graph returns the pipeline graph.
func (c *Context) Graph() *pipeline.Graph { return c.graph }

// NewPipeline returns a pipeline deriving from the default one.
func (c *Context) NewPipeline() *pipeline.Pipeline { return c.graph.New() }

// FlushPipeline prepares p for a draw.
func (c *Context) FlushPipeline(p *pipeline.Pipeline, opts pipeline.FlushOptions) (*pipeline.Program, error) {
	return c.graph.Flush(p, opts)
}

func (c *Context) textureOptions() []texture.Option {
	if c.cfg.MaxTileSize > 0 {
		return []texture.Option{texture.WithMaxTileSize(c.cfg.MaxTileSize)}
	}
	return nil
}

// NewTextureWithSize creates an unallocated w x h texture.
func (c *Context) NewTextureWithSize(w, h int) *texture.Texture2DSliced {
	return texture.NewWithSize(c.drv, w, h, c.cfg.MaxWaste, c.textureOptions()...)
}

// NewTextureFromBitmap creates an unallocated texture holding bmp.
func (c *Context) NewTextureFromBitmap(bmp *bitmap.Bitmap) *texture.Texture2DSliced {
	return texture.NewFromBitmap(c.drv, bmp, c.cfg.MaxWaste, c.textureOptions()...)
}

// NewTextureFromData creates and allocates a texture from raw pixels.
func (c *Context) NewTextureFromData(w, h int, format pixelformat.Format, rowstride int, data []byte) (*texture.Texture2DSliced, error) {
	return texture.NewFromData(c.drv, w, h, c.cfg.MaxWaste, format, rowstride, data, c.textureOptions()...)
}

// NewTextureFromFile decodes an image file into an unallocated texture.
func (c *Context) NewTextureFromFile(path string) (*texture.Texture2DSliced, error) {
	return texture.NewFromFile(c.drv, path, c.cfg.MaxWaste, c.textureOptions()...)
}

// Close drops cached programs and the context's hold on its debug
// categories. Categories another open context enabled stay on. Pipelines
// and textures created through the context must not be used afterwards.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.graph.Close()
	debug.Disable(c.debug)
}
