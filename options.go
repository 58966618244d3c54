package cglib

import "github.com/gogpu/cglib/pipeline"

// Option configures a Context during creation.
//
// Options are applied in order, so later options override values from an
// earlier WithConfig:
//
//	cfg, _ := cglib.LoadConfig("cglib.toml")
//	ctx, err := cglib.NewContext(drv, cglib.WithConfig(cfg), cglib.WithMaxWaste(-1))
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// WithMaxWaste sets the waste budget of textures created by the context.
// A negative value disables slicing.
func WithMaxWaste(n int) Option {
	return func(c *Config) { c.MaxWaste = n }
}

// WithMaxTileSize caps the tile size of textures created by the context.
func WithMaxTileSize(n int) Option {
	return func(c *Config) { c.MaxTileSize = n }
}

// WithBackend selects the program backend.
func WithBackend(b pipeline.Backend) Option {
	return func(c *Config) { c.Backend = b.String() }
}

// WithProgramCacheSize bounds the program cache.
func WithProgramCacheSize(n int) Option {
	return func(c *Config) { c.ProgramCacheSize = n }
}

// WithDebug enables debug note categories such as "slicing", "pipeline"
// and "program".
func WithDebug(categories ...string) Option {
	return func(c *Config) { c.Debug = append(c.Debug, categories...) }
}

// WithoutNPOT hides non-power-of-two texture support of the driver so
// textures are always sliced into power-of-two tiles.
func WithoutNPOT() Option {
	return func(c *Config) { c.DisableNPOT = true }
}
