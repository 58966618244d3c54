package cglib

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/cglib/internal/debug"
	"github.com/gogpu/cglib/pipeline"
	"github.com/gogpu/cglib/texture"
)

// ErrInvalidConfig is returned for configuration values that cannot be
// applied.
var ErrInvalidConfig = errors.New("cglib: invalid config")

// Config holds the tunables of a Context. The zero value is not useful;
// start from DefaultConfig.
//
// In TOML form:
//
//	max_waste = 127
//	max_tile_size = 0
//	backend = "shader"
//	program_cache_size = 256
//	disable_npot = false
//	debug = ["slicing", "program"]
type Config struct {
	// MaxWaste is the default waste budget of new sliced textures. A
	// negative value disables slicing.
	MaxWaste int `toml:"max_waste"`
	// MaxTileSize caps tile dimensions. Zero leaves it to the driver.
	MaxTileSize int `toml:"max_tile_size"`
	// Backend is "shader" or "nop".
	Backend string `toml:"backend"`
	// ProgramCacheSize bounds the program cache.
	ProgramCacheSize int `toml:"program_cache_size"`
	// DisableNPOT hides non-power-of-two support of the driver.
	DisableNPOT bool `toml:"disable_npot"`
	// Debug lists the debug note categories to enable.
	Debug []string `toml:"debug"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		MaxWaste:         texture.DefaultMaxWaste,
		Backend:          pipeline.BackendShader.String(),
		ProgramCacheSize: pipeline.DefaultProgramCacheSize,
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("cglib: read config %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// DecodeConfig parses TOML text on top of DefaultConfig.
func DecodeConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("cglib: decode config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(names, ", "))
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks that every value can be applied.
func (c Config) Validate() error {
	if _, err := pipeline.ParseBackend(c.Backend); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.MaxTileSize < 0 {
		return fmt.Errorf("%w: max_tile_size %d", ErrInvalidConfig, c.MaxTileSize)
	}
	if c.ProgramCacheSize < 0 {
		return fmt.Errorf("%w: program_cache_size %d", ErrInvalidConfig, c.ProgramCacheSize)
	}
	if _, unknown := debug.ParseCategories(c.Debug); len(unknown) > 0 {
		return fmt.Errorf("%w: unknown debug categories %v", ErrInvalidConfig, unknown)
	}
	return nil
}
