package texture

import (
	"fmt"

	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/internal/debug"
	"github.com/gogpu/cglib/pixelformat"
	"github.com/gogpu/cglib/spans"
)

// tilePool owns the driver textures of one sliced texture.
type tilePool struct {
	drv   driver.Driver
	tiles []driver.Texture
}

// allocate creates one tile per (x, y) span pair in row-major order. If any
// creation fails every tile created so far is destroyed.
func (p *tilePool) allocate(xs, ys []spans.Span, format pixelformat.Format) error {
	p.tiles = make([]driver.Texture, 0, len(xs)*len(ys))
	for y, ySpan := range ys {
		for x, xSpan := range xs {
			debug.Note(debug.Slicing, "create slice",
				"x", x, "y", y, "width", xSpan.Used(), "height", ySpan.Used())

			tile, err := p.drv.CreateTexture2D(xSpan.Size, ySpan.Size, format)
			if err != nil {
				p.destroy()
				return fmt.Errorf("%w: tile (%d,%d) %dx%d: %w", ErrAllocation, x, y, xSpan.Size, ySpan.Size, err)
			}
			p.tiles = append(p.tiles, tile)
		}
	}
	return nil
}

func (p *tilePool) destroy() {
	for _, tile := range p.tiles {
		tile.Destroy()
	}
	p.tiles = nil
}
