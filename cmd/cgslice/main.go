// Command cgslice loads an image as a sliced texture and prints its tile
// layout.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/cglib"
	"github.com/gogpu/cglib/bitmap"
	"github.com/gogpu/cglib/driver"
	"github.com/gogpu/cglib/driver/memory"
	"github.com/gogpu/cglib/pipeline"
	"github.com/gogpu/cglib/pixelformat"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		maxTile    = flag.Int("max-tile", 0, "maximum tile size (0: driver limit)")
		maxWaste   = flag.Int("max-waste", -2, "waste budget per axis (-1 disables slicing, default from config)")
		pot        = flag.Bool("pot", false, "hide non-power-of-two support")
		dump       = flag.String("dump", "", "write every tile as PNG into this directory")
		wgsl       = flag.Bool("wgsl", false, "print the WGSL generated for a pipeline sampling the texture")
		debugCats  = flag.String("debug", "", "comma separated debug categories (slicing,pipeline,program)")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: cgslice [flags] image\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	opts := []cglib.Option{}
	if *configPath != "" {
		cfg, err := cglib.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		opts = append(opts, cglib.WithConfig(cfg))
	}
	if *maxTile > 0 {
		opts = append(opts, cglib.WithMaxTileSize(*maxTile))
	}
	if *maxWaste > -2 {
		opts = append(opts, cglib.WithMaxWaste(*maxWaste))
	}
	if *pot {
		opts = append(opts, cglib.WithoutNPOT())
	}
	if *debugCats != "" {
		cglib.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		opts = append(opts, cglib.WithDebug(strings.Split(*debugCats, ",")...))
	}

	ctx, err := cglib.NewContext(memory.New(), opts...)
	if err != nil {
		log.Fatalf("Failed to create context: %v", err)
	}
	defer ctx.Close()

	tex, err := ctx.NewTextureFromFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load %s: %v", flag.Arg(0), err)
	}
	defer tex.Destroy()
	if err := tex.Allocate(); err != nil {
		log.Fatalf("Failed to allocate texture: %v", err)
	}

	fmt.Printf("%s: %dx%d %s, %d tiles\n", flag.Arg(0), tex.Width(), tex.Height(), tex.Format(), len(tex.Tiles()))
	for i, s := range tex.XSpans() {
		fmt.Printf("  x[%d] start=%d size=%d waste=%d\n", i, s.Start, s.Size, s.Waste)
	}
	for i, s := range tex.YSpans() {
		fmt.Printf("  y[%d] start=%d size=%d waste=%d\n", i, s.Start, s.Size, s.Waste)
	}

	err = tex.ForeachSubTextureInRegion(0, 0, 1, 1, func(tile driver.Texture, sub, meta [4]float64) {
		fmt.Printf("  tile %dx%d tex=(%.3f,%.3f)-(%.3f,%.3f) covers=(%.3f,%.3f)-(%.3f,%.3f)\n",
			tile.Width(), tile.Height(), sub[0], sub[1], sub[2], sub[3], meta[0], meta[1], meta[2], meta[3])
	})
	if err != nil {
		log.Fatalf("Failed to iterate tiles: %v", err)
	}

	if *dump != "" {
		if err := dumpTiles(*dump, tex.Tiles()); err != nil {
			log.Fatalf("Failed to dump tiles: %v", err)
		}
		log.Printf("Tiles written to %s", *dump)
	}

	if *wgsl {
		p := ctx.NewPipeline()
		defer p.Release()
		p.SetLayerTexture(0, tex)
		prog, err := ctx.FlushPipeline(p, pipeline.FlushOptions{})
		if err != nil {
			log.Fatalf("Failed to build program: %v", err)
		}
		fmt.Printf("\n// blending: %v, %d SPIR-V words\n%s", p.RealBlendEnabled(), len(prog.SPIRV), prog.Source)
	}
}

func dumpTiles(dir string, tiles []driver.Texture) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, tile := range tiles {
		r, ok := tile.(driver.Reader)
		if !ok {
			return fmt.Errorf("tile %d does not support readback", i)
		}
		bmp, err := bitmap.New(tile.Width(), tile.Height(), pixelformat.RGBA8888Pre)
		if err != nil {
			return err
		}
		if err := r.ReadPixels(bmp); err != nil {
			return fmt.Errorf("read tile %d: %w", i, err)
		}
		if err := bmp.SavePNG(filepath.Join(dir, fmt.Sprintf("tile%03d.png", i))); err != nil {
			return err
		}
	}
	return nil
}
