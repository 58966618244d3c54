package bitmap

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/cglib/pixelformat"
)

// Load decodes an image file into a bitmap.
// Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP.
func Load(path string) (*Bitmap, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("bitmap: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode decodes an image from r, auto-detecting the format.
func Decode(r io.Reader) (*Bitmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("bitmap: decode: %w", err)
	}
	return FromImage(img), nil
}

// FromImage copies img into a new bitmap. *image.RGBA sources keep their
// premultiplied pixels as RGBA8888Pre; everything else becomes straight
// RGBA8888.
func FromImage(img image.Image) *Bitmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.RGBA:
		b, _ := New(w, h, pixelformat.RGBA8888Pre)
		for y := 0; y < h; y++ {
			copy(b.Row(y), src.Pix[y*src.Stride:y*src.Stride+w*4])
		}
		return b
	case *image.NRGBA:
		b, _ := New(w, h, pixelformat.RGBA8888)
		for y := 0; y < h; y++ {
			copy(b.Row(y), src.Pix[y*src.Stride:y*src.Stride+w*4])
		}
		return b
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
	b, _ := NewForData(dst.Pix, w, h, pixelformat.RGBA8888, dst.Stride)
	return b
}

// ToImage returns b as a standard image. Formats other than the 8-bit RGBA
// family are converted first.
func (b *Bitmap) ToImage() (image.Image, error) {
	src := b
	if b.format != pixelformat.RGBA8888 && b.format != pixelformat.RGBA8888Pre {
		var err error
		if src, err = b.Convert(pixelformat.RGBA8888); err != nil {
			return nil, err
		}
	}
	pix := make([]byte, src.width*src.height*4)
	for y := 0; y < src.height; y++ {
		copy(pix[y*src.width*4:], src.Row(y))
	}
	r := image.Rect(0, 0, src.width, src.height)
	if src.format == pixelformat.RGBA8888Pre {
		return &image.RGBA{Pix: pix, Stride: src.width * 4, Rect: r}, nil
	}
	return &image.NRGBA{Pix: pix, Stride: src.width * 4, Rect: r}, nil
}

// EncodePNG writes b to w as PNG.
func (b *Bitmap) EncodePNG(w io.Writer) error {
	img, err := b.ToImage()
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("bitmap: encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes b to path as PNG.
func (b *Bitmap) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("bitmap: create file: %w", err)
	}
	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
