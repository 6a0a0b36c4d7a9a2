// Package processing handles mask image loading, cropping, and encoding for
// archive output.
package processing

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Output formats for encoded masks.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Config controls mask output encoding.
type Config struct {
	// Format selects the archive encoding for cropped masks, png or webp.
	Format string
	// Quality applies to lossy WebP output, in the 1-100 range.
	Quality int
	// Lossless forces lossless WebP encoding. PNG is always lossless.
	Lossless bool
}

// Default returns the default processing configuration.
func Default() Config {
	return Config{Format: FormatPNG, Quality: 90, Lossless: true}
}

// Processor loads, crops, and encodes mask images.
type Processor struct {
	config Config
}

// New creates a Processor with default configuration.
func New() *Processor {
	return NewWithConfig(Default())
}

// NewWithConfig creates a Processor with custom configuration.
func NewWithConfig(cfg Config) *Processor {
	if cfg.Format == "" {
		cfg.Format = FormatPNG
	}
	if cfg.Quality < 1 || cfg.Quality > 100 {
		cfg.Quality = Default().Quality
	}
	return &Processor{config: cfg}
}

// Extension returns the file extension, with leading dot, of encoded masks.
func (p *Processor) Extension() string {
	if strings.EqualFold(p.config.Format, FormatWebP) {
		return ".webp"
	}
	return ".png"
}

// LoadImage loads an image from a file path. Formats registered with the
// standard decoder are tried first, then an explicit WebP decode. The error
// from the first attempt is preserved so callers can classify it.
func (p *Processor) LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err == nil {
		return img, nil
	}

	f, ferr := os.Open(path)
	if ferr != nil {
		return nil, ferr
	}
	defer f.Close()

	if img, werr := webp.Decode(f); werr == nil {
		return img, nil
	}
	return nil, err
}

// CropToZone returns a zone-sized copy of img. Every mask of a zone is
// cropped to the same zone rectangle so the archived set shares geometry;
// zone pixels outside the source image stay transparent.
func (p *Processor) CropToZone(img image.Image, zone image.Rectangle) *image.NRGBA {
	if zone.In(img.Bounds()) {
		return imaging.Crop(img, zone)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, zone.Dx(), zone.Dy()))
	region := zone.Intersect(img.Bounds())
	if !region.Empty() {
		draw.Draw(dst, region.Sub(zone.Min), img, region.Min, draw.Src)
	}
	return dst
}

// EncodeMask writes img to w in the configured output format.
func (p *Processor) EncodeMask(w io.Writer, img image.Image) error {
	switch strings.ToLower(p.config.Format) {
	case FormatWebP:
		opts := &webp.Options{Lossless: p.config.Lossless, Quality: float32(p.config.Quality)}
		return webp.Encode(w, img, opts)
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	default:
		return fmt.Errorf("unsupported mask format: %s", p.config.Format)
	}
}
