// Package bounds computes the minimal bounding rectangle of visible pixels
// in a decoded image.
//
// A pixel counts as visible when its alpha value exceeds the configured
// threshold. Images without an alpha channel (JPEG's YCbCr, grayscale, CMYK)
// are treated as fully opaque and yield their full bounds.
package bounds

import "image"

// Config controls visibility detection.
type Config struct {
	// AlphaThreshold is the alpha value a pixel must exceed to count as
	// visible. Zero means any non-transparent pixel qualifies.
	AlphaThreshold uint8
}

// Default returns the default extraction configuration.
func Default() Config {
	return Config{AlphaThreshold: 0}
}

// Extractor scans decoded images for their visible-pixel bounding rectangle.
type Extractor struct {
	config Config
}

// New creates an Extractor with default configuration.
func New() *Extractor {
	return NewWithConfig(Default())
}

// NewWithConfig creates an Extractor with custom configuration.
func NewWithConfig(cfg Config) *Extractor {
	return &Extractor{config: cfg}
}

// VisibleBounds returns the smallest rectangle containing every visible
// pixel of img, in the image's coordinate space. The zero rectangle is
// returned when no pixel qualifies. The scan is a pure function over the
// pixel data and costs O(width × height).
func (e *Extractor) VisibleBounds(img image.Image) image.Rectangle {
	switch im := img.(type) {
	case *image.NRGBA:
		return scanInterleaved(im.Pix, im.Stride, im.Rect, e.config.AlphaThreshold)
	case *image.RGBA:
		return scanInterleaved(im.Pix, im.Stride, im.Rect, e.config.AlphaThreshold)
	case *image.NYCbCrA:
		return scanPlanar(im.A, im.AStride, im.Rect, e.config.AlphaThreshold)
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		// No alpha channel: fully opaque.
		if e.config.AlphaThreshold == 255 {
			return image.Rectangle{}
		}
		return img.Bounds()
	default:
		return e.scanGeneric(img)
	}
}

// scanInterleaved walks 4-byte-per-pixel data with the alpha byte at offset
// 3, covering both NRGBA and RGBA layouts. Each row is searched from the
// left for the first visible pixel and from the right for the last, so rows
// inside an already known horizontal extent finish early.
func scanInterleaved(pix []uint8, stride int, rect image.Rectangle, threshold uint8) image.Rectangle {
	w, h := rect.Dx(), rect.Dy()
	minX, maxX := w, -1
	minY, maxY := -1, -1

	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+4*w]
		first := -1
		for x := 0; x < w; x++ {
			if row[4*x+3] > threshold {
				first = x
				break
			}
		}
		if first < 0 {
			continue
		}
		last := first
		for x := w - 1; x > first; x-- {
			if row[4*x+3] > threshold {
				last = x
				break
			}
		}
		if minY < 0 {
			minY = y
		}
		maxY = y
		if first < minX {
			minX = first
		}
		if last > maxX {
			maxX = last
		}
	}

	if maxY < 0 {
		return image.Rectangle{}
	}
	return image.Rect(rect.Min.X+minX, rect.Min.Y+minY, rect.Min.X+maxX+1, rect.Min.Y+maxY+1)
}

// scanPlanar walks a standalone alpha plane, one byte per pixel.
func scanPlanar(alpha []uint8, stride int, rect image.Rectangle, threshold uint8) image.Rectangle {
	w, h := rect.Dx(), rect.Dy()
	minX, maxX := w, -1
	minY, maxY := -1, -1

	for y := 0; y < h; y++ {
		row := alpha[y*stride : y*stride+w]
		first := -1
		for x := 0; x < w; x++ {
			if row[x] > threshold {
				first = x
				break
			}
		}
		if first < 0 {
			continue
		}
		last := first
		for x := w - 1; x > first; x-- {
			if row[x] > threshold {
				last = x
				break
			}
		}
		if minY < 0 {
			minY = y
		}
		maxY = y
		if first < minX {
			minX = first
		}
		if last > maxX {
			maxX = last
		}
	}

	if maxY < 0 {
		return image.Rectangle{}
	}
	return image.Rect(rect.Min.X+minX, rect.Min.Y+minY, rect.Min.X+maxX+1, rect.Min.Y+maxY+1)
}

// scanGeneric handles every other image type through the color interface.
// RGBA() reports 16-bit channels, so the 8-bit threshold is scaled up.
func (e *Extractor) scanGeneric(img image.Image) image.Rectangle {
	b := img.Bounds()
	threshold := uint32(e.config.AlphaThreshold) * 0x101
	minX, maxX := b.Max.X, b.Min.X-1
	minY, maxY := b.Max.Y, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > threshold {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				maxY = y
			}
		}
	}

	if maxX < b.Min.X {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
