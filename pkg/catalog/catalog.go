// Package catalog walks a directory tree, decodes every approved image
// in parallel, measures its visible bounds, and assigns each mask a name
// that is unique across the whole tree. Files that cannot enter the
// catalog are recorded on the run context together with the reason.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/phrayse/VAS-File-Architect/internal/system"
	"github.com/phrayse/VAS-File-Architect/pkg/bounds"
	"github.com/phrayse/VAS-File-Architect/pkg/processing"
	"github.com/phrayse/VAS-File-Architect/pkg/types"
)

// Skip reasons recorded for files that do not enter the catalog.
const (
	ReasonExtension = "extension not approved"
	ReasonFormat    = "undecodable format"
	ReasonCorrupt   = "corrupt image data"
	ReasonNoContent = "no visible content"
)

// Sentinel errors reported by a scan.
var (
	// ErrUnsupportedFormat marks files whose data matches no known
	// image format.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrCorruptImage marks files that matched a format but failed to
	// decode.
	ErrCorruptImage = errors.New("corrupt image")
	// ErrNoUsableImages is returned when a scan yields an empty catalog.
	ErrNoUsableImages = errors.New("no usable images")
)

// Config holds the settings for a catalog scan.
type Config struct {
	// Extensions lists the file extensions admitted to the scan,
	// lower case with leading dots.
	Extensions []string
	// AlphaThreshold is the alpha value above which a pixel counts as
	// visible.
	AlphaThreshold uint8
	// Workers caps the number of concurrent image decoders. Zero
	// selects a limit based on the machine.
	Workers int
}

// Default returns the default catalog configuration.
func Default() Config {
	return Config{
		Extensions: []string{".png", ".webp"},
	}
}

// Scanner builds mask catalogs from directory trees.
type Scanner struct {
	config    Config
	extractor *bounds.Extractor
	processor *processing.Processor
	extSet    map[string]struct{}
}

// New creates a scanner with the default configuration.
func New() *Scanner {
	return NewWithConfig(Default())
}

// NewWithConfig creates a scanner with a custom configuration.
func NewWithConfig(config Config) *Scanner {
	if len(config.Extensions) == 0 {
		config.Extensions = Default().Extensions
	}
	extSet := make(map[string]struct{}, len(config.Extensions))
	for _, ext := range config.Extensions {
		extSet[strings.ToLower(ext)] = struct{}{}
	}
	return &Scanner{
		config:    config,
		extractor: bounds.NewWithConfig(bounds.Config{AlphaThreshold: config.AlphaThreshold}),
		processor: processing.New(),
		extSet:    extSet,
	}
}

// Catalog is the result of a scan.
type Catalog struct {
	// Root is the absolute path of the scanned directory.
	Root string
	// Masks holds the cataloged images in traversal order.
	Masks []*types.MaskImage
}

type scanResult struct {
	width  int
	height int
	bounds image.Rectangle
	reason string
	err    error
}

// Scan walks root, catalogs every usable image, and records skipped
// files on run. Decoding and bounds extraction happen concurrently;
// names and indices are assigned afterwards in traversal order, so the
// result does not depend on worker scheduling.
func (s *Scanner) Scan(ctx context.Context, run *Run, root string) (*Catalog, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	paths, err := s.collect(run, absRoot)
	if err != nil {
		return nil, err
	}

	results := make([]scanResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(system.Workers(s.config.Workers))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = s.extract(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan of %s aborted: %w", absRoot, err)
	}

	cat := &Catalog{Root: absRoot}
	for i, path := range paths {
		res := results[i]
		if res.reason != "" {
			run.skip(path, res.reason, res.err)
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		name, renamed := run.Names.Claim(stem)
		if renamed {
			run.Logger.Info("renamed duplicate mask", "path", path, "name", name)
		} else {
			run.Logger.Debug("processed mask", "path", path, "bounds", res.bounds)
		}
		cat.Masks = append(cat.Masks, &types.MaskImage{
			Path:      path,
			Name:      name,
			Directory: filepath.Dir(path),
			Width:     res.width,
			Height:    res.height,
			Bounds:    res.bounds,
			Index:     len(cat.Masks),
			Renamed:   renamed,
		})
	}

	if len(cat.Masks) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoUsableImages, absRoot)
	}
	return cat, nil
}

// collect gathers candidate files in lexical traversal order.
func (s *Scanner) collect(run *Run, root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := s.extSet[ext]; !ok {
			run.skip(path, ReasonExtension, nil)
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return paths, nil
}

func (s *Scanner) extract(path string) scanResult {
	img, err := s.processor.LoadImage(path)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return scanResult{reason: ReasonFormat, err: fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)}
		}
		return scanResult{reason: ReasonCorrupt, err: fmt.Errorf("%w: %v", ErrCorruptImage, err)}
	}

	rect := s.extractor.VisibleBounds(img)
	if rect.Empty() {
		return scanResult{reason: ReasonNoContent}
	}

	b := img.Bounds()
	return scanResult{width: b.Dx(), height: b.Dy(), bounds: rect}
}
