// Package archive assembles the final .vas bundle: every mask cropped to
// its zone's rectangle, the auto-splitter script, and the game profile.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/phrayse/VAS-File-Architect/pkg/processing"
	"github.com/phrayse/VAS-File-Architect/pkg/types"
)

// Fixed entry names inside the archive.
const (
	ScriptName  = "script.asl"
	ProfileName = "structure.xml"
)

// Writer builds .vas archives.
type Writer struct {
	processor *processing.Processor
	logger    types.Logger
}

// New creates a writer that crops and encodes masks with processor.
// A nil processor selects the default; a nil logger disables logging.
func New(processor *processing.Processor, logger types.Logger) *Writer {
	if processor == nil {
		processor = processing.New()
	}
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Writer{processor: processor, logger: logger}
}

// Write assembles <root>/<base>.vas and returns its path. Masks are
// written first in catalog order, each cropped to its zone's rectangle,
// followed by the script and the profile. A partial archive is removed
// on failure.
func (w *Writer) Write(ctx context.Context, root string, masks []*types.MaskImage, zones []*types.WatchZone, script, profile []byte) (string, error) {
	target := filepath.Join(root, filepath.Base(root)+".vas")

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}
	success := false
	defer func() {
		f.Close()
		if !success {
			os.Remove(target)
		}
	}()

	zoneOf := make(map[*types.MaskImage]image.Rectangle, len(masks))
	for _, zone := range zones {
		for _, mask := range zone.Masks {
			zoneOf[mask] = zone.Bounds
		}
	}

	zw := zip.NewWriter(f)
	for _, mask := range masks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		crop, ok := zoneOf[mask]
		if !ok {
			crop = mask.Bounds
		}
		if err := w.writeMask(zw, root, mask, crop); err != nil {
			return "", err
		}
	}

	if err := writeEntry(zw, ScriptName, script); err != nil {
		return "", err
	}
	if err := writeEntry(zw, ProfileName, profile); err != nil {
		return "", err
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close archive: %w", err)
	}

	success = true
	w.logger.Info("archive written", "path", target, "masks", len(masks))
	return target, nil
}

func (w *Writer) writeMask(zw *zip.Writer, root string, mask *types.MaskImage, crop image.Rectangle) error {
	img, err := w.processor.LoadImage(mask.Path)
	if err != nil {
		return fmt.Errorf("failed to reload %s: %w", mask.Path, err)
	}

	entry, err := zw.Create(mask.ArchivePath(root, w.processor.Extension()))
	if err != nil {
		return fmt.Errorf("failed to create archive entry for %s: %w", mask.Name, err)
	}
	if err := w.processor.EncodeMask(entry, w.processor.CropToZone(img, crop)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", mask.Name, err)
	}

	w.logger.Debug("archived mask", "name", mask.Name, "crop", crop)
	return nil
}

func writeEntry(zw *zip.Writer, name string, content []byte) error {
	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := entry.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
