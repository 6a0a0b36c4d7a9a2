// Package types defines the shared data model of the mask pipeline: catalog
// entries, watch zones, skip records, and the logging collaborator interface.
package types

import (
	"image"
	"path"
	"path/filepath"
)

// MaskImage describes one processed mask file. Instances are created during
// the catalog scan and are immutable afterwards; the source file on disk is
// never modified.
type MaskImage struct {
	// Path is the absolute source path and the entry's identity.
	Path string
	// Name is the final display name: the filename stem, suffixed when it
	// collided with an earlier entry.
	Name string
	// Directory is the absolute path of the containing directory.
	Directory string
	// Width and Height are the source pixel dimensions.
	Width  int
	Height int
	// Bounds is the visible-pixel bounding rectangle, Min inclusive and
	// Max exclusive, always inside [0,Width)×[0,Height).
	Bounds image.Rectangle
	// Index is the entry's position in the catalog's traversal order.
	Index int
	// Renamed is true when a collision suffix was applied to Name.
	Renamed bool
}

// ArchivePath returns the slash-separated path of the archived copy of this
// mask relative to root, built from the final name and the given extension.
func (m *MaskImage) ArchivePath(root, ext string) string {
	rel, err := filepath.Rel(root, m.Directory)
	if err != nil || rel == "." {
		return m.Name + ext
	}
	return path.Join(filepath.ToSlash(rel), m.Name+ext)
}

// WatchZone groups masks from one directory whose bounding rectangles form a
// connected proximity cluster. Zones are read-only once returned by the
// clusterer.
type WatchZone struct {
	// Directory is the absolute path shared by every member.
	Directory string
	// Index is the zone's position in the emission sequence.
	Index int
	// Bounds is the union of all member bounding rectangles.
	Bounds image.Rectangle
	// Masks lists the members in traversal order.
	Masks []*MaskImage
	// Metric names the comparison metric for the downstream profile
	// generator. Empty leaves the metric unset.
	Metric string
}

// MaskNames returns the member names in order.
func (z *WatchZone) MaskNames() []string {
	names := make([]string, len(z.Masks))
	for i, m := range z.Masks {
		names[i] = m.Name
	}
	return names
}

// SkipRecord notes one file excluded from the catalog and why.
type SkipRecord struct {
	Path   string
	Reason string
	// Err holds the underlying error when one exists.
	Err error
}

// Logger is the sink for per-file and per-zone facts. The pipeline emits
// decisions and reasons; the collaborator owns the output format.
// *log.Logger from github.com/charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// NopLogger discards everything sent to it.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(msg interface{}, keyvals ...interface{}) {}

// Info implements Logger.
func (NopLogger) Info(msg interface{}, keyvals ...interface{}) {}

// Warn implements Logger.
func (NopLogger) Warn(msg interface{}, keyvals ...interface{}) {}

// Error implements Logger.
func (NopLogger) Error(msg interface{}, keyvals ...interface{}) {}
