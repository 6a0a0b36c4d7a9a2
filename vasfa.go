// Package vasfa prepares game packages for the VideoAutoSplit LiveSplit
// component: it catalogs transparent mask screenshots, groups them into
// watch zones, and bundles cropped masks with a generated game profile
// and auto-splitter script into a single .vas archive.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"os"
//
//		"github.com/charmbracelet/log"
//		vasfa "github.com/phrayse/VAS-File-Architect"
//	)
//
//	func main() {
//		logger := log.New(os.Stderr)
//		architect := vasfa.New(logger)
//
//		result, err := architect.Generate(context.Background(), "./my-run")
//		if err != nil {
//			logger.Fatal("generation failed", "err", err)
//		}
//
//		logger.Info("done", "archive", result.ArchivePath, "masks", len(result.Masks))
//	}
//
// The package consists of five main components:
//
// 1. Catalog (pkg/catalog): Walks the target tree, decodes masks in parallel, and assigns unique names
// 2. Bounds (pkg/bounds): Extracts the visible-pixel bounding rectangle from each mask's alpha channel
// 3. Cluster (pkg/cluster): Groups nearby rectangles of one directory into watch zones
// 4. Generators (pkg/xmlgen, pkg/aslgen): Render the structure.xml game profile and the script.asl skeleton
// 5. Archive (pkg/archive): Crops every mask to its zone and writes the .vas bundle
//
// Features:
//
//   - Recursive cataloging with tree-wide unique mask names
//   - Alpha-channel bounding rectangle extraction with fast paths for common formats
//   - Proximity clustering with a configurable pixel tolerance
//   - PNG and WebP mask encoding
//   - Skip tracking with reasons for every excluded file
package vasfa

import (
	"context"

	"github.com/phrayse/VAS-File-Architect/pkg/archive"
	"github.com/phrayse/VAS-File-Architect/pkg/aslgen"
	"github.com/phrayse/VAS-File-Architect/pkg/catalog"
	"github.com/phrayse/VAS-File-Architect/pkg/cluster"
	"github.com/phrayse/VAS-File-Architect/pkg/processing"
	"github.com/phrayse/VAS-File-Architect/pkg/types"
	"github.com/phrayse/VAS-File-Architect/pkg/xmlgen"
)

// Version of the VAS File Architect library
const Version = "1.0.0"

// Config aggregates the configuration of every pipeline stage.
type Config struct {
	Catalog    catalog.Config
	Cluster    cluster.Config
	Processing processing.Config
	XML        xmlgen.Config
}

// DefaultConfig returns the default configuration of every stage.
func DefaultConfig() Config {
	return Config{
		Catalog:    catalog.Default(),
		Cluster:    cluster.Default(),
		Processing: processing.Default(),
		XML:        xmlgen.Default(),
	}
}

// Architect provides a high-level interface for building .vas packages.
type Architect struct {
	scanner   *catalog.Scanner
	clusterer *cluster.Clusterer
	generator *xmlgen.Generator
	archiver  *archive.Writer
	logger    types.Logger
}

// New creates an Architect with default configuration. A nil logger
// disables logging.
func New(logger types.Logger) *Architect {
	return NewWithConfig(DefaultConfig(), logger)
}

// NewWithConfig creates an Architect with custom configuration. The
// profile's mask extension follows the processing format unless set
// explicitly.
func NewWithConfig(cfg Config, logger types.Logger) *Architect {
	if logger == nil {
		logger = types.NopLogger{}
	}
	if cfg.Cluster.Logger == nil {
		cfg.Cluster.Logger = logger
	}

	processor := processing.NewWithConfig(cfg.Processing)
	if cfg.XML.MaskExtension == "" {
		cfg.XML.MaskExtension = processor.Extension()
	}

	return &Architect{
		scanner:   catalog.NewWithConfig(cfg.Catalog),
		clusterer: cluster.NewWithConfig(cfg.Cluster),
		generator: xmlgen.NewWithConfig(cfg.XML),
		archiver:  archive.New(processor, logger),
		logger:    logger,
	}
}

// Analysis contains the catalog and clustering results for a tree.
type Analysis struct {
	// Root is the absolute path of the scanned directory.
	Root string
	// Masks lists every cataloged image in traversal order.
	Masks []*types.MaskImage
	// Zones lists the watch zones in emission order.
	Zones []*types.WatchZone
	// Skipped lists the files excluded from the catalog.
	Skipped []types.SkipRecord
}

// Result extends an Analysis with the path of the written archive.
type Result struct {
	Analysis
	ArchivePath string
}

// Analyze catalogs root and clusters the masks into watch zones without
// writing anything to disk.
func (a *Architect) Analyze(ctx context.Context, root string) (*Analysis, error) {
	run := catalog.NewRun(a.logger)
	cat, err := a.scanner.Scan(ctx, run, root)
	if err != nil {
		return nil, err
	}

	zones, err := a.clusterer.Cluster(cat.Masks)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Root:    cat.Root,
		Masks:   cat.Masks,
		Zones:   zones,
		Skipped: run.Skipped,
	}, nil
}

// Generate analyzes root and writes <root>/<base>.vas containing the
// cropped masks, the auto-splitter script, and the game profile.
func (a *Architect) Generate(ctx context.Context, root string) (*Result, error) {
	analysis, err := a.Analyze(ctx, root)
	if err != nil {
		return nil, err
	}

	profile, maskNames, err := a.generator.Generate(analysis.Root, analysis.Zones)
	if err != nil {
		return nil, err
	}

	script, err := aslgen.Generate(maskNames)
	if err != nil {
		return nil, err
	}

	target, err := a.archiver.Write(ctx, analysis.Root, analysis.Masks, analysis.Zones, script, profile)
	if err != nil {
		return nil, err
	}

	return &Result{Analysis: *analysis, ArchivePath: target}, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
