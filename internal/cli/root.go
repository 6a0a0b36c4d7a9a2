// Package cli implements the vasfa command-line interface.
//
// The command takes a run directory (or opens an interactive picker),
// analyzes the mask images inside it, and writes the .vas package next
// to them. Configuration comes from an optional YAML file with flag
// overrides on top, and the run log goes to vasfa.log inside the target
// directory.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	vasfa "github.com/phrayse/VAS-File-Architect"
	"github.com/phrayse/VAS-File-Architect/internal/config"
	"github.com/phrayse/VAS-File-Architect/internal/utils"
	"github.com/phrayse/VAS-File-Architect/pkg/catalog"
	"github.com/phrayse/VAS-File-Architect/pkg/cluster"
	"github.com/phrayse/VAS-File-Architect/pkg/processing"
	"github.com/phrayse/VAS-File-Architect/pkg/types"
	"github.com/phrayse/VAS-File-Architect/pkg/xmlgen"
)

type runFlags struct {
	configPath string
	verbose    bool
	tolerance  int
	workers    int
	format     string
	dryRun     bool
}

// Execute runs the vasfa CLI and returns an error if the run fails.
func Execute(ctx context.Context) error {
	flags := &runFlags{}

	root := &cobra.Command{
		Use:   "vasfa [directory]",
		Short: "VAS File Architect prepares VideoAutoSplit game packages",
		Long: `VAS File Architect turns a directory tree of transparent mask
screenshots into a VideoAutoSplit game package: it measures each mask's
visible bounds, groups nearby masks into watch zones, and writes a .vas
archive containing the cropped masks, a structure.xml game profile, and
a script.asl skeleton.

Without a directory argument an interactive picker opens.

Examples:
  vasfa ./my-run                # build my-run/my-run.vas
  vasfa --dry-run ./my-run      # report zones without writing anything
  vasfa -t 25 ./my-run          # widen the clustering distance`,
		Version:       vasfa.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, flags, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return run(cmd.Context(), args, flags, cfg)
		},
	}

	root.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to a YAML config file")
	root.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().IntVarP(&flags.tolerance, "tolerance", "t", cluster.DefaultProximity, "pixel distance that still joins two masks into one watch zone")
	root.Flags().IntVar(&flags.workers, "workers", 0, "number of concurrent image decoders (0 = auto)")
	root.Flags().StringVar(&flags.format, "format", "", "mask encoding inside the archive (png or webp)")
	root.Flags().BoolVar(&flags.dryRun, "dry-run", false, "analyze and report without writing anything")

	return root.ExecuteContext(ctx)
}

// loadConfig reads the config file named by the flag, then the default
// location, then falls back to built-in defaults.
func loadConfig(flags *runFlags) (*config.Config, error) {
	if flags.configPath != "" {
		return config.LoadFromFile(flags.configPath)
	}
	if path := config.GetConfigPath(); utils.FileExists(path) {
		return config.LoadFromFile(path)
	}
	return config.Default(), nil
}

// applyFlagOverrides lets explicitly set flags win over the config file.
func applyFlagOverrides(cmd *cobra.Command, flags *runFlags, cfg *config.Config) {
	if cmd.Flags().Changed("tolerance") {
		cfg.Cluster.Proximity = flags.tolerance
	}
	if cmd.Flags().Changed("workers") {
		cfg.Scan.Workers = flags.workers
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = flags.format
	}
}

func run(ctx context.Context, args []string, flags *runFlags, cfg *config.Config) error {
	var dir string
	if len(args) == 1 {
		dir = args[0]
	} else {
		picked, err := pickDirectory(".")
		if err != nil {
			return err
		}
		dir = picked
	}
	if !utils.DirExists(dir) {
		return fmt.Errorf("directory %s does not exist", dir)
	}

	level := log.InfoLevel
	if flags.verbose {
		level = log.DebugLevel
	}
	logger, closeLog := openRunLogger(dir, level, flags.dryRun)
	defer closeLog()

	architect := vasfa.NewWithConfig(buildConfig(cfg), logger)

	if flags.dryRun {
		analysis, err := architect.Analyze(ctx, dir)
		if err != nil {
			return err
		}
		printAnalysis(analysis)
		return nil
	}

	result, err := architect.Generate(ctx, dir)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

// buildConfig maps the file configuration onto the pipeline stages.
func buildConfig(cfg *config.Config) vasfa.Config {
	return vasfa.Config{
		Catalog: catalog.Config{
			Extensions:     cfg.Scan.Extensions,
			AlphaThreshold: cfg.Scan.AlphaThreshold,
			Workers:        cfg.Scan.Workers,
		},
		Cluster: cluster.Config{
			Proximity:      cfg.Cluster.Proximity,
			MergeIdentical: cfg.Cluster.MergeIdentical,
		},
		Processing: processing.Config{
			Format:   cfg.Output.Format,
			Quality:  cfg.Output.Quality,
			Lossless: cfg.Output.Lossless,
		},
		XML: xmlgen.Config{
			ScreenName:   cfg.Profile.ScreenName,
			ScreenWidth:  cfg.Profile.ScreenWidth,
			ScreenHeight: cfg.Profile.ScreenHeight,
			Metric:       cfg.Profile.ErrorMetric,
			Equalize:     cfg.Profile.Equalize,
		},
	}
}

func printResult(result *vasfa.Result) {
	printSuccess("VAS archive created successfully.")
	printFile(result.ArchivePath)
	printKeyValue("Masks", strconv.Itoa(len(result.Masks)))
	printKeyValue("Zones", strconv.Itoa(len(result.Zones)))
	if info, err := os.Stat(result.ArchivePath); err == nil {
		printKeyValue("Size", utils.FormatFileSize(info.Size()))
	}
	printSkipped(result.Skipped)
}

func printAnalysis(analysis *vasfa.Analysis) {
	printInfo("Dry run; nothing written.")
	printKeyValue("Masks", strconv.Itoa(len(analysis.Masks)))
	printKeyValue("Zones", strconv.Itoa(len(analysis.Zones)))
	for _, zone := range analysis.Zones {
		printDetail("%s  (%d,%d) %dx%d  %d mask(s)",
			filepath.Base(zone.Directory),
			zone.Bounds.Min.X, zone.Bounds.Min.Y,
			zone.Bounds.Dx(), zone.Bounds.Dy(),
			len(zone.Masks))
	}
	printSkipped(analysis.Skipped)
}

func printSkipped(skipped []types.SkipRecord) {
	if len(skipped) == 0 {
		return
	}
	printNewline()
	printWarning("Skipped %d file(s):", len(skipped))
	for _, rec := range skipped {
		printDetail("%s (%s)", rec.Path, rec.Reason)
	}
}
