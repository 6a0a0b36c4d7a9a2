package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Scan    ScanConfig    `yaml:"scan"`
	Cluster ClusterConfig `yaml:"cluster"`
	Profile ProfileConfig `yaml:"profile"`
	Output  OutputConfig  `yaml:"output"`
}

// ScanConfig holds configuration for the catalog scan
type ScanConfig struct {
	Extensions     []string `yaml:"extensions"`
	AlphaThreshold uint8    `yaml:"alpha_threshold"`
	Workers        int      `yaml:"workers"`
}

// ClusterConfig holds configuration for watch zone clustering
type ClusterConfig struct {
	Proximity      int  `yaml:"proximity"`
	MergeIdentical bool `yaml:"merge_identical"`
}

// ProfileConfig holds configuration for game profile generation
type ProfileConfig struct {
	ScreenName   string `yaml:"screen_name"`
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	ErrorMetric  string `yaml:"error_metric"`
	Equalize     *bool  `yaml:"equalize"`
}

// OutputConfig holds configuration for mask encoding
type OutputConfig struct {
	Format   string `yaml:"format"`
	Quality  int    `yaml:"quality"`
	Lossless bool   `yaml:"lossless"`
}

// errorMetrics lists the metric names VideoAutoSplit understands.
var errorMetrics = []string{
	"PeakSignalToNoise",
	"MeanErrorPerPixel",
	"Absolute",
	"StructuralDissimilarity",
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions:     []string{".png", ".webp"},
			AlphaThreshold: 0,
			Workers:        0,
		},
		Cluster: ClusterConfig{
			Proximity:      10,
			MergeIdentical: false,
		},
		Profile: ProfileConfig{
			ScreenName:   "Game",
			ScreenWidth:  1280,
			ScreenHeight: 720,
			ErrorMetric:  "",
		},
		Output: OutputConfig{
			Format:   "png",
			Quality:  90,
			Lossless: true,
		},
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Scan.Extensions) == 0 {
		return fmt.Errorf("scan.extensions cannot be empty")
	}
	for _, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("scan.extensions entries must start with a dot, got %q", ext)
		}
	}

	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers must not be negative")
	}

	if c.Cluster.Proximity < 0 {
		return fmt.Errorf("cluster.proximity must not be negative")
	}

	if c.Profile.ScreenWidth < 1 || c.Profile.ScreenHeight < 1 {
		return fmt.Errorf("profile screen dimensions must be positive")
	}

	if c.Profile.ErrorMetric != "" {
		valid := false
		for _, metric := range errorMetrics {
			if c.Profile.ErrorMetric == metric {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("profile.error_metric must be one of %s", strings.Join(errorMetrics, ", "))
		}
	}

	if c.Output.Format != "png" && c.Output.Format != "webp" {
		return fmt.Errorf("output.format must be png or webp")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(home, ".config", "vasfa", "config.yaml")
}
