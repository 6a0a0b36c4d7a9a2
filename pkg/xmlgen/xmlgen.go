// Package xmlgen renders the structure.xml game profile consumed by the
// VideoAutoSplit component. The profile lists one watch zone per mask
// cluster, each holding a watcher with the relative paths of its masks.
package xmlgen

import (
	"encoding/xml"
	"fmt"
	"path/filepath"

	"github.com/phrayse/VAS-File-Architect/pkg/catalog"
	"github.com/phrayse/VAS-File-Architect/pkg/types"
)

const (
	xsdNamespace = "http://www.w3.org/2001/XMLSchema"
	xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

	attribution = "Generated using VAS File Architect: https://github.com/phrayse/VAS-File-Architect "
	metricHelp  = "ErrorMetric options: default=PeakSignalToNoise | MeanErrorPerPixel | Absolute | StructuralDissimilarity"

	// Commented-out placeholders left for the user to fill in.
	metricPlaceholder   = "ErrorMetric></ErrorMetric"
	equalizePlaceholder = "Equalize>false</Equalize"
)

// Config holds the settings for profile generation.
type Config struct {
	// ScreenName names the capture screen in the profile.
	ScreenName string
	// ScreenWidth and ScreenHeight describe the expected capture
	// geometry in pixels.
	ScreenWidth  int
	ScreenHeight int
	// Metric, when set, is written as each zone's ErrorMetric element.
	// A zone's own metric takes precedence.
	Metric string
	// Equalize, when set, is written as each zone's Equalize element.
	Equalize *bool
	// MaskExtension is the file extension of the archived masks.
	MaskExtension string
}

// Default returns the default generation configuration.
func Default() Config {
	return Config{
		ScreenName:    "Game",
		ScreenWidth:   1280,
		ScreenHeight:  720,
		MaskExtension: ".png",
	}
}

// Generator renders game profiles.
type Generator struct {
	config Config
}

// New creates a generator with the default configuration.
func New() *Generator {
	return NewWithConfig(Default())
}

// NewWithConfig creates a generator with a custom configuration.
func NewWithConfig(config Config) *Generator {
	def := Default()
	if config.ScreenName == "" {
		config.ScreenName = def.ScreenName
	}
	if config.ScreenWidth <= 0 {
		config.ScreenWidth = def.ScreenWidth
	}
	if config.ScreenHeight <= 0 {
		config.ScreenHeight = def.ScreenHeight
	}
	if config.MaskExtension == "" {
		config.MaskExtension = def.MaskExtension
	}
	return &Generator{config: config}
}

type gameProfile struct {
	XMLName     xml.Name    `xml:"GameProfile"`
	XSD         string      `xml:"xmlns:xsd,attr"`
	XSI         string      `xml:"xmlns:xsi,attr"`
	Attribution string      `xml:",comment"`
	Name        string      `xml:"Name"`
	Screens     screensElem `xml:"Screens"`
}

type screensElem struct {
	Screen screenElem `xml:"Screen"`
}

type screenElem struct {
	Name       string         `xml:"Name"`
	Geometry   screenGeometry `xml:"Geometry"`
	WatchZones watchZonesElem `xml:"WatchZones"`
}

type screenGeometry struct {
	Width  int `xml:"Width"`
	Height int `xml:"Height"`
}

type watchZonesElem struct {
	Help  string          `xml:",comment"`
	Zones []watchZoneElem `xml:"WatchZone"`
}

type watchZoneElem struct {
	Name            string       `xml:"Name"`
	MetricComment   string       `xml:",comment"`
	Metric          string       `xml:"ErrorMetric,omitempty"`
	EqualizeComment string       `xml:",comment"`
	Equalize        *bool        `xml:"Equalize,omitempty"`
	Geometry        zoneGeometry `xml:"Geometry"`
	Watches         watchesElem  `xml:"Watches"`
}

type zoneGeometry struct {
	X      int `xml:"X"`
	Y      int `xml:"Y"`
	Width  int `xml:"Width"`
	Height int `xml:"Height"`
}

type watchesElem struct {
	Watcher watcherElem `xml:"Watcher"`
}

type watcherElem struct {
	Name   string       `xml:"Name"`
	Images []watchImage `xml:"WatchImages>WatchImage"`
}

type watchImage struct {
	FilePath string `xml:"FilePath"`
}

// Generate renders the profile document for the given zones. The profile
// name is the base of root, zone names are directory stems made unique
// across the document, and watcher names keep the raw stem. The second
// return value lists the mask names in document order for downstream
// script generation.
func (g *Generator) Generate(root string, zones []*types.WatchZone) ([]byte, []string, error) {
	profile := gameProfile{
		XSD:         xsdNamespace,
		XSI:         xsiNamespace,
		Attribution: attribution,
		Name:        filepath.Base(root),
		Screens: screensElem{
			Screen: screenElem{
				Name: g.config.ScreenName,
				Geometry: screenGeometry{
					Width:  g.config.ScreenWidth,
					Height: g.config.ScreenHeight,
				},
				WatchZones: watchZonesElem{Help: metricHelp},
			},
		},
	}

	var maskNames []string
	names := catalog.NewRegistry()
	for _, zone := range zones {
		stem := filepath.Base(zone.Directory)
		name, _ := names.Claim(stem)

		elem := watchZoneElem{
			Name:     name,
			Equalize: g.config.Equalize,
			Geometry: zoneGeometry{
				X:      zone.Bounds.Min.X,
				Y:      zone.Bounds.Min.Y,
				Width:  zone.Bounds.Dx(),
				Height: zone.Bounds.Dy(),
			},
			Watches: watchesElem{
				Watcher: watcherElem{Name: stem},
			},
		}

		elem.Metric = zone.Metric
		if elem.Metric == "" {
			elem.Metric = g.config.Metric
		}
		if elem.Metric == "" {
			elem.MetricComment = metricPlaceholder
		}
		if elem.Equalize == nil {
			elem.EqualizeComment = equalizePlaceholder
		}

		for _, mask := range zone.Masks {
			elem.Watches.Watcher.Images = append(elem.Watches.Watcher.Images, watchImage{
				FilePath: mask.ArchivePath(root, g.config.MaskExtension),
			})
			maskNames = append(maskNames, mask.Name)
		}

		profile.Screens.Screen.WatchZones.Zones = append(profile.Screens.Screen.WatchZones.Zones, elem)
	}

	body, err := xml.MarshalIndent(profile, "", "\t")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render game profile: %w", err)
	}

	doc := append([]byte(xml.Header), body...)
	doc = append(doc, '\n')
	return doc, maskNames, nil
}
