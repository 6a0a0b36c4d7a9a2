// Package cluster groups cataloged masks into watch zones. Masks in the
// same directory whose visible bounds lie within a configurable distance
// of one another share a zone, and the zone covers the union of its
// members' bounds. Masks from different directories never share a zone.
package cluster

import (
	"errors"
	"image"

	"github.com/phrayse/VAS-File-Architect/pkg/types"
)

// DefaultProximity is the default link distance in pixels.
const DefaultProximity = 10

// ErrEmptyDirectory is returned when there are no masks to cluster.
var ErrEmptyDirectory = errors.New("no images to cluster")

// Config holds the settings for clustering.
type Config struct {
	// Proximity is the largest gap in pixels between two rectangles
	// that still joins them into one zone. Zero joins only rectangles
	// that overlap or touch.
	Proximity int
	// MergeIdentical links masks whose bounds are exactly equal.
	// By default identical rectangles form separate zones; they can
	// still meet in one zone through a third rectangle near both.
	MergeIdentical bool
	// Metric is recorded on each zone as its comparison metric.
	Metric string
	// Logger receives a line per created zone. Nil disables logging.
	Logger types.Logger
}

// Default returns the default clustering configuration.
func Default() Config {
	return Config{Proximity: DefaultProximity}
}

// Clusterer groups masks into watch zones.
type Clusterer struct {
	config Config
	logger types.Logger
}

// New creates a clusterer with the default configuration.
func New() *Clusterer {
	return NewWithConfig(Default())
}

// NewWithConfig creates a clusterer with a custom configuration.
func NewWithConfig(config Config) *Clusterer {
	if config.Proximity < 0 {
		config.Proximity = 0
	}
	logger := config.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Clusterer{config: config, logger: logger}
}

// Cluster groups masks into watch zones. Zones are ordered by their
// first member's catalog position, so the result is deterministic for
// a given mask order.
func (c *Clusterer) Cluster(masks []*types.MaskImage) ([]*types.WatchZone, error) {
	if len(masks) == 0 {
		return nil, ErrEmptyDirectory
	}

	var order []string
	byDir := make(map[string][]*types.MaskImage)
	for _, mask := range masks {
		if _, ok := byDir[mask.Directory]; !ok {
			order = append(order, mask.Directory)
		}
		byDir[mask.Directory] = append(byDir[mask.Directory], mask)
	}

	var zones []*types.WatchZone
	for _, dir := range order {
		zones = c.clusterDirectory(dir, byDir[dir], zones)
	}
	return zones, nil
}

func (c *Clusterer) clusterDirectory(dir string, masks []*types.MaskImage, zones []*types.WatchZone) []*types.WatchZone {
	uf := newUnionFind(len(masks))
	for i := 0; i < len(masks); i++ {
		for j := i + 1; j < len(masks); j++ {
			if c.linked(masks[i].Bounds, masks[j].Bounds) {
				uf.union(i, j)
			}
		}
	}

	start := len(zones)
	groups := make(map[int]*types.WatchZone)
	for i, mask := range masks {
		root := uf.find(i)
		zone, ok := groups[root]
		if !ok {
			zone = &types.WatchZone{
				Directory: dir,
				Index:     len(zones),
				Bounds:    mask.Bounds,
				Metric:    c.config.Metric,
			}
			groups[root] = zone
			zones = append(zones, zone)
		}
		zone.Bounds = zone.Bounds.Union(mask.Bounds)
		zone.Masks = append(zone.Masks, mask)
	}

	for _, zone := range zones[start:] {
		c.logger.Debug("watchzone created", "directory", dir, "index", zone.Index, "bounds", zone.Bounds, "masks", len(zone.Masks))
	}
	return zones
}

// linked reports whether two visible-bounds rectangles belong in the
// same zone. The distance between rectangles is the Euclidean length of
// the per-axis gaps, which is zero for overlapping or touching spans.
func (c *Clusterer) linked(a, b image.Rectangle) bool {
	if a == b {
		return c.config.MergeIdentical
	}
	dx := gap(a.Min.X, a.Max.X, b.Min.X, b.Max.X)
	dy := gap(a.Min.Y, a.Max.Y, b.Min.Y, b.Max.Y)
	return dx*dx+dy*dy <= c.config.Proximity*c.config.Proximity
}

// gap returns the distance between two spans on one axis, zero when
// they overlap or touch.
func gap(aMin, aMax, bMin, bMax int) int {
	if d := bMin - aMax; d > 0 {
		return d
	}
	if d := aMin - bMax; d > 0 {
		return d
	}
	return 0
}

type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	size := make([]int, n)
	for i := range parent {
		parent[i] = i
		size[i] = 1
	}
	return &unionFind{parent: parent, size: size}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
}
