package geodesy

import (
	"github.com/dhconnelly/rtreego"
)

// Grid is the structural contract a shift-grid implementation (e.g. the
// ntv2 subpackage's binary-grid reader) must satisfy to be registered
// with a Context (spec §4.4). It lives here, not in ntv2, so ntv2 never
// needs to import the root package — avoiding an import cycle while
// keeping grid readers pluggable.
type Grid interface {
	// Shift returns the (dlon, dlat) correction in radians at (lon, lat)
	// in radians, and false when the point falls outside the grid's
	// coverage.
	Shift(lon, lat float64) (dlon, dlat float64, ok bool)
	// Center returns the grid's coverage centroid in radians, used only
	// for the nearest-grid spatial index (FindGrid); ok is false for a
	// grid that cannot report one.
	Center() (lon, lat float64, ok bool)
}

// gridIndex is a spatial index over registered grids' coverage
// centroids, letting FindGrid answer "which grid is closest to here"
// without scanning every registered grid (SPEC_FULL §GRID REGISTRY).
// It is a convenience for callers choosing a grid to register on a
// pipeline; it is never consulted by an operator kernel.
type gridIndex struct {
	tree    *rtreego.Rtree
	byPoint map[*gridPoint]string
}

type gridPoint struct {
	lon, lat float64
}

const gridPointEpsilon = 1e-9

func (p *gridPoint) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{p.lon, p.lat},
		[]float64{gridPointEpsilon, gridPointEpsilon},
	)
	return rect
}

func newGridIndex() *gridIndex {
	return &gridIndex{
		tree:    rtreego.NewTree(2, 25, 50),
		byPoint: map[*gridPoint]string{},
	}
}

func (idx *gridIndex) insert(key string, lon, lat float64) {
	p := &gridPoint{lon: lon, lat: lat}
	idx.byPoint[p] = key
	idx.tree.Insert(p)
}

func (idx *gridIndex) nearest(lon, lat float64) (string, bool) {
	if idx.tree.Size() == 0 {
		return "", false
	}
	results := idx.tree.NearestNeighbors(1, rtreego.Point{lon, lat})
	if len(results) == 0 || results[0] == nil {
		return "", false
	}
	p, ok := results[0].(*gridPoint)
	if !ok {
		return "", false
	}
	key, ok := idx.byPoint[p]
	return key, ok
}
