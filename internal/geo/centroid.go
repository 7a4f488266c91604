package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// PolygonCentroid returns the area centroid of a country feature as (longitude, latitude).
// It reports false for absent, non-polygonal or degenerate geometry.
func PolygonCentroid(f *geojson.Feature) (orb.Point, bool) {
	if f == nil || f.Geometry == nil {
		return orb.Point{}, false
	}
	return geometryCentroid(f.Geometry)
}

func geometryCentroid(g orb.Geometry) (orb.Point, bool) {
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return orb.Point{}, false
	}

	c, area := planar.CentroidArea(g)
	if area == 0 || math.IsNaN(area) {
		return orb.Point{}, false
	}
	if math.IsNaN(c.Lon()) || math.IsNaN(c.Lat()) || math.IsInf(c.Lon(), 0) || math.IsInf(c.Lat(), 0) {
		return orb.Point{}, false
	}
	return c, true
}
