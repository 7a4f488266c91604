package geo

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

var ErrNoCountries = errors.New("map has no country features")

type country struct {
	name     string
	geometry orb.Geometry
	bound    orb.Bound
	centroid orb.Point
	hasPoint bool
}

// Atlas indexes country polygons by name for hit-testing map clicks and
// looking up representative points.
type Atlas struct {
	countries []country
	byName    map[string]int
}

// LoadAtlas reads a GeoJSON FeatureCollection of countries. Features are keyed by
// their "name" property. A missing file yields an empty atlas.
func LoadAtlas(path string) (*Atlas, error) {
	if path == "" {
		return NewAtlas(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewAtlas(nil)
		}
		return nil, fmt.Errorf("read map: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}

	a, err := NewAtlas(fc)
	if err != nil {
		return nil, err
	}
	if a.Len() == 0 {
		return nil, ErrNoCountries
	}
	return a, nil
}

// NewAtlas builds an atlas from decoded features. Features without a name or
// without polygonal geometry are skipped.
func NewAtlas(fc *geojson.FeatureCollection) (*Atlas, error) {
	a := &Atlas{byName: make(map[string]int)}
	if fc == nil {
		return a, nil
	}

	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		name := strings.TrimSpace(f.Properties.MustString("name", ""))
		if name == "" {
			continue
		}

		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}

		key := normalizeName(name)
		if _, dup := a.byName[key]; dup {
			continue
		}

		c := country{
			name:     name,
			geometry: f.Geometry,
			bound:    f.Geometry.Bound(),
		}
		c.centroid, c.hasPoint = PolygonCentroid(f)

		a.byName[key] = len(a.countries)
		a.countries = append(a.countries, c)
	}

	return a, nil
}

// Len returns the number of indexed countries.
func (a *Atlas) Len() int {
	if a == nil {
		return 0
	}
	return len(a.countries)
}

// Locate returns the name of the country containing the point, if any.
func (a *Atlas) Locate(p orb.Point) (string, bool) {
	if a == nil {
		return "", false
	}
	for _, c := range a.countries {
		if !c.bound.Contains(p) {
			continue
		}
		if contains(c.geometry, p) {
			return c.name, true
		}
	}
	return "", false
}

// Lookup resolves a case-insensitive country name to the atlas spelling.
func (a *Atlas) Lookup(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	i, ok := a.byName[normalizeName(name)]
	if !ok {
		return "", false
	}
	return a.countries[i].name, true
}

// Centroid returns the representative point of a country as (longitude, latitude).
func (a *Atlas) Centroid(name string) (orb.Point, bool) {
	if a == nil {
		return orb.Point{}, false
	}
	i, ok := a.byName[normalizeName(name)]
	if !ok || !a.countries[i].hasPoint {
		return orb.Point{}, false
	}
	return a.countries[i].centroid, true
}

// Names returns every country name in load order.
func (a *Atlas) Names() []string {
	if a == nil {
		return nil
	}
	out := make([]string, 0, len(a.countries))
	for _, c := range a.countries {
		out = append(out, c.name)
	}
	return out
}

func contains(g orb.Geometry, p orb.Point) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, p)
	}
	return false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
