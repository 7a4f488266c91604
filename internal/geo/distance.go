// Package geo holds the coordinate math behind distance and direction hints
// and the country atlas used to hit-test map clicks.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

var compassPoints = [8]string{
	"North", "North-East", "East", "South-East",
	"South", "South-West", "West", "North-West",
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func rad2deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// DistanceKm calculates the great-circle distance between two lat/lon points in km
// (haversine formula), rounded to the nearest kilometre.
func DistanceKm(lat1, lon1, lat2, lon2 float64) int {
	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return int(math.Round(EarthRadiusKm * c))
}

// BearingDegrees returns the initial bearing from point 1 to point 2, in [0, 360).
func BearingDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := deg2rad(lat1)
	φ2 := deg2rad(lat2)
	Δλ := deg2rad(lon2 - lon1)

	y := math.Sin(Δλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	return normalizeDegrees(rad2deg(math.Atan2(y, x)))
}

// CompassDirection maps a bearing to one of eight compass labels. Each label owns a
// 45° sector centred on it, so North covers [337.5, 22.5).
func CompassDirection(bearing float64) string {
	b := normalizeDegrees(bearing)
	idx := int(math.Floor((b+22.5)/45)) % len(compassPoints)
	return compassPoints[idx]
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	// math.Mod(-1e-15, 360) + 360 rounds to 360.
	if d >= 360 {
		d = 0
	}
	return d
}
