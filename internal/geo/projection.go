package geo

import "math"

// TileSize is the edge length of a Web-Mercator map tile in pixels.
const TileSize = 256

// LatLonToPixels converts latitude and longitude to Web-Mercator pixel coordinates at a given zoom level.
func LatLonToPixels(lat, lon float64, zoom int) (float64, float64) {
	scale := math.Pow(2, float64(zoom))
	x := (lon + 180.0) / 360.0 * scale * TileSize

	latRad := lat * math.Pi / 180.0
	y := (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * scale * TileSize

	return x, y
}

// PixelsToLatLon converts Web-Mercator pixel coordinates at a given zoom level to latitude and longitude.
func PixelsToLatLon(x, y float64, zoom int) (float64, float64) {
	scale := math.Pow(2, float64(zoom))
	lon := (x / (scale * TileSize) * 360.0) - 180.0

	n := math.Pi - 2.0*math.Pi*y/(scale*TileSize)
	lat := 180.0 / math.Pi * math.Atan(0.5*(math.Exp(n)-math.Exp(-n)))

	return lat, lon
}
