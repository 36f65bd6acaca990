package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadiusMeters = 6_371_000.0

// Haversine returns the great-circle distance in meters between two points.
func Haversine(a, b orb.Point) float64 {
	lat1r := a.Lat() * math.Pi / 180
	lat2r := b.Lat() * math.Pi / 180
	dLat := (b.Lat() - a.Lat()) * math.Pi / 180
	dLon := (b.Lon() - a.Lon()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// EquirectangularDist returns an approximate distance in meters.
// Good enough for the tens of meters around a tunnel or bridge portal.
func EquirectangularDist(a, b orb.Point) float64 {
	x := (b.Lon() - a.Lon()) * math.Cos((a.Lat()+b.Lat())/2*math.Pi/180) * math.Pi / 180
	y := (b.Lat() - a.Lat()) * math.Pi / 180
	return math.Sqrt(x*x+y*y) * earthRadiusMeters
}

// CumulativeDistances returns the along-path distance of every point from
// the first one, in meters.
func CumulativeDistances(points []orb.Point) []float64 {
	out := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		out[i] = out[i-1] + Haversine(points[i-1], points[i])
	}
	return out
}
