package spatial

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusKm = 6371.0 // Earth's mean radius in kilometers

	degToRad = math.Pi / 180
)

// HaversineKm calculates the great-circle distance between two points in kilometers
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// AngularRadius converts a surface distance in kilometers to the central angle it spans
func AngularRadius(km float64) s1.Angle {
	return s1.Angle(km/EarthRadiusKm) * s1.Radian
}

// LongitudeDelta returns |lon1-lon2| folded into [0, 180] degrees
func LongitudeDelta(lon1, lon2 float64) float64 {
	d := math.Abs(lon1 - lon2)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// EquirectangularDistSq returns the squared central angle (radians²) between two points
// using the equirectangular projection. The longitude delta is scaled by the cosine of
// the mean latitude, which keeps the error small for short distances.
func EquirectangularDistSq(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * degToRad
	dLon := LongitudeDelta(lon1, lon2) * degToRad
	x := dLon * math.Cos((lat1+lat2)*degToRad*0.5)
	return x*x + dLat*dLat
}

// ValidLatitude reports whether lat is within [-90, 90]
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lon is within [-180, 180]
func ValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}
