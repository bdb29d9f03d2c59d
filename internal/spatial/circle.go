package spatial

// Circle is a search area around a center point. Containment is tested with a
// latitude band first and the equirectangular distance second.
type Circle struct {
	Lat      float64 // Degrees
	Lon      float64 // Degrees
	RadiusKm float64

	latMin    float64
	latMax    float64
	maxDistSq float64
}

// NewCircle builds a Circle. Callers validate the center and radius beforehand.
func NewCircle(lat, lon, radiusKm float64) Circle {
	angle := AngularRadius(radiusKm)
	delta := angle.Degrees()
	return Circle{
		Lat:       lat,
		Lon:       lon,
		RadiusKm:  radiusKm,
		latMin:    lat - delta,
		latMax:    lat + delta,
		maxDistSq: angle.Radians() * angle.Radians(),
	}
}

// MaxDistSq is the squared angular radius in radians²
func (c Circle) MaxDistSq() float64 {
	return c.maxDistSq
}

// InLatitudeBand is the cheap pre-filter: no trigonometry
func (c Circle) InLatitudeBand(lat float64) bool {
	return lat >= c.latMin && lat <= c.latMax
}

// Contains reports whether the point lies within the circle
func (c Circle) Contains(lat, lon float64) bool {
	if !c.InLatitudeBand(lat) {
		return false
	}
	return EquirectangularDistSq(c.Lat, c.Lon, lat, lon) <= c.maxDistSq
}
