package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongitudeDelta(t *testing.T) {
	tests := []struct {
		name     string
		lon1     float64
		lon2     float64
		expected float64
	}{
		{"same", 10, 10, 0},
		{"simple", 10, 20, 10},
		{"antimeridian", 179, -179, 2},
		{"antimeridian reversed", -170, 175, 15},
		{"opposite", -90, 90, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, LongitudeDelta(tt.lon1, tt.lon2), 1e-9)
		})
	}
}

func TestCircleContainsNearbyPoint(t *testing.T) {
	c := NewCircle(50.8, 6.1, 50)

	// Aachen is about 3 km from the center
	assert.True(t, c.Contains(50.775, 6.08333))
	// Abee, Canada
	assert.False(t, c.Contains(54.21667, -113))
}

func TestCircleLatitudeBand(t *testing.T) {
	c := NewCircle(0, 0, EarthRadiusKm*degToRad) // one degree
	assert.True(t, c.InLatitudeBand(0.99))
	assert.False(t, c.InLatitudeBand(1.01))
	assert.False(t, c.InLatitudeBand(-1.01))
	assert.InDelta(t, degToRad*degToRad, c.MaxDistSq(), 1e-12)
}

func TestCircleAcrossAntimeridian(t *testing.T) {
	c := NewCircle(0, 179.9, 100)
	assert.True(t, c.Contains(0, -179.8))
	assert.False(t, c.Contains(0, -178))
}

func TestEquirectangularCloseToHaversine(t *testing.T) {
	points := [][4]float64{
		{50.8, 6.1, 50.775, 6.08333},
		{48.85, 2.35, 51.5, -0.12},
		{-33.9, 151.2, -37.8, 144.9},
		{64.1, -21.9, 60.4, 5.3}, // Reykjavik to Bergen
	}

	for _, p := range points {
		approx := EquirectangularDistSq(p[0], p[1], p[2], p[3])
		exact := HaversineKm(p[0], p[1], p[2], p[3]) / EarthRadiusKm
		require.Greater(t, exact, 0.0)
		// Squared angles agree within 2% up to ~1500 km
		assert.InEpsilon(t, exact*exact, approx, 0.02)
	}
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidLatitude(90))
	assert.True(t, ValidLatitude(-90))
	assert.False(t, ValidLatitude(90.0001))
	assert.True(t, ValidLongitude(-180))
	assert.False(t, ValidLongitude(180.5))
}
