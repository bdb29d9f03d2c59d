package search

import (
	"fmt"
	"math"
	"testing"

	"github.com/jengzang/meteorites-backend-go/internal/apperr"
	"github.com/jengzang/meteorites-backend-go/internal/models"
	"github.com/jengzang/meteorites-backend-go/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLimits = Limits{MaxResults: 500, MinRadius: 1, MaxRadius: 2500}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }
func ip(v int) *int          { return &v }

func examples() []*models.Meteorite {
	return []*models.Meteorite{
		{ID: "1", Name: "Aachen", RecClass: "L5", Mass: f64(21), Fall: "Fell", Year: ip(1880), Latitude: f64(50.775), Longitude: f64(6.08333)},
		{ID: "2", Name: "Abee", RecClass: "EH4", Mass: f64(107000), Fall: "Fell", Year: ip(1952), Latitude: f64(54.21667), Longitude: f64(-113)},
	}
}

// grid spreads records over the globe with a mix of missing fields
func grid() []*models.Meteorite {
	var out []*models.Meteorite
	classes := []string{"L5", "l6", "H4", "EH4"}
	falls := []string{"Fell", "Found", "found"}
	n := 0
	for lat := -80.0; lat <= 80; lat += 4 {
		for lon := -178.0; lon <= 178; lon += 6 {
			n++
			m := &models.Meteorite{
				ID:       fmt.Sprint(n),
				Name:     fmt.Sprintf("Grid %d", n),
				RecClass: classes[n%len(classes)],
				Fall:     falls[n%len(falls)],
			}
			if n%7 != 0 {
				m.Year = ip(1800 + n%220)
			}
			if n%5 != 0 {
				m.Mass = f64(float64(n%1000) * 1.5)
			}
			if n%3 != 0 {
				m.Latitude, m.Longitude = f64(lat), f64(lon)
			}
			out = append(out, m)
		}
	}
	return out
}

func ids(ms []*models.Meteorite) []string {
	out := make([]string, len(ms))
	for k, m := range ms {
		out[k] = m.ID
	}
	return out
}

func TestRunExamples(t *testing.T) {
	tests := []struct {
		name   string
		filter models.SearchFilter
		want   []string
	}{
		{"class", models.SearchFilter{RecClass: str("L5")}, []string{"1"}},
		{"class case-insensitive", models.SearchFilter{RecClass: str("eh4")}, []string{"2"}},
		{"year", models.SearchFilter{Year: f64(1952)}, []string{"2"}},
		{"geo", models.SearchFilter{CenterLat: f64(50.8), CenterLon: f64(6.1), Radius: f64(50)}, []string{"1"}},
		{"fall", models.SearchFilter{Fall: str("FELL")}, []string{"1", "2"}},
		{"mass range", models.SearchFilter{MinMass: f64(100), MaxMass: f64(200000)}, []string{"2"}},
		{"year range inclusive", models.SearchFilter{MinYear: f64(1880), MaxYear: f64(1952)}, []string{"1", "2"}},
		{"exact mass", models.SearchFilter{Mass: f64(21)}, []string{"1"}},
		{"no match", models.SearchFilter{RecClass: str("H6")}, []string{}},
		{"limit", models.SearchFilter{Fall: str("fell"), Limit: f64(1)}, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Run(examples(), tt.filter, testLimits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		filter  models.SearchFilter
		message string
	}{
		{"empty", models.SearchFilter{}, "At least one valid filter parameter is required in the search query."},
		{"limit only", models.SearchFilter{Limit: f64(-1)}, "At least one valid filter parameter is required in the search query."},
		{"bad fall", models.SearchFilter{Fall: str("dropped")}, "The fall filter must be set to either 'fell' or 'found'."},
		{"year and minYear", models.SearchFilter{Year: f64(1900), MinYear: f64(1800)}, "Cannot combine 'year' with 'minYear' or 'maxYear'."},
		{"year and maxYear", models.SearchFilter{Year: f64(1900), MaxYear: f64(2000)}, "Cannot combine 'year' with 'minYear' or 'maxYear'."},
		{"mass and maxMass", models.SearchFilter{Mass: f64(10), MaxMass: f64(20)}, "Cannot combine 'mass' with 'minMass' or 'maxMass'."},
		{"radius below min", models.SearchFilter{CenterLat: f64(0), CenterLon: f64(0), Radius: f64(0)}, "The radius must be between 1 km and 2500 km."},
		{"radius above max", models.SearchFilter{CenterLat: f64(0), CenterLon: f64(0), Radius: f64(2501)}, "The radius must be between 1 km and 2500 km."},
		{"missing lon", models.SearchFilter{CenterLat: f64(10), Radius: f64(10)}, "Incomplete geographic parameters: centerLatitude, centerLongitude, and radius must all be provided together."},
		{"missing radius", models.SearchFilter{CenterLat: f64(10), CenterLon: f64(10)}, "Incomplete geographic parameters: centerLatitude, centerLongitude, and radius must all be provided together."},
		{"zero limit", models.SearchFilter{RecClass: str("L5"), Limit: f64(0)}, "The limit parameter must be a positive integer."},
		{"fractional limit", models.SearchFilter{RecClass: str("L5"), Limit: f64(2.5)}, "The limit parameter must be a positive integer."},
		{"latitude out of range", models.SearchFilter{CenterLat: f64(91), CenterLon: f64(0), Radius: f64(10)}, "Latitude must be between -90 and 90."},
		{"infinite radius", models.SearchFilter{CenterLat: f64(0), CenterLon: f64(0), Radius: f64(math.Inf(1))}, "The radius must be between 1 km and 2500 km."},
		{"infinite limit", models.SearchFilter{RecClass: str("L5"), Limit: f64(math.Inf(1))}, "The limit parameter must be a positive integer."},
		{"infinite latitude", models.SearchFilter{CenterLat: f64(math.Inf(-1)), CenterLon: f64(0), Radius: f64(10)}, "Latitude must be between -90 and 90."},
		{"longitude out of range", models.SearchFilter{CenterLat: f64(0), CenterLon: f64(-181), Radius: f64(10)}, "Longitude must be between -180 and 180."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.filter, testLimits)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.message, apperr.MessageOf(err))

			res, err := Run(examples(), tt.filter, testLimits)
			assert.Error(t, err)
			assert.Nil(t, res)
		})
	}
}

func TestValidateRadiusBoundsInclusive(t *testing.T) {
	for _, r := range []float64{testLimits.MinRadius, testLimits.MaxRadius} {
		f := models.SearchFilter{CenterLat: f64(0), CenterLon: f64(0), Radius: f64(r)}
		assert.NoError(t, Validate(f, testLimits), "radius %v", r)
	}
	for _, r := range []float64{testLimits.MinRadius - 1, testLimits.MaxRadius + 1} {
		f := models.SearchFilter{CenterLat: f64(0), CenterLon: f64(0), Radius: f64(r)}
		assert.Error(t, Validate(f, testLimits), "radius %v", r)
	}
}

func TestValidateCoordinateBoundsInclusive(t *testing.T) {
	f := models.SearchFilter{CenterLat: f64(-90), CenterLon: f64(180), Radius: f64(10)}
	assert.NoError(t, Validate(f, testLimits))
}

func TestRunResultCountNeverExceedsLimit(t *testing.T) {
	data := grid()
	limits := Limits{MaxResults: 25, MinRadius: 1, MaxRadius: 2500}

	for _, limit := range []float64{1, 7, 25, 100} {
		got, err := Run(data, models.SearchFilter{RecClass: str("l6"), Limit: f64(limit)}, limits)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), int(math.Min(limit, float64(limits.MaxResults))))
	}

	got, err := Run(data, models.SearchFilter{MinYear: f64(0)}, limits)
	require.NoError(t, err)
	assert.Len(t, got, 25)
}

func TestRunPreservesDatasetOrder(t *testing.T) {
	data := grid()
	got, err := Run(data, models.SearchFilter{Fall: str("found")}, testLimits)
	require.NoError(t, err)

	pos := make(map[string]int, len(data))
	for k, m := range data {
		pos[m.ID] = k
	}
	for k := 1; k < len(got); k++ {
		assert.Less(t, pos[got[k-1].ID], pos[got[k].ID])
	}
}

func TestRunCategoricalMatchesCaseInsensitively(t *testing.T) {
	got, err := Run(grid(), models.SearchFilter{RecClass: str("L6"), Fall: str("Found")}, testLimits)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, m := range got {
		assert.Equal(t, "l6", m.RecClass)
		assert.Equal(t, "found", lower(m.Fall))
	}
}

func TestRunRangesExcludeMissingValues(t *testing.T) {
	got, err := Run(grid(), models.SearchFilter{MinYear: f64(1850), MaxYear: f64(1900)}, testLimits)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, m := range got {
		require.NotNil(t, m.Year)
		assert.GreaterOrEqual(t, *m.Year, 1850)
		assert.LessOrEqual(t, *m.Year, 1900)
	}

	got, err = Run(grid(), models.SearchFilter{MaxMass: f64(300)}, testLimits)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, m := range got {
		require.NotNil(t, m.Mass)
		assert.LessOrEqual(t, *m.Mass, 300.0)
	}
}

func TestRunInfiniteYearBoundsKeepOnlyDatedRecords(t *testing.T) {
	records := grid()
	var dated int
	for _, m := range records {
		if m.Year != nil {
			dated++
		}
	}

	f := ParseQuery(models.SearchQuery{MinYear: "-Infinity", MaxYear: "Infinity"})
	require.NoError(t, Validate(f, testLimits))
	got, err := Run(records, f, Limits{MaxResults: len(records), MinRadius: 1, MaxRadius: 2500})
	require.NoError(t, err)
	assert.Len(t, got, dated)
	for _, m := range got {
		assert.NotNil(t, m.Year)
	}
}

func TestRunGeoWithinRadius(t *testing.T) {
	f := models.SearchFilter{CenterLat: f64(20), CenterLon: f64(-178), Radius: f64(1500)}
	got, err := Run(grid(), f, testLimits)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	maxDistSq := math.Pow(1500/spatial.EarthRadiusKm, 2)
	crossesAntimeridian := false
	for _, m := range got {
		require.True(t, m.HasLocation())
		d := spatial.EquirectangularDistSq(20, -178, *m.Latitude, *m.Longitude)
		assert.LessOrEqual(t, d, maxDistSq)
		if *m.Longitude > 0 {
			crossesAntimeridian = true
		}
	}
	assert.True(t, crossesAntimeridian)
}

func TestEffectiveLimit(t *testing.T) {
	assert.Equal(t, 500, EffectiveLimit(models.SearchFilter{}, testLimits))
	assert.Equal(t, 10, EffectiveLimit(models.SearchFilter{Limit: f64(10)}, testLimits))
	assert.Equal(t, 500, EffectiveLimit(models.SearchFilter{Limit: f64(10000)}, testLimits))
}

func lower(s string) string {
	b := []byte(s)
	for k, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[k] = c + 'a' - 'A'
		}
	}
	return string(b)
}
