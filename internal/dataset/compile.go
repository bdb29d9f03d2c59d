package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jengzang/meteorites-backend-go/internal/models"
)

// ExpectedFields is the exact header of the NASA Meteorite Landings CSV export
var ExpectedFields = []string{
	"name",
	"id",
	"nametype",
	"recclass",
	"mass (g)",
	"fall",
	"year",
	"reclat",
	"reclong",
	"GeoLocation",
}

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	// 01/01/1880 12:00:00 AM
	timestampYear = regexp.MustCompile(`^\d{2}/\d{2}/(\d{4})\b`)
)

// CompileOptions controls CSV conversion
type CompileOptions struct {
	Grid    float64    // Grid cell size in degrees; <= 0 disables grid thinning
	Limit   int        // Maximum number of records; 0 = unlimited
	CleanUp bool       // Drop records without a usable location and fill empty fields
	Rand    *rand.Rand // Shuffle source; nil uses the global one
}

// CompileReport summarizes a conversion
type CompileReport struct {
	Rows            int
	Exported        int
	InvalidLocation int
	GridDuplicates  int
}

// Compile converts a NASA CSV export into raw dataset records. The header must
// match ExpectedFields exactly and every id must be a non-negative integer.
// The result is shuffled and keyed meteorite_1..meteorite_N.
func Compile(r io.Reader, opts CompileOptions, log *slog.Logger) ([]models.RawMeteorite, CompileReport, error) {
	var report CompileReport

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, report, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if !slices.Equal(header, ExpectedFields) {
		return nil, report, fmt.Errorf("CSV header does not match expected format: expected %q, found %q", ExpectedFields, header)
	}

	seenCells := make(map[string]struct{})
	var records []models.RawMeteorite

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("invalid row structure at line %d: %w", line, err)
		}
		report.Rows++

		f := func(name string) string { return row[slices.Index(ExpectedFields, name)] }

		if !digitsOnly.MatchString(f("id")) {
			return nil, report, fmt.Errorf("invalid id at line %d", line)
		}

		if opts.Limit > 0 && len(records) >= opts.Limit {
			break
		}

		latStr := strings.TrimSpace(f("reclat"))
		lonStr := strings.TrimSpace(f("reclong"))
		lat, lon, hasLocation := parseLocation(latStr, lonStr)

		if opts.CleanUp && invalidLocation(lat, lon, hasLocation, f("GeoLocation")) {
			report.InvalidLocation++
			log.Debug("removed meteorite with invalid or missing location", "name", f("name"))
			continue
		}

		if opts.Grid > 0 && hasLocation {
			cell := fmt.Sprintf("%d_%d",
				int64(math.RoundToEven(lat/opts.Grid)),
				int64(math.RoundToEven(lon/opts.Grid)))
			if _, seen := seenCells[cell]; seen {
				report.GridDuplicates++
				continue
			}
			seenCells[cell] = struct{}{}
		}

		m := models.RawMeteorite{
			ID:        f("id"),
			Name:      f("name"),
			RecClass:  f("recclass"),
			Mass:      strings.TrimSpace(f("mass (g)")),
			Fall:      f("fall"),
			Year:      normalizeYear(f("year")),
			Latitude:  latStr,
			Longitude: lonStr,
		}
		if opts.CleanUp {
			m.RecClass = defaultIfEmpty(m.RecClass, "Unknown")
			m.Mass = defaultIfEmpty(m.Mass, "N/A")
			m.Fall = defaultIfEmpty(m.Fall, "Unknown")
			m.Year = defaultIfEmpty(m.Year, "Unknown")
		}

		records = append(records, m)
		log.Debug("accepted meteorite", "name", m.Name, "lat", latStr, "lon", lonStr)
	}

	swap := func(i, j int) { records[i], records[j] = records[j], records[i] }
	if opts.Rand != nil {
		opts.Rand.Shuffle(len(records), swap)
	} else {
		rand.Shuffle(len(records), swap)
	}
	for i := range records {
		records[i].SourceKey = "meteorite_" + strconv.Itoa(i+1)
	}

	report.Exported = len(records)
	return records, report, nil
}

func parseLocation(latStr, lonStr string) (lat, lon float64, ok bool) {
	if latStr == "" || lonStr == "" {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// invalidLocation flags missing coordinates and the (0, 0) placeholder
func invalidLocation(lat, lon float64, ok bool, geoLocation string) bool {
	if !ok {
		return true
	}
	if lat == 0 && lon == 0 {
		return true
	}
	geo := strings.ReplaceAll(strings.TrimSpace(geoLocation), `"`, "")
	return geo == "(0.0, 0.0)"
}

// normalizeYear keeps the year of timestamp-formatted values
func normalizeYear(s string) string {
	if m := timestampYear.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
		return m[1]
	}
	return s
}

func defaultIfEmpty(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
