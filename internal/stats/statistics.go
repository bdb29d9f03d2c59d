package stats

import (
	"cmp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/jengzang/meteorites-backend-go/internal/models"
)

// Compute aggregates the whole dataset in a single pass. It is pure: the same
// input always yields the same output.
func Compute(meteorites []*models.Meteorite) *models.Statistics {
	var (
		years      Range[int]
		masses     Range[float64]
		yearCounts = NewCounter()
		classes    = NewCounter()
		result     = &models.Statistics{}
	)

	for _, m := range meteorites {
		result.MeteoritesCount++

		if m.Year != nil {
			years.Add(*m.Year)
			yearCounts.Inc(strconv.Itoa(*m.Year))
		}

		if m.Mass != nil && *m.Mass > 0 {
			masses.Add(*m.Mass)
		}

		if class := strings.TrimSpace(m.RecClass); class != "" {
			classes.Inc(class)
		}

		switch strings.ToLower(m.Fall) {
		case "fell":
			result.FallCounts.Fell++
		case "found":
			result.FallCounts.Found++
		}

		if m.HasLocation() {
			result.GeolocatedCount++
		}
	}

	if v, ok := years.Min(); ok {
		s := strconv.Itoa(v)
		result.MinYear = &s
	}
	if v, ok := years.Max(); ok {
		s := strconv.Itoa(v)
		result.MaxYear = &s
	}
	if v, ok := masses.Min(); ok {
		result.MinMassG = &v
	}
	if v, ok := masses.Max(); ok {
		result.MaxMassG = &v
	}
	if v, ok := masses.Mean(); ok {
		avg := Round(v, 2)
		result.AvgMassG = &avg
	}

	result.Years = sortedYears(yearCounts.Keys())
	result.YearsDistribution = yearDistribution(yearCounts, result.Years)
	result.RecClasses = classes.Keys()
	sort.Strings(result.RecClasses)
	result.RecClassesDistribution = classDistribution(classes)

	return result
}

// sortedYears orders year keys numerically ascending
func sortedYears(keys []string) []string {
	slices.SortFunc(keys, func(a, b string) int {
		x, _ := strconv.Atoi(a)
		y, _ := strconv.Atoi(b)
		return cmp.Compare(x, y)
	})
	return keys
}

func yearDistribution(c *Counter, sortedKeys []string) models.Distribution {
	d := make(models.Distribution, 0, len(sortedKeys))
	for _, k := range sortedKeys {
		d = append(d, models.DistributionEntry{Key: k, Count: c.Count(k)})
	}
	return d
}

// classDistribution orders by count descending; ties keep first-seen order
func classDistribution(c *Counter) models.Distribution {
	d := make(models.Distribution, 0, c.Len())
	for _, k := range c.Keys() {
		d = append(d, models.DistributionEntry{Key: k, Count: c.Count(k)})
	}
	slices.SortStableFunc(d, func(a, b models.DistributionEntry) int {
		return b.Count - a.Count
	})
	return d
}
