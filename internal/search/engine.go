// Package search evaluates search filters against the meteorite catalog.
package search

import (
	"strings"

	"github.com/jengzang/meteorites-backend-go/internal/models"
	"github.com/jengzang/meteorites-backend-go/internal/spatial"
)

// matcher is a validated filter prepared for scanning
type matcher struct {
	recClass string
	fall     string
	filter   models.SearchFilter
	circle   *spatial.Circle
}

func newMatcher(f models.SearchFilter) *matcher {
	m := &matcher{filter: f}
	if f.RecClass != nil {
		m.recClass = strings.ToLower(*f.RecClass)
	}
	if f.Fall != nil {
		m.fall = strings.ToLower(*f.Fall)
	}
	if HasLocation(f) {
		c := spatial.NewCircle(*f.CenterLat, *f.CenterLon, *f.Radius)
		m.circle = &c
	}
	return m
}

// match tests the cheapest predicates first
func (m *matcher) match(r *models.Meteorite) bool {
	f := &m.filter

	if m.recClass != "" && strings.ToLower(r.RecClass) != m.recClass {
		return false
	}
	if m.fall != "" && strings.ToLower(r.Fall) != m.fall {
		return false
	}

	if f.Year != nil {
		if r.Year == nil || float64(*r.Year) != *f.Year {
			return false
		}
	} else {
		if f.MinYear != nil && (r.Year == nil || float64(*r.Year) < *f.MinYear) {
			return false
		}
		if f.MaxYear != nil && (r.Year == nil || float64(*r.Year) > *f.MaxYear) {
			return false
		}
	}

	if f.Mass != nil {
		if r.Mass == nil || *r.Mass != *f.Mass {
			return false
		}
	} else {
		if f.MinMass != nil && (r.Mass == nil || *r.Mass < *f.MinMass) {
			return false
		}
		if f.MaxMass != nil && (r.Mass == nil || *r.Mass > *f.MaxMass) {
			return false
		}
	}

	if m.circle != nil {
		if !r.HasLocation() || !m.circle.Contains(*r.Latitude, *r.Longitude) {
			return false
		}
	}

	return true
}

// EffectiveLimit is min(limit, MaxResults), or MaxResults when no limit is given
func EffectiveLimit(f models.SearchFilter, limits Limits) int {
	if f.Limit != nil && IsPositiveInteger(*f.Limit) && *f.Limit < float64(limits.MaxResults) {
		return int(*f.Limit)
	}
	return limits.MaxResults
}

// Run validates f and returns matching records in dataset order. Scanning stops
// as soon as the effective limit is reached.
func Run(meteorites []*models.Meteorite, f models.SearchFilter, limits Limits) ([]*models.Meteorite, error) {
	if err := Validate(f, limits); err != nil {
		return nil, err
	}

	limit := EffectiveLimit(f, limits)
	if limit <= 0 {
		return []*models.Meteorite{}, nil
	}
	m := newMatcher(f)
	results := make([]*models.Meteorite, 0, min(limit, 64))

	for _, r := range meteorites {
		if !m.match(r) {
			continue
		}
		results = append(results, r)
		if len(results) >= limit {
			break
		}
	}

	return results, nil
}
