package search

import (
	"math"
	"strings"

	"github.com/jengzang/meteorites-backend-go/internal/apperr"
	"github.com/jengzang/meteorites-backend-go/internal/models"
	"github.com/jengzang/meteorites-backend-go/internal/spatial"
)

// Limits bounds what a search may ask for
type Limits struct {
	MaxResults int
	MinRadius  float64 // Kilometers
	MaxRadius  float64 // Kilometers
}

// IsPositiveInteger reports whether f is a whole number greater than zero
func IsPositiveInteger(f float64) bool {
	return f > 0 && f == math.Trunc(f) && !math.IsInf(f, 0)
}

// hasAnyFilter ignores Limit: a limit alone does not select anything
func hasAnyFilter(f models.SearchFilter) bool {
	return f.RecClass != nil || f.Fall != nil ||
		f.Year != nil || f.MinYear != nil || f.MaxYear != nil ||
		f.Mass != nil || f.MinMass != nil || f.MaxMass != nil ||
		f.CenterLat != nil || f.CenterLon != nil || f.Radius != nil
}

// HasLocation reports whether all geographic parameters are present
func HasLocation(f models.SearchFilter) bool {
	return f.CenterLat != nil && f.CenterLon != nil && f.Radius != nil
}

// Validate checks a filter before any record is scanned. Checks run in a fixed
// order and the first failure is returned.
func Validate(f models.SearchFilter, limits Limits) error {
	if !hasAnyFilter(f) {
		return apperr.Validation("At least one valid filter parameter is required in the search query.")
	}

	if f.Fall != nil {
		fall := strings.ToLower(*f.Fall)
		if fall != "fell" && fall != "found" {
			return apperr.Validation("The fall filter must be set to either 'fell' or 'found'.")
		}
	}

	if f.Year != nil && (f.MinYear != nil || f.MaxYear != nil) {
		return apperr.Validation("Cannot combine 'year' with 'minYear' or 'maxYear'.")
	}

	if f.Mass != nil && (f.MinMass != nil || f.MaxMass != nil) {
		return apperr.Validation("Cannot combine 'mass' with 'minMass' or 'maxMass'.")
	}

	if f.Radius != nil && (*f.Radius < limits.MinRadius || *f.Radius > limits.MaxRadius) {
		return apperr.Validation("The radius must be between %g km and %g km.", limits.MinRadius, limits.MaxRadius)
	}

	if (f.CenterLat != nil || f.CenterLon != nil || f.Radius != nil) && !HasLocation(f) {
		return apperr.Validation("Incomplete geographic parameters: centerLatitude, centerLongitude, and radius must all be provided together.")
	}

	if f.Limit != nil && !IsPositiveInteger(*f.Limit) {
		return apperr.Validation("The limit parameter must be a positive integer.")
	}

	if HasLocation(f) {
		if !spatial.ValidLatitude(*f.CenterLat) {
			return apperr.Validation("Latitude must be between -90 and 90.")
		}
		if !spatial.ValidLongitude(*f.CenterLon) {
			return apperr.Validation("Longitude must be between -180 and 180.")
		}
	}

	return nil
}
