package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jengzang/meteorites-backend-go/internal/models"
)

// Diagnostic reports a record that could not be indexed
type Diagnostic struct {
	SourceKey string
	Reason    string
}

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// ParseInt reads the leading integer of s. Empty or non-numeric input yields nil.
// "1880", " 1880 " and "1880.0" all give 1880.
func ParseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	m := leadingInt.FindString(s)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

// ParseFloat reads the leading decimal number of s. Empty or non-numeric input yields nil.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	m := leadingFloat.FindString(s)
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Normalize converts a raw record into its typed form. Numeric fields that fail to
// parse become nil; the record itself is always returned. A non-nil Diagnostic means
// the record lacks an id or name and will be left out of the matching index.
func Normalize(raw models.RawMeteorite) (*models.Meteorite, *Diagnostic) {
	m := &models.Meteorite{
		ID:        raw.ID,
		Name:      raw.Name,
		RecClass:  raw.RecClass,
		Mass:      ParseFloat(raw.Mass),
		Fall:      raw.Fall,
		Year:      ParseInt(raw.Year),
		Latitude:  ParseFloat(raw.Latitude),
		Longitude: ParseFloat(raw.Longitude),
	}

	switch {
	case raw.ID == "" && raw.Name == "":
		return m, &Diagnostic{SourceKey: raw.SourceKey, Reason: "missing id and name"}
	case raw.ID == "":
		return m, &Diagnostic{SourceKey: raw.SourceKey, Reason: "missing id"}
	case raw.Name == "":
		return m, &Diagnostic{SourceKey: raw.SourceKey, Reason: "missing name"}
	}
	return m, nil
}
