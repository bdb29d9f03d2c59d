package search

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jengzang/meteorites-backend-go/internal/models"
)

// TrimmedParam returns nil for an empty or whitespace-only parameter
func TrimmedParam(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// NumberParam parses a whole-string number with JavaScript Number() semantics:
// a signed "Infinity" or an overflowing literal yields an infinity. NaN, an
// empty parameter and anything that is not a plain decimal literal (such as
// "inf" or a hex float) are treated as not provided.
func NumberParam(s string) *float64 {
	p := TrimmedParam(s)
	if p == nil {
		return nil
	}
	var f float64
	switch *p {
	case "Infinity", "+Infinity":
		f = math.Inf(1)
	case "-Infinity":
		f = math.Inf(-1)
	default:
		if !decimalLiteral.MatchString(*p) {
			return nil
		}
		v, err := strconv.ParseFloat(*p, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil
		}
		f = v
	}
	return &f
}

// ParseQuery converts raw query parameters into a SearchFilter
func ParseQuery(q models.SearchQuery) models.SearchFilter {
	return models.SearchFilter{
		RecClass:  TrimmedParam(q.RecClass),
		Fall:      TrimmedParam(q.Fall),
		Year:      NumberParam(q.Year),
		MinYear:   NumberParam(q.MinYear),
		MaxYear:   NumberParam(q.MaxYear),
		Mass:      NumberParam(q.Mass),
		MinMass:   NumberParam(q.MinMass),
		MaxMass:   NumberParam(q.MaxMass),
		CenterLat: NumberParam(q.CenterLatitude),
		CenterLon: NumberParam(q.CenterLongitude),
		Radius:    NumberParam(q.Radius),
		Limit:     NumberParam(q.Limit),
	}
}
