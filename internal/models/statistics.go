package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Statistics is the dataset-wide aggregate served by /stats
type Statistics struct {
	MeteoritesCount        int          `json:"meteorites_count"`
	MinYear                *string      `json:"min_year,omitempty"`
	MaxYear                *string      `json:"max_year,omitempty"`
	MinMassG               *float64     `json:"min_mass_g"`
	MaxMassG               *float64     `json:"max_mass_g"`
	AvgMassG               *float64     `json:"avg_mass_g"`
	Years                  []string     `json:"years"`
	YearsDistribution      Distribution `json:"years_distribution"`
	RecClasses             []string     `json:"recclasses"`
	RecClassesDistribution Distribution `json:"recclasses_distribution"`
	GeolocatedCount        int          `json:"geolocated_count"`
	FallCounts             FallCounts   `json:"fall_counts"`
}

// FallCounts counts records by fall type
type FallCounts struct {
	Fell  int `json:"fell"`
	Found int `json:"found"`
}

// DistributionEntry is one key/count pair of a Distribution
type DistributionEntry struct {
	Key   string
	Count int
}

// Distribution is an ordered frequency table. It encodes as a JSON object
// whose member order is the slice order.
type Distribution []DistributionEntry

// MarshalJSON implements json.Marshaler
func (d Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(e.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
