package models

// RawMeteorite is a meteorite as stored in the source dataset, every field a string
type RawMeteorite struct {
	// SourceKey is the key of the record in the source payload, e.g. "meteorite_12"
	SourceKey string `json:"-" db:"-"`

	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	RecClass  string `json:"recclass" db:"recclass"`
	Mass      string `json:"mass" db:"mass"` // Grams
	Fall      string `json:"fall" db:"fall"` // Fell, Found
	Year      string `json:"year" db:"year"`
	Latitude  string `json:"latitude" db:"latitude"`
	Longitude string `json:"longitude" db:"longitude"`
}

// Meteorite is the normalized, read-only form served by the API.
// Nil pointers mark values that were empty or unparseable in the source.
type Meteorite struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	RecClass  string   `json:"recclass"`
	Mass      *float64 `json:"mass"` // Grams
	Fall      string   `json:"fall"`
	Year      *int     `json:"year"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// HasLocation reports whether both coordinates are present
func (m *Meteorite) HasLocation() bool {
	return m.Latitude != nil && m.Longitude != nil
}

// MeteoritesResponse is the payload of list endpoints
type MeteoritesResponse struct {
	Count      int          `json:"count"`
	Meteorites []*Meteorite `json:"meteorites"`
}

// MeteoriteResponse is the payload of the single lookup endpoint
type MeteoriteResponse struct {
	Meteorite *Meteorite `json:"meteorite"`
}
