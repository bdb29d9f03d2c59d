package models

// SearchQuery holds the raw /search query parameters before numeric parsing
type SearchQuery struct {
	RecClass        string `form:"recclass"`
	Fall            string `form:"fall"` // fell, found
	Year            string `form:"year"`
	MinYear         string `form:"minYear"`
	MaxYear         string `form:"maxYear"`
	Mass            string `form:"mass"`    // Grams
	MinMass         string `form:"minMass"` // Grams
	MaxMass         string `form:"maxMass"` // Grams
	CenterLatitude  string `form:"centerLatitude"`
	CenterLongitude string `form:"centerLongitude"`
	Radius          string `form:"radius"` // Kilometers
	Limit           string `form:"limit"`
}

// SearchFilter is the parsed form of a search request. Nil fields are inactive.
type SearchFilter struct {
	RecClass  *string
	Fall      *string
	Year      *float64
	MinYear   *float64
	MaxYear   *float64
	Mass      *float64
	MinMass   *float64
	MaxMass   *float64
	CenterLat *float64
	CenterLon *float64
	Radius    *float64 // Kilometers
	Limit     *float64
}

// LookupQuery holds the /get query parameters
type LookupQuery struct {
	ID   string `form:"id"`
	Name string `form:"name"`
}

// RandomQuery holds the /random query parameters
type RandomQuery struct {
	Count string `form:"count"`
}
