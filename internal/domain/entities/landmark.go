// Package entities contains domain entities used across the application.
package entities

// Landmark is a single quiz question: a photographed landmark and the country it is in.
// Records are loaded once from the dataset and never mutated.
type Landmark struct {
	ID          int      `json:"id"`                    // dataset identifier
	Name        string   `json:"landmark"`              // landmark name shown to the player
	Country     string   `json:"country"`               // target country, matches the map feature name
	CountryCode string   `json:"countryCode,omitempty"` // ISO 3166-1 alpha-2 code
	ImageURL    string   `json:"imageUrl"`              // landmark photo
	Continent   string   `json:"continent,omitempty"`
	Neighbors   []string `json:"neighbors,omitempty"` // neighbouring country names
	Languages   []string `json:"languages,omitempty"` // primary spoken languages
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the landmark carries both latitude and longitude.
func (l *Landmark) HasCoordinates() bool {
	return l != nil && l.Latitude != nil && l.Longitude != nil
}
