package maps

import "encoding/json"

// TextSearchResponse represents the Google Places Text Search API response,
// pruned to the fields this service reads.
type TextSearchResponse struct {
	Results      []PlaceResult `json:"results"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// PlaceResult represents a single place result from Google Places API.
// Rating and PriceLevel are pointers so an omitted field stays absent
// instead of collapsing to zero.
type PlaceResult struct {
	PlaceID                  string        `json:"place_id"`
	Name                     string        `json:"name"`
	FormattedAddress         string        `json:"formatted_address,omitempty"`
	Geometry                 *Geometry     `json:"geometry,omitempty"`
	Rating                   *float64      `json:"rating,omitempty"`
	OpeningHours             *OpeningHours `json:"opening_hours,omitempty"`
	InternationalPhoneNumber string        `json:"international_phone_number,omitempty"`
	Website                  string        `json:"website,omitempty"`
	PriceLevel               *int          `json:"price_level,omitempty"`
}

// Geometry represents the geometry information of a place.
type Geometry struct {
	Location LatLng `json:"location"`
}

// LatLng represents a geographic coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OpeningHours represents the opening hours of a place.
type OpeningHours struct {
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// DirectionsAPIResponse represents the Google Directions API response.
// Routes stays raw so it can be handed to the presentation layer untouched;
// the first route is decoded separately for the duration/distance summary.
type DirectionsAPIResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Routes       []json.RawMessage `json:"routes"`
}

// Route is the decoded shape of a single directions route.
type Route struct {
	Legs []Leg `json:"legs"`
}

// Leg is a single leg of a route.
type Leg struct {
	Duration TextValue `json:"duration"`
	Distance TextValue `json:"distance"`
}

// TextValue is the human-readable text + numeric value pair Google uses for
// durations and distances.
type TextValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// GeocodeAPIResponse represents the Google Geocoding API response.
type GeocodeAPIResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry         Geometry `json:"geometry"`
		FormattedAddress string   `json:"formatted_address"`
	} `json:"results"`
}
