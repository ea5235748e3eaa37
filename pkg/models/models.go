package models

import "encoding/json"

// UserLocation is a client-supplied coordinate pair, e.g. {"lat": 40.7128, "lng": -74.0060}.
type UserLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ExtractedIntent is the structured interpretation of a free-text query
// produced by the LLM. Error is set only when extraction degraded to the
// fallback intent.
type ExtractedIntent struct {
	SearchTerm     string `json:"search_term"`
	Location       string `json:"location"`
	QueryType      string `json:"query_type"` // "search" or "directions"
	FormattedQuery string `json:"formatted_query"`
	Error          string `json:"error,omitempty"`
}

// LocationQuery is the body of POST /v1/search.
type LocationQuery struct {
	Query        string        `json:"query" binding:"required"`
	UserLocation *UserLocation `json:"user_location"`
}

// LocationInfo is a normalized place result. Lat/Lng are always present and
// are the canonical location; the optional fields stay nil when the provider
// omitted them so "no rating" and "zero rating" remain distinguishable.
type LocationInfo struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	PlaceID      string   `json:"place_id"`
	Rating       *float64 `json:"rating,omitempty"`
	MapsURL      string   `json:"maps_url"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Distance     *float64 `json:"distance,omitempty"` // meters from user location
	OpeningHours []string `json:"opening_hours,omitempty"`
	PhoneNumber  string   `json:"phone_number,omitempty"`
	Website      string   `json:"website,omitempty"`
	PriceLevel   *int     `json:"price_level,omitempty"` // 0-4 scale
}

// DirectionsRequest is the body of POST /v1/directions. Destination may be a
// place_id or a free-text address.
type DirectionsRequest struct {
	Origin      *UserLocation `json:"origin" binding:"required"`
	Destination string        `json:"destination" binding:"required"`
	TravelMode  string        `json:"travel_mode"` // DRIVING, WALKING, TRANSIT, BICYCLING
}

// DirectionsResponse reports the primary route summary. Routes carries the
// raw provider route array untouched for the presentation layer.
type DirectionsResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Routes   []json.RawMessage `json:"routes,omitempty"`
	Duration string            `json:"duration,omitempty"`
	Distance string            `json:"distance,omitempty"`
}

// LocationResponse is the envelope returned by the search pipeline.
// Success is false iff Locations is empty.
type LocationResponse struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Locations     []LocationInfo  `json:"locations"`
	ExtractedInfo ExtractedIntent `json:"extracted_info"`
	MapCenter     *UserLocation   `json:"map_center,omitempty"`
	SearchRadius  int             `json:"search_radius,omitempty"`
}

// GeocodeResult is the coordinate resolved for a free-text address.
type GeocodeResult struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
}
