package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nitesh/places_service/pkg/models"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api"

	searchTimeout     = 15 * time.Second
	directionsTimeout = 15 * time.Second
	geocodeTimeout    = 10 * time.Second

	// earthRadiusMeters is the mean Earth radius used by the Haversine formula.
	earthRadiusMeters = 6371000.0

	mapsZoomLevel = 15
)

const searchFields = "place_id,name,formatted_address,geometry,rating,opening_hours,international_phone_number,website,price_level"

// Client calls the Google Maps web APIs (Places text search, Directions,
// Geocoding) with a single API key.
type Client struct {
	apiKey       string
	baseURL      string
	hc           *http.Client
	maxResults   int
	searchRadius int
	logger       func(format string, v ...any)
}

// NewClient creates a new client. maxResults caps how many places a search
// returns, searchRadius (meters) biases searches around the user location.
// If httpClient is nil a default client is used; per-call timeouts are
// applied via context.
func NewClient(apiKey string, maxResults, searchRadius int, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		hc:           httpClient,
		maxResults:   maxResults,
		searchRadius: searchRadius,
		logger: func(format string, v ...any) {
			fmt.Fprintf(io.Discard, format, v...)
		},
	}
}

// SetLogger allows injecting a simple printf-like logger for debugging.
func (c *Client) SetLogger(l func(format string, v ...any)) {
	if l == nil {
		return
	}
	c.logger = l
}

// SetBaseURL overrides the API base URL, for tests or a proxy.
func (c *Client) SetBaseURL(u string) {
	if u == "" {
		return
	}
	c.baseURL = u
}

// SearchPlaces runs a Places text search and normalizes the results.
//
// Bias precedence: when userLoc is present the search is biased by
// coordinate + configured radius and locationBias is ignored; otherwise a
// non-"near me" locationBias biases by point name; otherwise the search is
// global. Provider non-OK status or transport failure is returned as an
// error for the caller to translate.
func (c *Client) SearchPlaces(ctx context.Context, query, locationBias string, userLoc *models.UserLocation) ([]models.LocationInfo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)
	params.Set("fields", searchFields)

	if userLoc != nil {
		params.Set("location", fmt.Sprintf("%f,%f", userLoc.Lat, userLoc.Lng))
		params.Set("radius", fmt.Sprintf("%d", c.searchRadius))
	} else if locationBias != "" && !strings.EqualFold(locationBias, "near me") {
		params.Set("locationbias", "point:"+locationBias)
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	var data TextSearchResponse
	if err := c.getJSON(ctx, "/place/textsearch/json", params, &data); err != nil {
		return nil, fmt.Errorf("error searching places: %w", err)
	}
	if data.Status != "OK" {
		return nil, fmt.Errorf("google places api error: %s", statusMessage(data.Status, data.ErrorMessage))
	}

	results := data.Results
	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	c.logger("places search query=%q results=%d status=%s", query, len(results), data.Status)

	locations := make([]models.LocationInfo, 0, len(results))
	for _, place := range results {
		locations = append(locations, c.toLocationInfo(place, userLoc))
	}
	return locations, nil
}

// toLocationInfo converts a raw place into the normalized record. Distance
// is populated iff the user location was supplied.
func (c *Client) toLocationInfo(place PlaceResult, userLoc *models.UserLocation) models.LocationInfo {
	var lat, lng float64
	if place.Geometry != nil {
		lat = place.Geometry.Location.Lat
		lng = place.Geometry.Location.Lng
	}

	info := models.LocationInfo{
		Name:        place.Name,
		Address:     place.FormattedAddress,
		PlaceID:     place.PlaceID,
		Rating:      place.Rating,
		Lat:         lat,
		Lng:         lng,
		PhoneNumber: place.InternationalPhoneNumber,
		Website:     place.Website,
		PriceLevel:  place.PriceLevel,
		MapsURL:     mapsURL(place.PlaceID, lat, lng),
	}
	if info.Name == "" {
		info.Name = "Unknown"
	}
	if info.Address == "" {
		info.Address = "Address not available"
	}
	if place.OpeningHours != nil {
		info.OpeningHours = place.OpeningHours.WeekdayText
	}
	if userLoc != nil {
		d := haversineMeters(userLoc.Lat, userLoc.Lng, lat, lng)
		info.Distance = &d
	}
	return info
}

// GetDirections looks up a route between origin and destination. It never
// returns an error: provider failures and transport errors come back as a
// success=false response.
func (c *Client) GetDirections(ctx context.Context, origin models.UserLocation, destination, travelMode string) models.DirectionsResponse {
	if travelMode == "" {
		travelMode = "DRIVING"
	}

	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	params.Set("destination", destination)
	params.Set("mode", strings.ToLower(travelMode))
	params.Set("key", c.apiKey)

	ctx, cancel := context.WithTimeout(ctx, directionsTimeout)
	defer cancel()

	var data DirectionsAPIResponse
	if err := c.getJSON(ctx, "/directions/json", params, &data); err != nil {
		return models.DirectionsResponse{
			Success: false,
			Message: fmt.Sprintf("Error getting directions: %v", err),
		}
	}
	if data.Status != "OK" {
		return models.DirectionsResponse{
			Success: false,
			Message: fmt.Sprintf("Directions API error: %s", statusMessage(data.Status, data.ErrorMessage)),
		}
	}
	if len(data.Routes) == 0 {
		return models.DirectionsResponse{
			Success: false,
			Message: "No routes found",
		}
	}

	var route Route
	if err := json.Unmarshal(data.Routes[0], &route); err != nil || len(route.Legs) == 0 {
		return models.DirectionsResponse{
			Success: false,
			Message: "Error getting directions: malformed route in response",
		}
	}
	leg := route.Legs[0]

	return models.DirectionsResponse{
		Success:  true,
		Message:  "Directions found",
		Routes:   data.Routes,
		Duration: leg.Duration.Text,
		Distance: leg.Distance.Text,
	}
}

// GeocodeAddress resolves an address to coordinates (fallback method).
// Returns nil on any failure.
func (c *Client) GeocodeAddress(ctx context.Context, address string) *models.GeocodeResult {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	var data GeocodeAPIResponse
	if err := c.getJSON(ctx, "/geocode/json", params, &data); err != nil {
		return nil
	}
	if data.Status != "OK" || len(data.Results) == 0 {
		return nil
	}
	r := data.Results[0]
	return &models.GeocodeResult{
		Lat:              r.Geometry.Location.Lat,
		Lng:              r.Geometry.Location.Lng,
		FormattedAddress: r.FormattedAddress,
	}
}

// getJSON performs a GET against the API and decodes the JSON body into out.
// Transport errors are stripped of the request URL so the API key never
// leaks into error messages.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", redactURLError(err))
	}

	c.logger("maps request path=%s", path)
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", redactURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// redactURLError drops the URL (which carries the API key) from transport
// errors, keeping only the underlying cause.
func redactURLError(err error) error {
	if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

func statusMessage(status, errorMessage string) string {
	if status == "" {
		status = "Unknown error"
	}
	if errorMessage != "" {
		return status + ": " + errorMessage
	}
	return status
}

// mapsURL builds the canonical Google Maps link for a place: by place_id
// when one exists, otherwise a coordinate view at a fixed zoom.
func mapsURL(placeID string, lat, lng float64) string {
	if placeID != "" {
		return "https://www.google.com/maps/place/?q=place_id:" + placeID
	}
	return fmt.Sprintf("https://www.google.com/maps/@%v,%v,%dz", lat, lng, mapsZoomLevel)
}

// haversineMeters computes the great-circle distance between two coordinates.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}
