package service

import (
	"context"
	"fmt"

	"github.com/nitesh/places_service/pkg/models"
)

// IntentExtractor turns a free-text query into a structured intent. It must
// not fail: implementations degrade to a fallback intent instead.
type IntentExtractor interface {
	ExtractIntent(ctx context.Context, userQuery string) models.ExtractedIntent
}

// MapsClient is the mapping-provider surface the orchestrator needs.
type MapsClient interface {
	SearchPlaces(ctx context.Context, query, locationBias string, userLoc *models.UserLocation) ([]models.LocationInfo, error)
	GetDirections(ctx context.Context, origin models.UserLocation, destination, travelMode string) models.DirectionsResponse
}

type Service struct {
	llmClient    IntentExtractor
	mapsClient   MapsClient
	searchRadius int
}

func NewService(llmClient IntentExtractor, mapsClient MapsClient, searchRadius int) *Service {
	return &Service{llmClient: llmClient, mapsClient: mapsClient, searchRadius: searchRadius}
}

// Search runs the full query pipeline: intent extraction, place search,
// map-center computation, response envelope. A returned error means an
// internal/provider failure; an empty result set is NOT an error — it comes
// back as a success=false response so callers can tell the two apart.
func (s *Service) Search(ctx context.Context, query string, userLoc *models.UserLocation) (*models.LocationResponse, error) {
	intent := s.llmClient.ExtractIntent(ctx, query)

	formatted := intent.FormattedQuery
	if formatted == "" {
		formatted = query
	}

	locations, err := s.mapsClient.SearchPlaces(ctx, formatted, intent.Location, userLoc)
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}

	// Map center: mean of the results, or the user position when nothing
	// was found, or absent.
	var mapCenter *models.UserLocation
	if len(locations) > 0 {
		var sumLat, sumLng float64
		for _, loc := range locations {
			sumLat += loc.Lat
			sumLng += loc.Lng
		}
		mapCenter = &models.UserLocation{
			Lat: sumLat / float64(len(locations)),
			Lng: sumLng / float64(len(locations)),
		}
	} else if userLoc != nil {
		mapCenter = userLoc
	}

	if len(locations) == 0 {
		return &models.LocationResponse{
			Success:       false,
			Message:       "No locations found for your query",
			Locations:     []models.LocationInfo{},
			ExtractedInfo: intent,
			MapCenter:     mapCenter,
		}, nil
	}

	return &models.LocationResponse{
		Success:       true,
		Message:       fmt.Sprintf("Found %d location(s)", len(locations)),
		Locations:     locations,
		ExtractedInfo: intent,
		MapCenter:     mapCenter,
		SearchRadius:  s.searchRadius,
	}, nil
}

// Directions looks up a route. Provider failures come back inside the
// response (success=false), never as an error.
func (s *Service) Directions(ctx context.Context, origin models.UserLocation, destination, travelMode string) models.DirectionsResponse {
	return s.mapsClient.GetDirections(ctx, origin, destination, travelMode)
}
