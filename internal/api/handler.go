package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nitesh/places_service/internal/service"
	"github.com/nitesh/places_service/pkg/models"
)

// HealthInfo is the static configuration echoed by /health.
type HealthInfo struct {
	OllamaURL         string
	MapsConfigured    bool
	RateLimitRequests int
	RateLimitWindow   int
}

type Handler struct {
	svc    *service.Service
	health HealthInfo
}

func NewHandler(svc *service.Service, health HealthInfo) *Handler {
	return &Handler{svc: svc, health: health}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	v1 := r.Group("/v1")
	{
		v1.POST("/search", h.Search)
		v1.POST("/directions", h.Directions)
	}
	r.GET("/health", h.Health)
}

// Search: POST /v1/search
// Body: {"query": "...", "user_location": {"lat": ..., "lng": ...}}
func (h *Handler) Search(c *gin.Context) {
	var payload models.LocationQuery
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}

	res, err := h.svc.Search(c.Request.Context(), payload.Query, payload.UserLocation)
	if err != nil {
		// Internal/provider failure — distinct from the 200 "no locations
		// found" success=false response.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error processing your request: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Directions: POST /v1/directions
// Body: {"origin": {"lat": ..., "lng": ...}, "destination": "...", "travel_mode": "DRIVING"}
func (h *Handler) Directions(c *gin.Context) {
	var payload models.DirectionsRequest
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}

	// Provider failures are reported inside the response body, so this is
	// always a 200.
	res := h.svc.Directions(c.Request.Context(), *payload.Origin, payload.Destination, payload.TravelMode)
	c.JSON(http.StatusOK, res)
}

// Health: GET /health
func (h *Handler) Health(c *gin.Context) {
	mapsStatus := "not configured"
	if h.health.MapsConfigured {
		mapsStatus = "configured"
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"services": gin.H{
			"api":         "running",
			"ollama":      h.health.OllamaURL,
			"google_maps": mapsStatus,
		},
		"rate_limits": gin.H{
			"requests_per_window": h.health.RateLimitRequests,
			"window_seconds":      h.health.RateLimitWindow,
		},
	})
}
