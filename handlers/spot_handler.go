package handlers

import (
	"net/http"

	"spothunt-backend/models"
	"spothunt-backend/services"

	"github.com/gin-gonic/gin"
)

type SpotHandler struct {
	finder      *services.NearbySpotFinder
	spotService *services.SpotService
	queries     *services.SpotQueryService
}

// NewSpotHandler creates a new spot handler
func NewSpotHandler(finder *services.NearbySpotFinder, spotService *services.SpotService, queries *services.SpotQueryService) *SpotHandler {
	return &SpotHandler{
		finder:      finder,
		spotService: spotService,
		queries:     queries,
	}
}

// GetNearby finds trendy spots around a location, closest first
// GET /api/spots/nearby?lat=51.5115&lng=-0.2732&radius=1000&priceRange=$$&dietary=vegan
func (h *SpotHandler) GetNearby(c *gin.Context) {
	var req models.NearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "Latitude and longitude are required")
		return
	}

	spots, err := h.finder.FindNearby(c.Request.Context(), *req.Latitude, *req.Longitude, req.Radius, req.SpotFilters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, spots)
}

// GetGyms finds fitness spots around a location
// GET /api/spots/gym?lat=51.5115&lng=-0.2732&radius=1500
func (h *SpotHandler) GetGyms(c *gin.Context) {
	var req models.NearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "Latitude and longitude are required")
		return
	}

	spots, err := h.finder.FindGyms(c.Request.Context(), *req.Latitude, *req.Longitude, req.Radius)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, spots)
}

// Search runs a natural-language spot search
// GET /api/spots/search?query=cozy+vegan+brunch&lat=51.5115&lng=-0.2732
func (h *SpotHandler) Search(c *gin.Context) {
	var req models.SpotSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "Query, latitude and longitude are required")
		return
	}

	resp, err := h.queries.Search(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListSpots lists stored spots
// GET /api/spots?category=cafe&query=matcha
func (h *SpotHandler) ListSpots(c *gin.Context) {
	result, err := h.spotService.ListSpots(c.Request.Context(), services.ListParams{
		Category: c.Query("category"),
		Query:    c.Query("query"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filters := map[string]string{}
	if category := c.Query("category"); category != "" {
		filters["category"] = category
	}

	c.JSON(http.StatusOK, gin.H{
		"spots": result.Spots,
		"metadata": models.NewResponseMetadata(
			len(result.Spots),
			result.TotalAvailable,
			c.Query("query"),
			filters,
		),
	})
}

// GetSpotByID retrieves a single stored spot
// GET /api/spots/:id
func (h *SpotHandler) GetSpotByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondMissingParam(c, "Spot ID")
		return
	}

	spot, err := h.spotService.GetSpot(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, spot)
}
