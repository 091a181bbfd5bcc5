package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// TooFarResponse is returned when a check-in is rejected by distance
type TooFarResponse struct {
	Message     string  `json:"message"`
	Distance    float64 `json:"distance"`
	MaxDistance float64 `json:"maxDistance"`
	SpotName    string  `json:"spotName"`
}

// NearbyRequest holds the query parameters of the discovery endpoints
type NearbyRequest struct {
	Latitude  *float64 `form:"lat" binding:"required"`
	Longitude *float64 `form:"lng" binding:"required"`
	Radius    float64  `form:"radius"` // in meters, optional
	SpotFilters
}

// SpotSearchRequest represents a natural-language spot search
type SpotSearchRequest struct {
	Query     string   `form:"query" binding:"required"`
	Latitude  *float64 `form:"lat" binding:"required"`
	Longitude *float64 `form:"lng" binding:"required"`
	Radius    float64  `form:"radius"`
}

// SpotSearchResponse represents the response for a natural-language search
type SpotSearchResponse struct {
	Query    string            `json:"query"`
	Intent   string            `json:"intent"`
	Filters  SpotFilters       `json:"filters"`
	Spots    []Spot            `json:"spots"`
	Metadata *ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains pagination and query information for API responses
type ResponseMetadata struct {
	Count          int               `json:"count"`             // Number of spots returned
	TotalAvailable int               `json:"total_available"`   // Total matching spots before limit
	Page           int               `json:"page"`              // Current page number
	PageSize       int               `json:"page_size"`         // Items per page
	Query          string            `json:"query,omitempty"`   // Original query string
	Filters        map[string]string `json:"filters,omitempty"` // Applied filters
}

// NewResponseMetadata creates a new ResponseMetadata with defaults
func NewResponseMetadata(count, totalAvailable int, query string, filters map[string]string) *ResponseMetadata {
	return &ResponseMetadata{
		Count:          count,
		TotalAvailable: totalAvailable,
		Page:           1,
		PageSize:       count,
		Query:          query,
		Filters:        filters,
	}
}
