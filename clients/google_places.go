package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const googlePlacesURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// GooglePlacesClient handles Google Places API requests
type GooglePlacesClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGooglePlacesClient creates a new Google Places API client
func NewGooglePlacesClient(apiKey string, timeout time.Duration) *GooglePlacesClient {
	return &GooglePlacesClient{
		apiKey:     apiKey,
		baseURL:    googlePlacesURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL points the client at another endpoint (used in tests)
func (c *GooglePlacesClient) WithBaseURL(baseURL string) *GooglePlacesClient {
	c.baseURL = baseURL
	return c
}

// Enabled reports whether an API key is configured
func (c *GooglePlacesClient) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// GooglePlace is one result of a nearby search
type GooglePlace struct {
	PlaceID    string   `json:"place_id"`
	Name       string   `json:"name"`
	Vicinity   string   `json:"vicinity"`
	Rating     float64  `json:"rating"`
	PriceLevel int      `json:"price_level"`
	Types      []string `json:"types"`
	Geometry   struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type googlePlacesResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Results      []GooglePlace `json:"results"`
}

// SearchNearby finds places of the given type near the coordinates
func (c *GooglePlacesClient) SearchNearby(ctx context.Context, lat, lng float64, radiusMeters int, placeType string) ([]GooglePlace, error) {
	if !c.Enabled() {
		return []GooglePlace{}, nil
	}

	params := url.Values{}
	params.Add("location", fmt.Sprintf("%.6f,%.6f", lat, lng))
	params.Add("radius", fmt.Sprintf("%d", radiusMeters))
	if placeType != "" {
		params.Add("type", placeType)
	}
	params.Add("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Google Places request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Google Places API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("Google Places API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result googlePlacesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse Google Places response: %w", err)
	}
	if result.Status != "OK" && result.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("Google Places API status %s: %s", result.Status, result.ErrorMessage)
	}

	log.Printf("Found %d %s places near (%.6f, %.6f)", len(result.Results), placeType, lat, lng)
	return result.Results, nil
}
