package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// OverpassClient queries an OpenStreetMap Overpass API endpoint
type OverpassClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewOverpassClient creates a new Overpass client. timeout bounds each call.
func NewOverpassClient(endpoint string, timeout time.Duration) *OverpassClient {
	return &OverpassClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// OverpassElement is a node, way or relation from an Overpass response.
// Ways and relations carry their location in Center when queried with
// "out center".
type OverpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *OverpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

type OverpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coords returns the element location, preferring its own coordinates over
// the computed center. ok is false when neither is present.
func (e OverpassElement) Coords() (lat, lon float64, ok bool) {
	if e.Lat != nil && e.Lon != nil {
		return *e.Lat, *e.Lon, true
	}
	if e.Center != nil {
		return e.Center.Lat, e.Center.Lon, true
	}
	return 0, 0, false
}

// Key is a stable identifier for the element, e.g. "osm-node-123".
func (e OverpassElement) Key() string {
	return fmt.Sprintf("osm-%s-%d", e.Type, e.ID)
}

type OverpassResponse struct {
	Elements []OverpassElement `json:"elements"`
}

// BuildAroundQuery renders an Overpass QL union of the given tag selectors
// (e.g. `["amenity"="cafe"]`) around a point, for nodes and ways.
func BuildAroundQuery(selectors []string, lat, lon, radius float64, timeout time.Duration, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", int(timeout.Seconds()))
	around := fmt.Sprintf("(around:%.0f,%.6f,%.6f)", radius, lat, lon)
	for _, sel := range selectors {
		fmt.Fprintf(&b, "  node%s%s;\n", sel, around)
		fmt.Fprintf(&b, "  way%s%s;\n", sel, around)
	}
	fmt.Fprintf(&b, ");\nout center %d;\n", limit)
	return b.String()
}

// Query posts an Overpass QL query as a URL-encoded "data" form field.
func (c *OverpassClient) Query(ctx context.Context, query string) ([]OverpassElement, error) {
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build Overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "spothunt-backend/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Overpass API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("Overpass API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result OverpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse Overpass response: %w", err)
	}

	log.Printf("Overpass returned %d elements in %s", len(result.Elements), time.Since(start).Round(time.Millisecond))
	return result.Elements, nil
}
