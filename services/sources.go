package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"spothunt-backend/classifier"
	"spothunt-backend/clients"
	"spothunt-backend/models"
	"spothunt-backend/utils"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// SpotQuery is what every SpotSource is asked for
type SpotQuery struct {
	Latitude  float64
	Longitude float64
	Radius    float64 // meters
	Category  string  // optional, narrows the places requested
}

// SpotSource is one place-data provider in the finder's fallback chain.
// Find returns unfiltered candidates with coordinates; an error means the
// source is unavailable and the next source is tried.
type SpotSource interface {
	Name() string
	Find(ctx context.Context, q SpotQuery) ([]models.Spot, error)
}

// remoteSource is implemented by sources backed by an external API. Their
// candidates are cached by the finder.
type remoteSource interface {
	Remote() bool
}

// =============================================================================
// Overpass
// =============================================================================

// overpassSelectors are the tag selectors queried per place group
var overpassSelectors = map[string][]string{
	models.CategoryCafe: {
		`["amenity"~"^(cafe|juice_bar|ice_cream)$"]`,
		`["shop"~"^(coffee|tea)$"]`,
	},
	models.CategoryRestaurant: {
		`["amenity"="restaurant"]`,
	},
	models.CategoryGym: {
		`["leisure"~"^(fitness_centre|sports_centre)$"]`,
		`["sport"~"yoga|pilates|crossfit|fitness|boxing|climbing"]`,
	},
}

var overpassGroups = []string{models.CategoryCafe, models.CategoryRestaurant, models.CategoryGym}

// groupsFor returns the place groups to query for a category
func groupsFor(category string) []string {
	if _, ok := overpassSelectors[category]; ok {
		return []string{category}
	}
	return overpassGroups
}

// PartialError reports a source that answered for some place groups only.
// The spots returned alongside it are usable but must not be cached.
type PartialError struct {
	Failed int
	Total  int
	Err    error // first failure
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%d of %d place groups failed: %v", e.Failed, e.Total, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

func isPartial(err error) bool {
	var partial *PartialError
	return errors.As(err, &partial)
}

// fetchGroups runs fetch for every group concurrently. A failing group
// contributes nothing; the error is a *PartialError when some groups failed
// and a plain error when all of them did.
func fetchGroups[T any](source string, groups []string, fetch func(group string) ([]T, error)) ([]T, error) {
	results := make([][]T, len(groups))
	failed := make([]error, len(groups))
	var g errgroup.Group
	for i, group := range groups {
		g.Go(func() error {
			items, err := fetch(group)
			if err != nil {
				log.Printf("%s %s query failed: %v", source, group, err)
				failed[i] = err
				return nil
			}
			results[i] = items
			return nil
		})
	}
	g.Wait()

	var (
		items    []T
		failures int
		firstErr error
	)
	for i := range groups {
		if failed[i] != nil {
			failures++
			if firstErr == nil {
				firstErr = failed[i]
			}
			continue
		}
		items = append(items, results[i]...)
	}
	switch {
	case failures == 0:
		return items, nil
	case failures == len(groups):
		return nil, fmt.Errorf("all %d %s queries failed: %w", failures, source, firstErr)
	default:
		return items, &PartialError{Failed: failures, Total: len(groups), Err: firstErr}
	}
}

// OverpassSource finds spots in OpenStreetMap data
type OverpassSource struct {
	client  *clients.OverpassClient
	timeout time.Duration
	limit   int
}

func NewOverpassSource(client *clients.OverpassClient, timeout time.Duration) *OverpassSource {
	return &OverpassSource{client: client, timeout: timeout, limit: 100}
}

func (s *OverpassSource) Name() string { return "overpass" }
func (s *OverpassSource) Remote() bool { return true }

// Find runs one query per place group concurrently
func (s *OverpassSource) Find(ctx context.Context, q SpotQuery) ([]models.Spot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	elements, err := fetchGroups("Overpass", groupsFor(q.Category), func(group string) ([]clients.OverpassElement, error) {
		query := clients.BuildAroundQuery(overpassSelectors[group], q.Latitude, q.Longitude, q.Radius, s.timeout, s.limit)
		return s.client.Query(ctx, query)
	})
	if err != nil && !isPartial(err) {
		return nil, err
	}

	var spots []models.Spot
	for _, el := range elements {
		if spot, ok := classifier.Classify(placeFromOverpass(el), q.Latitude, q.Longitude); ok {
			spots = append(spots, *spot)
		}
	}
	return spots, err
}

func placeFromOverpass(el clients.OverpassElement) classifier.Place {
	lat, lon, ok := el.Coords()
	return classifier.Place{
		ID:        el.Key(),
		Source:    models.SourceOSM,
		Name:      el.Tags["name"],
		Latitude:  lat,
		Longitude: lon,
		HasCoords: ok,
		Tags:      el.Tags,
	}
}

// =============================================================================
// Google Places
// =============================================================================

// googlePlaceTags maps Google place types onto the OSM tags the classifier
// understands.
var googlePlaceTags = map[string][2]string{
	"cafe":          {"amenity", "cafe"},
	"restaurant":    {"amenity", "restaurant"},
	"meal_takeaway": {"amenity", "fast_food"},
	"bakery":        {"shop", "bakery"},
	"gym":           {"leisure", "fitness_centre"},
}

var googleTypes = map[string]string{
	models.CategoryCafe:       "cafe",
	models.CategoryRestaurant: "restaurant",
	models.CategoryGym:        "gym",
}

// GooglePlacesSource finds spots with the Google Places nearby search
type GooglePlacesSource struct {
	client *clients.GooglePlacesClient
}

func NewGooglePlacesSource(client *clients.GooglePlacesClient) *GooglePlacesSource {
	return &GooglePlacesSource{client: client}
}

func (s *GooglePlacesSource) Name() string { return "google_places" }
func (s *GooglePlacesSource) Remote() bool { return true }

// Find runs one nearby search per place type concurrently
func (s *GooglePlacesSource) Find(ctx context.Context, q SpotQuery) ([]models.Spot, error) {
	if !s.client.Enabled() {
		return nil, nil
	}

	radius := int(math.Round(q.Radius))
	places, err := fetchGroups("Google Places", groupsFor(q.Category), func(group string) ([]clients.GooglePlace, error) {
		return s.client.SearchNearby(ctx, q.Latitude, q.Longitude, radius, googleTypes[group])
	})
	if err != nil && !isPartial(err) {
		return nil, err
	}

	var spots []models.Spot
	for _, p := range places {
		if spot, ok := classifier.Classify(placeFromGoogle(p), q.Latitude, q.Longitude); ok {
			spots = append(spots, *spot)
		}
	}
	return spots, err
}

func placeFromGoogle(p clients.GooglePlace) classifier.Place {
	tags := map[string]string{}
	for _, t := range p.Types {
		if kv, ok := googlePlaceTags[t]; ok {
			if _, set := tags[kv[0]]; !set {
				tags[kv[0]] = kv[1]
			}
		}
	}
	return classifier.Place{
		ID:        "gplaces-" + p.PlaceID,
		Source:    models.SourceGoogle,
		Name:      p.Name,
		Latitude:  p.Geometry.Location.Lat,
		Longitude: p.Geometry.Location.Lng,
		HasCoords: p.Geometry.Location.Lat != 0 || p.Geometry.Location.Lng != 0,
		Address:   p.Vicinity,
		Rating:    p.Rating,
		Tags:      tags,
	}
}

// =============================================================================
// Stored spots
// =============================================================================

// StoredSpotSource serves spots already in the database: the seed list and
// spots materialized by check-ins. It is the last resort of the chain.
type StoredSpotSource struct {
	db *gorm.DB
}

func NewStoredSpotSource(db *gorm.DB) *StoredSpotSource {
	return &StoredSpotSource{db: db}
}

func (s *StoredSpotSource) Name() string { return "stored" }

func (s *StoredSpotSource) Find(ctx context.Context, q SpotQuery) ([]models.Spot, error) {
	// Bounding box prefilter, then the exact radius
	latDelta := q.Radius / utils.EarthRadiusMeters * 180 / math.Pi
	lonDelta := latDelta / math.Max(math.Cos(q.Latitude*math.Pi/180), 0.01)

	query := s.db.WithContext(ctx).Model(&models.Spot{}).
		Where("latitude BETWEEN ? AND ?", q.Latitude-latDelta, q.Latitude+latDelta).
		Where("longitude BETWEEN ? AND ?", q.Longitude-lonDelta, q.Longitude+lonDelta)
	if q.Category != "" {
		query = query.Where("category = ?", strings.ToLower(q.Category))
	}

	var spots []models.Spot
	if err := query.Find(&spots).Error; err != nil {
		return nil, fmt.Errorf("failed to load stored spots: %w", err)
	}
	return utils.FilterByDistance[models.Spot](spots, q.Latitude, q.Longitude, q.Radius), nil
}
