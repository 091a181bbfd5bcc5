package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"spothunt-backend/config"
	"spothunt-backend/models"
	"spothunt-backend/utils"

	"gorm.io/gorm"
)

// NearbyFinder is the discovery contract used by the notification service
// and the search endpoint.
type NearbyFinder interface {
	FindNearby(ctx context.Context, lat, lng, radius float64, filters models.SpotFilters) ([]models.Spot, error)
}

// NearbySpotFinder tries each source in order and returns the first
// non-empty, filtered, distance-sorted result.
type NearbySpotFinder struct {
	db      *gorm.DB
	cfg     *config.Config
	sources []SpotSource
	cache   sync.Map // cache key -> *spotCache
}

type spotCache struct {
	Spots    []models.Spot
	CachedAt time.Time
}

// NewNearbySpotFinder creates a finder over the given sources, tried in order
func NewNearbySpotFinder(cfg *config.Config, db *gorm.DB, sources ...SpotSource) *NearbySpotFinder {
	return &NearbySpotFinder{
		db:      db,
		cfg:     cfg,
		sources: sources,
	}
}

// FindNearby returns trendy spots within radius meters of (lat, lng),
// closest first. Source failures are logged and never returned; the only
// error is an invalid location.
func (f *NearbySpotFinder) FindNearby(ctx context.Context, lat, lng, radius float64, filters models.SpotFilters) ([]models.Spot, error) {
	return f.find(ctx, SpotQuery{Latitude: lat, Longitude: lng, Radius: radius}, filters)
}

// FindGyms is FindNearby restricted to fitness places
func (f *NearbySpotFinder) FindGyms(ctx context.Context, lat, lng, radius float64) ([]models.Spot, error) {
	q := SpotQuery{Latitude: lat, Longitude: lng, Radius: radius, Category: models.CategoryGym}
	return f.find(ctx, q, models.SpotFilters{Category: models.CategoryGym})
}

func (f *NearbySpotFinder) find(ctx context.Context, q SpotQuery, filters models.SpotFilters) ([]models.Spot, error) {
	if err := utils.ValidateLocation(q.Latitude, q.Longitude); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if q.Radius <= 0 {
		q.Radius = f.cfg.DefaultRadius
	}

	for _, src := range f.sources {
		candidates, err := f.fetch(ctx, src, q)
		if err != nil {
			log.Printf("Spot source %s failed, trying next: %v", src.Name(), err)
			continue
		}

		spots := f.refine(ctx, candidates, q, filters)
		if len(spots) > 0 {
			log.Printf("Source %s returned %d spots near (%.4f, %.4f)", src.Name(), len(spots), q.Latitude, q.Longitude)
			return spots, nil
		}
	}

	return []models.Spot{}, nil
}

// fetch returns a source's raw candidates. Complete answers from remote
// sources are cached; a partial answer is used once and fetched again next
// time.
func (f *NearbySpotFinder) fetch(ctx context.Context, src SpotSource, q SpotQuery) ([]models.Spot, error) {
	remote, ok := src.(remoteSource)
	cacheable := ok && remote.Remote()

	cacheKey := f.getCacheKey(src.Name(), q)
	if cacheable {
		if cached, ok := f.getFromCache(cacheKey); ok {
			return cloneSpots(cached.Spots), nil
		}
	}

	spots, err := src.Find(ctx, q)
	if err != nil {
		if !isPartial(err) {
			return nil, err
		}
		log.Printf("Spot source %s answered partially: %v", src.Name(), err)
		return spots, nil
	}
	if cacheable {
		f.putInCache(cacheKey, &spotCache{Spots: cloneSpots(spots), CachedAt: time.Now()})
	}
	return spots, nil
}

// refine dedups, filters, overlays stored state, sorts and truncates
func (f *NearbySpotFinder) refine(ctx context.Context, candidates []models.Spot, q SpotQuery, filters models.SpotFilters) []models.Spot {
	seen := make(map[string]bool, len(candidates))
	unique := make([]models.Spot, 0, len(candidates))
	for _, spot := range candidates {
		key := spot.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, spot)
	}

	spots := utils.FilterByDistanceWithPredicate[models.Spot](unique, q.Latitude, q.Longitude, q.Radius,
		func(s *models.Spot) bool { return filters.Matches(*s) },
	)
	f.overlayStored(ctx, spots)
	utils.SortByDistance[models.Spot](spots)

	return utils.Limit(spots, f.cfg.MaxNearbyResults)
}

// overlayStored copies persisted counters onto live candidates that have
// already been checked into.
func (f *NearbySpotFinder) overlayStored(ctx context.Context, spots []models.Spot) {
	if f.db == nil || len(spots) == 0 {
		return
	}

	ids := make([]string, 0, len(spots))
	for _, s := range spots {
		if s.Source != models.SourceStored {
			ids = append(ids, s.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	var stored []models.Spot
	if err := f.db.WithContext(ctx).Select("id", "hunt_count", "rating").Where("id IN ?", ids).Find(&stored).Error; err != nil {
		log.Printf("Failed to overlay stored spot state: %v", err)
		return
	}

	byID := make(map[string]models.Spot, len(stored))
	for _, s := range stored {
		byID[s.ID] = s
	}
	for i := range spots {
		if s, ok := byID[spots[i].ID]; ok {
			spots[i].HuntCount = s.HuntCount
			if s.Rating > 0 {
				spots[i].Rating = s.Rating
			}
		}
	}
}

// =============================================================================
// Cache
// =============================================================================

// getCacheKey snaps the center to a ~11m grid cell
func (f *NearbySpotFinder) getCacheKey(source string, q SpotQuery) string {
	return fmt.Sprintf("%s_%s_%d_%s", source, utils.GridCell(q.Latitude, q.Longitude, 4), int(q.Radius), q.Category)
}

// getFromCache retrieves cached candidates if still valid
func (f *NearbySpotFinder) getFromCache(key string) (*spotCache, bool) {
	if cached, ok := f.cache.Load(key); ok {
		entry := cached.(*spotCache)
		if time.Since(entry.CachedAt) < f.cfg.NearbyCacheTTL {
			return entry, true
		}
		f.cache.Delete(key)
	}
	return nil, false
}

func (f *NearbySpotFinder) putInCache(key string, entry *spotCache) {
	f.cache.Store(key, entry)
}

// InvalidateCache clears all cached candidates
func (f *NearbySpotFinder) InvalidateCache() {
	f.cache.Range(func(key, value interface{}) bool {
		f.cache.Delete(key)
		return true
	})
	log.Println("Nearby spot cache invalidated")
}

func cloneSpots(spots []models.Spot) []models.Spot {
	out := make([]models.Spot, len(spots))
	copy(out, spots)
	return out
}
