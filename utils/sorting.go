package utils

import (
	"sort"
)

// Locatable is implemented by anything with coordinates and a computed distance
type Locatable interface {
	GetLatitude() float64
	GetLongitude() float64
	GetDistance() float64
	SetDistance(float64)
}

// SortByDistance sorts by the already computed distance, nearest first.
// Equal distances keep their input order.
func SortByDistance[T any, PT interface {
	*T
	Locatable
}](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return PT(&items[i]).GetDistance() < PT(&items[j]).GetDistance()
	})
}

// =============================================================================
// Distance Filtering
// =============================================================================

// FilterByDistance filters items within a radius from a reference point
// and sets the Distance field on each item. Returns filtered slice.
func FilterByDistance[T any, PT interface {
	*T
	Locatable
}](items []T, refLat, refLon, radius float64) []T {
	return FilterByDistanceWithPredicate[T, PT](items, refLat, refLon, radius, func(PT) bool { return true })
}

// FilterByDistanceWithPredicate filters items within a radius with an additional condition
func FilterByDistanceWithPredicate[T any, PT interface {
	*T
	Locatable
}](items []T, refLat, refLon, radius float64, predicate func(PT) bool) []T {
	filtered := make([]T, 0, len(items))
	for i := range items {
		ptr := PT(&items[i])
		dist := HaversineDistance(refLat, refLon, ptr.GetLatitude(), ptr.GetLongitude())
		if dist <= radius && predicate(ptr) {
			ptr.SetDistance(dist)
			filtered = append(filtered, items[i])
		}
	}
	return filtered
}

// Limit truncates items to at most n elements
func Limit[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
