// Package classifier turns raw place records from map providers into spot
// candidates. Every decision is driven by the ordered rule tables in
// rules.go, so each table can be read and tested on its own.
package classifier

import (
	"math"
	"strings"

	"spothunt-backend/models"
	"spothunt-backend/utils"
)

// Place is a raw place record as returned by a map provider. Tags follow
// OpenStreetMap conventions (amenity, cuisine, leisure, sport, brand, ...).
type Place struct {
	ID        string
	Source    string
	Name      string
	Latitude  float64
	Longitude float64
	HasCoords bool
	Address   string
	Rating    float64 // provider rating, 0 when unknown
	Tags      map[string]string
}

// Tag returns the lower-cased value of a tag, or "".
func (p Place) Tag(key string) string {
	return strings.ToLower(strings.TrimSpace(p.Tags[key]))
}

// TagIs reports whether the tag equals any of the given values.
func (p Place) TagIs(key string, values ...string) bool {
	v := p.Tag(key)
	if v == "" {
		return false
	}
	for _, want := range values {
		if v == want {
			return true
		}
	}
	return false
}

// Cuisines splits the cuisine tag into its individual values.
func (p Place) Cuisines() []string {
	return splitList(p.Tag("cuisine"))
}

// Sports splits the sport tag into its individual values.
func (p Place) Sports() []string {
	return splitList(p.Tag("sport"))
}

// Text is the lower-cased searchable text of the place: name, brand,
// cuisine and description.
func (p Place) Text() string {
	parts := []string{
		strings.ToLower(p.Name),
		p.Tag("brand"),
		p.Tag("cuisine"),
		p.Tag("description"),
	}
	return strings.Join(parts, " ")
}

// Classify converts a place into a spot candidate when it has usable
// coordinates and passes the trendiness rules. Unnamed places are named
// after their category. Distance is measured from
// the user's coordinates.
func Classify(p Place, userLat, userLng float64) (*models.Spot, bool) {
	if !p.HasCoords || utils.ValidateLocation(p.Latitude, p.Longitude) != nil {
		return nil, false
	}
	if !IsTrendy(p) {
		return nil, false
	}

	category := Categorize(p)
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = unnamedPlaceNames[category]
	}
	spot := &models.Spot{
		ID:         p.ID,
		Name:       name,
		Category:   category,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		Address:    p.Address,
		Rating:     Rating(p),
		ImageURL:   categoryImages[category],
		PriceRange: PriceRange(p),
		Source:     p.Source,
	}
	if spot.Address == "" {
		spot.Address = buildAddress(p.Tags)
	}
	spot.Trending = spot.Rating >= TrendingRating
	spot.DietaryOptions = DietaryOptions(p)
	spot.Ambiance = Ambiance(p, category)
	spot.Amenities = Amenities(p)
	spot.Description = Describe(p, category, spot.Amenities, spot.DietaryOptions)
	spot.Distance = utils.HaversineDistance(userLat, userLng, p.Latitude, p.Longitude)

	return spot, true
}

// Categorize returns the category of the first matching rule.
func Categorize(p Place) string {
	for _, rule := range CategoryRules {
		if rule.Match(p) {
			return rule.Category
		}
	}
	return models.CategoryTrendy
}

// IsTrendy returns the verdict of the first matching trend rule. A place no
// rule matches is not trendy.
func IsTrendy(p Place) bool {
	for _, rule := range TrendRules {
		if rule.Match(p) {
			return rule.Trendy
		}
	}
	return false
}

// PriceRange returns the price of the first matching price rule, or "$$".
func PriceRange(p Place) string {
	name := strings.ToLower(p.Name)
	for _, rule := range PriceRules {
		if containsAny(name, rule.Keywords) {
			return rule.Price
		}
	}
	return "$$"
}

// DietaryOptions collects the value of every matching dietary rule.
func DietaryOptions(p Place) models.StringSet {
	set := models.StringSet{}
	for _, rule := range DietaryRules {
		if rule.Match(p) {
			set.Add(rule.Value)
		}
	}
	return set
}

// Ambiance collects the value of every matching ambiance rule. The result
// is never empty.
func Ambiance(p Place, category string) models.StringSet {
	set := models.StringSet{}
	for _, rule := range AmbianceRules {
		if rule.Match(p, category) {
			set.Add(rule.Value)
		}
	}
	if len(set) == 0 {
		set.Add("trendy")
	}
	return set
}

// Amenities lists the features the place advertises through its tags.
func Amenities(p Place) models.StringSet {
	set := models.StringSet{}
	for _, rule := range FeatureRules {
		if rule.Match(p) {
			set.Add(rule.Value)
		}
	}
	return set
}

// Rating uses the provider rating when present. Otherwise it scores how
// well documented the place is: 4.0 plus 0.1 per detail tag, capped at 4.9.
func Rating(p Place) float64 {
	if p.Rating > 0 {
		return math.Min(p.Rating, 5)
	}
	score := 4.0
	for _, key := range detailTags {
		if p.Tag(key) != "" {
			score += 0.1
		}
	}
	score = math.Min(score, 4.9)
	return math.Round(score*10) / 10
}

func buildAddress(tags map[string]string) string {
	street := strings.TrimSpace(strings.TrimSpace(tags["addr:housenumber"]) + " " + strings.TrimSpace(tags["addr:street"]))
	var parts []string
	for _, part := range []string{street, tags["addr:city"], tags["addr:postcode"]} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

func splitList(v string) []string {
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == ';' || r == ',' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func anyIn(values []string, set map[string]bool) bool {
	for _, v := range values {
		if set[v] {
			return true
		}
	}
	return false
}
