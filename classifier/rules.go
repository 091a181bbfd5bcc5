package classifier

import (
	"strings"

	"spothunt-backend/models"
)

// TrendingRating is the rating at which a candidate is flagged as trending.
const TrendingRating = 4.5

// CategoryRule maps a place to a category when Match holds.
type CategoryRule struct {
	Name     string
	Match    func(Place) bool
	Category string
}

// TrendRule decides trendiness when Match holds. Rules are evaluated in
// order and the first match wins.
type TrendRule struct {
	Name   string
	Match  func(Place) bool
	Trendy bool
}

// PriceRule assigns a price range when the name contains a keyword.
type PriceRule struct {
	Keywords []string
	Price    string
}

// TagRule adds Value to a set when Match holds.
type TagRule struct {
	Value string
	Match func(Place) bool
}

// AmbianceRule is a TagRule that can also see the resolved category.
type AmbianceRule struct {
	Value string
	Match func(Place, string) bool
}

var fastFoodChains = []string{
	"mcdonald", "burger king", "kfc", "kentucky fried", "subway", "domino",
	"pizza hut", "greggs", "wendy's", "taco bell", "papa john", "little caesars",
	"five guys", "popeyes", "chicken cottage", "dixy chicken", "sbarro",
}

var trendyKeywords = []string{
	// drinks
	"matcha", "boba", "bubble tea", "kombucha", "smoothie", "juice", "cold brew",
	"espresso", "flat white", "latte", "specialty coffee", "roaster", "roastery",
	// food
	"acai", "açaí", "poke", "brunch", "avocado", "sourdough", "bakery",
	"patisserie", "vegan", "plant-based", "organic", "superfood", "salad",
	"natural wine", "craft",
	// aesthetic
	"artisan", "boutique", "rooftop", "concept store",
	// fitness
	"crossfit", "yoga", "pilates", "barre", "spin class", "cycling", "boxing",
	"climbing", "bouldering", "hiit", "wellness", "fitness",
}

var healthyCuisines = map[string]bool{
	"vegan": true, "vegetarian": true, "healthy": true, "salad": true,
	"juice": true, "smoothie": true, "acai": true, "poke": true,
	"organic": true, "raw_food": true, "plant_based": true, "bubble_tea": true,
}

var trendyCuisines = map[string]bool{
	"brunch": true, "coffee_shop": true, "japanese": true, "ramen": true,
	"sushi": true, "korean": true, "vietnamese": true, "mediterranean": true,
	"middle_eastern": true, "lebanese": true, "peruvian": true, "tapas": true,
}

var fitnessLeisure = map[string]bool{
	"fitness_centre": true, "sports_centre": true, "fitness_station": true,
	"sports_hall": true,
}

var fitnessSports = map[string]bool{
	"fitness": true, "yoga": true, "pilates": true, "crossfit": true,
	"boxing": true, "climbing": true, "martial_arts": true, "gymnastics": true,
	"weightlifting": true, "bouldering": true,
}

// detailTags are the tags that count toward a derived rating.
var detailTags = []string{
	"opening_hours", "website", "phone", "cuisine", "outdoor_seating",
	"internet_access", "addr:street", "description", "wheelchair",
}

func isFitness(p Place) bool {
	return fitnessLeisure[p.Tag("leisure")] || anyIn(p.Sports(), fitnessSports)
}

func isChain(p Place) bool {
	return containsAny(strings.ToLower(p.Name), fastFoodChains) ||
		containsAny(p.Tag("brand"), fastFoodChains)
}

func hasTrendyKeyword(p Place) bool {
	return containsAny(p.Text(), trendyKeywords)
}

func hasHealthyCuisine(p Place) bool {
	return anyIn(p.Cuisines(), healthyCuisines)
}

// CategoryRules are evaluated in order. Fitness always wins so that a gym
// café is still a gym.
var CategoryRules = []CategoryRule{
	{Name: "fitness", Match: isFitness, Category: models.CategoryGym},
	{Name: "cafe", Match: func(p Place) bool {
		return p.TagIs("amenity", "cafe", "juice_bar", "ice_cream") ||
			p.TagIs("shop", "coffee", "tea") ||
			p.TagIs("cuisine", "coffee_shop", "bubble_tea")
	}, Category: models.CategoryCafe},
	{Name: "restaurant", Match: func(p Place) bool {
		return p.TagIs("amenity", "restaurant", "food_court")
	}, Category: models.CategoryRestaurant},
}

// TrendRules are evaluated in order; the first match decides.
var TrendRules = []TrendRule{
	{Name: "fast food chain", Match: isChain, Trendy: false},
	{Name: "restaurant with trendy food", Match: func(p Place) bool {
		return p.TagIs("amenity", "restaurant") &&
			(hasTrendyKeyword(p) || hasHealthyCuisine(p) || anyIn(p.Cuisines(), trendyCuisines))
	}, Trendy: true},
	{Name: "ordinary restaurant", Match: func(p Place) bool {
		return p.TagIs("amenity", "restaurant")
	}, Trendy: false},
	{Name: "cafe or juice bar", Match: func(p Place) bool {
		return p.TagIs("amenity", "cafe", "juice_bar")
	}, Trendy: true},
	{Name: "healthy cuisine", Match: hasHealthyCuisine, Trendy: true},
	{Name: "fitness", Match: isFitness, Trendy: true},
	{Name: "trendy keyword", Match: hasTrendyKeyword, Trendy: true},
}

// PriceRules are evaluated in order against the lower-cased name.
var PriceRules = []PriceRule{
	{Keywords: []string{"artisan", "boutique", "premium", "luxury", "specialty"}, Price: "$$$"},
	{Keywords: []string{"quick", "express", "grab"}, Price: "$"},
}

func dietTag(p Place, diet string) bool {
	return p.TagIs("diet:"+diet, "yes", "only")
}

// DietaryRules all apply; each match adds its value.
var DietaryRules = []TagRule{
	{Value: "vegan", Match: func(p Place) bool {
		return dietTag(p, "vegan") || containsAny(p.Text(), []string{"vegan", "plant-based", "plant based"})
	}},
	{Value: "vegetarian", Match: func(p Place) bool {
		return dietTag(p, "vegetarian") || containsAny(p.Tag("cuisine"), []string{"vegetarian"})
	}},
	{Value: "gluten-free", Match: func(p Place) bool {
		return dietTag(p, "gluten_free") || strings.Contains(p.Text(), "gluten")
	}},
	{Value: "dairy-free", Match: func(p Place) bool {
		return dietTag(p, "lactose_free") || strings.Contains(p.Text(), "oat milk")
	}},
	{Value: "halal", Match: func(p Place) bool { return dietTag(p, "halal") }},
	{Value: "healthy", Match: hasHealthyCuisine},
}

// AmbianceRules all apply; Ambiance falls back to "trendy" when none match.
var AmbianceRules = []AmbianceRule{
	{Value: "outdoor", Match: func(p Place, _ string) bool {
		return p.TagIs("outdoor_seating", "yes") || strings.Contains(p.Text(), "garden")
	}},
	{Value: "cozy", Match: func(p Place, _ string) bool {
		return containsAny(p.Text(), []string{"cozy", "cosy", "snug", "nook"})
	}},
	{Value: "rooftop", Match: func(p Place, _ string) bool {
		return strings.Contains(p.Text(), "rooftop")
	}},
	{Value: "artisan", Match: func(p Place, _ string) bool {
		return containsAny(p.Text(), []string{"artisan", "roaster", "roastery", "specialty", "craft"})
	}},
	{Value: "work-friendly", Match: func(p Place, category string) bool {
		return category == models.CategoryCafe && p.TagIs("internet_access", "wlan", "yes", "wifi")
	}},
	{Value: "energetic", Match: func(p Place, category string) bool {
		return category == models.CategoryGym && !containsAny(p.Text()+" "+p.Tag("sport"), []string{"yoga", "pilates"})
	}},
	{Value: "calm", Match: func(p Place, _ string) bool {
		return containsAny(p.Text()+" "+p.Tag("sport"), []string{"yoga", "pilates", "tea house", "teahouse"})
	}},
	{Value: "social", Match: func(p Place, _ string) bool {
		return containsAny(p.Text(), []string{"brunch", "social", "wine"})
	}},
}

// FeatureRules describe the amenities a place advertises. The values are
// shown to users as is.
var FeatureRules = []TagRule{
	{Value: "outdoor seating", Match: func(p Place) bool { return p.TagIs("outdoor_seating", "yes") }},
	{Value: "free wifi", Match: func(p Place) bool { return p.TagIs("internet_access", "wlan", "yes", "wifi") }},
	{Value: "takeaway", Match: func(p Place) bool { return p.TagIs("takeaway", "yes", "only") }},
	{Value: "wheelchair accessible", Match: func(p Place) bool { return p.TagIs("wheelchair", "yes") }},
	{Value: "delivery", Match: func(p Place) bool { return p.TagIs("delivery", "yes") }},
}

var unnamedPlaceNames = map[string]string{
	models.CategoryCafe:       "Local Café",
	models.CategoryGym:        "Local Gym",
	models.CategoryRestaurant: "Local Restaurant",
	models.CategoryTrendy:     "Local Spot",
}

var categoryImages = map[string]string{
	models.CategoryCafe:       "https://images.unsplash.com/photo-1554118811-1e0d58224f24?w=800",
	models.CategoryGym:        "https://images.unsplash.com/photo-1534438327276-14e5300c3a48?w=800",
	models.CategoryRestaurant: "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=800",
	models.CategoryTrendy:     "https://images.unsplash.com/photo-1521017432531-fbd92d768814?w=800",
}
