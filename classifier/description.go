package classifier

import (
	"fmt"
	"strings"

	"spothunt-backend/models"
)

// DescriptionRule renders a description when Match holds.
type DescriptionRule struct {
	Name     string
	Match    func(p Place, category string) bool
	Describe func(p Place, category string) string
}

var brandDescriptions = []struct {
	key  string
	text string
}{
	{"starbucks", "Popular coffee chain with handcrafted drinks, seasonal specials and a comfortable place to catch up."},
	{"costa", "British coffee house known for its signature blends, flat whites and relaxed seating."},
	{"pret", "Fresh, organic coffee with freshly made sandwiches, salads and plant-based snacks."},
	{"caffè nero", "Italian-style espresso bar with a cosy, European coffee-house feel."},
	{"caffe nero", "Italian-style espresso bar with a cosy, European coffee-house feel."},
	{"gail's", "Artisan bakery with sourdough, pastries and specialty coffee."},
	{"joe & the juice", "Juice bar serving fresh-pressed juices, shakes and espresso in a lively setting."},
	{"blank street", "Minimalist coffee cart brand known for matcha and oat-milk lattes."},
	{"third space", "Premium gym with boutique classes, a climbing wall and wellness facilities."},
	{"gymbox", "High-energy gym with signature classes, boxing rings and DJs on the floor."},
	{"puregym", "24-hour gym with modern equipment and a full timetable of classes."},
	{"the gym group", "Low-cost 24-hour gym with free weights, cardio and functional training zones."},
	{"1rebel", "Boutique fitness studio for rhythm cycling, boxing and HIIT."},
	{"barry's", "Boutique studio known for its red-lit treadmill and strength interval classes."},
	{"leon", "Naturally fast food with healthy bowls, wraps and vegan options."},
	{"wagamama", "Japanese-inspired kitchen serving ramen, bowls and fresh juices."},
	{"itsu", "Asian-inspired healthy eating with poke, sushi and noodle bowls."},
}

var sportDescriptions = map[string]string{
	"yoga":         "Yoga studio offering flowing classes for strength, balance and mindfulness.",
	"pilates":      "Pilates studio with reformer and mat classes focused on core strength.",
	"crossfit":     "CrossFit box with coached WODs and a strong community vibe.",
	"boxing":       "Boxing gym with pad work, bag sessions and conditioning classes.",
	"climbing":     "Climbing wall with routes for every level plus training areas.",
	"bouldering":   "Bouldering centre with regularly reset problems and a social atmosphere.",
	"martial_arts": "Martial arts gym with technique classes and sparring sessions.",
	"fitness":      "Fitness centre with cardio, free weights and group workouts.",
}

var cuisineDescriptions = map[string]string{
	"coffee_shop":   "Specialty coffee shop with expertly pulled espresso and pour-overs.",
	"bubble_tea":    "Bubble tea spot with chewy boba, fruit teas and creamy milk teas.",
	"juice":         "Juice bar blending fresh-pressed juices and smoothies.",
	"smoothie":      "Smoothie bar with fruit blends, protein shakes and acai bowls.",
	"vegan":         "Plant-based kitchen with creative vegan dishes.",
	"vegetarian":    "Vegetarian kitchen with seasonal, veg-forward plates.",
	"healthy":       "Healthy eatery with balanced bowls, salads and fresh sides.",
	"poke":          "Poke bar serving fresh fish and veggie bowls made to order.",
	"brunch":        "All-day brunch spot with eggs, pancakes and great coffee.",
	"japanese":      "Japanese kitchen with sushi, ramen and small plates.",
	"korean":        "Korean kitchen with bibimbap, fried chicken and banchan.",
	"vietnamese":    "Vietnamese kitchen with pho, banh mi and fresh summer rolls.",
	"mediterranean": "Mediterranean kitchen with mezze, grills and fresh salads.",
}

var categoryDescriptions = map[string]string{
	models.CategoryCafe:       "Trendy café with great coffee and a welcoming atmosphere.",
	models.CategoryGym:        "Modern fitness space for training, classes and wellness.",
	models.CategoryRestaurant: "Stylish restaurant serving fresh, on-trend food.",
	models.CategoryTrendy:     "Trendy local spot worth discovering.",
}

func brandDescription(p Place) string {
	text := strings.ToLower(p.Name) + " " + p.Tag("brand")
	for _, b := range brandDescriptions {
		if containsWord(text, b.key) {
			return b.text
		}
	}
	return ""
}

// containsWord reports whether key occurs in text with no letter directly
// before or after it, so "pret" does not match "pretty".
func containsWord(text, key string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], key)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(key)
		if (i == 0 || !isLetter(text[i-1])) && (end == len(text) || !isLetter(text[end])) {
			return true
		}
		start = i + 1
	}
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}

func firstKnown(values []string, table map[string]string) string {
	for _, v := range values {
		if d, ok := table[v]; ok {
			return d
		}
	}
	return ""
}

// DescriptionRules are evaluated in order; the first match provides the
// description body.
var DescriptionRules = []DescriptionRule{
	{
		Name:     "brand",
		Match:    func(p Place, _ string) bool { return brandDescription(p) != "" },
		Describe: func(p Place, _ string) string { return brandDescription(p) },
	},
	{
		Name:     "tagged description",
		Match:    func(p Place, _ string) bool { return strings.TrimSpace(p.Tags["description"]) != "" },
		Describe: func(p Place, _ string) string { return strings.TrimSpace(p.Tags["description"]) },
	},
	{
		Name: "sport",
		Match: func(p Place, category string) bool {
			return category == models.CategoryGym && firstKnown(p.Sports(), sportDescriptions) != ""
		},
		Describe: func(p Place, _ string) string { return firstKnown(p.Sports(), sportDescriptions) },
	},
	{
		Name:     "cuisine",
		Match:    func(p Place, _ string) bool { return firstKnown(p.Cuisines(), cuisineDescriptions) != "" },
		Describe: func(p Place, _ string) string { return firstKnown(p.Cuisines(), cuisineDescriptions) },
	},
	{
		Name:     "category",
		Match:    func(_ Place, _ string) bool { return true },
		Describe: func(_ Place, category string) string { return categoryDescriptions[category] },
	},
}

// Describe builds a description from the first matching rule, followed by
// a "Features:" suffix when the place has amenities or vegan options.
func Describe(p Place, category string, amenities, dietary models.StringSet) string {
	var body string
	for _, rule := range DescriptionRules {
		if rule.Match(p, category) {
			body = rule.Describe(p, category)
			break
		}
	}
	if body == "" {
		body = categoryDescriptions[models.CategoryTrendy]
	}

	features := append([]string{}, amenities...)
	if dietary.Contains("vegan") {
		features = append(features, "vegan options")
	}
	if len(features) == 0 {
		return body
	}
	return fmt.Sprintf("%s Features: %s.", body, strings.Join(features, ", "))
}
