package classifier

import (
	"strings"
	"testing"

	"spothunt-backend/models"
)

func place(name string, tags map[string]string) Place {
	return Place{
		ID:        "osm-node-1",
		Source:    models.SourceOSM,
		Name:      name,
		Latitude:  51.5115,
		Longitude: -0.2732,
		HasCoords: true,
		Tags:      tags,
	}
}

func TestIsTrendy_FastFoodChainsNeverTrendy(t *testing.T) {
	tests := []struct {
		name  string
		place Place
	}{
		{"McDonald's plain", place("McDonald's", map[string]string{"amenity": "fast_food"})},
		{"McDonald's tagged as cafe", place("McDonald's", map[string]string{"amenity": "cafe"})},
		{"McDonald's with vegan cuisine", place("McDonald's", map[string]string{"amenity": "restaurant", "cuisine": "vegan"})},
		{"McDonald's with trendy keywords", place("McDonald's Smoothie & Matcha", map[string]string{"amenity": "cafe", "leisure": "fitness_centre"})},
		{"Burger King", place("Burger King", map[string]string{"amenity": "fast_food", "cuisine": "burger"})},
		{"Chain by brand tag", place("Station Kiosk", map[string]string{"amenity": "cafe", "brand": "Greggs"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsTrendy(tt.place) {
				t.Errorf("IsTrendy(%q) = true, expected false", tt.place.Name)
			}
			if spot, ok := Classify(tt.place, 51.5115, -0.2732); ok || spot != nil {
				t.Errorf("Classify(%q) should reject the place", tt.place.Name)
			}
		})
	}
}

func TestIsTrendy_CafesAlwaysTrendy(t *testing.T) {
	names := []string{"Corner Café", "Ealing Coffee House", "Joe's", "The Daily Grind", "A"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			p := place(name, map[string]string{"amenity": "cafe"})
			if !IsTrendy(p) {
				t.Errorf("IsTrendy(%q) with amenity=cafe = false, expected true", name)
			}
		})
	}
}

func TestIsTrendy_Rules(t *testing.T) {
	tests := []struct {
		name     string
		place    Place
		expected bool
	}{
		{"Plain restaurant is rejected", place("The Red Lion Kitchen", map[string]string{"amenity": "restaurant", "cuisine": "british"}), false},
		{"Restaurant with healthy cuisine", place("Green Plate", map[string]string{"amenity": "restaurant", "cuisine": "vegan"}), true},
		{"Restaurant with trendy keyword", place("Sunday Brunch Club", map[string]string{"amenity": "restaurant"}), true},
		{"Restaurant with trendy cuisine", place("Koya", map[string]string{"amenity": "restaurant", "cuisine": "japanese;ramen"}), true},
		{"Juice bar", place("Press", map[string]string{"amenity": "juice_bar"}), true},
		{"Fitness centre", place("Ealing Fitness", map[string]string{"leisure": "fitness_centre"}), true},
		{"Yoga by sport tag", place("Studio Om", map[string]string{"sport": "yoga"}), true},
		{"Shop with keyword", place("Matcha Lab", map[string]string{"shop": "tea"}), true},
		{"Unrelated shop", place("Hardware Store", map[string]string{"shop": "hardware"}), false},
		{"Plain non-chain fast food", place("Chicken Shack", map[string]string{"amenity": "fast_food"}), false},
		{"Non-chain fast food with vegan cuisine", place("Green Bowl", map[string]string{"amenity": "fast_food", "cuisine": "vegan"}), true},
		{"Non-chain fast food with keyword", place("Juice Lab", map[string]string{"amenity": "fast_food", "cuisine": "juice"}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTrendy(tt.place); got != tt.expected {
				t.Errorf("IsTrendy() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		tags     map[string]string
		expected string
	}{
		{"Cafe", map[string]string{"amenity": "cafe"}, models.CategoryCafe},
		{"Juice bar", map[string]string{"amenity": "juice_bar"}, models.CategoryCafe},
		{"Coffee shop cuisine", map[string]string{"cuisine": "coffee_shop"}, models.CategoryCafe},
		{"Restaurant", map[string]string{"amenity": "restaurant"}, models.CategoryRestaurant},
		{"Fitness leisure", map[string]string{"leisure": "fitness_centre"}, models.CategoryGym},
		{"Fitness beats cafe", map[string]string{"amenity": "cafe", "sport": "crossfit"}, models.CategoryGym},
		{"Anything else", map[string]string{"shop": "bakery"}, models.CategoryTrendy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(place("X", tt.tags)); got != tt.expected {
				t.Errorf("Categorize() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestPriceRange(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Artisan Roasters", "$$$"},
		{"Boutique Fitness", "$$$"},
		{"Specialty Coffee Co", "$$$"},
		{"Quick Bites", "$"},
		{"Express Coffee", "$"},
		{"Grab & Go", "$"},
		{"Corner Café", "$$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriceRange(place(tt.name, nil)); got != tt.expected {
				t.Errorf("PriceRange(%q) = %v, expected %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestDietaryOptions(t *testing.T) {
	p := place("Green Leaf", map[string]string{
		"amenity":          "cafe",
		"diet:vegan":       "yes",
		"diet:gluten_free": "only",
	})

	got := DietaryOptions(p)
	for _, want := range []string{"vegan", "gluten-free"} {
		if !got.Contains(want) {
			t.Errorf("DietaryOptions() = %v, missing %q", got, want)
		}
	}
	if got.Contains("halal") {
		t.Errorf("DietaryOptions() = %v, unexpected halal", got)
	}
}

func TestAmbiance_FallsBackToTrendy(t *testing.T) {
	got := Ambiance(place("Plain Name", map[string]string{"amenity": "cafe"}), models.CategoryCafe)
	if len(got) != 1 || got[0] != "trendy" {
		t.Errorf("Ambiance() = %v, expected [trendy]", got)
	}

	got = Ambiance(place("Rooftop Garden Café", map[string]string{"outdoor_seating": "yes"}), models.CategoryCafe)
	if !got.Contains("rooftop") || !got.Contains("outdoor") || got.Contains("trendy") {
		t.Errorf("Ambiance() = %v, expected rooftop and outdoor only", got)
	}
}

func TestDescribe(t *testing.T) {
	t.Run("Brand description with features", func(t *testing.T) {
		p := place("Starbucks", map[string]string{"amenity": "cafe", "outdoor_seating": "yes", "internet_access": "wlan"})
		desc := Describe(p, models.CategoryCafe, Amenities(p), DietaryOptions(p))

		if !strings.HasPrefix(desc, "Popular coffee chain") {
			t.Errorf("expected brand description, got %q", desc)
		}
		if !strings.HasSuffix(desc, "Features: outdoor seating, free wifi.") {
			t.Errorf("expected features suffix, got %q", desc)
		}
	})

	t.Run("Brand match needs a whole word", func(t *testing.T) {
		p := place("Pretty Little Café", map[string]string{"amenity": "cafe"})
		desc := Describe(p, models.CategoryCafe, nil, nil)
		if desc != categoryDescriptions[models.CategoryCafe] {
			t.Errorf("expected category description, got %q", desc)
		}
	})

	t.Run("Sport template for gyms", func(t *testing.T) {
		p := place("Studio Om", map[string]string{"sport": "yoga"})
		desc := Describe(p, models.CategoryGym, nil, nil)
		if desc != sportDescriptions["yoga"] {
			t.Errorf("expected yoga description, got %q", desc)
		}
	})

	t.Run("Cuisine template with vegan option", func(t *testing.T) {
		p := place("Green Plate", map[string]string{"amenity": "restaurant", "cuisine": "vegan"})
		desc := Describe(p, models.CategoryRestaurant, nil, DietaryOptions(p))
		if desc != cuisineDescriptions["vegan"]+" Features: vegan options." {
			t.Errorf("unexpected description %q", desc)
		}
	})
}

func TestRating(t *testing.T) {
	tests := []struct {
		name     string
		place    Place
		expected float64
	}{
		{"No detail tags", place("A", map[string]string{"amenity": "cafe"}), 4.0},
		{"Two detail tags", place("A", map[string]string{"website": "x", "opening_hours": "Mo-Fr"}), 4.2},
		{"Capped", place("A", map[string]string{
			"opening_hours": "x", "website": "x", "phone": "x", "cuisine": "x", "outdoor_seating": "x",
			"internet_access": "x", "addr:street": "x", "description": "x", "wheelchair": "x",
		}), 4.9},
		{"Provider rating wins", Place{Rating: 3.7}, 3.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rating(tt.place); got != tt.expected {
				t.Errorf("Rating() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("Missing coordinates are dropped", func(t *testing.T) {
		p := place("Corner Café", map[string]string{"amenity": "cafe"})
		p.HasCoords = false
		if spot, ok := Classify(p, 51.5115, -0.2732); ok || spot != nil {
			t.Error("expected place without coordinates to be dropped")
		}
	})

	t.Run("Out of range coordinates are dropped", func(t *testing.T) {
		p := place("Corner Café", map[string]string{"amenity": "cafe"})
		p.Latitude = 95
		if _, ok := Classify(p, 51.5115, -0.2732); ok {
			t.Error("expected invalid latitude to be dropped")
		}
	})

	t.Run("Unnamed cafe is kept and named by category", func(t *testing.T) {
		p := place("", map[string]string{"amenity": "cafe"})
		spot, ok := Classify(p, 51.5115, -0.2732)
		if !ok || spot == nil {
			t.Fatal("expected unnamed cafe to be classified")
		}
		if spot.Name != "Local Café" {
			t.Errorf("expected category name, got %q", spot.Name)
		}
	})

	t.Run("Cafe becomes an annotated spot", func(t *testing.T) {
		p := place("Artisan Roasters", map[string]string{
			"amenity":          "cafe",
			"addr:housenumber": "12",
			"addr:street":      "High Street",
			"addr:city":        "London",
		})
		p.Latitude = 51.5125

		spot, ok := Classify(p, 51.5115, -0.2732)
		if !ok || spot == nil {
			t.Fatal("expected cafe to be classified")
		}
		if spot.ID != "osm-node-1" || spot.Category != models.CategoryCafe {
			t.Errorf("unexpected id/category: %s/%s", spot.ID, spot.Category)
		}
		if spot.Address != "12 High Street, London" {
			t.Errorf("unexpected address %q", spot.Address)
		}
		if spot.PriceRange != "$$$" {
			t.Errorf("expected $$$, got %s", spot.PriceRange)
		}
		if len(spot.Ambiance) == 0 {
			t.Error("ambiance must never be empty")
		}
		if spot.Distance < 100 || spot.Distance > 120 {
			t.Errorf("expected distance ~111m, got %v", spot.Distance)
		}
		if spot.ImageURL == "" || spot.Description == "" {
			t.Error("expected image and description to be filled")
		}
	})
}
