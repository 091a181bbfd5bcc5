package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"spothunt-backend/config"
	"spothunt-backend/models"
	"spothunt-backend/prompts"

	openai "github.com/sashabaranov/go-openai"
)

// SpotQueryService turns natural-language searches into spot filters.
// It uses an LLM when one is configured and keyword rules otherwise.
type SpotQueryService struct {
	client *openai.Client
	cfg    *config.Config
	finder NearbyFinder
}

// NewSpotQueryService creates the query service. Without an API key for
// the configured provider only keyword rules are used.
func NewSpotQueryService(cfg *config.Config, finder NearbyFinder) *SpotQueryService {
	var client *openai.Client

	switch {
	case cfg.LLMAPIKey() == "":
		log.Printf("Spot search running without LLM (provider %q has no key)", cfg.LLMProvider)
	case cfg.LLMProvider == "openai":
		clientConfig := openai.DefaultConfig(cfg.OpenAIKey)
		client = openai.NewClientWithConfig(clientConfig)
	case cfg.LLMProvider == "groq":
		clientConfig := openai.DefaultConfig(cfg.GroqKey)
		clientConfig.BaseURL = cfg.LLMBaseURL
		client = openai.NewClientWithConfig(clientConfig)
	}

	return &SpotQueryService{
		client: client,
		cfg:    cfg,
		finder: finder,
	}
}

// Search parses the query and runs a nearby search with the resulting filters
func (s *SpotQueryService) Search(ctx context.Context, req models.SpotSearchRequest) (*models.SpotSearchResponse, error) {
	intent := s.ParseQuery(ctx, req.Query)
	log.Printf("Spot search %q parsed as %s", req.Query, describeIntent(intent))

	spots, err := s.finder.FindNearby(ctx, *req.Latitude, *req.Longitude, req.Radius, intent.Filters)
	if err != nil {
		return nil, err
	}
	total := len(spots)

	if intent.Intent == models.IntentTrending {
		trending := make([]models.Spot, 0, len(spots))
		for _, spot := range spots {
			if spot.Trending || spot.HuntCount >= s.cfg.TrendingMinHunts {
				trending = append(trending, spot)
			}
		}
		spots = trending
	}

	return &models.SpotSearchResponse{
		Query:    req.Query,
		Intent:   intent.Intent,
		Filters:  intent.Filters,
		Spots:    spots,
		Metadata: models.NewResponseMetadata(len(spots), total, req.Query, filterMap(intent.Filters)),
	}, nil
}

// ParseQuery extracts intent and filters from the query
func (s *SpotQueryService) ParseQuery(ctx context.Context, query string) models.QueryIntent {
	if s.client == nil {
		return KeywordIntent(query)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.QueryModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: "system", Content: prompts.SpotQueryPrompt},
			{Role: "user", Content: query},
		},
		Temperature: 0.0,
		MaxTokens:   200,
	})
	if err != nil || len(resp.Choices) == 0 {
		log.Printf("LLM query parsing error: %v", err)
		return KeywordIntent(query)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	// Clean up markdown code blocks if present
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed models.QueryIntent
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		log.Printf("Failed to parse LLM response: %v, content: %s", err, content)
		return KeywordIntent(query)
	}

	return sanitizeIntent(parsed)
}

var validIntents = map[string]bool{
	models.IntentNearby:   true,
	models.IntentCategory: true,
	models.IntentDietary:  true,
	models.IntentTrending: true,
}

var validPrices = map[string]bool{"": true, "$": true, "$$": true, "$$$": true}

var validCategories = map[string]bool{
	"":                        true,
	models.CategoryCafe:       true,
	models.CategoryGym:        true,
	models.CategoryRestaurant: true,
	models.CategoryTrendy:     true,
}

// sanitizeIntent drops values the filters cannot match
func sanitizeIntent(in models.QueryIntent) models.QueryIntent {
	if !validIntents[in.Intent] {
		log.Printf("Invalid intent from LLM: %s, defaulting to nearby", in.Intent)
		in.Intent = models.IntentNearby
	}
	in.Filters.Category = models.NormalizeCategory(in.Filters.Category)
	if !validCategories[in.Filters.Category] {
		in.Filters.Category = ""
	}
	if !validPrices[strings.TrimSpace(in.Filters.PriceRange)] {
		in.Filters.PriceRange = ""
	}
	in.Filters.Dietary = strings.ToLower(strings.TrimSpace(in.Filters.Dietary))
	in.Filters.Ambiance = strings.ToLower(strings.TrimSpace(in.Filters.Ambiance))
	return in
}

// keywordRule sets one filter when the query contains any keyword
type keywordRule struct {
	keywords []string
	apply    func(*models.SpotFilters)
}

var queryRules = []keywordRule{
	{[]string{"coffee", "cafe", "café", "latte", "matcha", "espresso", "bubble tea"}, func(f *models.SpotFilters) { f.Category = models.CategoryCafe }},
	{[]string{"gym", "workout", "yoga", "pilates", "fitness", "crossfit", "climbing"}, func(f *models.SpotFilters) { f.Category = models.CategoryGym }},
	{[]string{"restaurant", "lunch", "dinner", "brunch", "food"}, func(f *models.SpotFilters) { f.Category = models.CategoryRestaurant }},
	{[]string{"vegan", "plant-based", "plant based"}, func(f *models.SpotFilters) { f.Dietary = "vegan" }},
	{[]string{"vegetarian", "veggie"}, func(f *models.SpotFilters) { f.Dietary = "vegetarian" }},
	{[]string{"gluten-free", "gluten free", "coeliac", "celiac"}, func(f *models.SpotFilters) { f.Dietary = "gluten-free" }},
	{[]string{"dairy-free", "dairy free", "lactose"}, func(f *models.SpotFilters) { f.Dietary = "dairy-free" }},
	{[]string{"halal"}, func(f *models.SpotFilters) { f.Dietary = "halal" }},
	{[]string{"cheap", "budget", "affordable"}, func(f *models.SpotFilters) { f.PriceRange = "$" }},
	{[]string{"fancy", "upscale", "luxury", "premium", "splurge"}, func(f *models.SpotFilters) { f.PriceRange = "$$$" }},
	{[]string{"cozy", "cosy"}, func(f *models.SpotFilters) { f.Ambiance = "cozy" }},
	{[]string{"outdoor", "outside", "terrace", "garden"}, func(f *models.SpotFilters) { f.Ambiance = "outdoor" }},
	{[]string{"rooftop"}, func(f *models.SpotFilters) { f.Ambiance = "rooftop" }},
	{[]string{"work from", "laptop", "wifi", "study"}, func(f *models.SpotFilters) { f.Ambiance = "work-friendly" }},
	{[]string{"quiet", "calm", "relax"}, func(f *models.SpotFilters) { f.Ambiance = "calm" }},
}

var trendingWords = []string{"trending", "popular", "hot", "busy", "best"}

// KeywordIntent parses a query with fixed keyword rules. Later rules for
// the same filter override earlier ones.
func KeywordIntent(query string) models.QueryIntent {
	q := strings.ToLower(query)
	intent := models.QueryIntent{Intent: models.IntentNearby}

	for _, rule := range queryRules {
		for _, k := range rule.keywords {
			if strings.Contains(q, k) {
				rule.apply(&intent.Filters)
				intent.Keywords = append(intent.Keywords, k)
				break
			}
		}
	}

	switch {
	case intent.Filters.Dietary != "":
		intent.Intent = models.IntentDietary
	case containsWordIn(q, trendingWords):
		intent.Intent = models.IntentTrending
	case intent.Filters.Category != "":
		intent.Intent = models.IntentCategory
	}
	return intent
}

func containsWordIn(q string, words []string) bool {
	for _, field := range strings.FieldsFunc(q, func(r rune) bool { return r == ' ' || r == ',' || r == '?' || r == '!' || r == '.' }) {
		for _, w := range words {
			if field == w {
				return true
			}
		}
	}
	return false
}

func filterMap(f models.SpotFilters) map[string]string {
	out := map[string]string{}
	for k, v := range map[string]string{
		"category":   f.Category,
		"priceRange": f.PriceRange,
		"dietary":    f.Dietary,
		"ambiance":   f.Ambiance,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// describeIntent renders the intent for logs
func describeIntent(in models.QueryIntent) string {
	return fmt.Sprintf("%s %s", in.Intent, in.Filters.CacheKey())
}
