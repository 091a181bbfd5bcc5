package models

// Search intents produced by the spot query parser
const (
	IntentNearby   = "nearby"
	IntentCategory = "category"
	IntentDietary  = "dietary"
	IntentTrending = "trending"
)

// QueryIntent is the parser's reading of a natural-language spot search
type QueryIntent struct {
	Intent   string      `json:"intent"`
	Filters  SpotFilters `json:"filters"`
	Keywords []string    `json:"keywords,omitempty"`
}
