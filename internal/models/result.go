package models

// SearchResult represents a single search hit with document and score.
type SearchResult struct {
	Document *Document `json:"document"`
	Score    float64   `json:"score"`
	Rank     int       `json:"rank"`
}

// SearchResponse is the response for a search request.
// Total is the engine's reported result count; when post-hoc filtering is
// applied it is an upper bound, not the exact number of filtered hits.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
}
