package models

import "fmt"

// DateRange is an inclusive calendar date range, assumed chronologically
// ordered (start <= end). Behavior for a reversed range is unspecified.
type DateRange struct {
	Y1 int `json:"y1"`
	M1 int `json:"m1"`
	D1 int `json:"d1"`
	Y2 int `json:"y2"`
	M2 int `json:"m2"`
	D2 int `json:"d2"`
}

// SearchQuery represents a search request with optional filters.
type SearchQuery struct {
	Query string `json:"query"`
	// Category restricts results to a configured document category
	// (a named set of MIME types). Empty means no restriction.
	Category string     `json:"category,omitempty"`
	Dates    *DateRange `json:"dates,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
	// SynonymsEnabled controls query-time synonym expansion.
	// Nil means use the configured default.
	SynonymsEnabled *bool `json:"synonyms_enabled,omitempty"`
}

// Validate ensures the search query has valid fields and sets defaults.
// A query is valid when it has either text terms or a date range.
func (q *SearchQuery) Validate() error {
	if q.Query == "" && q.Dates == nil {
		return fmt.Errorf("query cannot be empty")
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return nil
}

// Synonyms returns whether synonym expansion is requested, using def when unset.
func (q *SearchQuery) Synonyms(def bool) bool {
	if q.SynonymsEnabled != nil {
		return *q.SynonymsEnabled
	}
	return def
}
