package models

import "testing"

func TestSearchQueryValidate(t *testing.T) {
	q := &SearchQuery{Query: "hello"}
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if q.Limit != 10 {
		t.Errorf("default limit = %d, want 10", q.Limit)
	}

	q = &SearchQuery{Query: "hello", Limit: 500, Offset: -3}
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if q.Limit != 100 {
		t.Errorf("capped limit = %d, want 100", q.Limit)
	}
	if q.Offset != 0 {
		t.Errorf("negative offset = %d, want 0", q.Offset)
	}
}

func TestSearchQueryValidate_empty(t *testing.T) {
	q := &SearchQuery{}
	if err := q.Validate(); err == nil {
		t.Error("expected error for empty query with no date range")
	}
}

func TestSearchQueryValidate_datesOnly(t *testing.T) {
	q := &SearchQuery{Dates: &DateRange{Y1: 2023, M1: 1, D1: 1, Y2: 2023, M2: 12, D2: 31}}
	if err := q.Validate(); err != nil {
		t.Errorf("date-only query should be valid: %v", err)
	}
}

func TestSearchQuerySynonyms(t *testing.T) {
	q := &SearchQuery{}
	if !q.Synonyms(true) {
		t.Error("unset should follow default true")
	}
	if q.Synonyms(false) {
		t.Error("unset should follow default false")
	}
	off := false
	q.SynonymsEnabled = &off
	if q.Synonyms(true) {
		t.Error("explicit false should win over default")
	}
}
