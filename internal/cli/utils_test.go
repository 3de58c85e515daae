package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/kensaku/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Query:     "test query",
		QueryTime: 42,
		Total:     1,
		Results: []*models.SearchResult{
			{
				Rank:  1,
				Score: 0.9,
				Document: &models.Document{
					ID:      "doc-1",
					Path:    "/docs/a.txt",
					Title:   "Test Doc",
					Content: "Content here",
				},
			},
		},
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Total != 1 || len(decoded.Results) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Results[0].Document.ID != "doc-1" {
		t.Errorf("document id = %q", decoded.Results[0].Document.ID)
	}
}

func TestWriteSearchResults_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Found 1 results", "Rank: 1", "doc-1", "Test Doc", "/docs/a.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteHistory(t *testing.T) {
	var buf bytes.Buffer
	WriteHistory(&buf, nil)
	if !strings.Contains(buf.String(), "No history entries") {
		t.Errorf("empty output = %q", buf.String())
	}

	buf.Reset()
	WriteHistory(&buf, []*models.HistoryEntry{
		{DocID: "doc-1", Title: "A title", VisitedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
	})
	out := buf.String()
	if !strings.Contains(out, "doc-1") || !strings.Contains(out, "2024-03-01") {
		t.Errorf("history output = %q", out)
	}
}
