// Package cli provides CLI output utilities for Kensaku.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms\n\n", response.Total, response.QueryTime)
	for _, result := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.4f\n", result.Rank, result.Score)
		fmt.Fprintf(w, "ID: %s\n", result.Document.ID)
		if result.Document.Title != "" {
			fmt.Fprintf(w, "Title: %s\n", result.Document.Title)
		}
		if result.Document.Path != "" {
			fmt.Fprintf(w, "Path: %s\n", result.Document.Path)
		}
		fmt.Fprintf(w, "\n%s\n", utils.Truncate(result.Document.Content, 200))
		fmt.Fprintln(w)
	}
}

// PrintSearchResults prints search results to stdout in text format.
func PrintSearchResults(response *models.SearchResponse) {
	_ = WriteSearchResults(os.Stdout, response, OutputText)
}

// WriteHistory writes history entries to w, most recent first.
func WriteHistory(w io.Writer, entries []*models.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history entries.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s", e.VisitedAt.Format("2006-01-02 15:04:05"), e.DocID)
		if e.Title != "" {
			fmt.Fprintf(w, "  %s", utils.Truncate(e.Title, 60))
		}
		fmt.Fprintln(w)
	}
}
