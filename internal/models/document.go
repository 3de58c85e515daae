// Package models defines core data structures for documents, queries, and search results.
package models

import "time"

// Document represents an indexed document with metadata.
type Document struct {
	ID        string    `json:"id" db:"id"`
	Path      string    `json:"path,omitempty" db:"path"`
	Title     string    `json:"title" db:"title"`
	MimeType  string    `json:"mime_type,omitempty" db:"mime_type"`
	Content   string    `json:"content" db:"content"`
	ModTime   time.Time `json:"mod_time" db:"mod_time"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DocumentInput is the input for creating or updating a document.
type DocumentInput struct {
	ID       string `json:"id,omitempty"`
	Path     string `json:"path,omitempty"`
	Title    string `json:"title,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Content  string `json:"content"`
	// ModTime defaults to the current time when zero.
	ModTime time.Time `json:"mod_time,omitempty"`
}

// HistoryEntry records a visit to a document, used for history browsing.
type HistoryEntry struct {
	ID        string    `json:"id" db:"id"`
	DocID     string    `json:"doc_id" db:"doc_id"`
	Path      string    `json:"path" db:"path"`
	Title     string    `json:"title" db:"title"`
	MimeType  string    `json:"mime_type" db:"mime_type"`
	VisitedAt time.Time `json:"visited_at" db:"visited_at"`
}
