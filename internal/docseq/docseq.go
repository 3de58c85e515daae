// Package docseq provides ordered, index-addressable views over ranked
// search results, including a lazily-filtered read-through view for
// criteria the index's query language does not express.
package docseq

import "github.com/hyperjump/kensaku/internal/models"

// Sequence is an ordered, index-addressable collection of ranked documents.
// GetDoc returns the n-th document (0-based) and its sort key; ok is false
// past the end. ResultCount reports the sequence's count.
type Sequence interface {
	GetDoc(n int) (doc *models.Document, sortKey string, ok bool)
	ResultCount() int
}

// SliceSequence is a Sequence over an in-memory slice.
type SliceSequence struct {
	docs []*models.Document
	keys []string
}

// NewSliceSequence creates a sequence over docs with the given sort keys.
// keys may be nil; extra keys are ignored.
func NewSliceSequence(docs []*models.Document, keys []string) *SliceSequence {
	return &SliceSequence{docs: docs, keys: keys}
}

// GetDoc returns the n-th document.
func (s *SliceSequence) GetDoc(n int) (*models.Document, string, bool) {
	if n < 0 || n >= len(s.docs) {
		return nil, "", false
	}
	key := ""
	if n < len(s.keys) {
		key = s.keys[n]
	}
	return s.docs[n], key, true
}

// ResultCount returns the number of documents.
func (s *SliceSequence) ResultCount() int {
	return len(s.docs)
}
