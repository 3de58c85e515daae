package history

import (
	"context"
	"time"

	"github.com/hyperjump/kensaku/internal/docseq"
	"github.com/hyperjump/kensaku/internal/models"
)

// Sequence materializes the history, most recent first, as a result
// sequence. The visit time is the sort key. Wrap the returned sequence in
// docseq.Filtered for category-restricted history browsing.
func (s *Store) Sequence(ctx context.Context, limit int) (docseq.Sequence, error) {
	entries, err := s.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	docs := make([]*models.Document, len(entries))
	keys := make([]string, len(entries))
	for i, e := range entries {
		docs[i] = &models.Document{
			ID:       e.DocID,
			Path:     e.Path,
			Title:    e.Title,
			MimeType: e.MimeType,
		}
		keys[i] = e.VisitedAt.UTC().Format(time.RFC3339)
	}
	return docseq.NewSliceSequence(docs, keys), nil
}
