// Package engine adapts the embedded inverted-index engine. It accepts
// boolean combinations of opaque term strings and returns ranked result
// sequences.
package engine

import (
	"context"

	"github.com/hyperjump/kensaku/internal/docseq"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/query"
)

// Engine defines index and search operations.
type Engine interface {
	Index(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Document, error)
	// Search evaluates the plan and returns up to size ranked documents
	// plus the engine's total match count.
	Search(ctx context.Context, plan *query.Plan, size int) (docseq.Sequence, int, error)
	// DocCount returns the total number of documents in the index.
	DocCount() (uint64, error)
	Close() error
}
