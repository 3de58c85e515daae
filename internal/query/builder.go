package query

import (
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/daterange"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/synonyms"
)

// Builder turns search requests into engine query plans.
type Builder struct {
	syn    *synonyms.Store
	fmtr   daterange.Formatter
	logger *zap.Logger
}

// NewBuilder creates a builder. syn may be nil when no thesaurus is active.
func NewBuilder(syn *synonyms.Store, fmtr daterange.Formatter, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{syn: syn, fmtr: fmtr, logger: logger}
}

// Build produces the plan for q. Each whitespace-separated query term
// becomes an OR-group of the term and, when expansion is requested and the
// thesaurus knows it, its synonym group members. A date range becomes the
// minimal OR-group of date terms covering it.
func (b *Builder) Build(q *models.SearchQuery, expandSynonyms bool) *Plan {
	plan := &Plan{}
	for _, term := range strings.Fields(strings.ToLower(q.Query)) {
		group := []string{term}
		if expandSynonyms && b.syn != nil {
			for _, member := range b.syn.Lookup(term) {
				member = strings.ToLower(member)
				if member != term {
					group = append(group, member)
				}
			}
		}
		plan.Groups = append(plan.Groups, group)
	}
	if q.Dates != nil {
		d := q.Dates
		plan.DateTerms = daterange.Translate(b.fmtr, d.Y1, d.M1, d.D1, d.Y2, d.M2, d.D2)
	}
	b.logger.Debug("query plan built",
		zap.Int("groups", len(plan.Groups)),
		zap.Int("date_terms", len(plan.DateTerms)))
	return plan
}
