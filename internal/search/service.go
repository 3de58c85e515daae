// Package search provides the main search service, combining query
// construction, the index engine, and post-hoc result filtering.
package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/config"
	"github.com/hyperjump/kensaku/internal/docseq"
	"github.com/hyperjump/kensaku/internal/engine"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/query"
)

// Service runs searches against the index engine.
type Service struct {
	engine     engine.Engine
	builder    *query.Builder
	categories map[string][]string
	cfg        *config.SearchConfig
	logger     *zap.Logger
}

// NewService creates a search service with the given dependencies.
func NewService(
	eng engine.Engine,
	builder *query.Builder,
	categories map[string][]string,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:     eng,
		builder:    builder,
		categories: categories,
		cfg:        cfg,
		logger:     logger,
	}
}

// Search runs the query and returns ranked, optionally category-filtered
// results. When a category filter applies, the response Total is the
// engine's match count, an upper bound on the filtered result count.
func (s *Service) Search(ctx context.Context, q *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var spec *docseq.FilterSpec
	if q.Category != "" {
		mimes, ok := s.categories[q.Category]
		if !ok {
			return nil, fmt.Errorf("unknown category: %s", q.Category)
		}
		spec = &docseq.FilterSpec{Kind: docseq.FilterMimeTypes, Values: mimes}
	}

	plan := s.builder.Build(q, q.Synonyms(s.cfg.SynonymsEnabledOrDefault()))

	size := q.Offset + q.Limit
	if spec != nil && size < s.cfg.TopKCandidates {
		// Post-hoc filtering may discard hits, so fetch a wider window.
		size = s.cfg.TopKCandidates
	}

	seq, total, err := s.engine.Search(ctx, plan, size)
	if err != nil {
		return nil, fmt.Errorf("engine search failed: %w", err)
	}
	if spec != nil {
		seq = docseq.NewFiltered(seq, *spec)
	}

	response := &models.SearchResponse{
		Results: make([]*models.SearchResult, 0, q.Limit),
		Total:   total,
		Query:   q.Query,
	}
	for i := 0; i < q.Limit; i++ {
		doc, key, ok := seq.GetDoc(q.Offset + i)
		if !ok {
			break
		}
		score, _ := strconv.ParseFloat(key, 64)
		response.Results = append(response.Results, &models.SearchResult{
			Document: doc,
			Score:    score,
			Rank:     q.Offset + i + 1,
		})
	}
	response.QueryTime = time.Since(startTime).Milliseconds()

	s.logger.Debug("search done",
		zap.String("query", q.Query),
		zap.String("category", q.Category),
		zap.Int("total", total),
		zap.Int("returned", len(response.Results)))
	return response, nil
}
