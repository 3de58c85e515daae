// Package engine provides the Bleve implementation of Engine.
package engine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/kensaku/internal/daterange"
	"github.com/hyperjump/kensaku/internal/docseq"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/query"
)

// bleveDoc is the shape stored in the index. Dates holds the day, month and
// year terms for the document's modification time, so date-range queries
// resolve as term disjunctions over a flat vocabulary.
type bleveDoc struct {
	ID       string   `json:"id"`
	Path     string   `json:"path"`
	Title    string   `json:"title"`
	MimeType string   `json:"mime_type"`
	Content  string   `json:"content"`
	ModTime  string   `json:"mod_time"`
	Dates    []string `json:"dates"`
}

// BleveIndex implements Engine using Bleve.
type BleveIndex struct {
	index bleve.Index
	fmtr  daterange.Formatter
}

// NewBleveIndex creates or opens a Bleve index at path. fmtr must match the
// date term convention the index was built with; changing it requires
// removing the index directory to force a full re-index.
func NewBleveIndex(path string, fmtr daterange.Formatter) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index, fmtr: fmtr}, nil
	}

	index, err := bleve.New(path, buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index, fmtr: fmtr}, nil
}

// NewMemOnlyBleveIndex creates an in-memory index, for tests and scratch use.
func NewMemOnlyBleveIndex(fmtr daterange.Formatter) (*BleveIndex, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory Bleve index: %w", err)
	}
	return &BleveIndex{index: index, fmtr: fmtr}, nil
}

func buildMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so query terms
	// match exact words.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("title", textFieldMapping)

	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("id", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("path", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("mime_type", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("mod_time", keywordFieldMapping)

	// One opaque term per entry; queried with exact term disjunctions.
	datesFieldMapping := bleve.NewTextFieldMapping()
	datesFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("dates", datesFieldMapping)

	im.AddDocumentMapping("document", docMapping)
	im.DefaultType = "document"
	im.DefaultMapping = docMapping
	return im
}

// Index indexes a document, replacing any previous version with the same id.
func (b *BleveIndex) Index(ctx context.Context, doc *models.Document) error {
	mt := doc.ModTime
	if mt.IsZero() {
		mt = time.Now()
	}
	y, m, d := mt.Date()
	stored := &bleveDoc{
		ID:       doc.ID,
		Path:     doc.Path,
		Title:    doc.Title,
		MimeType: doc.MimeType,
		Content:  doc.Content,
		ModTime:  mt.UTC().Format(time.RFC3339),
		Dates: []string{
			b.fmtr.DayTerm(y, int(m), d),
			b.fmtr.MonthTerm(y, int(m)),
			b.fmtr.YearTerm(y),
		},
	}
	return b.index.Index(doc.ID, stored)
}

// Delete removes a document by id.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Get returns the stored document with the given id.
func (b *BleveIndex) Get(ctx context.Context, id string) (*models.Document, error) {
	req := bleve.NewSearchRequestOptions(blevequery.NewDocIDQuery([]string{id}), 1, 0, false)
	req.Fields = []string{"*"}
	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve get failed: %w", err)
	}
	if len(res.Hits) == 0 {
		return nil, fmt.Errorf("document not found: %s", id)
	}
	return docFromFields(res.Hits[0].ID, res.Hits[0].Fields), nil
}

// Search evaluates the plan: OR within each term group, AND across groups
// and the date clause.
func (b *BleveIndex) Search(ctx context.Context, plan *query.Plan, size int) (docseq.Sequence, int, error) {
	if plan.Empty() {
		return docseq.NewSliceSequence(nil, nil), 0, nil
	}
	if size <= 0 {
		size = 10
	}

	req := bleve.NewSearchRequestOptions(buildQuery(plan), size, 0, false)
	req.Fields = []string{"*"}
	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, 0, fmt.Errorf("Bleve search failed: %w", err)
	}

	docs := make([]*models.Document, 0, len(res.Hits))
	keys := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		docs = append(docs, docFromFields(hit.ID, hit.Fields))
		keys = append(keys, fmt.Sprintf("%.6f", hit.Score))
	}
	return docseq.NewSliceSequence(docs, keys), int(res.Total), nil
}

func buildQuery(plan *query.Plan) blevequery.Query {
	var clauses []blevequery.Query
	for _, group := range plan.Groups {
		var alts []blevequery.Query
		for _, term := range group {
			if strings.Contains(term, " ") {
				alts = append(alts, bleve.NewMatchPhraseQuery(term))
			} else {
				alts = append(alts, bleve.NewMatchQuery(term))
			}
		}
		if len(alts) == 1 {
			clauses = append(clauses, alts[0])
		} else {
			clauses = append(clauses, bleve.NewDisjunctionQuery(alts...))
		}
	}
	if len(plan.DateTerms) > 0 {
		var alts []blevequery.Query
		for _, term := range plan.DateTerms {
			tq := bleve.NewTermQuery(term)
			tq.SetField("dates")
			alts = append(alts, tq)
		}
		if len(alts) == 1 {
			clauses = append(clauses, alts[0])
		} else {
			clauses = append(clauses, bleve.NewDisjunctionQuery(alts...))
		}
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return bleve.NewConjunctionQuery(clauses...)
}

func docFromFields(id string, fields map[string]interface{}) *models.Document {
	doc := &models.Document{ID: id}
	if v, ok := fields["path"].(string); ok {
		doc.Path = v
	}
	if v, ok := fields["title"].(string); ok {
		doc.Title = v
	}
	if v, ok := fields["mime_type"].(string); ok {
		doc.MimeType = v
	}
	if v, ok := fields["content"].(string); ok {
		doc.Content = v
	}
	if v, ok := fields["mod_time"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			doc.ModTime = t
		}
	}
	return doc
}

// DocCount returns the total number of documents in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
