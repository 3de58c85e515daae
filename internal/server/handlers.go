package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/docseq"
	"github.com/hyperjump/kensaku/internal/fileid"
	"github.com/hyperjump/kensaku/internal/models"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	response, err := s.service.Search(r.Context(), &query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleIndexDocument(w http.ResponseWriter, r *http.Request) {
	var input models.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	doc := &models.Document{
		ID:       input.ID,
		Path:     input.Path,
		Title:    input.Title,
		MimeType: input.MimeType,
		Content:  input.Content,
		ModTime:  input.ModTime,
	}
	if doc.ID == "" {
		if doc.Path != "" {
			doc.ID = fileid.FileDocID(doc.Path)
		} else {
			doc.ID = uuid.NewString()
		}
	}
	if doc.MimeType == "" && doc.Path != "" {
		doc.MimeType = fileid.MimeType(doc.Path)
	}
	s.logger.Debug("index document request", zap.String("id", doc.ID), zap.String("title", doc.Title))
	if err := s.engine.Index(r.Context(), doc); err != nil {
		s.logger.Error("indexing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": doc.ID, "status": "indexed"})
}

// handleGetDocument returns a document and records the visit in history.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.engine.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}
	if _, err := s.history.Add(r.Context(), doc); err != nil {
		s.logger.Warn("history record failed", zap.String("id", id), zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete document request", zap.String("id", id))
	if err := s.engine.Delete(r.Context(), id); err != nil {
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// historyItem is one history entry in the API response.
type historyItem struct {
	Document  *models.Document `json:"document"`
	VisitedAt string           `json:"visited_at"`
}

// handleHistory lists visited documents, most recent first. The optional
// "category" parameter restricts the list to a configured category via
// post-hoc filtering; "total" remains the unfiltered history size.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	seq, err := s.history.Sequence(r.Context(), limit)
	if err != nil {
		s.logger.Error("history read failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if category := r.URL.Query().Get("category"); category != "" {
		mimes, ok := s.categories[category]
		if !ok {
			s.respondError(w, http.StatusBadRequest, "unknown category: "+category)
			return
		}
		seq = docseq.NewFiltered(seq, docseq.FilterSpec{
			Kind:   docseq.FilterMimeTypes,
			Values: mimes,
		})
	}

	items := make([]historyItem, 0, limit)
	for i := 0; i < limit; i++ {
		doc, key, ok := seq.GetDoc(i)
		if !ok {
			break
		}
		items = append(items, historyItem{Document: doc, VisitedAt: key})
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": items,
		"total":   seq.ResultCount(),
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(r.Context()); err != nil {
		s.logger.Error("history clear failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	docCount, err := s.engine.DocCount()
	if err != nil {
		s.logger.Error("status: doc count failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	histCount, err := s.history.Count(r.Context())
	if err != nil {
		s.logger.Error("status: history count failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents":          docCount,
		"history_entries":    histCount,
		"synonyms_path":      s.synonyms.Path(),
		"synonyms_ok":        s.synonyms.OK(),
		"multiwords_max_len": s.synonyms.MultiwordsMaxLength(),
		"time":               time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encode failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
