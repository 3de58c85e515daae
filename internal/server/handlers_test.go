package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/config"
	"github.com/hyperjump/kensaku/internal/daterange"
	"github.com/hyperjump/kensaku/internal/engine"
	"github.com/hyperjump/kensaku/internal/history"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/query"
	"github.com/hyperjump/kensaku/internal/search"
	"github.com/hyperjump/kensaku/internal/synonyms"
)

func testServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	dir := t.TempDir()

	idx, err := engine.NewMemOnlyBleveIndex(daterange.DefaultFormatter)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	hist, err := history.NewStore(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = hist.Close() })

	var cfg config.Config
	config.ApplyDefaults(&cfg)

	syn := synonyms.NewStore(nil)
	builder := query.NewBuilder(syn, daterange.DefaultFormatter, nil)
	svc := search.NewService(idx, builder, cfg.Categories, &cfg.Search, nil)

	srv := NewServer(svc, idx, hist, syn, cfg.Categories, &cfg.Server, zap.NewNop())
	return srv, srv.Router()
}

func postJSON(t *testing.T, h http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHandleIndexAndSearch(t *testing.T) {
	_, h := testServer(t)

	w := postJSON(t, h, "/api/v1/documents", models.DocumentInput{
		Path:    "/docs/report.txt",
		Title:   "Report",
		Content: "quarterly kensaku report",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("index status = %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, h, "/api/v1/search", models.SearchQuery{Query: "quarterly"})
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d: %s", w.Code, w.Body.String())
	}
	var resp models.SearchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("search response = %+v", resp)
	}
	if resp.Results[0].Document.MimeType != "text/plain" {
		t.Errorf("mime type from path = %q", resp.Results[0].Document.MimeType)
	}
}

func TestHandleSearch_badBody(t *testing.T) {
	_, h := testServer(t)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleGetDocument_recordsHistory(t *testing.T) {
	srv, h := testServer(t)

	w := postJSON(t, h, "/api/v1/documents", models.DocumentInput{
		ID: "doc-1", Title: "A", Content: "hello", MimeType: "text/plain",
	})
	if w.Code != http.StatusCreated {
		t.Fatal(w.Body.String())
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1", nil)
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r)
	if w2.Code != http.StatusOK {
		t.Fatalf("get status = %d", w2.Code)
	}

	n, err := srv.history.Count(r.Context())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("history count = %d, want 1", n)
	}
}

func TestHandleGetDocument_notFound(t *testing.T) {
	_, h := testServer(t)
	r := httptest.NewRequest(http.MethodGet, "/api/v1/documents/nope", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleHistory_categoryFilter(t *testing.T) {
	_, h := testServer(t)

	for _, in := range []models.DocumentInput{
		{ID: "t1", Content: "x", MimeType: "text/plain"},
		{ID: "p1", Content: "x", MimeType: "application/pdf"},
	} {
		if w := postJSON(t, h, "/api/v1/documents", in); w.Code != http.StatusCreated {
			t.Fatal(w.Body.String())
		}
		r := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+in.ID, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatal(w.Body.String())
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/history?category=text", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d: %s", w.Code, w.Body.String())
	}
	var out struct {
		Entries []historyItem `json:"entries"`
		Total   int           `json:"total"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Entries) != 1 {
		t.Fatalf("entries = %+v, want 1", out.Entries)
	}
	if out.Entries[0].Document.MimeType != "text/plain" {
		t.Errorf("filtered history returned %s", out.Entries[0].Document.MimeType)
	}
	// Total reports the unfiltered history size.
	if out.Total != 2 {
		t.Errorf("total = %d, want 2", out.Total)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/history?category=bogus", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bogus category status = %d, want 400", w.Code)
	}
}

func TestHandleClearHistory(t *testing.T) {
	srv, h := testServer(t)
	r := httptest.NewRequest(http.MethodDelete, "/api/v1/history", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("clear status = %d", w.Code)
	}
	n, err := srv.history.Count(r.Context())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("history count after clear = %d", n)
	}
}

func TestHandleHealthAndStatus(t *testing.T) {
	_, h := testServer(t)
	for _, path := range []string{"/health", "/api/v1/status"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, w.Code)
		}
	}
}
