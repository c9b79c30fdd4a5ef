package semanticscholar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yungbote/aura-backend/internal/platform/logger"
)

const searchBody = `{
  "total": 2, "offset": 0,
  "data": [
    {
      "paperId": "abc123",
      "externalIds": {"DOI": "10.1/abc", "CorpusId": 42},
      "title": "Attention Is All You Need",
      "abstract": "We propose the Transformer.",
      "url": "https://www.semanticscholar.org/paper/abc123",
      "venue": "NeurIPS",
      "year": 2017,
      "publicationDate": "2017-06-12",
      "citationCount": 1000,
      "referenceCount": 40,
      "fieldsOfStudy": ["Computer Science"],
      "authors": [{"authorId": "1", "name": "Ashish Vaswani"}, {"authorId": "2", "name": " "}],
      "openAccessPdf": {"url": "https://arxiv.org/pdf/1706.03762"}
    },
    {
      "paperId": "def456",
      "title": "Untitled Abstractless",
      "abstract": null,
      "year": 2020,
      "publicationDate": null,
      "authors": []
    },
    {"paperId": "skip", "title": ""}
  ]
}`

func TestSearchMapsResults(t *testing.T) {
	var gotKey, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/paper/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotKey = r.Header.Get("x-api-key")
		gotQuery = r.URL.Query().Get("query")
		if r.URL.Query().Get("limit") != "2" {
			t.Errorf("limit not passed: %q", r.URL.Query().Get("limit"))
		}
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := New(logger.Nop(), Config{BaseURL: srv.URL, APIKey: "k", RequestsPerSecond: 100})
	papers, err := c.Search(context.Background(), "transformers", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotKey != "k" || gotQuery != "transformers" {
		t.Fatalf("key=%q query=%q", gotKey, gotQuery)
	}
	if len(papers) != 2 {
		t.Fatalf("expected 2 papers (blank title dropped), got %d", len(papers))
	}

	p := papers[0]
	if p.ExternalID != "abc123" || p.DOI != "10.1/abc" || p.Venue != "NeurIPS" {
		t.Fatalf("unexpected mapping: %#v", p)
	}
	if len(p.Authors) != 1 || p.Authors[0] != "Ashish Vaswani" {
		t.Fatalf("authors: %#v", p.Authors)
	}
	if p.CitationCount != 1000 || p.ReferenceCount != 40 {
		t.Fatalf("counts: %d/%d", p.CitationCount, p.ReferenceCount)
	}
	if p.PDFURL != "https://arxiv.org/pdf/1706.03762" {
		t.Fatalf("pdf url: %q", p.PDFURL)
	}
	if p.Published == nil || !p.Published.Equal(time.Date(2017, 6, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("published: %v", p.Published)
	}

	q := papers[1]
	if q.Abstract != "" || q.URL != "https://www.semanticscholar.org/paper/def456" {
		t.Fatalf("fallbacks: %#v", q)
	}
	if q.Published == nil || q.Published.Year() != 2020 {
		t.Fatalf("year fallback: %v", q.Published)
	}
	if q.Authors == nil || q.FieldsOfStudy == nil {
		t.Fatalf("slices should be non-nil")
	}
}

func TestGetPaper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/paper/missing" {
			http.Error(w, `{"error":"Paper not found"}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"paperId":"abc123","title":"T","authors":[{"name":"A"}]}`))
	}))
	defer srv.Close()

	c := New(logger.Nop(), Config{BaseURL: srv.URL, RequestsPerSecond: 100})
	p, err := c.GetPaper(context.Background(), "abc123")
	if err != nil || p.Title != "T" || len(p.Authors) != 1 {
		t.Fatalf("GetPaper: %v %#v", err, p)
	}
	if _, err := c.GetPaper(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(logger.Nop(), Config{BaseURL: srv.URL, RequestsPerSecond: 100})
	if _, err := c.Search(context.Background(), "x", 1); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := c.Search(context.Background(), "  ", 1); err == nil {
		t.Fatalf("expected error for blank query")
	}
}
