package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/data/repos"
	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/apierr"
	"github.com/yungbote/aura-backend/internal/platform/arxiv"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/platform/semanticscholar"
	"github.com/yungbote/aura-backend/internal/realtime"
)

const (
	DefaultMaxResults = 10
	MaxResultsCap     = 50
)

// SearchResult is a paper as returned by a source, not yet stored.
type SearchResult struct {
	Title         string              `json:"title"`
	Authors       []string            `json:"authors"`
	Abstract      string              `json:"abstract"`
	URL           string              `json:"url"`
	PDFURL        string              `json:"pdf_url"`
	PublishedDate *time.Time          `json:"published_date,omitempty"`
	Source        string              `json:"source"`
	ExternalID    string              `json:"external_id"`
	Metadata      types.PaperMetadata `json:"metadata"`
}

// PaperSource is one external search backend.
type PaperSource interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
	Lookup(ctx context.Context, externalID string) (*SearchResult, error)
}

// ErrSourcePaperNotFound is returned by PaperSource.Lookup for unknown ids.
var ErrSourcePaperNotFound = errors.New("paper not found at source")

// SearchObserver receives one call per source request.
type SearchObserver interface {
	ObserveSearch(source, status string, dur time.Duration, results int)
}

type SearchRequest struct {
	Query      string
	Sources    []string
	MaxResults int
}

type SearchResponse struct {
	Query   string         `json:"query"`
	Sources []string       `json:"sources"`
	Results []SearchResult `json:"results"`
	QueryID *uuid.UUID     `json:"query_id,omitempty"`
}

type SearchService interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	// SearchProject runs Search and records it as a ResearchQuery of the project.
	SearchProject(ctx context.Context, projectID uuid.UUID, req SearchRequest) (*SearchResponse, error)
	ListQueries(ctx context.Context, projectID uuid.UUID) ([]*types.ResearchQuery, error)
	GetPaper(ctx context.Context, source, externalID string) (*SearchResult, error)
}

type searchService struct {
	db         *gorm.DB
	log        *logger.Logger
	sources    map[string]PaperSource
	order      []string
	maxResults int
	projects   repos.ProjectRepo
	queries    repos.ResearchQueryRepo
	observer   SearchObserver
	events     realtime.Emitter
}

// NewSearchService serves the given sources; their order is the order in
// which results are concatenated. maxResults caps max_results (0 means 50).
func NewSearchService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sources []PaperSource,
	maxResults int,
	projectRepo repos.ProjectRepo,
	queryRepo repos.ResearchQueryRepo,
	observer SearchObserver,
	events realtime.Emitter,
) SearchService {
	if maxResults <= 0 || maxResults > MaxResultsCap {
		maxResults = MaxResultsCap
	}
	s := &searchService{
		db:         db,
		log:        baseLog.With("service", "SearchService"),
		sources:    map[string]PaperSource{},
		maxResults: maxResults,
		projects:   projectRepo,
		queries:    queryRepo,
		observer:   observer,
		events:     events,
	}
	for _, src := range sources {
		s.sources[src.Name()] = src
		s.order = append(s.order, src.Name())
	}
	return s
}

func (s *searchService) normalize(req SearchRequest) (SearchRequest, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return req, apierr.BadRequest("query_required", "query is required")
	}
	if req.MaxResults <= 0 {
		req.MaxResults = DefaultMaxResults
	}
	if req.MaxResults > s.maxResults {
		req.MaxResults = s.maxResults
	}
	if len(req.Sources) == 0 {
		req.Sources = append([]string(nil), s.order...)
		return req, nil
	}
	want := map[string]bool{}
	for _, name := range req.Sources {
		name = strings.TrimSpace(name)
		if _, ok := s.sources[name]; !ok {
			return req, apierr.BadRequest("invalid_source", "unknown source %q", name)
		}
		want[name] = true
	}
	ordered := make([]string, 0, len(want))
	for _, name := range s.order {
		if want[name] {
			ordered = append(ordered, name)
		}
	}
	req.Sources = ordered
	return req, nil
}

func (s *searchService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	perSource := make([][]SearchResult, len(req.Sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range req.Sources {
		i, src := i, s.sources[name]
		g.Go(func() error {
			start := time.Now()
			rows, err := src.Search(gctx, req.Query, req.MaxResults)
			status := "ok"
			if err != nil {
				status = "error"
			}
			if s.observer != nil {
				s.observer.ObserveSearch(src.Name(), status, time.Since(start), len(rows))
			}
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name(), err)
			}
			perSource[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("Paper search failed", "query", req.Query, "error", err)
		return nil, apierr.Public(http.StatusInternalServerError, "search_failed", "paper search failed", err)
	}

	out := &SearchResponse{Query: req.Query, Sources: req.Sources, Results: []SearchResult{}}
	for _, rows := range perSource {
		out.Results = append(out.Results, rows...)
	}
	s.log.Info("Paper search complete", "query", req.Query, "sources", req.Sources, "results", len(out.Results))
	return out, nil
}

func (s *searchService) SearchProject(ctx context.Context, projectID uuid.UUID, req SearchRequest) (*SearchResponse, error) {
	if _, err := s.projects.GetByID(ctx, nil, projectID); err != nil {
		return nil, notFoundOr("project_not_found", "project", err)
	}
	out, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	q, err := s.queries.Create(ctx, nil, &types.ResearchQuery{
		ProjectID:   projectID,
		QueryText:   out.Query,
		Sources:     datatypes.JSONSlice[string](out.Sources),
		ResultCount: len(out.Results),
	})
	if err != nil {
		return nil, internal("record query", err)
	}
	out.QueryID = &q.ID
	s.events.Emit(ctx, projectID, realtime.SSEEventSearchCompleted, map[string]any{
		"query_id":     q.ID,
		"query":        out.Query,
		"result_count": len(out.Results),
	})
	return out, nil
}

func (s *searchService) ListQueries(ctx context.Context, projectID uuid.UUID) ([]*types.ResearchQuery, error) {
	if _, err := s.projects.GetByID(ctx, nil, projectID); err != nil {
		return nil, notFoundOr("project_not_found", "project", err)
	}
	rows, err := s.queries.ListByProject(ctx, nil, projectID)
	if err != nil {
		return nil, internal("list queries", err)
	}
	if rows == nil {
		rows = []*types.ResearchQuery{}
	}
	return rows, nil
}

func (s *searchService) GetPaper(ctx context.Context, source, externalID string) (*SearchResult, error) {
	src, ok := s.sources[strings.TrimSpace(source)]
	if !ok {
		return nil, apierr.BadRequest("invalid_source", "unknown source %q", source)
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, apierr.BadRequest("invalid_request", "external id is required")
	}
	start := time.Now()
	p, err := src.Lookup(ctx, externalID)
	if s.observer != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.observer.ObserveSearch(src.Name(), status, time.Since(start), 0)
	}
	if err != nil {
		if errors.Is(err, ErrSourcePaperNotFound) {
			return nil, apierr.New(http.StatusNotFound, "paper_not_found", fmt.Errorf("paper %s not found at %s", externalID, src.Name()))
		}
		s.log.Error("Paper lookup failed", "source", src.Name(), "external_id", externalID, "error", err)
		return nil, apierr.Public(http.StatusInternalServerError, "search_failed", "paper lookup failed", err)
	}
	return p, nil
}

// ---------- source adapters ----------

type arxivSource struct{ c *arxiv.Client }

// ArxivSource adapts the arXiv client to PaperSource.
func ArxivSource(c *arxiv.Client) PaperSource { return arxivSource{c: c} }

func (arxivSource) Name() string { return types.SourceArxiv }

func (a arxivSource) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	rows, err := a.c.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	out := make([]SearchResult, 0, len(rows))
	for _, p := range rows {
		out = append(out, fromArxiv(p))
	}
	return out, nil
}

func (a arxivSource) Lookup(ctx context.Context, id string) (*SearchResult, error) {
	p, err := a.c.Get(ctx, id)
	if err != nil {
		if errors.Is(err, arxiv.ErrNotFound) {
			return nil, ErrSourcePaperNotFound
		}
		return nil, err
	}
	out := fromArxiv(*p)
	return &out, nil
}

func fromArxiv(p arxiv.Paper) SearchResult {
	return SearchResult{
		Title:         p.Title,
		Authors:       nonNilStrings(p.Authors),
		Abstract:      p.Abstract,
		URL:           p.URL,
		PDFURL:        p.PDFURL,
		PublishedDate: p.Published,
		Source:        types.SourceArxiv,
		ExternalID:    p.ExternalID,
		Metadata: types.PaperMetadata{
			Categories: p.Categories,
			DOI:        p.DOI,
			Venue:      p.JournalRef,
		},
	}
}

type semanticScholarSource struct{ c *semanticscholar.Client }

// SemanticScholarSource adapts the Semantic Scholar client to PaperSource.
func SemanticScholarSource(c *semanticscholar.Client) PaperSource {
	return semanticScholarSource{c: c}
}

func (semanticScholarSource) Name() string { return types.SourceSemanticScholar }

func (s semanticScholarSource) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	rows, err := s.c.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	out := make([]SearchResult, 0, len(rows))
	for _, p := range rows {
		out = append(out, fromSemanticScholar(p))
	}
	return out, nil
}

func (s semanticScholarSource) Lookup(ctx context.Context, id string) (*SearchResult, error) {
	p, err := s.c.GetPaper(ctx, id)
	if err != nil {
		if errors.Is(err, semanticscholar.ErrNotFound) {
			return nil, ErrSourcePaperNotFound
		}
		return nil, err
	}
	out := fromSemanticScholar(*p)
	return &out, nil
}

func fromSemanticScholar(p semanticscholar.Paper) SearchResult {
	return SearchResult{
		Title:         p.Title,
		Authors:       nonNilStrings(p.Authors),
		Abstract:      p.Abstract,
		URL:           p.URL,
		PDFURL:        p.PDFURL,
		PublishedDate: p.Published,
		Source:        types.SourceSemanticScholar,
		ExternalID:    p.ExternalID,
		Metadata: types.PaperMetadata{
			CitationCount:  p.CitationCount,
			ReferenceCount: p.ReferenceCount,
			Venue:          p.Venue,
			DOI:            p.DOI,
			Categories:     p.FieldsOfStudy,
		},
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
