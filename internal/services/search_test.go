package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/realtime"
)

type countingObserver struct {
	mu    sync.Mutex
	calls map[string]int
}

func (o *countingObserver) ObserveSearch(source, status string, _ time.Duration, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = map[string]int{}
	}
	o.calls[source+"/"+status]++
}

func newSearch(env *testEnv, max int, obs SearchObserver, sources ...PaperSource) SearchService {
	return NewSearchService(env.db, env.log, sources, max, env.projectRepo, env.queryRepo, obs, env.events)
}

func TestSearchFanOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	arx := &fakeSource{name: types.SourceArxiv, results: []SearchResult{{Title: "A1", Source: types.SourceArxiv}}}
	s2 := &fakeSource{name: types.SourceSemanticScholar, results: []SearchResult{
		{Title: "S1", Source: types.SourceSemanticScholar},
		{Title: "S2", Source: types.SourceSemanticScholar},
	}}
	obs := &countingObserver{}
	svc := newSearch(env, 20, obs, arx, s2)

	_, err := svc.Search(ctx, SearchRequest{Query: "  "})
	requireAPIError(t, err, http.StatusBadRequest, "query_required")
	_, err = svc.Search(ctx, SearchRequest{Query: "q", Sources: []string{"pubmed"}})
	requireAPIError(t, err, http.StatusBadRequest, "invalid_source")

	sources := []string{types.SourceSemanticScholar, types.SourceArxiv}
	res, err := svc.Search(ctx, SearchRequest{Query: " transformers ", Sources: sources, MaxResults: 500})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Query != "transformers" || len(res.Results) != 3 {
		t.Fatalf("response: %#v", res)
	}
	if res.Results[0].Title != "A1" || res.Results[1].Title != "S1" {
		t.Fatalf("results should follow source registration order: %#v", res.Results)
	}
	if sources[0] != types.SourceSemanticScholar {
		t.Fatalf("caller's source slice was modified")
	}
	if arx.gotMax != 20 || s2.gotMax != 20 {
		t.Fatalf("max results not clamped: %d %d", arx.gotMax, s2.gotMax)
	}
	if obs.calls["arxiv/ok"] != 1 || obs.calls["semantic_scholar/ok"] != 1 {
		t.Fatalf("observer calls: %#v", obs.calls)
	}

	res, err = svc.Search(ctx, SearchRequest{Query: "q", Sources: []string{types.SourceArxiv}})
	if err != nil || len(res.Results) != 1 || arx.gotMax != DefaultMaxResults {
		t.Fatalf("single source: %v %#v max=%d", err, res, arx.gotMax)
	}

	s2.err = errors.New("429")
	_, err = svc.Search(ctx, SearchRequest{Query: "q"})
	requireAPIError(t, err, http.StatusInternalServerError, "search_failed")
	if obs.calls["semantic_scholar/error"] != 1 {
		t.Fatalf("failure not observed: %#v", obs.calls)
	}
}

func TestSearchProjectRecordsQuery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := seedProject(t, env)
	arx := &fakeSource{name: types.SourceArxiv, results: []SearchResult{{Title: "A1"}, {Title: "A2"}}}
	svc := newSearch(env, 0, nil, arx)

	_, err := svc.SearchProject(ctx, uuid.New(), SearchRequest{Query: "q"})
	requireAPIError(t, err, http.StatusNotFound, "project_not_found")

	res, err := svc.SearchProject(ctx, p.ID, SearchRequest{Query: "sleep"})
	if err != nil {
		t.Fatalf("SearchProject: %v", err)
	}
	if res.QueryID == nil {
		t.Fatalf("query id missing")
	}
	queries, err := svc.ListQueries(ctx, p.ID)
	if err != nil || len(queries) != 1 {
		t.Fatalf("ListQueries: %v %d", err, len(queries))
	}
	q := queries[0]
	if q.ID != *res.QueryID || q.QueryText != "sleep" || q.ResultCount != 2 || len(q.Sources) != 1 {
		t.Fatalf("recorded query: %#v", q)
	}
	if env.events.count(realtime.SSEEventSearchCompleted) != 1 {
		t.Fatalf("expected search event")
	}
}

func TestSearchGetPaper(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	arx := &fakeSource{name: types.SourceArxiv, lookups: map[string]SearchResult{"2101.00001": {Title: "Found"}}}
	svc := newSearch(env, 0, nil, arx)

	got, err := svc.GetPaper(ctx, "arxiv", "2101.00001")
	if err != nil || got.Title != "Found" {
		t.Fatalf("GetPaper: %v %#v", err, got)
	}
	_, err = svc.GetPaper(ctx, "arxiv", "9999.99999")
	requireAPIError(t, err, http.StatusNotFound, "paper_not_found")
	_, err = svc.GetPaper(ctx, "pubmed", "1")
	requireAPIError(t, err, http.StatusBadRequest, "invalid_source")
}
