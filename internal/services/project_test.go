package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/aura-backend/internal/realtime"
)

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.projects.Create(ctx, "   ", "x")
	requireAPIError(t, err, http.StatusBadRequest, "title_required")

	p, err := env.projects.Create(ctx, " Sleep and memory ", "consolidation")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Title != "Sleep and memory" || p.Description != "consolidation" {
		t.Fatalf("unexpected project: %#v", p)
	}

	if _, _, err := env.papers.Add(ctx, p.ID, AddPaperInput{Title: "P"}); err != nil {
		t.Fatalf("Add paper: %v", err)
	}
	got, err := env.projects.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != p.Title || got.PaperCount != 1 || got.HypothesisCount != 0 {
		t.Fatalf("unexpected detail: %#v", got)
	}

	list, err := env.projects.List(ctx)
	if err != nil || len(list) != 1 || list[0].PaperCount != 1 {
		t.Fatalf("List: %v %#v", err, list)
	}

	blank := " "
	_, err = env.projects.Update(ctx, p.ID, ProjectUpdate{Title: &blank})
	requireAPIError(t, err, http.StatusBadRequest, "title_required")

	title := "Renamed"
	updated, err := env.projects.Update(ctx, p.ID, ProjectUpdate{Title: &title})
	if err != nil || updated.Title != "Renamed" || updated.Description != "consolidation" {
		t.Fatalf("Update: %v %#v", err, updated)
	}
	if env.events.count(realtime.SSEEventProjectUpdated) != 1 {
		t.Fatalf("expected one update event")
	}

	if err := env.projects.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = env.projects.Get(ctx, p.ID)
	requireAPIError(t, err, http.StatusNotFound, "project_not_found")
	requireAPIError(t, env.projects.Delete(ctx, p.ID), http.StatusNotFound, "project_not_found")
	if env.events.count(realtime.SSEEventProjectDeleted) != 1 {
		t.Fatalf("expected one delete event")
	}
}

func TestPaperAdd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, err := env.projects.Create(ctx, "T", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, _, err = env.papers.Add(ctx, p.ID, AddPaperInput{Title: "X", Source: "pubmed"})
	requireAPIError(t, err, http.StatusBadRequest, "invalid_source")
	_, _, err = env.papers.Add(ctx, p.ID, AddPaperInput{Title: " "})
	requireAPIError(t, err, http.StatusBadRequest, "title_required")

	manual, created, err := env.papers.Add(ctx, p.ID, AddPaperInput{Title: "Manual"})
	if err != nil || !created {
		t.Fatalf("Add manual: %v created=%v", err, created)
	}
	if manual.Source != "manual" || manual.Authors == nil || len(manual.Authors) != 0 {
		t.Fatalf("manual defaults: %#v", manual)
	}

	in := AddPaperInput{Title: "Attention", Source: "arxiv", ExternalID: "1706.03762", Authors: []string{"A", " "}}
	first, created, err := env.papers.Add(ctx, p.ID, in)
	if err != nil || !created {
		t.Fatalf("Add arxiv: %v created=%v", err, created)
	}
	if len(first.Authors) != 1 {
		t.Fatalf("blank author kept: %#v", first.Authors)
	}
	second, created, err := env.papers.Add(ctx, p.ID, in)
	if err != nil || created || second.ID != first.ID {
		t.Fatalf("duplicate add: %v created=%v id=%s want %s", err, created, second.ID, first.ID)
	}

	list, err := env.papers.List(ctx, p.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("List: %v len=%d", err, len(list))
	}
	if env.events.count(realtime.SSEEventPaperAdded) != 2 {
		t.Fatalf("expected two paper events, got %d", env.events.count(realtime.SSEEventPaperAdded))
	}

	if err := env.papers.Delete(ctx, p.ID, manual.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = env.papers.Get(ctx, p.ID, manual.ID)
	requireAPIError(t, err, http.StatusNotFound, "paper_not_found")

	_, _, err = env.papers.Add(ctx, first.ID, AddPaperInput{Title: "orphan"})
	requireAPIError(t, err, http.StatusNotFound, "project_not_found")
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		nil  bool
		err  bool
	}{
		{in: "", nil: true},
		{in: "2021-03-04", want: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)},
		{in: "2021-03-04T18:30:00Z", want: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)},
		{in: "2019", want: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "March", err: true},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.err {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if tc.nil {
			if got != nil {
				t.Fatalf("%q: expected nil, got %v", tc.in, got)
			}
			continue
		}
		if got == nil || !got.Equal(tc.want) {
			t.Fatalf("%q: got %v want %v", tc.in, got, tc.want)
		}
	}
}
