package services

import (
	"context"
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/openai"
	"github.com/yungbote/aura-backend/internal/realtime"
)

func seedProject(t *testing.T, env *testEnv, abstracts ...string) (*types.Project, []*types.Paper) {
	t.Helper()
	ctx := context.Background()
	p, err := env.projects.Create(ctx, "Sleep research", "")
	if err != nil {
		t.Fatalf("Create project: %v", err)
	}
	papers := make([]*types.Paper, 0, len(abstracts))
	for i, abs := range abstracts {
		paper, _, err := env.papers.Add(ctx, p.ID, AddPaperInput{
			Title:    "Paper title " + string(rune('A'+i)),
			Authors:  []string{"Author"},
			Abstract: abs,
		})
		if err != nil {
			t.Fatalf("Add paper: %v", err)
		}
		papers = append(papers, paper)
	}
	return p, papers
}

func TestSummarize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, papers := seedProject(t, env, "", "Sleep improves memory consolidation.")

	_, err := env.summaries.Summarize(ctx, p.ID, papers[0].ID)
	requireAPIError(t, err, http.StatusBadRequest, "paper_has_no_text")
	_, err = env.summaries.Summarize(ctx, p.ID, uuid.New())
	requireAPIError(t, err, http.StatusNotFound, "paper_not_found")

	env.llm.json["paper_summary"] = `{"summary":"First.","key_findings":["a"," ","b"]}`
	s, err := env.summaries.Summarize(ctx, p.ID, papers[1].ID)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.SummaryText != "First." || len(s.KeyFindings) != 2 {
		t.Fatalf("unexpected summary: %#v", s)
	}
	if !strings.Contains(env.llm.users[len(env.llm.users)-1], "Sleep improves memory consolidation.") {
		t.Fatalf("abstract missing from prompt")
	}

	env.llm.json["paper_summary"] = `{"summary":"Second.","key_findings":[]}`
	s2, err := env.summaries.Summarize(ctx, p.ID, papers[1].ID)
	if err != nil {
		t.Fatalf("Summarize again: %v", err)
	}
	if s2.ID != s.ID || s2.SummaryText != "Second." {
		t.Fatalf("summary not overwritten in place: %#v", s2)
	}
	stored, err := env.summaryRepo.GetByPaperID(ctx, nil, papers[1].ID)
	if err != nil || stored.SummaryText != "Second." {
		t.Fatalf("stored summary: %v %#v", err, stored)
	}
	if env.events.count(realtime.SSEEventPaperSummarized) != 2 {
		t.Fatalf("expected two summarized events")
	}
}

func TestSummarizeModelFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, papers := seedProject(t, env, "Some abstract.")

	env.llm.json["paper_summary"] = `not json`
	_, err := env.summaries.Summarize(ctx, p.ID, papers[0].ID)
	requireAPIError(t, err, http.StatusInternalServerError, "llm_output_invalid")
	if _, err := env.summaryRepo.GetByPaperID(ctx, nil, papers[0].ID); err == nil {
		t.Fatalf("invalid output must not be stored")
	}

	env.llm.err = openai.ErrMissingAPIKey
	_, err = env.summaries.Summarize(ctx, p.ID, papers[0].ID)
	requireAPIError(t, err, http.StatusInternalServerError, "llm_unavailable")
}

func TestGenerateHypothesisConfidence(t *testing.T) {
	cases := []struct {
		name  string
		score string
		want  float64
		fails bool
	}{
		{name: "in range", score: `0.4`, want: 0.4},
		{name: "above one", score: `1.7`, want: 1},
		{name: "negative", score: `-2`, want: 0},
		{name: "percent string", score: `"85%"`, want: 0.85},
		{name: "numeric string", score: `"0.3"`, want: 0.3},
		{name: "word", score: `"high"`, fails: true},
		{name: "null", score: `null`, fails: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			p, _ := seedProject(t, env, "Sleep and memory.")
			env.llm.json["hypothesis_generate"] = `{"hypothesis_text":"H","reasoning":"r","confidence_score":` + tc.score + `,"supporting_evidence":[]}`

			h, err := env.hypotheses.Generate(ctx, p.ID, "Does sleep help?")
			if tc.fails {
				requireAPIError(t, err, http.StatusInternalServerError, "llm_output_invalid")
				list, lerr := env.hypotheses.List(ctx, p.ID)
				if lerr != nil || len(list) != 0 {
					t.Fatalf("nothing should be stored: %v %d", lerr, len(list))
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if math.Abs(h.ConfidenceScore-tc.want) > 1e-9 {
				t.Fatalf("confidence: got %v want %v", h.ConfidenceScore, tc.want)
			}
		})
	}
}

func TestGenerateHypothesisEvidence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, papers := seedProject(t, env, "Sleep improves memory.")

	_, err := env.hypotheses.Generate(ctx, p.ID, "  ")
	requireAPIError(t, err, http.StatusBadRequest, "research_question_required")
	_, err = env.hypotheses.Generate(ctx, uuid.New(), "q")
	requireAPIError(t, err, http.StatusNotFound, "project_not_found")

	env.llm.json["hypothesis_generate"] = `{
		"hypothesis_text": " Sleep improves recall ",
		"reasoning": "r",
		"confidence_score": 0.8,
		"supporting_evidence": [
			{"paper_ref": 1, "text": "first"},
			{"paper_ref": "Paper 1", "text": "second"},
			{"paper_ref": 7, "text": "dropped"}
		]
	}`
	h, err := env.hypotheses.Generate(ctx, p.ID, "Does sleep help memory?")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if h.HypothesisText != "Sleep improves recall" {
		t.Fatalf("text: %q", h.HypothesisText)
	}
	ev := h.SupportingEvidence.Data()
	if len(ev) != 1 || ev[papers[0].ID.String()] != "first\n\nsecond" {
		t.Fatalf("evidence: %#v", ev)
	}
	if !strings.Contains(env.llm.users[len(env.llm.users)-1], "Paper 1") {
		t.Fatalf("papers context missing from prompt")
	}

	got, err := env.hypotheses.Get(ctx, h.ID)
	if err != nil || got.ResearchQuestion != "Does sleep help memory?" {
		t.Fatalf("Get: %v %#v", err, got)
	}
	detail, err := env.projects.Get(ctx, p.ID)
	if err != nil || detail.HypothesisCount != 1 {
		t.Fatalf("stats: %v %#v", err, detail)
	}
	if env.events.count(realtime.SSEEventHypothesisCreated) != 1 {
		t.Fatalf("expected hypothesis event")
	}
}

func TestEvaluateHypothesis(t *testing.T) {
	papers := []*types.Paper{
		{Title: "Sleep deprivation", Abstract: "Memory consolidation depends on sleep."},
		{Title: "Exercise", Abstract: "Running improves cardiovascular health."},
	}
	res := EvaluateHypothesis("Sleep deprivation impairs memory consolidation", papers)
	if res.RelevantPapers != 1 || res.TotalPapers != 2 {
		t.Fatalf("relevance: %#v", res)
	}
	if res.RelevanceScore != 0.5 || res.Verdict != "moderately supported" {
		t.Fatalf("score=%v verdict=%q", res.RelevanceScore, res.Verdict)
	}

	none := EvaluateHypothesis("Sleep deprivation impairs memory", nil)
	if none.RelevanceScore != 0 || none.Verdict != "weakly supported" {
		t.Fatalf("empty project: %#v", none)
	}
}

func TestExperimentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := seedProject(t, env, "Sleep improves memory.")
	env.llm.json["hypothesis_generate"] = `{"hypothesis_text":"H","reasoning":"r","confidence_score":0.5,"supporting_evidence":[]}`
	h, err := env.hypotheses.Generate(ctx, p.ID, "q")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	_, err = env.experiments.Design(ctx, uuid.New())
	requireAPIError(t, err, http.StatusNotFound, "hypothesis_not_found")

	env.llm.json["experiment_design"] = `{
		"title": "Sleep RCT",
		"methodology": "Randomize.",
		"variables": {"independent": ["sleep hours", ""], "dependent": ["recall score"]},
		"controls": "caffeine",
		"expected_outcomes": "better recall",
		"limitations": "small n"
	}`
	e, err := env.experiments.Design(ctx, h.ID)
	if err != nil {
		t.Fatalf("Design: %v", err)
	}
	vars := e.Variables.Data()
	if e.Title != "Sleep RCT" || len(vars.Independent) != 1 || len(vars.Dependent) != 1 {
		t.Fatalf("experiment: %#v %#v", e, vars)
	}
	if env.events.count(realtime.SSEEventExperimentCreated) != 1 {
		t.Fatalf("expected experiment event")
	}

	list, err := env.experiments.ListByHypothesis(ctx, h.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByHypothesis: %v %d", err, len(list))
	}
	withExps, err := env.hypotheses.Get(ctx, h.ID)
	if err != nil || len(withExps.Experiments) != 1 {
		t.Fatalf("hypothesis experiments: %v %#v", err, withExps)
	}

	env.llm.json["experiment_evaluate"] = `{"overall_score":"120%","strengths":["s"],"weaknesses":[],"recommendations":["r"," "]}`
	ev, err := env.experiments.Evaluate(ctx, e.ID, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.OverallScore != 1 || len(ev.Criteria) != len(DefaultEvaluationCriteria) || len(ev.Recommendations) != 1 {
		t.Fatalf("evaluation: %#v", ev)
	}
	if !strings.Contains(env.llm.users[len(env.llm.users)-1], "internal_validity") {
		t.Fatalf("default criteria not in prompt")
	}
	ev, err = env.experiments.Evaluate(ctx, e.ID, []string{" cost ", ""})
	if err != nil || len(ev.Criteria) != 1 || ev.Criteria[0] != "cost" {
		t.Fatalf("custom criteria: %v %#v", err, ev)
	}

	env.llm.json["experiment_measurements"] = `{"measurements":[{"variable":"recall score","method":"test","instrument":"form","data_type":"continuous","units":"points"}],"data_collection_procedures":"weekly","reliability_considerations":"blind scoring"}`
	m, err := env.experiments.Measurements(ctx, e.ID)
	if err != nil {
		t.Fatalf("Measurements: %v", err)
	}
	if m.ExperimentID != e.ID || len(m.Measurements) != 1 || m.Measurements[0].Units != "points" {
		t.Fatalf("measurements: %#v", m)
	}

	_, err = env.experiments.Evaluate(ctx, uuid.New(), nil)
	requireAPIError(t, err, http.StatusNotFound, "experiment_not_found")
}
