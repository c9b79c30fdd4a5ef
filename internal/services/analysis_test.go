package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/aura-backend/internal/analysis"
	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/realtime"
)

func TestAnalyzeText(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.analysis.AnalyzeText(ctx, "topic", "  ")
	requireAPIError(t, err, http.StatusBadRequest, "text_required")
	_, err = env.analysis.AnalyzeText(ctx, "emotion", "text")
	requireAPIError(t, err, http.StatusBadRequest, "invalid_analysis_type")

	got, err := env.analysis.AnalyzeText(ctx, "Topic", "neural network training with gradient descent")
	if err != nil {
		t.Fatalf("topic: %v", err)
	}
	if _, ok := got.(analysis.TopicResult); !ok {
		t.Fatalf("expected TopicResult, got %T", got)
	}
	got, err = env.analysis.AnalyzeText(ctx, "sentiment", "a great and effective result")
	if err != nil {
		t.Fatalf("sentiment: %v", err)
	}
	if _, ok := got.(analysis.SentimentResult); !ok {
		t.Fatalf("expected SentimentResult, got %T", got)
	}
}

func TestAnalyzeProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	empty, _ := seedProject(t, env)
	_, err := env.analysis.AnalyzeProject(ctx, empty.ID, ProjectAnalysisRequest{})
	requireAPIError(t, err, http.StatusBadRequest, "no_papers")
	_, err = env.analysis.AnalyzeProject(ctx, uuid.New(), ProjectAnalysisRequest{})
	requireAPIError(t, err, http.StatusNotFound, "project_not_found")

	p, papers := seedProject(t, env,
		"Neural networks learn image features with convolution.",
		"Convolution neural networks classify images.",
		"Protein folding dynamics in cells.",
	)

	bad := []ProjectAnalysisRequest{
		{AnalysisType: "nonsense"},
		{NumClusters: intPtr(0)},
		{Threshold: floatPtr(1.5)},
		{Representation: "bag-of-words"},
	}
	for _, req := range bad {
		if _, err := env.analysis.AnalyzeProject(ctx, p.ID, req); err == nil {
			t.Fatalf("expected error for %#v", req)
		}
	}

	res, err := env.analysis.AnalyzeProject(ctx, p.ID, ProjectAnalysisRequest{NumClusters: intPtr(10)})
	if err != nil {
		t.Fatalf("AnalyzeProject: %v", err)
	}
	if res.AnalysisType != AnalysisAll || res.PaperCount != 3 || res.Representation != RepresentationTFIDF {
		t.Fatalf("unexpected result header: %#v", res)
	}
	total := 0
	for _, c := range res.Clusters {
		total += c.Size
	}
	if total != 3 || len(res.Clusters) > 3 {
		t.Fatalf("clusters: %#v", res.Clusters)
	}
	if res.Trends == nil || len(res.Topics) == 0 {
		t.Fatalf("topics/trends missing: %#v", res)
	}

	_, err = env.analysis.AnalyzeProject(ctx, p.ID, ProjectAnalysisRequest{
		AnalysisType: AnalysisClusters,
		PaperIDs:     []uuid.UUID{papers[0].ID, empty.ID},
	})
	requireAPIError(t, err, http.StatusNotFound, "paper_not_found")

	sub, err := env.analysis.AnalyzeProject(ctx, p.ID, ProjectAnalysisRequest{
		AnalysisType: AnalysisTrends,
		PaperIDs:     []uuid.UUID{papers[0].ID, papers[0].ID, papers[2].ID},
	})
	if err != nil || sub.PaperCount != 2 || sub.Clusters != nil || sub.Representation != "" {
		t.Fatalf("subset: %v %#v", err, sub)
	}
}

func TestAnalyzeProjectEmbeddings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := seedProject(t, env, "alpha", "beta")

	env.llm.embeds = [][]float32{{1, 0}, {1, 0}}
	res, err := env.analysis.AnalyzeProject(ctx, p.ID, ProjectAnalysisRequest{
		AnalysisType:   AnalysisSimilarity,
		Representation: "embedding",
		Threshold:      floatPtr(0.9),
	})
	if err != nil {
		t.Fatalf("AnalyzeProject: %v", err)
	}
	if res.Representation != RepresentationEmbedding || len(res.Similarity) != 1 {
		t.Fatalf("similarity: %#v", res)
	}

	env.llm.err = errors.New("upstream down")
	_, err = env.analysis.AnalyzeProject(ctx, p.ID, ProjectAnalysisRequest{AnalysisType: AnalysisSimilarity, Representation: "embedding"})
	requireAPIError(t, err, http.StatusInternalServerError, "llm_failed")
}

func TestResearchGaps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	empty, _ := seedProject(t, env)
	_, err := env.analysis.ResearchGaps(ctx, empty.ID)
	requireAPIError(t, err, http.StatusBadRequest, "no_papers")

	p, _ := seedProject(t, env, "Sleep improves memory.")
	env.llm.json["research_gaps"] = `{"gaps":[{"title":"Older adults","description":"No data beyond 65.","suggested_direction":"Recruit seniors."}],"summary":"Young samples only."}`
	gaps, err := env.analysis.ResearchGaps(ctx, p.ID)
	if err != nil {
		t.Fatalf("ResearchGaps: %v", err)
	}
	if len(gaps.Gaps) != 1 || gaps.Summary != "Young samples only." {
		t.Fatalf("gaps: %#v", gaps)
	}

	history, err := env.chat.History(ctx, p.ID, 0)
	if err != nil || len(history) != 1 {
		t.Fatalf("History: %v %d", err, len(history))
	}
	m := history[0]
	if m.ID != gaps.MessageID || m.Role != types.RoleAgent || m.AgentType == nil || *m.AgentType != types.AgentAnalysis {
		t.Fatalf("message: %#v", m)
	}
	if !strings.Contains(m.Content, "Suggested direction: Recruit seniors.") {
		t.Fatalf("content: %q", m.Content)
	}
	if env.events.count(realtime.SSEEventChatMessage) != 1 {
		t.Fatalf("expected chat event")
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
