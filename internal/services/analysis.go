package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/analysis"
	"github.com/yungbote/aura-backend/internal/data/repos"
	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/apierr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/platform/openai"
	"github.com/yungbote/aura-backend/internal/prompts"
	"github.com/yungbote/aura-backend/internal/realtime"
)

const (
	AnalysisTopic      = "topic"
	AnalysisSentiment  = "sentiment"
	AnalysisClusters   = "clusters"
	AnalysisTopics     = "topics"
	AnalysisSimilarity = "similarity"
	AnalysisTrends     = "trends"
	AnalysisAll        = "all"

	RepresentationTFIDF     = "tfidf"
	RepresentationEmbedding = "embedding"

	defaultNumClusters  = 3
	defaultSimilarity   = 0.5
	tfidfMaxFeatures    = 100
	clusterKeywordCount = 5
	trendKeywordCount   = 10
	researchGapPaperCap = 30
)

type ProjectAnalysisRequest struct {
	AnalysisType   string
	PaperIDs       []uuid.UUID
	NumClusters    *int
	Threshold      *float64
	Representation string
}

type ProjectAnalysis struct {
	ProjectID      uuid.UUID              `json:"project_id"`
	AnalysisType   string                 `json:"analysis_type"`
	Representation string                 `json:"representation,omitempty"`
	PaperCount     int                    `json:"paper_count"`
	Clusters       []analysis.Cluster     `json:"clusters,omitempty"`
	Topics         []analysis.TopicShare  `json:"topics,omitempty"`
	Similarity     []analysis.SimilarPair `json:"similarity,omitempty"`
	Trends         *analysis.TrendsResult `json:"trends,omitempty"`
}

type ResearchGaps struct {
	ProjectID uuid.UUID             `json:"project_id"`
	Gaps      []prompts.ResearchGap `json:"gaps"`
	Summary   string                `json:"summary"`
	MessageID uuid.UUID             `json:"message_id"`
}

type AnalysisService interface {
	// AnalyzeText returns an analysis.TopicResult or analysis.SentimentResult.
	AnalyzeText(ctx context.Context, analysisType, text string) (any, error)
	AnalyzeProject(ctx context.Context, projectID uuid.UUID, req ProjectAnalysisRequest) (*ProjectAnalysis, error)
	// ResearchGaps asks the model for open questions across the project's
	// papers and appends the answer to the chat log.
	ResearchGaps(ctx context.Context, projectID uuid.UUID) (*ResearchGaps, error)
}

type analysisService struct {
	db       *gorm.DB
	log      *logger.Logger
	llm      openai.Client
	prompts  *prompts.Registry
	projects repos.ProjectRepo
	papers   repos.PaperRepo
	messages repos.ChatMessageRepo
	events   realtime.Emitter
}

func NewAnalysisService(
	db *gorm.DB,
	baseLog *logger.Logger,
	llm openai.Client,
	registry *prompts.Registry,
	projectRepo repos.ProjectRepo,
	paperRepo repos.PaperRepo,
	messageRepo repos.ChatMessageRepo,
	events realtime.Emitter,
) AnalysisService {
	return &analysisService{
		db:       db,
		log:      baseLog.With("service", "AnalysisService"),
		llm:      llm,
		prompts:  registry,
		projects: projectRepo,
		papers:   paperRepo,
		messages: messageRepo,
		events:   events,
	}
}

func (s *analysisService) AnalyzeText(ctx context.Context, analysisType, text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apierr.BadRequest("text_required", "text is required")
	}
	switch strings.ToLower(strings.TrimSpace(analysisType)) {
	case AnalysisTopic:
		return analysis.ClassifyTopic(text), nil
	case AnalysisSentiment:
		return analysis.AnalyzeSentiment(text), nil
	}
	return nil, apierr.BadRequest("invalid_analysis_type", "analysis_type must be topic or sentiment")
}

func (s *analysisService) AnalyzeProject(ctx context.Context, projectID uuid.UUID, req ProjectAnalysisRequest) (*ProjectAnalysis, error) {
	kind := strings.ToLower(strings.TrimSpace(req.AnalysisType))
	if kind == "" {
		kind = AnalysisAll
	}
	switch kind {
	case AnalysisClusters, AnalysisTopics, AnalysisSimilarity, AnalysisTrends, AnalysisAll:
	default:
		return nil, apierr.BadRequest("invalid_analysis_type", "unknown analysis_type %q", req.AnalysisType)
	}
	k := defaultNumClusters
	if req.NumClusters != nil {
		if *req.NumClusters < 1 {
			return nil, apierr.BadRequest("invalid_request", "num_clusters must be at least 1")
		}
		k = *req.NumClusters
	}
	threshold := defaultSimilarity
	if req.Threshold != nil {
		if *req.Threshold < 0 || *req.Threshold > 1 {
			return nil, apierr.BadRequest("invalid_request", "threshold must be between 0 and 1")
		}
		threshold = *req.Threshold
	}
	rep := strings.ToLower(strings.TrimSpace(req.Representation))
	if rep == "" {
		rep = RepresentationTFIDF
	}
	if rep != RepresentationTFIDF && rep != RepresentationEmbedding {
		return nil, apierr.BadRequest("invalid_request", "representation must be tfidf or embedding")
	}

	if _, err := s.projects.GetByID(ctx, nil, projectID); err != nil {
		return nil, notFoundOr("project_not_found", "project", err)
	}
	papers, err := s.loadPapers(ctx, projectID, req.PaperIDs)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, apierr.BadRequest("no_papers", "no papers to analyze")
	}

	docs := make([]analysis.Document, 0, len(papers))
	texts := make([]string, 0, len(papers))
	for _, p := range papers {
		d := analysis.Document{ID: p.ID.String(), Text: p.Text()}
		if p.PublishedDate != nil {
			d.Year = p.PublishedDate.Year()
		}
		docs = append(docs, d)
		texts = append(texts, d.Text)
	}

	out := &ProjectAnalysis{ProjectID: projectID, AnalysisType: kind, PaperCount: len(papers)}
	needVectors := kind == AnalysisClusters || kind == AnalysisSimilarity || kind == AnalysisAll
	if needVectors {
		out.Representation = rep
		matrix := analysis.TFIDF(texts, tfidfMaxFeatures)
		vecs := matrix.Vectors
		if rep == RepresentationEmbedding {
			vecs, err = s.llm.Embed(ctx, texts)
			if err != nil {
				return nil, llmError("embed papers", err)
			}
			if len(vecs) != len(texts) {
				return nil, llmError("embed papers", fmt.Errorf("got %d embeddings for %d papers", len(vecs), len(texts)))
			}
		}
		if kind == AnalysisClusters || kind == AnalysisAll {
			if k > len(docs) {
				k = len(docs)
			}
			out.Clusters = analysis.ClusterDocuments(docs, vecs, matrix, k, clusterKeywordCount)
		}
		if kind == AnalysisSimilarity || kind == AnalysisAll {
			out.Similarity = analysis.SimilarPairs(docs, vecs, threshold)
		}
	}
	if kind == AnalysisTopics || kind == AnalysisAll {
		out.Topics = analysis.TopicDistribution(docs)
	}
	if kind == AnalysisTrends || kind == AnalysisAll {
		t := analysis.Trends(docs, trendKeywordCount)
		out.Trends = &t
	}
	s.log.Info("Project analyzed", "project_id", projectID, "analysis_type", kind, "papers", len(papers), "representation", out.Representation)
	return out, nil
}

func (s *analysisService) loadPapers(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) ([]*types.Paper, error) {
	if len(ids) == 0 {
		rows, err := s.papers.ListByProject(ctx, nil, projectID, 0)
		if err != nil {
			return nil, internal("load papers", err)
		}
		// oldest first keeps clustering seeds stable as papers are added
		reverse(rows)
		return rows, nil
	}
	unique := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	rows, err := s.papers.GetByIDs(ctx, nil, projectID, unique)
	if err != nil {
		return nil, internal("load papers", err)
	}
	if len(rows) != len(unique) {
		return nil, apierr.NotFound("paper_not_found", "one or more papers do not belong to this project")
	}
	return rows, nil
}

func (s *analysisService) ResearchGaps(ctx context.Context, projectID uuid.UUID) (*ResearchGaps, error) {
	project, err := s.projects.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, notFoundOr("project_not_found", "project", err)
	}
	papers, err := s.papers.ListByProject(ctx, nil, projectID, researchGapPaperCap)
	if err != nil {
		return nil, internal("load papers", err)
	}
	if len(papers) == 0 {
		return nil, apierr.BadRequest("no_papers", "no papers to analyze")
	}

	out, err := generateJSON[prompts.ResearchGapsOutput](ctx, s.log, s.llm, s.prompts, prompts.PromptResearchGaps, prompts.Input{
		ProjectTitle:  project.Title,
		PapersContext: papersContext(papers),
	})
	if err != nil {
		return nil, err
	}

	agent := types.AgentAnalysis
	rows, err := s.messages.Append(ctx, nil, projectID, []*types.ChatMessage{{
		Role:      types.RoleAgent,
		Content:   formatResearchGaps(out),
		AgentType: &agent,
	}})
	if err != nil {
		return nil, internal("store chat message", err)
	}
	s.events.Emit(ctx, projectID, realtime.SSEEventChatMessage, rows[0])
	return &ResearchGaps{
		ProjectID: projectID,
		Gaps:      out.Gaps,
		Summary:   strings.TrimSpace(out.Summary),
		MessageID: rows[0].ID,
	}, nil
}

func formatResearchGaps(out prompts.ResearchGapsOutput) string {
	var b strings.Builder
	b.WriteString("Research gap analysis")
	if s := strings.TrimSpace(out.Summary); s != "" {
		b.WriteString("\n\n")
		b.WriteString(s)
	}
	for i, g := range out.Gaps {
		fmt.Fprintf(&b, "\n\n%d. %s\n%s", i+1, strings.TrimSpace(g.Title), strings.TrimSpace(g.Description))
		if d := strings.TrimSpace(g.SuggestedDirection); d != "" {
			fmt.Fprintf(&b, "\nSuggested direction: %s", d)
		}
	}
	return b.String()
}
