package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/data/repos"
	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/apierr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/platform/openai"
	"github.com/yungbote/aura-backend/internal/prompts"
	"github.com/yungbote/aura-backend/internal/realtime"
)

type SummarizationService interface {
	// Summarize writes (or overwrites) the summary of a paper.
	Summarize(ctx context.Context, projectID, paperID uuid.UUID) (*types.Summary, error)
}

type summarizationService struct {
	db        *gorm.DB
	log       *logger.Logger
	llm       openai.Client
	prompts   *prompts.Registry
	papers    repos.PaperRepo
	summaries repos.SummaryRepo
	events    realtime.Emitter
}

func NewSummarizationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	llm openai.Client,
	registry *prompts.Registry,
	paperRepo repos.PaperRepo,
	summaryRepo repos.SummaryRepo,
	events realtime.Emitter,
) SummarizationService {
	return &summarizationService{
		db:        db,
		log:       baseLog.With("service", "SummarizationService"),
		llm:       llm,
		prompts:   registry,
		papers:    paperRepo,
		summaries: summaryRepo,
		events:    events,
	}
}

func (s *summarizationService) Summarize(ctx context.Context, projectID, paperID uuid.UUID) (*types.Summary, error) {
	paper, err := s.papers.GetByID(ctx, nil, projectID, paperID)
	if err != nil {
		return nil, notFoundOr("paper_not_found", "paper", err)
	}
	if strings.TrimSpace(paper.Abstract) == "" {
		return nil, apierr.BadRequest("paper_has_no_text", "paper has no abstract to summarize")
	}

	out, err := generateJSON[prompts.SummaryOutput](ctx, s.log, s.llm, s.prompts, prompts.PromptPaperSummary, prompts.Input{
		PaperTitle:    paper.Title,
		PaperAuthors:  strings.Join(paper.Authors, ", "),
		PaperAbstract: paper.Abstract,
	})
	if err != nil {
		return nil, err
	}

	summary, err := s.summaries.Upsert(ctx, nil, &types.Summary{
		PaperID:     paper.ID,
		SummaryText: out.Summary,
		KeyFindings: datatypes.JSONSlice[string](out.KeyFindings),
	})
	if err != nil {
		return nil, internal("store summary", err)
	}
	s.log.Info("Paper summarized", "project_id", projectID, "paper_id", paperID, "findings", len(out.KeyFindings))
	s.events.Emit(ctx, projectID, realtime.SSEEventPaperSummarized, summary)
	return summary, nil
}
