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

// HypothesisEvaluation scores a hypothesis by how many project papers
// mention its longer terms.
type HypothesisEvaluation struct {
	HypothesisID   uuid.UUID `json:"hypothesis_id"`
	RelevanceScore float64   `json:"relevance_score"`
	RelevantPapers int       `json:"relevant_papers"`
	TotalPapers    int       `json:"total_papers"`
	Verdict        string    `json:"verdict"`
	Evaluation     string    `json:"evaluation"`
}

type HypothesisService interface {
	Generate(ctx context.Context, projectID uuid.UUID, researchQuestion string) (*types.Hypothesis, error)
	List(ctx context.Context, projectID uuid.UUID) ([]*types.Hypothesis, error)
	// Get returns the hypothesis with its experiments.
	Get(ctx context.Context, id uuid.UUID) (*types.Hypothesis, error)
	Evaluate(ctx context.Context, id uuid.UUID) (*HypothesisEvaluation, error)
}

type hypothesisService struct {
	db         *gorm.DB
	log        *logger.Logger
	llm        openai.Client
	prompts    *prompts.Registry
	projects   repos.ProjectRepo
	papers     repos.PaperRepo
	hypotheses repos.HypothesisRepo
	events     realtime.Emitter
}

func NewHypothesisService(
	db *gorm.DB,
	baseLog *logger.Logger,
	llm openai.Client,
	registry *prompts.Registry,
	projectRepo repos.ProjectRepo,
	paperRepo repos.PaperRepo,
	hypothesisRepo repos.HypothesisRepo,
	events realtime.Emitter,
) HypothesisService {
	return &hypothesisService{
		db:         db,
		log:        baseLog.With("service", "HypothesisService"),
		llm:        llm,
		prompts:    registry,
		projects:   projectRepo,
		papers:     paperRepo,
		hypotheses: hypothesisRepo,
		events:     events,
	}
}

func (s *hypothesisService) Generate(ctx context.Context, projectID uuid.UUID, researchQuestion string) (*types.Hypothesis, error) {
	researchQuestion = strings.TrimSpace(researchQuestion)
	if researchQuestion == "" {
		return nil, apierr.BadRequest("research_question_required", "research_question is required")
	}
	project, err := s.projects.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, notFoundOr("project_not_found", "project", err)
	}
	papers, err := s.papers.ListByProject(ctx, nil, projectID, hypothesisPaperLimit)
	if err != nil {
		return nil, internal("load papers", err)
	}

	out, err := generateJSON[prompts.HypothesisOutput](ctx, s.log, s.llm, s.prompts, prompts.PromptHypothesisGenerate, prompts.Input{
		ProjectTitle:     project.Title,
		ResearchQuestion: researchQuestion,
		PapersContext:    papersContext(papers),
	})
	if err != nil {
		return nil, err
	}

	h := &types.Hypothesis{
		ProjectID:          projectID,
		ResearchQuestion:   researchQuestion,
		HypothesisText:     out.HypothesisText,
		Reasoning:          strings.TrimSpace(out.Reasoning),
		ConfidenceScore:    out.Confidence(),
		SupportingEvidence: datatypes.NewJSONType(resolveEvidence(out.SupportingEvidence, papers)),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.hypotheses.Create(ctx, tx, h); err != nil {
			return err
		}
		return s.projects.Touch(ctx, tx, projectID)
	})
	if err != nil {
		return nil, internal("store hypothesis", err)
	}
	s.log.Info("Hypothesis generated", "project_id", projectID, "hypothesis_id", h.ID, "confidence", h.ConfidenceScore)
	s.events.Emit(ctx, projectID, realtime.SSEEventHypothesisCreated, h)
	return h, nil
}

// resolveEvidence maps "Paper N" references back to paper ids. References
// outside the listed papers are dropped; several passages for one paper are
// joined.
func resolveEvidence(refs []prompts.EvidenceRef, papers []*types.Paper) types.Evidence {
	out := types.Evidence{}
	for _, ref := range refs {
		n := int(ref.PaperRef)
		text := strings.TrimSpace(ref.Text)
		if n < 1 || n > len(papers) || text == "" {
			continue
		}
		id := papers[n-1].ID.String()
		if prev, ok := out[id]; ok {
			out[id] = prev + "\n\n" + text
			continue
		}
		out[id] = text
	}
	return out
}

func (s *hypothesisService) List(ctx context.Context, projectID uuid.UUID) ([]*types.Hypothesis, error) {
	if _, err := s.projects.GetByID(ctx, nil, projectID); err != nil {
		return nil, notFoundOr("project_not_found", "project", err)
	}
	rows, err := s.hypotheses.ListByProject(ctx, nil, projectID, 0)
	if err != nil {
		return nil, internal("list hypotheses", err)
	}
	if rows == nil {
		rows = []*types.Hypothesis{}
	}
	return rows, nil
}

func (s *hypothesisService) Get(ctx context.Context, id uuid.UUID) (*types.Hypothesis, error) {
	h, err := s.hypotheses.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr("hypothesis_not_found", "hypothesis", err)
	}
	if h.Experiments == nil {
		h.Experiments = []*types.Experiment{}
	}
	return h, nil
}

func (s *hypothesisService) Evaluate(ctx context.Context, id uuid.UUID) (*HypothesisEvaluation, error) {
	h, err := s.hypotheses.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr("hypothesis_not_found", "hypothesis", err)
	}
	papers, err := s.papers.ListByProject(ctx, nil, h.ProjectID, 0)
	if err != nil {
		return nil, internal("load papers", err)
	}
	out := EvaluateHypothesis(h.HypothesisText, papers)
	out.HypothesisID = h.ID
	return &out, nil
}

// EvaluateHypothesis counts the papers whose title or abstract contains any
// hypothesis term longer than five characters.
func EvaluateHypothesis(text string, papers []*types.Paper) HypothesisEvaluation {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(text)) {
		t = strings.Trim(t, ".,;:!?()[]\"'")
		if len([]rune(t)) > 5 {
			terms = append(terms, t)
		}
	}
	relevant := 0
	for _, p := range papers {
		body := strings.ToLower(p.Title + " " + p.Abstract)
		for _, t := range terms {
			if strings.Contains(body, t) {
				relevant++
				break
			}
		}
	}
	total := len(papers)
	score := 0.0
	if total > 0 {
		score = float64(relevant) / float64(total)
	}
	verdict := "weakly supported"
	switch {
	case score > 0.7:
		verdict = "well-supported"
	case score > 0.3:
		verdict = "moderately supported"
	}
	return HypothesisEvaluation{
		RelevanceScore: score,
		RelevantPapers: relevant,
		TotalPapers:    total,
		Verdict:        verdict,
		Evaluation:     "This hypothesis appears to be " + verdict + " by the available papers.",
	}
}
