package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/data/repos"
	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/platform/openai"
	"github.com/yungbote/aura-backend/internal/prompts"
	"github.com/yungbote/aura-backend/internal/realtime"
)

// DefaultEvaluationCriteria are used when an evaluation names none.
var DefaultEvaluationCriteria = []string{
	"feasibility",
	"internal_validity",
	"external_validity",
	"reliability",
	"ethical_considerations",
}

type ExperimentEvaluation struct {
	ExperimentID    uuid.UUID `json:"experiment_id"`
	Criteria        []string  `json:"criteria"`
	OverallScore    float64   `json:"overall_score"`
	Strengths       []string  `json:"strengths"`
	Weaknesses      []string  `json:"weaknesses"`
	Recommendations []string  `json:"recommendations"`
}

type ExperimentMeasurements struct {
	ExperimentID uuid.UUID `json:"experiment_id"`
	prompts.MeasurementsOutput
}

type ExperimentService interface {
	Design(ctx context.Context, hypothesisID uuid.UUID) (*types.Experiment, error)
	ListByHypothesis(ctx context.Context, hypothesisID uuid.UUID) ([]*types.Experiment, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Experiment, error)
	Evaluate(ctx context.Context, id uuid.UUID, criteria []string) (*ExperimentEvaluation, error)
	Measurements(ctx context.Context, id uuid.UUID) (*ExperimentMeasurements, error)
}

type experimentService struct {
	db          *gorm.DB
	log         *logger.Logger
	llm         openai.Client
	prompts     *prompts.Registry
	papers      repos.PaperRepo
	hypotheses  repos.HypothesisRepo
	experiments repos.ExperimentRepo
	events      realtime.Emitter
}

func NewExperimentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	llm openai.Client,
	registry *prompts.Registry,
	paperRepo repos.PaperRepo,
	hypothesisRepo repos.HypothesisRepo,
	experimentRepo repos.ExperimentRepo,
	events realtime.Emitter,
) ExperimentService {
	return &experimentService{
		db:          db,
		log:         baseLog.With("service", "ExperimentService"),
		llm:         llm,
		prompts:     registry,
		papers:      paperRepo,
		hypotheses:  hypothesisRepo,
		experiments: experimentRepo,
		events:      events,
	}
}

func (s *experimentService) Design(ctx context.Context, hypothesisID uuid.UUID) (*types.Experiment, error) {
	h, err := s.hypotheses.GetByID(ctx, nil, hypothesisID)
	if err != nil {
		return nil, notFoundOr("hypothesis_not_found", "hypothesis", err)
	}
	papers, err := s.papers.ListByProject(ctx, nil, h.ProjectID, hypothesisPaperLimit)
	if err != nil {
		return nil, internal("load papers", err)
	}

	out, err := generateJSON[prompts.ExperimentOutput](ctx, s.log, s.llm, s.prompts, prompts.PromptExperimentDesign, prompts.Input{
		HypothesisText: h.HypothesisText,
		PapersContext:  papersContext(papers),
	})
	if err != nil {
		return nil, err
	}

	e, err := s.experiments.Create(ctx, nil, &types.Experiment{
		HypothesisID: h.ID,
		Title:        out.Title,
		Methodology:  strings.TrimSpace(out.Methodology),
		Variables: datatypes.NewJSONType(types.Variables{
			Independent: out.Variables.Independent,
			Dependent:   out.Variables.Dependent,
		}),
		Controls:         strings.TrimSpace(out.Controls),
		ExpectedOutcomes: strings.TrimSpace(out.ExpectedOutcomes),
		Limitations:      strings.TrimSpace(out.Limitations),
	})
	if err != nil {
		return nil, internal("store experiment", err)
	}
	s.log.Info("Experiment designed", "hypothesis_id", h.ID, "experiment_id", e.ID)
	s.events.Emit(ctx, h.ProjectID, realtime.SSEEventExperimentCreated, e)
	return e, nil
}

func (s *experimentService) ListByHypothesis(ctx context.Context, hypothesisID uuid.UUID) ([]*types.Experiment, error) {
	if _, err := s.hypotheses.GetByID(ctx, nil, hypothesisID); err != nil {
		return nil, notFoundOr("hypothesis_not_found", "hypothesis", err)
	}
	rows, err := s.experiments.ListByHypothesisIDs(ctx, nil, []uuid.UUID{hypothesisID})
	if err != nil {
		return nil, internal("list experiments", err)
	}
	if rows == nil {
		rows = []*types.Experiment{}
	}
	return rows, nil
}

func (s *experimentService) Get(ctx context.Context, id uuid.UUID) (*types.Experiment, error) {
	e, err := s.experiments.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr("experiment_not_found", "experiment", err)
	}
	return e, nil
}

func (s *experimentService) load(ctx context.Context, id uuid.UUID) (*types.Hypothesis, *types.Experiment, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	h, err := s.hypotheses.GetByID(ctx, nil, e.HypothesisID)
	if err != nil {
		return nil, nil, notFoundOr("hypothesis_not_found", "hypothesis", err)
	}
	return h, e, nil
}

func (s *experimentService) Evaluate(ctx context.Context, id uuid.UUID, criteria []string) (*ExperimentEvaluation, error) {
	h, e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	crit := make([]string, 0, len(criteria))
	for _, c := range criteria {
		if c = strings.TrimSpace(c); c != "" {
			crit = append(crit, c)
		}
	}
	if len(crit) == 0 {
		crit = append(crit, DefaultEvaluationCriteria...)
	}

	out, err := generateJSON[prompts.EvaluationOutput](ctx, s.log, s.llm, s.prompts, prompts.PromptExperimentEvaluate, prompts.Input{
		ExperimentContext: experimentContext(h, e),
		CriteriaCSV:       strings.Join(crit, ", "),
	})
	if err != nil {
		return nil, err
	}
	return &ExperimentEvaluation{
		ExperimentID:    e.ID,
		Criteria:        crit,
		OverallScore:    prompts.ClampUnit(out.Score()),
		Strengths:       out.Strengths,
		Weaknesses:      out.Weaknesses,
		Recommendations: out.Recommendations,
	}, nil
}

func (s *experimentService) Measurements(ctx context.Context, id uuid.UUID) (*ExperimentMeasurements, error) {
	h, e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := generateJSON[prompts.MeasurementsOutput](ctx, s.log, s.llm, s.prompts, prompts.PromptExperimentMeasurements, prompts.Input{
		ExperimentContext: experimentContext(h, e),
	})
	if err != nil {
		return nil, err
	}
	return &ExperimentMeasurements{ExperimentID: e.ID, MeasurementsOutput: out}, nil
}
