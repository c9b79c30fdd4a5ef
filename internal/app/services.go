package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/platform/openai"
	"github.com/yungbote/aura-backend/internal/prompts"
	"github.com/yungbote/aura-backend/internal/realtime"
	"github.com/yungbote/aura-backend/internal/services"
)

type Services struct {
	Projects    services.ProjectService
	Papers      services.PaperService
	Summaries   services.SummarizationService
	Search      services.SearchService
	Hypotheses  services.HypothesisService
	Experiments services.ExperimentService
	Analysis    services.AnalysisService
	Chat        services.ChatService
	Export      services.ExportService
}

type serviceDeps struct {
	LLM            openai.Client
	Prompts        *prompts.Registry
	Sources        []services.PaperSource
	MaxResults     int
	SearchObserver services.SearchObserver
	Events         realtime.Emitter
}

func wireServices(db *gorm.DB, log *logger.Logger, r Repos, deps serviceDeps) Services {
	log.Info("Wiring services...")
	events := deps.Events
	if events == nil {
		events = realtime.NopEmitter()
	}
	reg := deps.Prompts
	if reg == nil {
		reg = prompts.NewRegistry()
	}
	return Services{
		Projects:    services.NewProjectService(db, log, r.Project, events),
		Papers:      services.NewPaperService(db, log, r.Project, r.Paper, events),
		Summaries:   services.NewSummarizationService(db, log, deps.LLM, reg, r.Paper, r.Summary, events),
		Search:      services.NewSearchService(db, log, deps.Sources, deps.MaxResults, r.Project, r.Query, deps.SearchObserver, events),
		Hypotheses:  services.NewHypothesisService(db, log, deps.LLM, reg, r.Project, r.Paper, r.Hypothesis, events),
		Experiments: services.NewExperimentService(db, log, deps.LLM, reg, r.Paper, r.Hypothesis, r.Experiment, events),
		Analysis:    services.NewAnalysisService(db, log, deps.LLM, reg, r.Project, r.Paper, r.ChatMessages, events),
		Chat:        services.NewChatService(db, log, deps.LLM, reg, r.Project, r.Paper, r.Hypothesis, r.ChatMessages, events),
		Export:      services.NewExportService(db, log, r.Project, r.Paper, r.Hypothesis, r.Experiment, r.ChatMessages),
	}
}
