package app

import (
	httpH "github.com/yungbote/aura-backend/internal/http/handlers"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/realtime"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Project    *httpH.ProjectHandler
	Paper      *httpH.PaperHandler
	Search     *httpH.SearchHandler
	Hypothesis *httpH.HypothesisHandler
	Experiment *httpH.ExperimentHandler
	Analysis   *httpH.AnalysisHandler
	Chat       *httpH.ChatHandler
	Export     *httpH.ExportHandler
	Events     *httpH.EventsHandler
}

func wireHandlers(log *logger.Logger, db httpH.Pinger, s Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		Project:    httpH.NewProjectHandler(log, s.Projects),
		Paper:      httpH.NewPaperHandler(log, s.Papers, s.Summaries),
		Search:     httpH.NewSearchHandler(log, s.Search),
		Hypothesis: httpH.NewHypothesisHandler(log, s.Hypotheses),
		Experiment: httpH.NewExperimentHandler(log, s.Experiments),
		Analysis:   httpH.NewAnalysisHandler(log, s.Analysis),
		Chat:       httpH.NewChatHandler(log, s.Chat),
		Export:     httpH.NewExportHandler(log, s.Export),
		Events:     httpH.NewEventsHandler(log, hub, s.Projects),
	}
}
