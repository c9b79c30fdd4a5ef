package app

import (
	apphttp "github.com/yungbote/aura-backend/internal/http"
	httpMW "github.com/yungbote/aura-backend/internal/http/middleware"
	"github.com/yungbote/aura-backend/internal/observability"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

type routerDeps struct {
	Metrics        *observability.Metrics
	Sessions       *httpMW.Sessions
	AllowedOrigins []string
	TracingService string
}

func wireRouter(log *logger.Logger, h Handlers, deps routerDeps) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:               log,
		Metrics:           deps.Metrics,
		Sessions:          deps.Sessions,
		AllowedOrigins:    deps.AllowedOrigins,
		TracingService:    deps.TracingService,
		HealthHandler:     h.Health,
		ProjectHandler:    h.Project,
		PaperHandler:      h.Paper,
		SearchHandler:     h.Search,
		HypothesisHandler: h.Hypothesis,
		ExperimentHandler: h.Experiment,
		AnalysisHandler:   h.Analysis,
		ChatHandler:       h.Chat,
		ExportHandler:     h.Export,
		EventsHandler:     h.Events,
	})
}
