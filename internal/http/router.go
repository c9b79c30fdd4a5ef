package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/aura-backend/internal/http/handlers"
	httpMW "github.com/yungbote/aura-backend/internal/http/middleware"
	"github.com/yungbote/aura-backend/internal/observability"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	Sessions       *httpMW.Sessions
	AllowedOrigins []string
	// TracingService names the otelgin server spans; empty disables them.
	TracingService string

	HealthHandler     *httpH.HealthHandler
	ProjectHandler    *httpH.ProjectHandler
	PaperHandler      *httpH.PaperHandler
	SearchHandler     *httpH.SearchHandler
	HypothesisHandler *httpH.HypothesisHandler
	ExperimentHandler *httpH.ExperimentHandler
	AnalysisHandler   *httpH.AnalysisHandler
	ChatHandler       *httpH.ChatHandler
	ExportHandler     *httpH.ExportHandler
	EventsHandler     *httpH.EventsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.TraceContext())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	if cfg.Sessions != nil {
		r.Use(cfg.Sessions.Middleware())
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health + metrics
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")

	// Projects
	if cfg.ProjectHandler != nil {
		api.GET("/projects", cfg.ProjectHandler.List)
		api.POST("/projects", cfg.ProjectHandler.Create)
		api.GET("/projects/:id", cfg.ProjectHandler.Get)
		api.PATCH("/projects/:id", cfg.ProjectHandler.Update)
		api.DELETE("/projects/:id", cfg.ProjectHandler.Delete)
	}

	// Papers + summaries
	if cfg.PaperHandler != nil {
		api.GET("/projects/:id/papers", cfg.PaperHandler.List)
		api.POST("/projects/:id/papers", cfg.PaperHandler.Add)
		api.GET("/projects/:id/papers/:paper_id", cfg.PaperHandler.Get)
		api.DELETE("/projects/:id/papers/:paper_id", cfg.PaperHandler.Delete)
		api.POST("/projects/:id/papers/:paper_id/summarize", cfg.PaperHandler.Summarize)
	}

	// Search
	if cfg.SearchHandler != nil {
		api.POST("/search", cfg.SearchHandler.Search)
		api.GET("/search/papers/:source/*external_id", cfg.SearchHandler.GetPaper)
		api.POST("/projects/:id/search", cfg.SearchHandler.SearchProject)
		api.GET("/projects/:id/queries", cfg.SearchHandler.ListQueries)
	}

	// Hypotheses
	if cfg.HypothesisHandler != nil {
		api.GET("/projects/:id/hypotheses", cfg.HypothesisHandler.List)
		api.POST("/projects/:id/hypotheses", cfg.HypothesisHandler.Generate)
		api.GET("/hypotheses/:id", cfg.HypothesisHandler.Get)
		api.POST("/hypotheses/:id/evaluate", cfg.HypothesisHandler.Evaluate)
	}

	// Experiments
	if cfg.ExperimentHandler != nil {
		api.GET("/hypotheses/:id/experiments", cfg.ExperimentHandler.ListByHypothesis)
		api.POST("/hypotheses/:id/experiments", cfg.ExperimentHandler.Design)
		api.GET("/experiments/:id", cfg.ExperimentHandler.Get)
		api.POST("/experiments/:id/evaluate", cfg.ExperimentHandler.Evaluate)
		api.POST("/experiments/:id/measurements", cfg.ExperimentHandler.Measurements)
	}

	// Analysis
	if cfg.AnalysisHandler != nil {
		api.POST("/analyze", cfg.AnalysisHandler.AnalyzeText)
		api.POST("/projects/:id/analyze", cfg.AnalysisHandler.AnalyzeProject)
		api.POST("/projects/:id/research-gaps", cfg.AnalysisHandler.ResearchGaps)
	}

	// Chat
	if cfg.ChatHandler != nil {
		api.GET("/projects/:id/chat", cfg.ChatHandler.History)
		api.POST("/projects/:id/chat", cfg.ChatHandler.Send)
	}

	// Export
	if cfg.ExportHandler != nil {
		api.GET("/projects/:id/export", cfg.ExportHandler.Export)
	}

	// Realtime (SSE)
	if cfg.EventsHandler != nil {
		api.GET("/projects/:id/events", cfg.EventsHandler.Stream)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found", "code": "not_found"})
	})

	return r
}
