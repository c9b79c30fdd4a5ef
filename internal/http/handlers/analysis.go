package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/aura-backend/internal/http/response"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/services"
)

type AnalysisHandler struct {
	log      *logger.Logger
	analysis services.AnalysisService
}

func NewAnalysisHandler(log *logger.Logger, analysis services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{log: log.With("handler", "AnalysisHandler"), analysis: analysis}
}

type analyzeTextRequest struct {
	AnalysisType string `json:"analysis_type"`
	Text         string `json:"text"`
}

type analyzeProjectRequest struct {
	AnalysisType   string      `json:"analysis_type"`
	PaperIDs       []uuid.UUID `json:"paper_ids"`
	NumClusters    *int        `json:"num_clusters"`
	Threshold      *float64    `json:"threshold"`
	Representation string      `json:"representation"`
}

// POST /api/analyze
func (h *AnalysisHandler) AnalyzeText(c *gin.Context) {
	var req analyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadJSON(c, err)
		return
	}
	res, err := h.analysis.AnalyzeText(c.Request.Context(), req.AnalysisType, req.Text)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/projects/:id/analyze
func (h *AnalysisHandler) AnalyzeProject(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	var req analyzeProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadJSON(c, err)
		return
	}
	res, err := h.analysis.AnalyzeProject(c.Request.Context(), projectID, services.ProjectAnalysisRequest{
		AnalysisType:   req.AnalysisType,
		PaperIDs:       req.PaperIDs,
		NumClusters:    req.NumClusters,
		Threshold:      req.Threshold,
		Representation: req.Representation,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/projects/:id/research-gaps
func (h *AnalysisHandler) ResearchGaps(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	res, err := h.analysis.ResearchGaps(c.Request.Context(), projectID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}
