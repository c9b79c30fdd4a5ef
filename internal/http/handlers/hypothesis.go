package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/aura-backend/internal/http/response"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/services"
)

type HypothesisHandler struct {
	log        *logger.Logger
	hypotheses services.HypothesisService
}

func NewHypothesisHandler(log *logger.Logger, hypotheses services.HypothesisService) *HypothesisHandler {
	return &HypothesisHandler{log: log.With("handler", "HypothesisHandler"), hypotheses: hypotheses}
}

type generateHypothesisRequest struct {
	ResearchQuestion string `json:"research_question"`
}

// POST /api/projects/:id/hypotheses
func (h *HypothesisHandler) Generate(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	var req generateHypothesisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadJSON(c, err)
		return
	}
	hyp, err := h.hypotheses.Generate(c.Request.Context(), projectID, req.ResearchQuestion)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, hyp)
}

// GET /api/projects/:id/hypotheses
func (h *HypothesisHandler) List(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	rows, err := h.hypotheses.List(c.Request.Context(), projectID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/hypotheses/:id
func (h *HypothesisHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "hypothesis_not_found")
	if !ok {
		return
	}
	hyp, err := h.hypotheses.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, hyp)
}

// POST /api/hypotheses/:id/evaluate
func (h *HypothesisHandler) Evaluate(c *gin.Context) {
	id, ok := uuidParam(c, "id", "hypothesis_not_found")
	if !ok {
		return
	}
	res, err := h.hypotheses.Evaluate(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}
