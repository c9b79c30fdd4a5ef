package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aura-backend/internal/http/response"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/services"
)

type ExperimentHandler struct {
	log         *logger.Logger
	experiments services.ExperimentService
}

func NewExperimentHandler(log *logger.Logger, experiments services.ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{log: log.With("handler", "ExperimentHandler"), experiments: experiments}
}

type evaluateExperimentRequest struct {
	Criteria []string `json:"criteria"`
}

// POST /api/hypotheses/:id/experiments
func (h *ExperimentHandler) Design(c *gin.Context) {
	hypothesisID, ok := uuidParam(c, "id", "hypothesis_not_found")
	if !ok {
		return
	}
	e, err := h.experiments.Design(c.Request.Context(), hypothesisID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, e)
}

// GET /api/hypotheses/:id/experiments
func (h *ExperimentHandler) ListByHypothesis(c *gin.Context) {
	hypothesisID, ok := uuidParam(c, "id", "hypothesis_not_found")
	if !ok {
		return
	}
	rows, err := h.experiments.ListByHypothesis(c.Request.Context(), hypothesisID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/experiments/:id
func (h *ExperimentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "experiment_not_found")
	if !ok {
		return
	}
	e, err := h.experiments.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, e)
}

// POST /api/experiments/:id/evaluate
// The body is optional; without criteria the default set is used.
func (h *ExperimentHandler) Evaluate(c *gin.Context) {
	id, ok := uuidParam(c, "id", "experiment_not_found")
	if !ok {
		return
	}
	var req evaluateExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadJSON(c, err)
		return
	}
	res, err := h.experiments.Evaluate(c.Request.Context(), id, req.Criteria)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/experiments/:id/measurements
func (h *ExperimentHandler) Measurements(c *gin.Context) {
	id, ok := uuidParam(c, "id", "experiment_not_found")
	if !ok {
		return
	}
	res, err := h.experiments.Measurements(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}
