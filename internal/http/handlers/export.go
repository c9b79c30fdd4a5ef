package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aura-backend/internal/export"
	"github.com/yungbote/aura-backend/internal/http/response"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/services"
)

type ExportHandler struct {
	log     *logger.Logger
	exports services.ExportService
}

func NewExportHandler(log *logger.Logger, exports services.ExportService) *ExportHandler {
	return &ExportHandler{log: log.With("handler", "ExportHandler"), exports: exports}
}

// GET /api/projects/:id/export?format=&papers=&summaries=&hypotheses=&experiments=&chat=
// Every section flag defaults to true.
func (h *ExportHandler) Export(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	opts := export.AllSections()
	for name, dst := range map[string]*bool{
		"papers":      &opts.Papers,
		"summaries":   &opts.Summaries,
		"hypotheses":  &opts.Hypotheses,
		"experiments": &opts.Experiments,
		"chat":        &opts.Chat,
	} {
		v, err := boolQuery(c, name, true)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		*dst = v
	}

	file, err := h.exports.Export(c.Request.Context(), projectID, c.Query("format"), opts)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
