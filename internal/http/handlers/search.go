package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aura-backend/internal/http/response"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/services"
)

type SearchHandler struct {
	log    *logger.Logger
	search services.SearchService
}

func NewSearchHandler(log *logger.Logger, search services.SearchService) *SearchHandler {
	return &SearchHandler{log: log.With("handler", "SearchHandler"), search: search}
}

type searchRequest struct {
	Query      string   `json:"query"`
	Sources    []string `json:"sources"`
	MaxResults int      `json:"max_results"`
}

func (r searchRequest) toService() services.SearchRequest {
	return services.SearchRequest{Query: r.Query, Sources: r.Sources, MaxResults: r.MaxResults}
}

// POST /api/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadJSON(c, err)
		return
	}
	res, err := h.search.Search(c.Request.Context(), req.toService())
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/projects/:id/search
func (h *SearchHandler) SearchProject(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadJSON(c, err)
		return
	}
	res, err := h.search.SearchProject(c.Request.Context(), projectID, req.toService())
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/projects/:id/queries
func (h *SearchHandler) ListQueries(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	rows, err := h.search.ListQueries(c.Request.Context(), projectID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/search/papers/:source/*external_id
// The id is a wildcard because old-style arXiv ids contain a slash.
func (h *SearchHandler) GetPaper(c *gin.Context) {
	externalID := strings.TrimPrefix(c.Param("external_id"), "/")
	p, err := h.search.GetPaper(c.Request.Context(), c.Param("source"), externalID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, p)
}
