package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/http/response"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/services"
)

type PaperHandler struct {
	log       *logger.Logger
	papers    services.PaperService
	summaries services.SummarizationService
}

func NewPaperHandler(log *logger.Logger, papers services.PaperService, summaries services.SummarizationService) *PaperHandler {
	return &PaperHandler{log: log.With("handler", "PaperHandler"), papers: papers, summaries: summaries}
}

type addPaperRequest struct {
	Title         string              `json:"title"`
	Authors       []string            `json:"authors"`
	Abstract      string              `json:"abstract"`
	URL           string              `json:"url"`
	PDFURL        string              `json:"pdf_url"`
	PublishedDate string              `json:"published_date"`
	Source        string              `json:"source"`
	ExternalID    string              `json:"external_id"`
	Metadata      types.PaperMetadata `json:"metadata"`
	QueryID       *uuid.UUID          `json:"query_id"`
}

// GET /api/projects/:id/papers
func (h *PaperHandler) List(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	rows, err := h.papers.List(c.Request.Context(), projectID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /api/projects/:id/papers
// Re-adding a paper already in the project answers 200 with the stored row.
func (h *PaperHandler) Add(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	var req addPaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadJSON(c, err)
		return
	}
	published, err := services.ParseDate(req.PublishedDate)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	paper, created, err := h.papers.Add(c.Request.Context(), projectID, services.AddPaperInput{
		Title:         req.Title,
		Authors:       req.Authors,
		Abstract:      req.Abstract,
		URL:           req.URL,
		PDFURL:        req.PDFURL,
		PublishedDate: published,
		Source:        req.Source,
		ExternalID:    req.ExternalID,
		Metadata:      req.Metadata,
		QueryID:       req.QueryID,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if !created {
		response.RespondOK(c, paper)
		return
	}
	response.RespondCreated(c, paper)
}

// GET /api/projects/:id/papers/:paper_id
func (h *PaperHandler) Get(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	paperID, ok := uuidParam(c, "paper_id", "paper_not_found")
	if !ok {
		return
	}
	p, err := h.papers.Get(c.Request.Context(), projectID, paperID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, p)
}

// DELETE /api/projects/:id/papers/:paper_id
func (h *PaperHandler) Delete(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	paperID, ok := uuidParam(c, "paper_id", "paper_not_found")
	if !ok {
		return
	}
	if err := h.papers.Delete(c.Request.Context(), projectID, paperID); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true, "id": paperID})
}

// POST /api/projects/:id/papers/:paper_id/summarize
func (h *PaperHandler) Summarize(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	paperID, ok := uuidParam(c, "paper_id", "paper_not_found")
	if !ok {
		return
	}
	s, err := h.summaries.Summarize(c.Request.Context(), projectID, paperID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, s)
}
