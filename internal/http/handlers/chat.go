package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aura-backend/internal/http/response"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/services"
)

type ChatHandler struct {
	log  *logger.Logger
	chat services.ChatService
}

func NewChatHandler(log *logger.Logger, chat services.ChatService) *ChatHandler {
	return &ChatHandler{log: log.With("handler", "ChatHandler"), chat: chat}
}

type sendChatRequest struct {
	Message string `json:"message"`
}

// POST /api/projects/:id/chat
func (h *ChatHandler) Send(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	var req sendChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadJSON(c, err)
		return
	}
	reply, err := h.chat.Send(c.Request.Context(), projectID, req.Message)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, reply)
}

// GET /api/projects/:id/chat?limit=
func (h *ChatHandler) History(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rows, err := h.chat.History(c.Request.Context(), projectID, limit)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}
