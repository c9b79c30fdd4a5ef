package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/aura-backend/internal/http/response"
	"github.com/yungbote/aura-backend/internal/platform/ctxutil"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/realtime"
	"github.com/yungbote/aura-backend/internal/services"
)

type EventsHandler struct {
	log      *logger.Logger
	hub      *realtime.SSEHub
	projects services.ProjectService
}

func NewEventsHandler(log *logger.Logger, hub *realtime.SSEHub, projects services.ProjectService) *EventsHandler {
	return &EventsHandler{log: log.With("handler", "EventsHandler"), hub: hub, projects: projects}
}

// GET /api/projects/:id/events
// Streams the project's activity as Server-Sent Events until the client
// disconnects.
func (h *EventsHandler) Stream(c *gin.Context) {
	projectID, ok := uuidParam(c, "id", "project_not_found")
	if !ok {
		return
	}
	if _, err := h.projects.Require(c.Request.Context(), projectID); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}

	client := h.hub.NewSSEClient(ctxutil.GetSessionID(c.Request.Context()))
	h.hub.AddChannel(client, realtime.ProjectChannel(projectID))
	defer h.hub.CloseClient(client)

	h.log.Debug("SSE stream open", "project_id", projectID, "client_id", client.ID)
	h.hub.ServeHTTP(c.Writer, c.Request, client)
	h.log.Debug("SSE stream closed", "project_id", projectID, "client_id", client.ID)
}
