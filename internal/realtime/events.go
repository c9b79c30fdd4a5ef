package realtime

import (
	"strings"

	"github.com/google/uuid"
)

type SSEEvent string

const (
	SSEEventPaperAdded        SSEEvent = "PaperAdded"
	SSEEventPaperRemoved      SSEEvent = "PaperRemoved"
	SSEEventPaperSummarized   SSEEvent = "PaperSummarized"
	SSEEventHypothesisCreated SSEEvent = "HypothesisCreated"
	SSEEventExperimentCreated SSEEvent = "ExperimentCreated"
	SSEEventChatMessage       SSEEvent = "ChatMessage"
	SSEEventSearchCompleted   SSEEvent = "SearchCompleted"
	SSEEventProjectUpdated    SSEEvent = "ProjectUpdated"
	SSEEventProjectDeleted    SSEEvent = "ProjectDeleted"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

const projectChannelPrefix = "project:"

// ProjectChannel names the channel carrying one project's activity.
func ProjectChannel(projectID uuid.UUID) string {
	return projectChannelPrefix + projectID.String()
}

// ProjectIDFromChannel is the inverse of ProjectChannel.
func ProjectIDFromChannel(channel string) (uuid.UUID, bool) {
	if !strings.HasPrefix(channel, projectChannelPrefix) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimPrefix(channel, projectChannelPrefix))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
