package realtime

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/aura-backend/internal/platform/logger"
)

// Publisher fans a message out to every replica. The Redis bus implements it.
type Publisher interface {
	Publish(ctx context.Context, msg SSEMessage) error
}

// Emitter is what services call to announce project activity.
type Emitter interface {
	Emit(ctx context.Context, projectID uuid.UUID, event SSEEvent, data any)
}

type hubEmitter struct {
	log *logger.Logger
	hub *SSEHub
	pub Publisher
}

// NewEmitter broadcasts on hub directly, or through pub when one is given
// (the bus forwarder then delivers to hub). Publish failures fall back to the
// local hub.
func NewEmitter(log *logger.Logger, hub *SSEHub, pub Publisher) Emitter {
	return &hubEmitter{log: log.With("component", "Emitter"), hub: hub, pub: pub}
}

func (e *hubEmitter) Emit(ctx context.Context, projectID uuid.UUID, event SSEEvent, data any) {
	if projectID == uuid.Nil {
		return
	}
	msg := SSEMessage{Channel: ProjectChannel(projectID), Event: event, Data: data}
	if e.pub != nil {
		err := e.pub.Publish(ctx, msg)
		if err == nil {
			return
		}
		e.log.Warn("Event publish failed; delivering locally", "event", event, "error", err)
	}
	if e.hub != nil {
		e.hub.Broadcast(msg)
	}
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, uuid.UUID, SSEEvent, any) {}

// NopEmitter discards every event.
func NopEmitter() Emitter { return nopEmitter{} }
