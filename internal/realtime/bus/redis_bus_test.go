package bus

import (
	"context"
	"testing"

	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/realtime"
)

func TestNewRedisBusRequiresAddr(t *testing.T) {
	if _, err := NewRedisBus(context.Background(), logger.Nop(), RedisConfig{}); err == nil {
		t.Fatalf("expected error without address")
	}
	if _, err := NewRedisBus(context.Background(), nil, RedisConfig{Addr: "localhost:6379"}); err == nil {
		t.Fatalf("expected error without logger")
	}
}

func TestDecodeMessage(t *testing.T) {
	msg, err := DecodeMessage(`{"channel":"project:x","event":"PaperAdded","data":{"id":"p"}}`)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if msg.Channel != "project:x" || msg.Event != realtime.SSEEventPaperAdded {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if _, err := DecodeMessage(`{"event":"PaperAdded"}`); err == nil {
		t.Fatalf("expected error for missing channel")
	}
	if _, err := DecodeMessage(`nope`); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}
