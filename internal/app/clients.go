package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/aura-backend/internal/platform/arxiv"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/platform/openai"
	"github.com/yungbote/aura-backend/internal/platform/semanticscholar"
	"github.com/yungbote/aura-backend/internal/realtime/bus"
	"github.com/yungbote/aura-backend/internal/services"
)

type Clients struct {
	// Bus is nil unless REDIS_ADDR is set.
	Bus     bus.Bus
	LLM     openai.Client
	Sources []services.PaperSource
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, llmObserver openai.Observer) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var b bus.Bus
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		rb, err := bus.NewRedisBus(ctx, log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis event bus: %w", err)
		}
		b = rb
	}

	// OpenAI
	llm, err := openai.NewClient(log, cfg.OpenAI, llmObserver)
	switch {
	case errors.Is(err, openai.ErrMissingAPIKey):
		log.Warn("OPENAI_API_KEY not set; generation endpoints will answer llm_unavailable")
		llm = openai.Disabled()
	case err != nil:
		if b != nil {
			_ = b.Close()
		}
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	// Literature sources, in fan-out order
	sources := []services.PaperSource{
		services.ArxivSource(arxiv.New(log, arxiv.Config{
			BaseURL: cfg.ArxivURL,
			Timeout: cfg.SearchTimeout,
		})),
		services.SemanticScholarSource(semanticscholar.New(log, semanticscholar.Config{
			BaseURL:           cfg.SemanticScholarURL,
			APIKey:            cfg.SemanticScholarKey,
			Timeout:           cfg.SearchTimeout,
			RequestsPerSecond: cfg.SemanticScholarRPS,
		})),
	}

	return Clients{Bus: b, LLM: llm, Sources: sources}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
}
