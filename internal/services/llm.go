package services

import (
	"context"
	"fmt"

	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/platform/openai"
	"github.com/yungbote/aura-backend/internal/prompts"
)

const rawPreviewChars = 500

// generateJSON renders prompt name, asks the model for schema-constrained
// output and decodes it into T.
func generateJSON[T any](ctx context.Context, log *logger.Logger, llm openai.Client, reg *prompts.Registry, name prompts.PromptName, in prompts.Input) (T, error) {
	var zero T
	p, err := reg.Build(name, in)
	if err != nil {
		return zero, internal("build prompt", err)
	}
	raw, err := llm.GenerateJSON(ctx, p.System, p.User, p.SchemaName, p.Schema)
	if err != nil {
		log.Warn("Model call failed", "prompt", p.Name, "error", err)
		return zero, llmError(string(name), err)
	}
	res := prompts.Decode[T](name, raw)
	if !res.OK() {
		log.Warn("Model output rejected",
			"prompt", p.Name,
			"reason", res.Err.Reason,
			"raw", preview(res.Err.Raw),
		)
		return zero, llmError(string(name), res.Err)
	}
	return res.Value, nil
}

// generateText is the free-text counterpart of generateJSON.
func generateText(ctx context.Context, log *logger.Logger, llm openai.Client, reg *prompts.Registry, name prompts.PromptName, in prompts.Input) (string, error) {
	p, err := reg.Build(name, in)
	if err != nil {
		return "", internal("build prompt", err)
	}
	if p.Format != prompts.FormatText {
		return "", internal("build prompt", fmt.Errorf("%s is not a text prompt", p.Name))
	}
	out, err := llm.GenerateText(ctx, p.System, p.User)
	if err != nil {
		log.Warn("Model call failed", "prompt", p.Name, "error", err)
		return "", llmError(string(name), err)
	}
	return out, nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= rawPreviewChars {
		return s
	}
	return string(r[:rawPreviewChars]) + "…"
}
