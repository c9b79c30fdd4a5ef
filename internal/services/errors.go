package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/aura-backend/internal/platform/apierr"
	"github.com/yungbote/aura-backend/internal/platform/dberr"
	"github.com/yungbote/aura-backend/internal/platform/openai"
	"github.com/yungbote/aura-backend/internal/prompts"
)

// notFoundOr maps a repo ErrNotFound to a 404 with code, and anything else to
// a 500.
func notFoundOr(code, what string, err error) error {
	if err == nil {
		return nil
	}
	if dberr.IsNotFound(err) {
		return apierr.NotFound(code, "%s not found", what)
	}
	return apierr.Internal("internal_error", err)
}

func internal(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	return apierr.Internal("internal_error", fmt.Errorf("%s: %w", op, err))
}

const (
	msgLLMUnavailable   = "generative model is not configured"
	msgLLMOutputInvalid = "generative model returned invalid output"
	msgLLMFailed        = "generative model request failed"
)

// llmError classifies a failed model call. Missing credentials, upstream
// failures and undecodable output each get their own code. Clients see a
// fixed message; the upstream cause stays in Err for the logs.
func llmError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, openai.ErrMissingAPIKey) {
		return apierr.Public(http.StatusInternalServerError, "llm_unavailable", msgLLMUnavailable, fmt.Errorf("%s: %w", op, err))
	}
	if pe, ok := prompts.AsParseError(err); ok {
		return apierr.Public(http.StatusInternalServerError, "llm_output_invalid", msgLLMOutputInvalid, fmt.Errorf("%s: %w", op, pe))
	}
	return apierr.Public(http.StatusInternalServerError, "llm_failed", msgLLMFailed, fmt.Errorf("%s: %w", op, err))
}

// clientMessage is the caller-safe text of err.
func clientMessage(err error) string {
	if ae, ok := apierr.As(err); ok && ae.Message != "" {
		return ae.Message
	}
	return "internal server error"
}
