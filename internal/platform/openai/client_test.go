package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/aura-backend/internal/platform/logger"
)

type recordingObserver struct {
	calls  atomic.Int32
	status atomic.Value
}

func (o *recordingObserver) ObserveLLMRequest(model, endpoint, status string, dur time.Duration, in, out int) {
	o.calls.Add(1)
	o.status.Store(status)
}

func newTestClient(t *testing.T, srv *httptest.Server, retries int, obs Observer) Client {
	t.Helper()
	temp := 0.2
	c, err := NewClient(logger.Nop(), Config{
		APIKey:      "sk-test",
		BaseURL:     srv.URL,
		Model:       "test-model",
		Timeout:     5 * time.Second,
		MaxRetries:  retries,
		Temperature: &temp,
	}, obs)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func writeResponse(w http.ResponseWriter, text string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"output": []any{
			map[string]any{
				"type": "message",
				"role": "assistant",
				"content": []any{
					map[string]any{"type": "output_text", "text": text},
				},
			},
		},
		"usage": map[string]any{"input_tokens": 10, "output_tokens": 5},
	})
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.Nop(), Config{}, nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := Disabled().GenerateText(context.Background(), "s", "u"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("disabled client should fail with ErrMissingAPIKey, got %v", err)
	}
}

func TestGenerateJSONSendsSchema(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeResponse(w, `{"summary":"s","key_findings":[]}`)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := newTestClient(t, srv, 0, obs)
	raw, err := c.GenerateJSON(context.Background(), "system", "user", "paper_summary", map[string]any{"type": "object"})
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if raw != `{"summary":"s","key_findings":[]}` {
		t.Fatalf("unexpected raw output %q", raw)
	}
	format := got["text"].(map[string]any)["format"].(map[string]any)
	if format["type"] != "json_schema" || format["name"] != "paper_summary" || format["strict"] != true {
		t.Fatalf("unexpected format: %#v", format)
	}
	if got["temperature"] != 0.2 {
		t.Fatalf("temperature not sent: %#v", got["temperature"])
	}
	if obs.calls.Load() != 1 || obs.status.Load() != "200" {
		t.Fatalf("observer not called correctly: calls=%d status=%v", obs.calls.Load(), obs.status.Load())
	}
}

func TestGenerateTextNoRetryByDefault(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 0, nil)
	if _, err := c.GenerateText(context.Background(), "s", "u"); err == nil {
		t.Fatalf("expected error")
	}
	if hits.Load() != 1 {
		t.Fatalf("expected exactly one attempt, got %d", hits.Load())
	}
}

func TestGenerateTextDropsRejectedTemperature(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["temperature"]; ok {
			http.Error(w, `{"error":{"message":"Unsupported parameter: 'temperature' is not supported with this model."}}`, http.StatusBadRequest)
			return
		}
		writeResponse(w, "hello")
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 0, nil)
	text, err := c.GenerateText(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != "hello" || hits.Load() != 2 {
		t.Fatalf("text=%q hits=%d", text, hits.Load())
	}
	// remembered: next call goes out without temperature
	if _, err := c.GenerateText(context.Background(), "s", "u"); err != nil {
		t.Fatalf("second GenerateText: %v", err)
	}
	if hits.Load() != 3 {
		t.Fatalf("expected a single request for the second call, hits=%d", hits.Load())
	}
}

func TestGenerateTextRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": []any{map[string]any{
				"type": "message", "role": "assistant",
				"content": []any{map[string]any{"type": "refusal", "refusal": "no"}},
			}},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 0, nil)
	_, err := c.GenerateText(context.Background(), "s", "u")
	if err == nil || !strings.Contains(err.Error(), "refused") {
		t.Fatalf("expected refusal error, got %v", err)
	}
}

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []any{
				map[string]any{"index": 1, "embedding": []float64{0, 1}},
				map[string]any{"index": 0, "embedding": []float64{1, 0}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 0, nil)
	vecs, err := c.Embed(context.Background(), []string{"a", ""})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 || vecs[0][0] != 1 || vecs[1][1] != 1 {
		t.Fatalf("unexpected vectors: %v", vecs)
	}
}
