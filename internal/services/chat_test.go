package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/apierr"
)

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"Design an experiment to measure recall", types.AgentExperiment},
		{"Generate a hypothesis about sleep", types.AgentHypothesis},
		{"Can you summarize these papers?", types.AgentSummarization},
		{"Show me clusters and trends", types.AgentAnalysis},
		{"Find papers on transformers", types.AgentRetrieval},
		{"Hello there", types.AgentGeneral},
		{"", types.AgentGeneral},
		// equal scores go to the earlier rule
		{"summarize the experiment", types.AgentExperiment},
	}
	for _, tc := range cases {
		if got := ClassifyIntent(tc.msg); got != tc.want {
			t.Fatalf("ClassifyIntent(%q) = %q, want %q", tc.msg, got, tc.want)
		}
	}
}

func TestChatSend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := seedProject(t, env, "Sleep improves memory.")

	_, err := env.chat.Send(ctx, p.ID, " ")
	requireAPIError(t, err, http.StatusBadRequest, "message_required")
	_, err = env.chat.Send(ctx, uuid.New(), "hi")
	requireAPIError(t, err, http.StatusNotFound, "project_not_found")

	env.llm.text = " Here are some papers. "
	reply, err := env.chat.Send(ctx, p.ID, "Find papers on sleep")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Message != "Here are some papers." || reply.AgentType != types.AgentRetrieval {
		t.Fatalf("reply: %#v", reply)
	}
	first := env.llm.users[len(env.llm.users)-1]
	if !strings.Contains(first, "(none)") || !strings.Contains(first, "User: Find papers on sleep") {
		t.Fatalf("first prompt: %q", first)
	}

	if _, err := env.chat.Send(ctx, p.ID, "Tell me more"); err != nil {
		t.Fatalf("Send again: %v", err)
	}
	second := env.llm.users[len(env.llm.users)-1]
	if !strings.Contains(second, "Assistant: Here are some papers.") || strings.Count(second, "Tell me more") != 1 {
		t.Fatalf("second prompt: %q", second)
	}

	history, err := env.chat.History(ctx, p.ID, 0)
	if err != nil || len(history) != 4 {
		t.Fatalf("History: %v %d", err, len(history))
	}
	if history[0].Role != types.RoleUser || history[1].Role != types.RoleAgent || history[1].ID != reply.AgentMessageID {
		t.Fatalf("history order: %#v", history)
	}
	last, err := env.chat.History(ctx, p.ID, 1)
	if err != nil || len(last) != 1 {
		t.Fatalf("History limit: %v %d", err, len(last))
	}
}

func TestChatSendFailureRecorded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := seedProject(t, env)

	env.llm.err = errors.New("rate limited: org-7f3a quota exhausted")
	_, err := env.chat.Send(ctx, p.ID, "hello")
	requireAPIError(t, err, http.StatusInternalServerError, "llm_failed")
	ae, _ := apierr.As(err)
	if strings.Contains(ae.ClientMessage(), "org-7f3a") || !strings.Contains(ae.Error(), "org-7f3a") {
		t.Fatalf("cause should stay in the log text only: client=%q log=%q", ae.ClientMessage(), ae.Error())
	}

	env.llm.err = nil
	env.llm.text = "   "
	_, err = env.chat.Send(ctx, p.ID, "hello again")
	requireAPIError(t, err, http.StatusInternalServerError, "llm_failed")

	history, err := env.chat.History(ctx, p.ID, 0)
	if err != nil || len(history) != 4 {
		t.Fatalf("History: %v %d", err, len(history))
	}
	for _, i := range []int{1, 3} {
		m := history[i]
		if m.Role != types.RoleSystem || m.Content != "Error generating response: generative model request failed" {
			t.Fatalf("message %d: %#v", i, m)
		}
	}
}
