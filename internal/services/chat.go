package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/data/repos"
	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/apierr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/platform/openai"
	"github.com/yungbote/aura-backend/internal/prompts"
	"github.com/yungbote/aura-backend/internal/realtime"
)

type ChatReply struct {
	Message        string    `json:"message"`
	AgentType      string    `json:"agent_type"`
	UserMessageID  uuid.UUID `json:"user_message_id"`
	AgentMessageID uuid.UUID `json:"agent_message_id"`
}

type ChatService interface {
	// Send appends the user's message, asks the model for a reply scoped to
	// the project, and appends the reply. When the model fails a system
	// message recording the failure is appended instead.
	Send(ctx context.Context, projectID uuid.UUID, message string) (*ChatReply, error)
	History(ctx context.Context, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error)
}

type chatService struct {
	db         *gorm.DB
	log        *logger.Logger
	llm        openai.Client
	prompts    *prompts.Registry
	projects   repos.ProjectRepo
	papers     repos.PaperRepo
	hypotheses repos.HypothesisRepo
	messages   repos.ChatMessageRepo
	events     realtime.Emitter
}

func NewChatService(
	db *gorm.DB,
	baseLog *logger.Logger,
	llm openai.Client,
	registry *prompts.Registry,
	projectRepo repos.ProjectRepo,
	paperRepo repos.PaperRepo,
	hypothesisRepo repos.HypothesisRepo,
	messageRepo repos.ChatMessageRepo,
	events realtime.Emitter,
) ChatService {
	return &chatService{
		db:         db,
		log:        baseLog.With("service", "ChatService"),
		llm:        llm,
		prompts:    registry,
		projects:   projectRepo,
		papers:     paperRepo,
		hypotheses: hypothesisRepo,
		messages:   messageRepo,
		events:     events,
	}
}

func (s *chatService) Send(ctx context.Context, projectID uuid.UUID, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apierr.BadRequest("message_required", "message is required")
	}
	project, err := s.projects.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, notFoundOr("project_not_found", "project", err)
	}

	// history is read before the new message so it is not repeated in the prompt
	history, err := s.messages.ListRecent(ctx, nil, projectID, chatHistoryLimit)
	if err != nil {
		return nil, internal("load chat history", err)
	}
	userMsg, err := s.append(ctx, projectID, types.RoleUser, message, nil)
	if err != nil {
		return nil, err
	}

	agent := ClassifyIntent(message)
	papers, err := s.papers.ListByProject(ctx, nil, projectID, chatPaperLimit)
	if err != nil {
		return nil, internal("load papers", err)
	}
	hs, err := s.hypotheses.ListByProject(ctx, nil, projectID, chatHypothesisLimit)
	if err != nil {
		return nil, internal("load hypotheses", err)
	}

	reply, err := generateText(ctx, s.log, s.llm, s.prompts, prompts.PromptChatReply, prompts.Input{
		AgentType:         agent,
		ProjectTitle:      project.Title,
		PapersContext:     papersContext(papers),
		HypothesesContext: hypothesesContext(hs),
		ChatHistory:       chatHistory(history),
		Message:           message,
	})
	if err == nil && strings.TrimSpace(reply) == "" {
		err = llmError(string(prompts.PromptChatReply), fmt.Errorf("empty reply"))
	}
	if err != nil {
		if _, aerr := s.append(ctx, projectID, types.RoleSystem, "Error generating response: "+clientMessage(err), nil); aerr != nil {
			s.log.Error("Failed to record chat error", "project_id", projectID, "error", aerr)
		}
		return nil, err
	}

	agentMsg, err := s.append(ctx, projectID, types.RoleAgent, strings.TrimSpace(reply), &agent)
	if err != nil {
		return nil, err
	}
	return &ChatReply{
		Message:        agentMsg.Content,
		AgentType:      agent,
		UserMessageID:  userMsg.ID,
		AgentMessageID: agentMsg.ID,
	}, nil
}

func (s *chatService) append(ctx context.Context, projectID uuid.UUID, role, content string, agent *string) (*types.ChatMessage, error) {
	rows, err := s.messages.Append(ctx, nil, projectID, []*types.ChatMessage{{
		Role:      role,
		Content:   content,
		AgentType: agent,
	}})
	if err != nil {
		return nil, internal("store chat message", err)
	}
	s.events.Emit(ctx, projectID, realtime.SSEEventChatMessage, rows[0])
	return rows[0], nil
}

func (s *chatService) History(ctx context.Context, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	if _, err := s.projects.GetByID(ctx, nil, projectID); err != nil {
		return nil, notFoundOr("project_not_found", "project", err)
	}
	rows, err := s.messages.ListByProject(ctx, nil, projectID, limit)
	if err != nil {
		return nil, internal("list chat messages", err)
	}
	if rows == nil {
		rows = []*types.ChatMessage{}
	}
	return rows, nil
}
