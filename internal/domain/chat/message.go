package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser   = "user"
	RoleAgent  = "agent"
	RoleSystem = "system"
)

const (
	AgentRetrieval     = "retrieval"
	AgentSummarization = "summarization"
	AgentHypothesis    = "hypothesis"
	AgentExperiment    = "experiment"
	AgentAnalysis      = "analysis"
	AgentGeneral       = "general"
)

// ChatMessage is one entry of a project's append-only conversation log.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_chat_message_project_seq,priority:1" json:"project_id"`

	// Seq orders messages within a project; assigned on insert.
	Seq int64 `gorm:"column:seq;not null;uniqueIndex:idx_chat_message_project_seq,priority:2" json:"seq"`

	Role      string  `gorm:"column:role;not null;index" json:"role"`
	Content   string  `gorm:"column:content;type:text;not null;default:''" json:"content"`
	AgentType *string `gorm:"column:agent_type" json:"agent_type"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_message" }

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAgent, RoleSystem:
		return true
	}
	return false
}
