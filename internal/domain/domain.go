package domain

import (
	"github.com/yungbote/aura-backend/internal/domain/chat"
	"github.com/yungbote/aura-backend/internal/domain/research"
)

const (
	SourceArxiv           = research.SourceArxiv
	SourceSemanticScholar = research.SourceSemanticScholar
	SourceManual          = research.SourceManual

	RoleUser   = chat.RoleUser
	RoleAgent  = chat.RoleAgent
	RoleSystem = chat.RoleSystem

	AgentRetrieval     = chat.AgentRetrieval
	AgentSummarization = chat.AgentSummarization
	AgentHypothesis    = chat.AgentHypothesis
	AgentExperiment    = chat.AgentExperiment
	AgentAnalysis      = chat.AgentAnalysis
	AgentGeneral       = chat.AgentGeneral
)

type (
	Project       = research.Project
	ProjectStats  = research.ProjectStats
	Paper         = research.Paper
	PaperMetadata = research.PaperMetadata
	Summary       = research.Summary
	Hypothesis    = research.Hypothesis
	Evidence      = research.Evidence
	Experiment    = research.Experiment
	Variables     = research.Variables
	ResearchQuery = research.ResearchQuery

	ChatMessage = chat.ChatMessage
)

// ValidSource reports whether s is a known paper origin.
func ValidSource(s string) bool { return research.ValidSource(s) }

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&Project{},
		&ResearchQuery{},
		&Paper{},
		&Summary{},
		&Hypothesis{},
		&Experiment{},
		&ChatMessage{},
	}
}
