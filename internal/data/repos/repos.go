package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/data/repos/chat"
	"github.com/yungbote/aura-backend/internal/data/repos/research"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

type ProjectRepo = research.ProjectRepo
type PaperRepo = research.PaperRepo
type SummaryRepo = research.SummaryRepo
type HypothesisRepo = research.HypothesisRepo
type ExperimentRepo = research.ExperimentRepo
type ResearchQueryRepo = research.ResearchQueryRepo

type ChatMessageRepo = chat.ChatMessageRepo

func NewProjectRepo(db *gorm.DB, log *logger.Logger) ProjectRepo {
	return research.NewProjectRepo(db, log)
}

func NewPaperRepo(db *gorm.DB, log *logger.Logger) PaperRepo {
	return research.NewPaperRepo(db, log)
}

func NewSummaryRepo(db *gorm.DB, log *logger.Logger) SummaryRepo {
	return research.NewSummaryRepo(db, log)
}

func NewHypothesisRepo(db *gorm.DB, log *logger.Logger) HypothesisRepo {
	return research.NewHypothesisRepo(db, log)
}

func NewExperimentRepo(db *gorm.DB, log *logger.Logger) ExperimentRepo {
	return research.NewExperimentRepo(db, log)
}

func NewResearchQueryRepo(db *gorm.DB, log *logger.Logger) ResearchQueryRepo {
	return research.NewResearchQueryRepo(db, log)
}

func NewChatMessageRepo(db *gorm.DB, log *logger.Logger) ChatMessageRepo {
	return chat.NewChatMessageRepo(db, log)
}
