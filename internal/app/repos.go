package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/data/repos"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

type Repos struct {
	Project      repos.ProjectRepo
	Paper        repos.PaperRepo
	Summary      repos.SummaryRepo
	Hypothesis   repos.HypothesisRepo
	Experiment   repos.ExperimentRepo
	Query        repos.ResearchQueryRepo
	ChatMessages repos.ChatMessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Project:      repos.NewProjectRepo(db, log),
		Paper:        repos.NewPaperRepo(db, log),
		Summary:      repos.NewSummaryRepo(db, log),
		Hypothesis:   repos.NewHypothesisRepo(db, log),
		Experiment:   repos.NewExperimentRepo(db, log),
		Query:        repos.NewResearchQueryRepo(db, log),
		ChatMessages: repos.NewChatMessageRepo(db, log),
	}
}
