package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/palearn-backend/internal/data/repos"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

type Repos struct {
	Plan repos.PlanRepo
	Quiz repos.QuizRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Plan: repos.NewPlanRepo(db, log),
		Quiz: repos.NewQuizRepo(db, log),
	}
}
