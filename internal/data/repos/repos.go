package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/palearn-backend/internal/data/repos/planning"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

type (
	PlanRepo = planning.PlanRepo
	QuizRepo = planning.QuizRepo
)

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo { return planning.NewPlanRepo(db, baseLog) }

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo { return planning.NewQuizRepo(db, baseLog) }
