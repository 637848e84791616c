package db

import (
	"gorm.io/gorm"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.PlanRecord{},
		&domain.QuizRecord{},
	)
}
