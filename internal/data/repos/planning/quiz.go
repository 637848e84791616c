package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

// QuizRepo keeps one quiz per user; saving replaces the previous one.
type QuizRepo interface {
	Save(ctx context.Context, tx *gorm.DB, userID, skill, level string, items []domain.QuizItem) error
	Load(ctx context.Context, tx *gorm.DB, userID string) ([]domain.QuizItem, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) Save(ctx context.Context, tx *gorm.DB, userID, skill, level string, items []domain.QuizItem) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == "" {
		return fmt.Errorf("user id required")
	}
	rec, err := domain.NewQuizRecord(userID, skill, level, items)
	if err != nil {
		return fmt.Errorf("encode quiz: %w", err)
	}
	rec.UpdatedAt = time.Now().UTC()

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"skill", "level", "items", "updated_at"}),
		}).
		Create(rec).Error
}

// Load returns the user's last quiz, or nil when there is none.
func (r *quizRepo) Load(ctx context.Context, tx *gorm.DB, userID string) ([]domain.QuizItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rec domain.QuizRecord
	err := transaction.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.QuizItems()
}
