package planning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

type PlanRepo interface {
	Append(ctx context.Context, tx *gorm.DB, userID string, plan domain.Plan) (*domain.PlanRecord, error)
	List(ctx context.Context, tx *gorm.DB, userID string) ([]*domain.PlanRecord, error)
	Latest(ctx context.Context, tx *gorm.DB, userID string) (*domain.PlanRecord, error)
	UpdateTaskCompleted(ctx context.Context, tx *gorm.DB, userID, date, taskID string, completed bool) (bool, error)
}

type planRepo struct {
	db  *gorm.DB
	log *logger.Logger

	mu   sync.Mutex
	last time.Time
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	repoLog := baseLog.With("repo", "PlanRepo")
	return &planRepo{db: db, log: repoLog}
}

func (r *planRepo) Append(ctx context.Context, tx *gorm.DB, userID string, plan domain.Plan) (*domain.PlanRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	rec, err := domain.NewPlanRecord(userID, plan)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	now := r.stamp()
	rec.CreatedAt, rec.UpdatedAt = now, now

	if err := transaction.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// stamp returns strictly increasing creation times at microsecond
// precision (what postgres keeps), so "latest" is never a tie.
func (r *planRepo) stamp() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(r.last) {
		now = r.last.Add(time.Microsecond)
	}
	r.last = now
	return now
}

// List returns the user's plans oldest first.
func (r *planRepo) List(ctx context.Context, tx *gorm.DB, userID string) ([]*domain.PlanRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.PlanRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Latest returns the most recently appended plan, or nil when the user has none.
func (r *planRepo) Latest(ctx context.Context, tx *gorm.DB, userID string) (*domain.PlanRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rec domain.PlanRecord
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateTaskCompleted sets the completed flag on the first task matching
// date and taskID across the user's plans, newest plan first. It reports
// false when no such task exists.
func (r *planRepo) UpdateTaskCompleted(ctx context.Context, tx *gorm.DB, userID, date, taskID string, completed bool) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	found := false
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		var recs []*domain.PlanRecord
		if err := txx.Where("user_id = ?", userID).Order("created_at DESC").Find(&recs).Error; err != nil {
			return err
		}
		for _, rec := range recs {
			plan, err := rec.Plan()
			if err != nil {
				r.log.Warn("skipping unreadable plan", "plan_id", rec.ID, "error", err)
				continue
			}
			if !setCompleted(&plan, date, taskID, completed) {
				continue
			}
			body, err := json.Marshal(plan)
			if err != nil {
				return err
			}
			found = true
			return txx.Model(&domain.PlanRecord{}).
				Where("id = ?", rec.ID).
				Updates(map[string]any{
					"body":       datatypes.JSON(body),
					"updated_at": time.Now().UTC(),
				}).Error
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func setCompleted(p *domain.Plan, date, taskID string, completed bool) bool {
	for i := range p.DailySchedule {
		day := &p.DailySchedule[i]
		if day.Date != date {
			continue
		}
		for j := range day.Tasks {
			if day.Tasks[j].ID == taskID {
				day.Tasks[j].Completed = completed
				return true
			}
		}
	}
	return false
}
