package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
)

// SeedPlan stores p for userID with an explicit creation time.
func SeedPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID string, p domain.Plan, createdAt time.Time) *domain.PlanRecord {
	tb.Helper()
	rec, err := domain.NewPlanRecord(userID, p)
	if err != nil {
		tb.Fatalf("encode plan: %v", err)
	}
	rec.CreatedAt, rec.UpdatedAt = createdAt.UTC(), createdAt.UTC()
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed plan: %v", err)
	}
	return rec
}
