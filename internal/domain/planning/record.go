package planning

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PlanRecord is one stored plan. The plan body is kept whole as JSON; only the
// fields used for listing are real columns.
type PlanRecord struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string         `gorm:"column:user_id;not null;index" json:"user_id"`
	PlanName      string         `gorm:"column:plan_name" json:"plan_name"`
	TotalDuration string         `gorm:"column:total_duration" json:"total_duration"`
	Body          datatypes.JSON `gorm:"column:body" json:"body"`
	CreatedAt     time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (PlanRecord) TableName() string { return "plans" }

func NewPlanRecord(userID string, p Plan) (*PlanRecord, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return &PlanRecord{
		ID:            uuid.New(),
		UserID:        userID,
		PlanName:      p.PlanName,
		TotalDuration: p.TotalDuration,
		Body:          datatypes.JSON(body),
	}, nil
}

func (r *PlanRecord) Plan() (Plan, error) {
	var p Plan
	if len(r.Body) == 0 {
		return p, nil
	}
	err := json.Unmarshal(r.Body, &p)
	return p, err
}
