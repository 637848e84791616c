package steps

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/modules/planning/materials"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

// FailureMessage is shown when a plan could not be produced or stored.
const FailureMessage = "계획 생성에 실패했습니다."

// PlanAppender persists a finished plan for a user.
type PlanAppender interface {
	Append(ctx context.Context, tx *gorm.DB, userID string, plan domain.Plan) (*domain.PlanRecord, error)
}

type PlanDeps struct {
	Log      *logger.Logger
	Chain    *generator.Chain
	Resolver *materials.Resolver
	// Plans may be nil, in which case plans are built but not stored.
	Plans PlanAppender
	// Quizzes may be nil; quizzes are then not kept and grade as all wrong.
	Quizzes QuizStore

	Now   func() time.Time
	NewID func() string
}

func (d PlanDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d PlanDeps) newID() string {
	if d.NewID != nil {
		return d.NewID()
	}
	return uuid.NewString()
}

// PlanOutput is what plan-producing operations report to callers.
type PlanOutput struct {
	Success bool         `json:"success"`
	Plan    *domain.Plan `json:"plan,omitempty"`
	Message string       `json:"message,omitempty"`
	// Source is "generator" or "scheduler".
	Source string `json:"-"`
}

func failed() PlanOutput {
	return PlanOutput{Success: false, Message: FailureMessage}
}

// taskTopic is the material search topic for a task: the skill plus the task
// title with any leading emoji or punctuation removed.
func taskTopic(skill string) materials.TopicFunc {
	return func(_ *domain.DaySchedule, task *domain.Task) string {
		title := strings.TrimLeftFunc(task.Title, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		return strings.TrimSpace(skill + " " + title)
	}
}
