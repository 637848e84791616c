package planning

import (
	"context"
	"time"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/modules/planning/materials"
	"github.com/yungbote/palearn-backend/internal/modules/planning/steps"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	Log *logger.Logger

	Chain    *generator.Chain
	Resolver *materials.Resolver
	// Optional: without it plans are returned but not stored (offline CLI).
	Plans   steps.PlanAppender
	Quizzes steps.QuizStore

	Now   func() time.Time
	NewID func() string
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type (
	ApplyInput     = steps.ApplyInput
	GenerateInput  = steps.GenerateInput
	RecommendInput = steps.RecommendInput
	QuizInput      = steps.QuizInput
	PlanOutput     = steps.PlanOutput
	ReviewOutput   = steps.ReviewOutput
)

func (u Usecases) planDeps() steps.PlanDeps {
	return steps.PlanDeps{
		Log:      u.deps.Log.With("service", "PlanAssembler"),
		Chain:    u.deps.Chain,
		Resolver: u.deps.Resolver,
		Plans:    u.deps.Plans,
		Quizzes:  u.deps.Quizzes,
		Now:      u.deps.Now,
		NewID:    u.deps.NewID,
	}
}

func (u Usecases) ApplyRecommendation(ctx context.Context, in ApplyInput) PlanOutput {
	return steps.ApplyRecommendation(ctx, u.planDeps(), in)
}

func (u Usecases) GeneratePlan(ctx context.Context, in GenerateInput) PlanOutput {
	return steps.GeneratePlan(ctx, u.planDeps(), in)
}

func (u Usecases) RecommendCourses(ctx context.Context, in RecommendInput) []domain.Recommendation {
	return steps.RecommendCourses(ctx, u.planDeps(), in)
}

func (u Usecases) RelatedMaterials(ctx context.Context, topic string, obs generator.Observer) []domain.Material {
	return steps.RelatedMaterials(ctx, u.planDeps(), topic, obs)
}

func (u Usecases) ReviewMaterials(ctx context.Context, topics []string, obs generator.Observer) ReviewOutput {
	return steps.ReviewMaterials(ctx, u.planDeps(), topics, obs)
}

func (u Usecases) QuizItems(ctx context.Context, in QuizInput) []domain.QuizItem {
	return steps.QuizItems(ctx, u.planDeps(), in)
}

func (u Usecases) GradeQuiz(ctx context.Context, userID string, answers []domain.QuizAnswer) (domain.QuizGrade, error) {
	return steps.GradeQuiz(ctx, u.planDeps(), userID, answers)
}
