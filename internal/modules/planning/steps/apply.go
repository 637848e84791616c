package steps

import (
	"context"
	"strings"
	"time"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/curriculum"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/modules/planning/schedule"
	"github.com/yungbote/palearn-backend/internal/observability"
)

const defaultCourseTitle = "학습 강좌"

type ApplyInput struct {
	UserID      string
	Course      domain.Course
	Skill       string
	Level       string
	HoursPerDay float64
	StartDate   string
	RestDays    []string
	Observer    generator.Observer
}

// ApplyRecommendation turns a chosen course into a stored plan. The generator
// is tried first; the scheduler covers any failure, so a plan with at least
// one day comes back unless storing it fails.
func ApplyRecommendation(ctx context.Context, deps PlanDeps, in ApplyInput) PlanOutput {
	ctx, span := observability.StartSpan(ctx, "planning.apply_recommendation", "skill", in.Skill)
	defer span.End()
	log := deps.Log.With("user_id", in.UserID, "skill", in.Skill)

	title := strings.TrimSpace(in.Course.Title)
	if title == "" {
		title = defaultCourseTitle
	}
	lessons := curriculum.Flatten(in.Course.Curriculum)
	totalLectures := len(lessons)
	if in.Course.TotalLectures != nil {
		totalLectures = *in.Course.TotalLectures
	}
	start := schedule.StartDay(in.StartDate, deps.now).Format(domain.DateLayout)

	prompt := applyPrompt(applyPromptInput{
		CourseTitle:   title,
		TotalLectures: totalLectures,
		TotalDuration: in.Course.TotalDuration,
		Skill:         in.Skill,
		Level:         in.Level,
		Curriculum:    curriculum.Describe(in.Course.Curriculum, in.Skill),
		StartDate:     start,
		HoursPerDay:   in.HoursPerDay,
		RestDays:      in.RestDays,
	})

	log.Info("building plan from course", "course", title, "lessons", len(lessons))
	plan, source := generateOrSchedule(ctx, deps, prompt, in.Observer, normalizeOptions{
		Title:       title,
		HoursPerDay: in.HoursPerDay,
		RestDays:    in.RestDays,
		NewID:       deps.newID,
	}, func() domain.Plan {
		return schedule.Build(lessons, schedule.Options{
			HoursPerDay: in.HoursPerDay,
			StartDate:   start,
			RestDays:    in.RestDays,
			Skill:       in.Skill,
			Title:       title,
			Now:         deps.now,
			NewID:       deps.newID,
		})
	})
	plan.CourseInfo = &domain.CourseInfo{
		Title:         title,
		Provider:      in.Course.Provider,
		Link:          in.Course.Link,
		TotalLectures: totalLectures,
	}
	return finish(ctx, deps, in.UserID, in.Skill, plan, source)
}

// generateOrSchedule runs the generator once and falls back to fallback
// when the response has no usable schedule.
func generateOrSchedule(ctx context.Context, deps PlanDeps, prompt string, obs generator.Observer, opts normalizeOptions, fallback func() domain.Plan) (domain.Plan, string) {
	raw := deps.Chain.Generate(ctx, prompt, false, obs)
	if plan, ok := parseGenerated(raw, opts); ok {
		return plan, "generator"
	}
	deps.Log.Info("generator plan unusable, scheduling from curriculum")
	return fallback(), "scheduler"
}

// finish enriches every task with materials and stores the plan.
func finish(ctx context.Context, deps PlanDeps, userID, skill string, plan domain.Plan, source string) PlanOutput {
	log := deps.Log.With("user_id", userID)
	if len(plan.DailySchedule) == 0 {
		log.Error("assembled plan has no days", "source", source)
		return failed()
	}

	start := time.Now()
	if deps.Resolver != nil {
		deps.Resolver.Enrich(ctx, &plan, taskTopic(skill))
	}
	log.Debug("tasks enriched", "tasks", plan.TaskCount(), "elapsed_ms", time.Since(start).Milliseconds())

	if ctx.Err() != nil {
		log.Warn("plan request abandoned before storing", "error", ctx.Err())
		return failed()
	}
	if deps.Plans != nil {
		if _, err := deps.Plans.Append(ctx, nil, userID, plan); err != nil {
			log.Error("storing plan failed", "error", err)
			return failed()
		}
	}

	observability.Current().IncPlan(source)
	log.Info("plan ready", "plan", plan.PlanName, "source", source,
		"days", len(plan.DailySchedule), "tasks", plan.TaskCount())
	return PlanOutput{Success: true, Plan: &plan, Source: source}
}
