package steps

import (
	"context"
	"strings"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/modules/planning/schedule"
	"github.com/yungbote/palearn-backend/internal/observability"
)

type GenerateInput struct {
	UserID      string
	Skill       string
	Level       string
	HoursPerDay float64
	StartDate   string
	RestDays    []string
	Observer    generator.Observer
}

// GeneratePlan builds a plan for a skill with no chosen course. The fallback
// schedules the synthetic curriculum for the skill.
func GeneratePlan(ctx context.Context, deps PlanDeps, in GenerateInput) PlanOutput {
	ctx, span := observability.StartSpan(ctx, "planning.generate_plan", "skill", in.Skill)
	defer span.End()

	skill := strings.TrimSpace(in.Skill)
	start := schedule.StartDay(in.StartDate, deps.now).Format(domain.DateLayout)
	prompt := generatePrompt(generatePromptInput{
		Skill:       skill,
		Level:       in.Level,
		StartDate:   start,
		HoursPerDay: in.HoursPerDay,
		RestDays:    in.RestDays,
	})

	plan, source := generateOrSchedule(ctx, deps, prompt, in.Observer, normalizeOptions{
		Title:       skill,
		HoursPerDay: in.HoursPerDay,
		RestDays:    in.RestDays,
		NewID:       deps.newID,
	}, func() domain.Plan {
		return schedule.Build(nil, schedule.Options{
			HoursPerDay: in.HoursPerDay,
			StartDate:   start,
			RestDays:    in.RestDays,
			Skill:       skill,
			Now:         deps.now,
			NewID:       deps.newID,
		})
	})
	return finish(ctx, deps, in.UserID, skill, plan, source)
}
