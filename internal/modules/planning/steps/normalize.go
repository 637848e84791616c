package steps

import (
	"sort"
	"strings"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/extract"
	"github.com/yungbote/palearn-backend/internal/modules/planning/schedule"
)

type normalizeOptions struct {
	Title       string
	HoursPerDay float64
	RestDays    []string
	NewID       func() string
}

// parseGenerated reads a generator response into a plan. It returns false
// when the text has no usable schedule after normalization.
func parseGenerated(raw string, opts normalizeOptions) (domain.Plan, bool) {
	data := extract.JSON(raw)
	if data == nil {
		return domain.Plan{}, false
	}
	if _, ok := data["daily_schedule"]; !ok {
		return domain.Plan{}, false
	}
	plan := domain.DecodePlan(data)
	normalizeGenerated(&plan, opts)
	return plan, len(plan.DailySchedule) > 0
}

// normalizeGenerated brings a generator plan up to the same guarantees as a
// scheduled one: valid dates off rest days, 1 to MaxTasksPerDay tasks per
// day, unique ids, a known task type, a duration on every task and a
// total_duration label that matches the kept dates.
func normalizeGenerated(p *domain.Plan, opts normalizeOptions) {
	rest := schedule.NewRestSet(opts.RestDays)
	seenDate := map[string]int{}
	seenID := map[string]bool{}

	var days []domain.DaySchedule
	for _, day := range p.DailySchedule {
		t, err := day.Day()
		if err != nil || rest.Has(t) {
			continue
		}
		var tasks []domain.Task
		for _, task := range day.Tasks {
			if strings.TrimSpace(task.Title) == "" {
				continue
			}
			if task.ID == "" || seenID[task.ID] {
				task.ID = opts.NewID()
			}
			seenID[task.ID] = true
			if !task.TaskType.Valid() {
				task.TaskType = domain.TaskLecture
			}
			if strings.TrimSpace(task.Duration) == "" {
				task.Duration = schedule.TaskDuration(task.TaskType, opts.HoursPerDay)
			}
			tasks = append(tasks, task)
		}
		if len(tasks) == 0 {
			continue
		}
		date := t.Format(domain.DateLayout)
		if i, ok := seenDate[date]; ok {
			days[i].Tasks = append(days[i].Tasks, tasks...)
		} else {
			seenDate[date] = len(days)
			days = append(days, domain.DaySchedule{Date: date, Tasks: tasks})
		}
	}

	sort.SliceStable(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	if len(days) > schedule.MaxDays {
		days = days[:schedule.MaxDays]
	}
	for i := range days {
		if len(days[i].Tasks) > schedule.MaxTasksPerDay {
			days[i].Tasks = days[i].Tasks[:schedule.MaxTasksPerDay]
		}
	}
	p.DailySchedule = days

	if strings.TrimSpace(p.PlanName) == "" {
		p.PlanName = opts.Title + " 학습 계획"
	}
	// The label follows the kept days, whatever the model claimed.
	p.TotalDuration = domain.WeeksLabel(schedule.SpanDays(days))
}
