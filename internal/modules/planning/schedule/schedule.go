// Package schedule builds a day-by-day plan from a flattened curriculum
// without any generator. It cannot fail.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/curriculum"
)

const (
	MaxDays = 28
	// MaxTasksPerDay bounds a materialized day; overlays stop once it is reached.
	MaxTasksPerDay = 5
	// maxLessonsPerDay leaves room for one overlay after the lecture/practice pairs.
	maxLessonsPerDay = 2
)

var timeShare = map[domain.TaskType]float64{
	domain.TaskLecture:  0.35,
	domain.TaskPractice: 0.25,
	domain.TaskReview:   0.15,
	domain.TaskYouTube:  0.15,
	domain.TaskQuiz:     0.10,
	domain.TaskReading:  0.35,
}

type Options struct {
	HoursPerDay float64
	// StartDate is "YYYY-MM-DD", optionally followed by a "T..." time part.
	StartDate string
	RestDays  []string
	Skill     string
	// Title names the plan; Skill is used when empty.
	Title string

	Now   func() time.Time
	NewID func() string
}

// TaskDuration is the fixed share of the study day for a task type, in minutes.
func TaskDuration(tt domain.TaskType, hoursPerDay float64) string {
	share, ok := timeShare[tt]
	if !ok {
		return "30분"
	}
	return fmt.Sprintf("%d분", int(hoursPerDay*60*share))
}

// LessonsPerDay is max(1, floor(h/2)), capped so a day never exceeds MaxTasksPerDay.
func LessonsPerDay(hoursPerDay float64) int {
	n := int(hoursPerDay) / 2
	if n < 1 {
		n = 1
	}
	if n > maxLessonsPerDay {
		n = maxLessonsPerDay
	}
	return n
}

// StartDay parses the start date, falling back to today.
func StartDay(raw string, now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		return t
	}
	y, m, d := now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Build lays lessons out over materialized days starting at opts.StartDate.
func Build(lessons []curriculum.FlatLesson, opts Options) domain.Plan {
	if len(lessons) == 0 {
		lessons = curriculum.Synthetic(opts.Skill)
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	b := builder{opts: opts, newID: newID}

	rest := NewRestSet(opts.RestDays)
	perDay := LessonsPerDay(opts.HoursPerDay)
	date := StartDay(opts.StartDate, opts.Now)

	var days []domain.DaySchedule
	next := 0
	for d := 0; next < len(lessons) && d < MaxDays; date = date.AddDate(0, 0, 1) {
		if rest.Has(date) {
			continue
		}
		var tasks []domain.Task
		for i := 0; i < perDay && next < len(lessons); i++ {
			tasks = append(tasks, b.lecture(lessons[next]), b.practice(lessons[next]))
			next++
		}
		tasks = b.overlay(d, tasks)
		days = append(days, domain.DaySchedule{Date: date.Format(domain.DateLayout), Tasks: tasks})
		d++
	}

	title := opts.Title
	if title == "" {
		title = opts.Skill
	}
	return domain.Plan{
		PlanName:      title + " 학습 계획",
		TotalDuration: domain.WeeksLabel(SpanDays(days)),
		DailySchedule: days,
	}
}

// SpanDays counts calendar days from the first to the last scheduled date, inclusive.
func SpanDays(days []domain.DaySchedule) int {
	if len(days) == 0 {
		return 0
	}
	first, err1 := days[0].Day()
	last, err2 := days[len(days)-1].Day()
	if err1 != nil || err2 != nil {
		return len(days)
	}
	return int(last.Sub(first).Hours()/24) + 1
}

type builder struct {
	opts  Options
	newID func() string
}

func (b builder) task(tt domain.TaskType, title, desc, section string) domain.Task {
	return domain.Task{
		ID:               b.newID(),
		Title:            title,
		Description:      desc,
		Duration:         TaskDuration(tt, b.opts.HoursPerDay),
		Section:          section,
		TaskType:         tt,
		RelatedMaterials: []domain.Material{},
		ReviewMaterials:  []domain.Material{},
	}
}

func (b builder) lecture(l curriculum.FlatLesson) domain.Task {
	desc := fmt.Sprintf("[%s] %s 강의 시청", l.Section, l.Title)
	if l.Description != "" {
		desc = fmt.Sprintf("[%s] %s", l.Section, l.Description)
	}
	return b.task(domain.TaskLecture, "📹 "+l.Title, desc, l.Section)
}

func (b builder) practice(l curriculum.FlatLesson) domain.Task {
	return b.task(domain.TaskPractice, "💻 "+l.Title+" 실습", "배운 내용을 직접 코드로 작성해보기", l.Section)
}

// overlay adds the periodic youtube/review/quiz tasks for day counter d.
func (b builder) overlay(d int, tasks []domain.Task) []domain.Task {
	add := func(t domain.Task) {
		if len(tasks) < MaxTasksPerDay {
			tasks = append(tasks, t)
		}
	}
	if d%2 == 0 && len(tasks) > 0 {
		first := strings.TrimPrefix(tasks[0].Title, "📹 ")
		add(b.task(domain.TaskYouTube,
			fmt.Sprintf("🎬 %s %s 관련 유튜브 영상", b.opts.Skill, first),
			"관련 유튜브 영상을 찾아 추가 학습하기", "추가학습"))
	}
	if d > 0 && d%3 == 0 {
		add(b.task(domain.TaskReview, "📝 이전 학습 내용 복습", "지금까지 배운 내용을 정리하고 복습하기", "복습"))
	}
	if d > 0 && d%4 == 0 {
		add(b.task(domain.TaskQuiz, fmt.Sprintf("🎯 %s 미니 퀴즈", b.opts.Skill), "학습한 내용에 대한 이해도 확인 퀴즈", "평가"))
	}
	return tasks
}
