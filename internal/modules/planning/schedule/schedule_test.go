package schedule

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/curriculum"
)

func lessons(n int) []curriculum.FlatLesson {
	out := make([]curriculum.FlatLesson, n)
	for i := range out {
		out[i] = curriculum.FlatLesson{Section: "섹션", Title: fmt.Sprintf("%d강", i+1)}
	}
	return out
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return "t" + strconv.Itoa(n)
	}
}

func taskTypes(day domain.DaySchedule) []domain.TaskType {
	out := make([]domain.TaskType, 0, len(day.Tasks))
	for _, t := range day.Tasks {
		out = append(out, t.TaskType)
	}
	return out
}

func TestBuildFiveLessonsTwoHours(t *testing.T) {
	plan := Build(lessons(5), Options{HoursPerDay: 2, StartDate: "2024-01-01", Skill: "Go", Title: "Go 입문", NewID: seqIDs()})

	if len(plan.DailySchedule) != 5 {
		t.Fatalf("expected 5 days, got %d", len(plan.DailySchedule))
	}
	if plan.TotalDuration != "1주" {
		t.Fatalf("total_duration = %q", plan.TotalDuration)
	}
	if plan.PlanName != "Go 입문 학습 계획" {
		t.Fatalf("plan_name = %q", plan.PlanName)
	}
	want := [][]domain.TaskType{
		{domain.TaskLecture, domain.TaskPractice, domain.TaskYouTube},
		{domain.TaskLecture, domain.TaskPractice},
		{domain.TaskLecture, domain.TaskPractice, domain.TaskYouTube},
		{domain.TaskLecture, domain.TaskPractice, domain.TaskReview},
		{domain.TaskLecture, domain.TaskPractice, domain.TaskYouTube, domain.TaskQuiz},
	}
	for i, day := range plan.DailySchedule {
		if wantDate := time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format(domain.DateLayout); day.Date != wantDate {
			t.Fatalf("day %d date = %s want %s", i, day.Date, wantDate)
		}
		got := taskTypes(day)
		if fmt.Sprint(got) != fmt.Sprint(want[i]) {
			t.Fatalf("day %d task types = %v want %v", i, got, want[i])
		}
	}

	first := plan.DailySchedule[0].Tasks
	if first[0].Title != "📹 1강" || first[0].Description != "[섹션] 1강 강의 시청" || first[0].Duration != "42분" {
		t.Fatalf("unexpected lecture task: %+v", first[0])
	}
	if first[1].Title != "💻 1강 실습" || first[1].Duration != "30분" {
		t.Fatalf("unexpected practice task: %+v", first[1])
	}
	if first[2].Title != "🎬 Go 1강 관련 유튜브 영상" || first[2].Section != "추가학습" || first[2].Duration != "18분" {
		t.Fatalf("unexpected youtube task: %+v", first[2])
	}
	quiz := plan.DailySchedule[4].Tasks[3]
	if quiz.Title != "🎯 Go 미니 퀴즈" || quiz.Duration != "12분" {
		t.Fatalf("unexpected quiz task: %+v", quiz)
	}
}

func TestBuildRestDaysAndTaskBounds(t *testing.T) {
	names := []string{"월", "화", "수", "목", "금", "토", "일"}
	for mask := 0; mask < 1<<7-1; mask++ {
		var rest []string
		restSet := map[string]bool{}
		for i, n := range names {
			if mask&(1<<i) != 0 {
				rest = append(rest, n)
				restSet[n] = true
			}
		}
		for _, hours := range []float64{0.5, 1, 2, 3, 4, 6, 10} {
			plan := Build(lessons(40), Options{HoursPerDay: hours, StartDate: "2024-03-06", RestDays: rest, Skill: "Go"})
			if len(plan.DailySchedule) == 0 {
				t.Fatalf("mask %b hours %v: no days", mask, hours)
			}
			if len(plan.DailySchedule) > MaxDays {
				t.Fatalf("mask %b hours %v: %d days exceeds cap", mask, hours, len(plan.DailySchedule))
			}
			for _, day := range plan.DailySchedule {
				d, err := day.Day()
				if err != nil {
					t.Fatalf("bad date %q", day.Date)
				}
				if restSet[KoreanName(d)] {
					t.Fatalf("mask %b: scheduled on rest day %s (%s)", mask, day.Date, KoreanName(d))
				}
				if n := len(day.Tasks); n < 2 || n > MaxTasksPerDay {
					t.Fatalf("mask %b hours %v: day %s has %d tasks", mask, hours, day.Date, n)
				}
			}
		}
	}
}

func TestBuildAllRestDaysIgnored(t *testing.T) {
	plan := Build(lessons(3), Options{HoursPerDay: 2, StartDate: "2024-01-01", RestDays: []string{"월", "화", "수", "목", "금", "토", "일"}})
	if len(plan.DailySchedule) != 3 {
		t.Fatalf("expected 3 days, got %d", len(plan.DailySchedule))
	}
}

func TestBuildEmptyCurriculumUsesSynthetic(t *testing.T) {
	plan := Build(nil, Options{HoursPerDay: 1, StartDate: "2024-01-01", Skill: "SQL"})
	if len(plan.DailySchedule) != 5 {
		t.Fatalf("expected 5 days, got %d", len(plan.DailySchedule))
	}
	if got := plan.DailySchedule[0].Tasks[0].Title; got != "📹 SQL 기초 학습" {
		t.Fatalf("first title = %q", got)
	}
	if plan.PlanName != "SQL 학습 계획" {
		t.Fatalf("plan_name = %q", plan.PlanName)
	}
}

func TestBuildCapsAtMaxDays(t *testing.T) {
	plan := Build(lessons(100), Options{HoursPerDay: 2, StartDate: "2024-01-01", RestDays: []string{"토", "일"}})
	if len(plan.DailySchedule) != MaxDays {
		t.Fatalf("expected %d days, got %d", MaxDays, len(plan.DailySchedule))
	}
	// 28 weekdays from Monday 2024-01-01 end on Wednesday 2024-02-07, a 38 day span.
	if plan.TotalDuration != "6주" {
		t.Fatalf("total_duration = %q", plan.TotalDuration)
	}
}

func TestBuildInvalidStartDateUsesToday(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 5, 20, 15, 4, 5, 0, time.Local) }
	plan := Build(lessons(1), Options{HoursPerDay: 2, StartDate: "next tuesday", Now: now})
	if got := plan.DailySchedule[0].Date; got != "2025-05-20" {
		t.Fatalf("date = %q", got)
	}
	plan = Build(lessons(1), Options{HoursPerDay: 2, StartDate: "2024-02-03T09:00:00.000Z", Now: now})
	if got := plan.DailySchedule[0].Date; got != "2024-02-03" {
		t.Fatalf("date with time part = %q", got)
	}
}

func TestBuildIsDeterministicApartFromIDs(t *testing.T) {
	opts := Options{HoursPerDay: 4, StartDate: "2024-01-01", RestDays: []string{"일"}, Skill: "Go", NewID: seqIDs()}
	a := Build(lessons(9), opts)
	opts.NewID = seqIDs()
	b := Build(lessons(9), opts)
	if fmt.Sprintf("%+v", a) != fmt.Sprintf("%+v", b) {
		t.Fatalf("plans differ for identical inputs")
	}
}

func TestTaskDuration(t *testing.T) {
	cases := []struct {
		tt   domain.TaskType
		h    float64
		want string
	}{
		{domain.TaskLecture, 3, "62분"},
		{domain.TaskReading, 3, "62분"},
		{domain.TaskPractice, 1.5, "22분"},
		{domain.TaskQuiz, 1, "6분"},
		{domain.TaskType("other"), 1, "30분"},
	}
	for _, tc := range cases {
		if got := TaskDuration(tc.tt, tc.h); got != tc.want {
			t.Fatalf("TaskDuration(%s, %v) = %q want %q", tc.tt, tc.h, got, tc.want)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"월": time.Monday, "일요일": time.Sunday, "Sat": time.Saturday, "friday": time.Friday, " 수 ": time.Wednesday,
	}
	for in, want := range cases {
		got, ok := ParseWeekday(in)
		if !ok || got != want {
			t.Fatalf("ParseWeekday(%q) = %v %v", in, got, ok)
		}
	}
	if _, ok := ParseWeekday("someday"); ok {
		t.Fatalf("unexpected match")
	}
}
