package planning

import "time"

const DateLayout = "2006-01-02"

type TaskType string

const (
	TaskLecture  TaskType = "lecture"
	TaskPractice TaskType = "practice"
	TaskReview   TaskType = "review"
	TaskYouTube  TaskType = "youtube"
	TaskReading  TaskType = "reading"
	TaskQuiz     TaskType = "quiz"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskLecture, TaskPractice, TaskReview, TaskYouTube, TaskReading, TaskQuiz:
		return true
	}
	return false
}

const (
	MaterialVideo   = "유튜브"
	MaterialArticle = "블로그"
	MaterialOther   = "기타"
)

type Material struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Duration    string `json:"duration,omitempty"`
}

type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Duration         string     `json:"duration"`
	Completed        bool       `json:"completed"`
	Section          string     `json:"section"`
	TaskType         TaskType   `json:"task_type"`
	RelatedMaterials []Material `json:"related_materials"`
	ReviewMaterials  []Material `json:"review_materials"`
}

type DaySchedule struct {
	Date  string `json:"date"`
	Tasks []Task `json:"tasks"`
}

// Day parses Date as a calendar date in UTC.
func (d DaySchedule) Day() (time.Time, error) {
	return time.Parse(DateLayout, d.Date)
}

type CourseInfo struct {
	Title         string `json:"title"`
	Provider      string `json:"provider"`
	Link          string `json:"link"`
	TotalLectures int    `json:"total_lectures"`
}

type Plan struct {
	PlanName      string        `json:"plan_name"`
	TotalDuration string        `json:"total_duration"`
	CourseInfo    *CourseInfo   `json:"course_info,omitempty"`
	DailySchedule []DaySchedule `json:"daily_schedule"`
}

// TaskCount sums tasks across all days.
func (p Plan) TaskCount() int {
	n := 0
	for _, d := range p.DailySchedule {
		n += len(d.Tasks)
	}
	return n
}

// ForEachTask visits every task by pointer, in schedule order.
func (p *Plan) ForEachTask(fn func(day *DaySchedule, task *Task)) {
	for i := range p.DailySchedule {
		day := &p.DailySchedule[i]
		for j := range day.Tasks {
			fn(day, &day.Tasks[j])
		}
	}
}

// WeeksLabel renders a span of calendar days as "N주", rounding up.
func WeeksLabel(spanDays int) string {
	if spanDays <= 0 {
		return "1주"
	}
	return itoa((spanDays+6)/7) + "주"
}
