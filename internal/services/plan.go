package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/palearn-backend/internal/data/repos"
	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/materials"
	"github.com/yungbote/palearn-backend/internal/platform/apierr"
	"github.com/yungbote/palearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

const (
	msgNoPlan    = "아직 학습 계획이 없습니다."
	msgNoDayPlan = "해당 날짜에 계획이 없습니다."
)

var errUnauthenticated = apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))

type DayPlanView struct {
	Date     string        `json:"date"`
	Tasks    []domain.Task `json:"tasks"`
	PlanName string        `json:"plan_name,omitempty"`
	Message  *string       `json:"message"`
}

type TaskRef struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}

type TopicStatus struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// YesterdayTopics lists every task of yesterday with its completion flag.
// Date is null when the caller has no plan.
type YesterdayTopics struct {
	Topics  []TopicStatus `json:"topics"`
	Date    *string       `json:"date"`
	HasPlan bool          `json:"-"`
}

// Completed returns the titles of the completed topics.
func (y YesterdayTopics) Completed() []string {
	var out []string
	for _, t := range y.Topics {
		if t.Completed {
			out = append(out, t.Title)
		}
	}
	return out
}

type YesterdayReview struct {
	HasReview      bool              `json:"has_review"`
	Materials      []domain.Material `json:"materials"`
	YesterdayTopic string            `json:"yesterday_topic"`
}

// PlanService answers read views over the caller's latest plan and records
// task completion. The caller comes from ctxutil request data.
type PlanService interface {
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	TaskTitles(ctx context.Context, scope string) ([]string, error)
	DayPlan(ctx context.Context, date string) (DayPlanView, error)
	CompletedYesterday(ctx context.Context) ([]TaskRef, error)
	YesterdayReview(ctx context.Context) (YesterdayReview, error)
	YesterdayTopics(ctx context.Context) (YesterdayTopics, error)
	UpdateTask(ctx context.Context, date, taskID string, completed bool) error
}

type planService struct {
	db    *gorm.DB
	log   *logger.Logger
	plans repos.PlanRepo
	now   func() time.Time
}

func NewPlanService(db *gorm.DB, log *logger.Logger, plans repos.PlanRepo, now func() time.Time) PlanService {
	if now == nil {
		now = time.Now
	}
	return &planService{db: db, log: log.With("service", "PlanService"), plans: plans, now: now}
}

func (s *planService) userID(ctx context.Context) (string, error) {
	id := ctxutil.UserID(ctx)
	if id == "" {
		return "", errUnauthenticated
	}
	return id, nil
}

func (s *planService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// latest loads the caller's newest plan; nil means the caller has none.
func (s *planService) latest(ctx context.Context) (*domain.Plan, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.plans.Latest(ctx, s.db, userID)
	if err != nil || rec == nil {
		return nil, err
	}
	p, err := rec.Plan()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *planService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := s.plans.List(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Plan, 0, len(recs))
	for _, rec := range recs {
		p, err := rec.Plan()
		if err != nil {
			s.log.Warn("skipping unreadable plan", "plan_id", rec.ID, "error", err)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// TaskTitles lists task titles of the latest plan for today ("daily"), the
// current Monday to Sunday week ("weekly"), or the current month ("monthly").
func (s *planService) TaskTitles(ctx context.Context, scope string) ([]string, error) {
	today := s.today()
	var in func(time.Time) bool
	switch strings.ToLower(strings.TrimSpace(scope)) {
	case "", "daily":
		in = func(d time.Time) bool { return d.Equal(today) }
	case "weekly":
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		end := start.AddDate(0, 0, 6)
		in = func(d time.Time) bool { return !d.Before(start) && !d.After(end) }
	case "monthly":
		in = func(d time.Time) bool { return d.Year() == today.Year() && d.Month() == today.Month() }
	default:
		return nil, apierr.BadRequest("invalid_scope", errors.New("scope must be daily, weekly or monthly"))
	}

	plan, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	titles := []string{}
	if plan == nil {
		return titles, nil
	}
	for _, day := range plan.DailySchedule {
		d, err := day.Day()
		if err != nil || !in(d) {
			continue
		}
		for _, t := range day.Tasks {
			titles = append(titles, t.Title)
		}
	}
	return titles, nil
}

func (s *planService) DayPlan(ctx context.Context, date string) (DayPlanView, error) {
	view := DayPlanView{Date: date, Tasks: []domain.Task{}}
	plan, err := s.latest(ctx)
	if err != nil {
		return view, err
	}
	if plan == nil {
		msg := msgNoPlan
		view.Message = &msg
		return view, nil
	}
	for _, day := range plan.DailySchedule {
		if day.Date == date {
			view.Tasks = day.Tasks
			view.PlanName = plan.PlanName
			if view.PlanName == "" {
				view.PlanName = "학습 계획"
			}
			return view, nil
		}
	}
	msg := msgNoDayPlan
	view.Message = &msg
	return view, nil
}

func (s *planService) yesterday(plan *domain.Plan) *domain.DaySchedule {
	want := s.today().AddDate(0, 0, -1).Format(domain.DateLayout)
	for i := range plan.DailySchedule {
		if plan.DailySchedule[i].Date == want {
			return &plan.DailySchedule[i]
		}
	}
	return nil
}

func (s *planService) CompletedYesterday(ctx context.Context) ([]TaskRef, error) {
	out := []TaskRef{}
	plan, err := s.latest(ctx)
	if err != nil || plan == nil {
		return out, err
	}
	day := s.yesterday(plan)
	if day == nil {
		return out, nil
	}
	for _, t := range day.Tasks {
		if t.Completed {
			out = append(out, TaskRef{Title: t.Title, ID: t.ID})
		}
	}
	return out, nil
}

func (s *planService) YesterdayTopics(ctx context.Context) (YesterdayTopics, error) {
	out := YesterdayTopics{Topics: []TopicStatus{}}
	plan, err := s.latest(ctx)
	if err != nil || plan == nil {
		return out, err
	}
	date := s.today().AddDate(0, 0, -1).Format(domain.DateLayout)
	out.Date, out.HasPlan = &date, true
	if day := s.yesterday(plan); day != nil {
		for _, t := range day.Tasks {
			out.Topics = append(out.Topics, TopicStatus{Title: t.Title, Completed: t.Completed})
		}
	}
	return out, nil
}

// YesterdayReview offers up to two review materials for yesterday's first
// task: stored review materials when any task has them, search links otherwise.
func (s *planService) YesterdayReview(ctx context.Context) (YesterdayReview, error) {
	empty := YesterdayReview{Materials: []domain.Material{}}
	plan, err := s.latest(ctx)
	if err != nil || plan == nil {
		return empty, err
	}
	day := s.yesterday(plan)
	if day == nil || len(day.Tasks) == 0 {
		return empty, nil
	}

	topic := day.Tasks[0].Title
	for _, t := range day.Tasks {
		stored := materials.Filter(t.ReviewMaterials)
		if len(stored) == 0 {
			continue
		}
		if len(stored) > 2 {
			stored = stored[:2]
		}
		return YesterdayReview{HasReview: true, Materials: stored, YesterdayTopic: topic}, nil
	}
	return YesterdayReview{
		HasReview: true,
		Materials: []domain.Material{
			{
				Title: topic + " 복습 영상",
				Type:  domain.MaterialVideo,
				URL:   "https://www.youtube.com/results?search_query=" + url.QueryEscape(topic+" 강의"),
			},
			{
				Title: topic + " 복습 글",
				Type:  domain.MaterialArticle,
				URL:   "https://www.google.com/search?q=" + url.QueryEscape(topic+" 블로그"),
			},
		},
		YesterdayTopic: topic,
	}, nil
}

func (s *planService) UpdateTask(ctx context.Context, date, taskID string, completed bool) error {
	userID, err := s.userID(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(date) == "" || strings.TrimSpace(taskID) == "" {
		return apierr.BadRequest("invalid_request", errors.New("date and task_id are required"))
	}
	ok, err := s.plans.UpdateTaskCompleted(ctx, s.db, userID, date, taskID, completed)
	if err != nil {
		return err
	}
	if !ok {
		return apierr.NotFound("task_not_found", errors.New("task not found"))
	}
	s.log.Info("task updated", "user_id", userID, "task_id", taskID, "completed", completed)
	return nil
}
