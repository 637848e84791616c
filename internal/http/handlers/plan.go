package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/http/response"
	"github.com/yungbote/palearn-backend/internal/modules/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
	"github.com/yungbote/palearn-backend/internal/services"
)

// Assembler is the plan-producing side of planning.Usecases.
type Assembler interface {
	ApplyRecommendation(ctx context.Context, in planning.ApplyInput) planning.PlanOutput
	GeneratePlan(ctx context.Context, in planning.GenerateInput) planning.PlanOutput
	RecommendCourses(ctx context.Context, in planning.RecommendInput) []domain.Recommendation
	RelatedMaterials(ctx context.Context, topic string, obs generator.Observer) []domain.Material
}

// StatusSource hands out per-user generation observers and reports the last status.
type StatusSource interface {
	Current(userID string) generator.Status
	ObserverFor(userID string) generator.Observer
}

type PlanHandler struct {
	log       *logger.Logger
	assembler Assembler
	plans     services.PlanService
	status    StatusSource
}

func NewPlanHandler(log *logger.Logger, assembler Assembler, plans services.PlanService, status StatusSource) *PlanHandler {
	return &PlanHandler{
		log:       log.With("handler", "PlanHandler"),
		assembler: assembler,
		plans:     plans,
		status:    status,
	}
}

type applyRecommendationRequest struct {
	SelectedCourse domain.Course  `json:"selected_course"`
	QuizLevel      string         `json:"quiz_level"`
	QuizDetails    map[string]any `json:"quiz_details,omitempty"`
	Skill          string         `json:"skill"`
	HourPerDay     float64        `json:"hourPerDay"`
	StartDate      string         `json:"startDate"`
	RestDays       []string       `json:"restDays"`
}

// POST /plan/apply_recommendation
func (h *PlanHandler) ApplyRecommendation(c *gin.Context) {
	var req applyRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	h.log.Info("apply recommendation", "user_id", userID, "course", req.SelectedCourse.Title, "skill", req.Skill)

	out := h.assembler.ApplyRecommendation(c.Request.Context(), planning.ApplyInput{
		UserID:      userID,
		Course:      req.SelectedCourse,
		Skill:       req.Skill,
		Level:       req.QuizLevel,
		HoursPerDay: req.HourPerDay,
		StartDate:   req.StartDate,
		RestDays:    req.RestDays,
		Observer:    h.observer(userID),
	})
	response.RespondOK(c, out)
}

type generatePlanRequest struct {
	Skill      string   `json:"skill" binding:"required"`
	HourPerDay float64  `json:"hourPerDay"`
	StartDate  string   `json:"startDate"`
	RestDays   []string `json:"restDays"`
	SelfLevel  string   `json:"selfLevel"`
}

// POST /plans/generate
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	out := h.assembler.GeneratePlan(c.Request.Context(), planning.GenerateInput{
		UserID:      userID,
		Skill:       req.Skill,
		Level:       req.SelfLevel,
		HoursPerDay: req.HourPerDay,
		StartDate:   req.StartDate,
		RestDays:    req.RestDays,
		Observer:    h.observer(userID),
	})
	if !out.Success || out.Plan == nil {
		response.RespondError(c, http.StatusInternalServerError, "plan_generation_failed", errors.New(out.Message))
		return
	}
	response.RespondOK(c, out.Plan)
}

// GET /plans/all
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.plans.ListPlans(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if plans == nil {
		plans = []domain.Plan{}
	}
	response.RespondOK(c, plans)
}

// GET /plans?scope=daily|weekly|monthly
func (h *PlanHandler) TaskTitles(c *gin.Context) {
	titles, err := h.plans.TaskTitles(c.Request.Context(), c.Query("scope"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if titles == nil {
		titles = []string{}
	}
	response.RespondOK(c, titles)
}

// GET /plans/review
func (h *PlanHandler) CompletedYesterday(c *gin.Context) {
	refs, err := h.plans.CompletedYesterday(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if refs == nil {
		refs = []services.TaskRef{}
	}
	response.RespondOK(c, refs)
}

// GET /plans/yesterday_review
func (h *PlanHandler) YesterdayReview(c *gin.Context) {
	review, err := h.plans.YesterdayReview(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, review)
}

// GET /plans/date/:date
func (h *PlanHandler) DayPlan(c *gin.Context) {
	view, err := h.plans.DayPlan(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, view)
}

type updateTaskRequest struct {
	Date      string `json:"date" form:"date"`
	TaskID    string `json:"task_id" form:"task_id"`
	Completed bool   `json:"completed" form:"completed"`
}

// POST /plans/task/update accepts query parameters or a JSON body.
func (h *PlanHandler) UpdateTask(c *gin.Context) {
	var req updateTaskRequest
	var err error
	// A chunked body reports ContentLength -1.
	if c.Request.ContentLength != 0 || c.ContentType() == gin.MIMEJSON {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.plans.UpdateTask(c.Request.Context(), req.Date, req.TaskID, req.Completed); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// GET /plans/related_materials?topic=
func (h *PlanHandler) RelatedMaterials(c *gin.Context) {
	topic := strings.TrimSpace(c.Query("topic"))
	if topic == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("missing topic"))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	mats := h.assembler.RelatedMaterials(c.Request.Context(), topic, h.observer(userID))
	if mats == nil {
		mats = []domain.Material{}
	}
	response.RespondOK(c, gin.H{"materials": mats})
}

func (h *PlanHandler) observer(userID string) generator.Observer {
	if h.status == nil {
		return nil
	}
	return h.status.ObserverFor(userID)
}
