package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/palearn-backend/internal/http/response"
	"github.com/yungbote/palearn-backend/internal/modules/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

const (
	defaultSkill = "programming"
	defaultLevel = "초급"
)

type RecommendHandler struct {
	log       *logger.Logger
	assembler Assembler
	status    StatusSource
}

func NewRecommendHandler(log *logger.Logger, assembler Assembler, status StatusSource) *RecommendHandler {
	return &RecommendHandler{
		log:       log.With("handler", "RecommendHandler"),
		assembler: assembler,
		status:    status,
	}
}

// GET /recommend/courses?skill=&level=
func (h *RecommendHandler) Courses(c *gin.Context) {
	skill := strings.TrimSpace(c.DefaultQuery("skill", defaultSkill))
	if skill == "" {
		skill = defaultSkill
	}
	level := strings.TrimSpace(c.DefaultQuery("level", defaultLevel))
	if level == "" {
		level = defaultLevel
	}
	userID := ctxutil.UserID(c.Request.Context())

	var obs generator.Observer
	if h.status != nil {
		obs = h.status.ObserverFor(userID)
	}
	recs := h.assembler.RecommendCourses(c.Request.Context(), planning.RecommendInput{
		Skill:    skill,
		Level:    level,
		Observer: obs,
	})
	response.RespondOK(c, recs)
}

// GET /recommend/search_status
func (h *RecommendHandler) SearchStatus(c *gin.Context) {
	if h.status == nil {
		response.RespondOK(c, generator.Status{Phase: generator.PhaseIdle})
		return
	}
	response.RespondOK(c, h.status.Current(ctxutil.UserID(c.Request.Context())))
}

type selectCourseRequest struct {
	CourseID string `json:"course_id" binding:"required"`
}

// POST /recommend/select only acknowledges the choice; the client sends
// the full course to apply_recommendation.
func (h *RecommendHandler) Select(c *gin.Context) {
	var req selectCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	h.log.Info("course selected", "user_id", ctxutil.UserID(c.Request.Context()), "course_id", req.CourseID)
	response.RespondOK(c, gin.H{"success": true, "message": "강좌가 선택되었습니다."})
}
