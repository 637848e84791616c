package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/http/response"
	"github.com/yungbote/palearn-backend/internal/modules/planning"
	"github.com/yungbote/palearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

// Quizzer is the quiz side of planning.Usecases.
type Quizzer interface {
	QuizItems(ctx context.Context, in planning.QuizInput) []domain.QuizItem
	GradeQuiz(ctx context.Context, userID string, answers []domain.QuizAnswer) (domain.QuizGrade, error)
}

type QuizHandler struct {
	log     *logger.Logger
	quizzes Quizzer
	status  StatusSource
}

func NewQuizHandler(log *logger.Logger, quizzes Quizzer, status StatusSource) *QuizHandler {
	return &QuizHandler{
		log:     log.With("handler", "QuizHandler"),
		quizzes: quizzes,
		status:  status,
	}
}

// GET /quiz/items?skill=&level=&limit=
func (h *QuizHandler) Items(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	in := planning.QuizInput{
		UserID: userID,
		Skill:  strings.TrimSpace(c.DefaultQuery("skill", "general")),
		Level:  strings.TrimSpace(c.DefaultQuery("level", domain.LevelBeginner)),
		Limit:  limit,
	}
	if h.status != nil {
		in.Observer = h.status.ObserverFor(userID)
	}
	response.RespondOK(c, h.quizzes.QuizItems(c.Request.Context(), in))
}

type gradeQuizRequest struct {
	Answers []domain.QuizAnswer `json:"answers"`
}

// POST /quiz/grade
func (h *QuizHandler) Grade(c *gin.Context) {
	var req gradeQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	grade, err := h.quizzes.GradeQuiz(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req.Answers)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, grade)
}
