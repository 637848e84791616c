package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/http/response"
	"github.com/yungbote/palearn-backend/internal/modules/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
	"github.com/yungbote/palearn-backend/internal/services"
)

const (
	msgNoPlan          = "아직 학습 계획이 없습니다."
	msgNothingFinished = "어제 완료한 학습 항목이 없습니다."
)

// Reviewer finds review material for finished topics.
type Reviewer interface {
	ReviewMaterials(ctx context.Context, topics []string, obs generator.Observer) planning.ReviewOutput
}

type ReviewHandler struct {
	log      *logger.Logger
	reviewer Reviewer
	plans    services.PlanService
	status   StatusSource
}

func NewReviewHandler(log *logger.Logger, reviewer Reviewer, plans services.PlanService, status StatusSource) *ReviewHandler {
	return &ReviewHandler{
		log:      log.With("handler", "ReviewHandler"),
		reviewer: reviewer,
		plans:    plans,
		status:   status,
	}
}

// GET /review/yesterday
func (h *ReviewHandler) Yesterday(c *gin.Context) {
	topics, err := h.plans.YesterdayTopics(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	empty := func(msg string) planning.ReviewOutput {
		return planning.ReviewOutput{Materials: []domain.Material{}, Topics: []string{}, Message: msg}
	}
	if !topics.HasPlan {
		response.RespondOK(c, empty(msgNoPlan))
		return
	}
	done := topics.Completed()
	if len(done) == 0 {
		response.RespondOK(c, empty(msgNothingFinished))
		return
	}

	userID := ctxutil.UserID(c.Request.Context())
	var obs generator.Observer
	if h.status != nil {
		obs = h.status.ObserverFor(userID)
	}
	response.RespondOK(c, h.reviewer.ReviewMaterials(c.Request.Context(), done, obs))
}

// GET /review/topics
func (h *ReviewHandler) Topics(c *gin.Context) {
	topics, err := h.plans.YesterdayTopics(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, topics)
}
