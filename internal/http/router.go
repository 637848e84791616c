package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/palearn-backend/internal/http/handlers"
	httpMW "github.com/yungbote/palearn-backend/internal/http/middleware"
	"github.com/yungbote/palearn-backend/internal/observability"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log                *logger.Logger
	ServiceName        string
	Metrics            *observability.Metrics
	IdentityMiddleware *httpMW.IdentityMiddleware

	PlanHandler      *httpH.PlanHandler
	RecommendHandler *httpH.RecommendHandler
	QuizHandler      *httpH.QuizHandler
	ReviewHandler    *httpH.ReviewHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
		r.GET("/metrics", cfg.HealthHandler.Metrics)
	}

	protected := r.Group("/")
	if cfg.IdentityMiddleware != nil {
		protected.Use(cfg.IdentityMiddleware.RequireUser())
	}

	// Plans
	if cfg.PlanHandler != nil {
		protected.POST("/plan/apply_recommendation", cfg.PlanHandler.ApplyRecommendation)

		protected.POST("/plans/generate", cfg.PlanHandler.GeneratePlan)
		protected.GET("/plans", cfg.PlanHandler.TaskTitles)
		protected.GET("/plans/all", cfg.PlanHandler.ListPlans)
		protected.GET("/plans/review", cfg.PlanHandler.CompletedYesterday)
		protected.GET("/plans/yesterday_review", cfg.PlanHandler.YesterdayReview)
		protected.GET("/plans/date/:date", cfg.PlanHandler.DayPlan)
		protected.POST("/plans/task/update", cfg.PlanHandler.UpdateTask)
		protected.GET("/plans/related_materials", cfg.PlanHandler.RelatedMaterials)
	}

	// Recommendations
	if cfg.RecommendHandler != nil {
		protected.GET("/recommend/courses", cfg.RecommendHandler.Courses)
		protected.GET("/recommend/search_status", cfg.RecommendHandler.SearchStatus)
		protected.POST("/recommend/select", cfg.RecommendHandler.Select)
	}

	// Quiz
	if cfg.QuizHandler != nil {
		protected.GET("/quiz/items", cfg.QuizHandler.Items)
		protected.POST("/quiz/grade", cfg.QuizHandler.Grade)
	}

	// Review
	if cfg.ReviewHandler != nil {
		protected.GET("/review/yesterday", cfg.ReviewHandler.Yesterday)
		protected.GET("/review/topics", cfg.ReviewHandler.Topics)
	}

	return r
}
