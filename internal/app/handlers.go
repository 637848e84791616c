package app

import (
	httpH "github.com/yungbote/palearn-backend/internal/http/handlers"
	httpMW "github.com/yungbote/palearn-backend/internal/http/middleware"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

type Handlers struct {
	Plan      *httpH.PlanHandler
	Recommend *httpH.RecommendHandler
	Quiz      *httpH.QuizHandler
	Review    *httpH.ReviewHandler
	Health    *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, svc Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Plan:      httpH.NewPlanHandler(log, svc.Planning, svc.Plans, svc.Status),
		Recommend: httpH.NewRecommendHandler(log, svc.Planning, svc.Status),
		Quiz:      httpH.NewQuizHandler(log, svc.Planning, svc.Status),
		Review:    httpH.NewReviewHandler(log, svc.Planning, svc.Plans, svc.Status),
		Health:    httpH.NewHealthHandler(db),
	}
}

type Middleware struct {
	Identity *httpMW.IdentityMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	return Middleware{Identity: httpMW.NewIdentityMiddleware(log, cfg.JWTSecretKey)}
}
