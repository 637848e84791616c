package app

import (
	"github.com/gin-gonic/gin"

	server "github.com/yungbote/palearn-backend/internal/http"
	"github.com/yungbote/palearn-backend/internal/observability"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *server.Server {
	if cfg.LogMode != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	return server.NewServer(server.RouterConfig{
		Log:                log,
		ServiceName:        cfg.ServiceName,
		Metrics:            metrics,
		IdentityMiddleware: middleware.Identity,
		PlanHandler:        handlers.Plan,
		RecommendHandler:   handlers.Recommend,
		QuizHandler:        handlers.Quiz,
		ReviewHandler:      handlers.Review,
		HealthHandler:      handlers.Health,
	})
}
