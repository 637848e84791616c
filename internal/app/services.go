package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/palearn-backend/internal/modules/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/modules/planning/materials"
	"github.com/yungbote/palearn-backend/internal/modules/planning/steps"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
	"github.com/yungbote/palearn-backend/internal/services"
)

type Services struct {
	Planning planning.Usecases
	Plans    services.PlanService
	Status   *services.StatusTracker
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, genCfg generator.Config, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Planning: NewPlanning(log, cfg, genCfg, clients, reposet.Plan, reposet.Quiz),
		Plans:    services.NewPlanService(db, log, reposet.Plan, time.Now),
		Status:   services.NewStatusTracker(log, clients.StatusBus),
	}
}

// NewPlanning assembles the pipeline. With nil stores plans and quizzes are
// returned without being persisted.
func NewPlanning(log *logger.Logger, cfg Config, genCfg generator.Config, clients Clients, store steps.PlanAppender, quizzes steps.QuizStore) planning.Usecases {
	var chain *generator.Chain
	if clients.Invoker != nil {
		chain = generator.NewChain(clients.Invoker, genCfg, log)
	}
	resolver := materials.NewResolver(log, clients.Video, clients.Article, clients.Cache, materials.Config{
		Timeout:     cfg.SearchTimeout,
		Concurrency: cfg.MaterialsConcurrency,
	})
	return planning.New(planning.UsecasesDeps{
		Log:      log,
		Chain:    chain,
		Resolver: resolver,
		Plans:    store,
		Quizzes:  quizzes,
		Now:      time.Now,
		NewID:    uuid.NewString,
	})
}

func loadGeneratorConfig(log *logger.Logger, cfg Config) generator.Config {
	genCfg, err := generator.LoadConfig(cfg.GeneratorConfigPath, cfg.GeneratorProvider)
	if err != nil {
		log.Warn("generator config file ignored", "path", cfg.GeneratorConfigPath, "error", err)
	}
	return genCfg
}

// startStatusForwarder mirrors status events from other replicas into the
// local tracker.
func startStatusForwarder(ctx context.Context, log *logger.Logger, clients Clients, tracker *services.StatusTracker) {
	if clients.StatusBus == nil || tracker == nil {
		return
	}
	if err := clients.StatusBus.StartForwarder(ctx, tracker.Apply); err != nil {
		log.Warn("status forwarder not started", "error", err)
	}
}
