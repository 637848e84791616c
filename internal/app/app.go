package app

import (
	"context"
	"fmt"
	"net"

	"gorm.io/gorm"

	dbpkg "github.com/yungbote/palearn-backend/internal/data/db"
	server "github.com/yungbote/palearn-backend/internal/http"
	"github.com/yungbote/palearn-backend/internal/observability"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *server.Server
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services

	metrics      *observability.Metrics
	dbService    *dbpkg.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	cfg := LoadConfig(nil)
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg = LoadConfig(log)

	metrics := observability.Init(log)
	otelShutdown := observability.InitTracing(ctx, log, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})

	dbService, err := dbpkg.NewService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("db automigrate: %w", err)
	}
	theDB := dbService.DB()
	sqlDB, err := theDB.DB()
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("db handle: %w", err)
	}

	genCfg := loadGeneratorConfig(log, cfg)
	clients := wireClients(ctx, log, cfg, genCfg, true)
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, genCfg, clients, reposet)
	handlerset := wireHandlers(log, serviceset, sqlDB)
	middleware := wireMiddleware(log, cfg)
	srv := wireRouter(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       srv,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		metrics:      metrics,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	startStatusForwarder(ctx, a.Log, a.Clients, a.Services.Status)
	a.metrics.StartSLOEvaluator(ctx, a.Log)
}

// Run serves HTTP until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := net.JoinHostPort("", a.Cfg.Port)
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Run(ctx, addr, a.Cfg.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close(a.Log)
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("db close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

// NewOffline builds the pipeline for one-shot CLI use: no store, no redis,
// no HTTP.
func NewOffline(ctx context.Context, log *logger.Logger) Services {
	cfg := LoadConfig(log)
	genCfg := loadGeneratorConfig(log, cfg)
	clients := wireClients(ctx, log, cfg, genCfg, false)
	return Services{Planning: NewPlanning(log, cfg, genCfg, clients, nil, nil)}
}
