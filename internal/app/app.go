package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/data/db"
	apphttp "github.com/yungbote/aura-backend/internal/http"
	httpMW "github.com/yungbote/aura-backend/internal/http/middleware"
	"github.com/yungbote/aura-backend/internal/observability"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/prompts"
	"github.com/yungbote/aura-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics
	SSEHub   *realtime.SSEHub
	Server   *apphttp.Server

	dbService    *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New builds the application from the environment: logger, database,
// clients, services and the HTTP server.
func New(ctx context.Context) (*App, error) {
	log, err := logger.New(logModeFromEnv())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	dbs, err := db.NewService(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := dbs.AutoMigrateAll(); err != nil {
			_ = dbs.Close()
			log.Sync()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	metrics := observability.NewMetrics()
	clients, err := wireClients(ctx, log, cfg, metrics)
	if err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}

	a, err := assemble(log, dbs.DB(), cfg, clients, metrics)
	if err != nil {
		clients.Close()
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}
	a.dbService = dbs
	a.otelShutdown = otelShutdown
	return a, nil
}

// assemble wires repos, services, handlers and the router on an open
// database and prepared clients.
func assemble(log *logger.Logger, gdb *gorm.DB, cfg Config, clients Clients, metrics *observability.Metrics) (*App, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}

	hub := realtime.NewSSEHub(log)
	events := realtime.NewEmitter(log, hub, clients.Bus)

	reposet := wireRepos(gdb, log)
	deps := serviceDeps{
		LLM:        clients.LLM,
		Prompts:    prompts.NewRegistry(),
		Sources:    clients.Sources,
		MaxResults: cfg.MaxPapersPerQuery,
		Events:     events,
	}
	if metrics != nil {
		deps.SearchObserver = metrics
	}
	serviceset := wireServices(gdb, log, reposet, deps)
	handlerset := wireHandlers(log, sqlDB, serviceset, hub)

	tracing := ""
	if cfg.Otel.Enabled {
		tracing = cfg.Otel.ServiceName
	}
	server := wireRouter(log, handlerset, routerDeps{
		Metrics:        metrics,
		Sessions:       httpMW.NewSessions(log, cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies),
		AllowedOrigins: cfg.AllowedOrigins,
		TracingService: tracing,
	})

	return &App{
		Log:      log,
		DB:       gdb,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Clients:  clients,
		Metrics:  metrics,
		SSEHub:   hub,
		Server:   server,
	}, nil
}

// Start launches background work: the Redis forwarder that replays events
// published by other replicas into the local hub.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.Clients.Bus != nil {
		if err := a.Clients.Bus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("start event forwarder: %w", err)
		}
		a.Log.Info("Redis event forwarder started", "channel", a.Cfg.Redis.Channel)
	}
	return nil
}

// Run starts background work and serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	addr := ":" + a.Cfg.Port
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
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
