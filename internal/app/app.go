package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/usersync-backend/internal/data/db"
	"github.com/yungbote/usersync-backend/internal/http"
	"github.com/yungbote/usersync-backend/internal/observability"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
	"github.com/yungbote/usersync-backend/internal/platform/redisbus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services

	store        *db.Service
	server       *http.Server
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)

	store, err := db.NewService(log, cfg.Store)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init store: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("store automigrate: %w", err)
	}
	theDB := store.DB()

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = store.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(log, cfg, reposet, clients)
	handlerset := wireHandlers(log, serviceset)
	router := wireRouter(log, cfg, handlerset)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		store:        store,
		server:       http.NewServerWithEngine(router),
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background work. The only job today is tailing the event channel so
// published sync events show up in this process's logs.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Clients.EventBus != nil {
		log := a.Log.With("service", "EventTail")
		err := a.Clients.EventBus.StartForwarder(ctx, func(m redisbus.Envelope) {
			log.Debug("Event observed", "event", m.Event, "event_id", m.ID, "payload", string(m.Payload))
		})
		if err != nil {
			a.Log.Warn("Event tail not started", "error", err)
		}
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "addr", addr)
	return a.server.Run(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones up to ShutdownTimeout.
func (a *App) Shutdown() error {
	if a == nil || a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
	defer cancel()
	return a.server.Shutdown(ctx)
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
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.Log != nil {
			a.Log.Warn("Store close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("Tracer shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
