package commands

import (
	"context"
	"fmt"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/yuchan1120/task-manager-cli/internal/api"
	"github.com/yuchan1120/task-manager-cli/internal/cache"
	"github.com/yuchan1120/task-manager-cli/internal/config"
	"github.com/yuchan1120/task-manager-cli/internal/logger"
	"github.com/yuchan1120/task-manager-cli/internal/overdue"
	"github.com/yuchan1120/task-manager-cli/internal/session"
	"github.com/yuchan1120/task-manager-cli/internal/telemetry"
	"github.com/yuchan1120/task-manager-cli/internal/tokenstore"
)

// App wires the client components for one CLI invocation: config, logger,
// session store, API client, and the entity caches.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Session *session.Store
	Client  *api.Client
	Tasks   *cache.TaskCache
	Tags    *cache.TagCache
	Overdue *overdue.Monitor

	tracerProvider *sdktrace.TracerProvider
}

// NewApp builds the component graph from configuration.
func NewApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Debug || flagDebug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &App{Config: cfg, Logger: log}

	if cfg.OTELEnabled && cfg.OTELEndpoint != "" {
		tp, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint)
		if err != nil {
			log.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
		} else {
			app.tracerProvider = tp
		}
	}

	tokens := tokenstore.New(cfg.TokenPath)
	app.Session = session.New(tokens, log)
	app.Client = api.New(cfg.BaseURL, app.Session, api.WithLogger(log))
	app.Session.SetAPI(app.Client)
	app.Tasks = cache.NewTaskCache(app.Client, log)
	app.Tags = cache.NewTagCache(app.Client, log)
	app.Overdue = overdue.NewMonitor()

	return app, nil
}

// Close flushes the logger and shuts down trace export.
func (a *App) Close() {
	if a.tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(ctx, a.tracerProvider); err != nil {
			a.Logger.Warn("failed_to_shutdown_otel_tracer", zap.Error(err))
		}
	}
	_ = logger.Sync(a.Logger)
}

// RequireSession restores the persisted session and fails when no valid
// session exists.
func (a *App) RequireSession(ctx context.Context) error {
	if err := a.Session.Bootstrap(ctx); err != nil {
		return err
	}
	if !a.Session.IsAuthenticated() {
		return fmt.Errorf("not logged in (run 'taskman login')")
	}
	return nil
}
