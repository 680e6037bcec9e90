package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/do/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jsamuelsen11/teamspace/internal/adapters/eventbus"
	"github.com/jsamuelsen11/teamspace/internal/adapters/persistence/sqlite"
	"github.com/jsamuelsen11/teamspace/internal/adapters/security"
	"github.com/jsamuelsen11/teamspace/internal/app"
	"github.com/jsamuelsen11/teamspace/internal/platform/config"
	"github.com/jsamuelsen11/teamspace/internal/platform/health"
	"github.com/jsamuelsen11/teamspace/internal/platform/logging"
	"github.com/jsamuelsen11/teamspace/internal/platform/telemetry"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

// cliApp holds the global flags and, once setup ran, the wired container.
type cliApp struct {
	profile   string
	configDir string
	actor     string
	jsonOut   bool

	cfg      *config.Config
	logger   *slog.Logger
	otel     *otelProviders
	injector *do.RootScope
	store    *sqlite.Store
}

// setup loads configuration and wires the dependency graph. It runs before
// every subcommand.
func (a *cliApp) setup(ctx context.Context) error {
	cfg, err := config.Load(a.profile, config.WithConfigDir(a.configDir))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	a.otel, err = initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	a.injector = do.New()
	a.registerDependencies()
	return nil
}

// teardown closes the store and flushes telemetry. Nil-safe so it can run
// after a failed setup.
func (a *cliApp) teardown(ctx context.Context) error {
	var errs []error
	// The store is opened lazily, so it is only closed when a command used it.
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing store: %w", err))
		}
		a.store = nil
	}
	if a.otel != nil {
		if err := a.otel.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		a.otel = nil
	}
	return errors.Join(errs...)
}

// context returns ctx carrying the logger scoped to command and the actor.
func (a *cliApp) context(ctx context.Context, command string) context.Context {
	return logging.WithCommand(logging.WithLogger(ctx, a.logger), command, a.actor)
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Exporter, cfg.Telemetry.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Exporter, cfg.Telemetry.Endpoint)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{tracer: tp, meter: mp, metrics: metrics}, nil
}

func (a *cliApp) registerDependencies() {
	injector, cfg, logger := a.injector, a.cfg, a.logger
	// Nil when telemetry is disabled; every consumer accepts that.
	metrics := a.otel.metrics

	do.Provide(injector, func(i do.Injector) (*sqlite.Store, error) {
		store, err := sqlite.Open(context.Background(), cfg.Store.Path, cfg.Store.BusyTimeout)
		if err != nil {
			return nil, err
		}
		a.store = store
		return store, nil
	})

	do.Provide(injector, func(i do.Injector) (*sqlite.EventJournal, error) {
		return sqlite.NewEventJournal(do.MustInvoke[*sqlite.Store](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*eventbus.Bus, error) {
		bus := eventbus.New(
			eventbus.WithMetrics(metrics),
			eventbus.WithPublishLogging(cfg.Events.LogPublished),
		)
		bus.Subscribe(eventbus.Wildcard, do.MustInvoke[*sqlite.EventJournal](i).Record)
		return bus, nil
	})

	do.Provide(injector, func(i do.Injector) (ports.PasswordHasher, error) {
		p := cfg.Security.Argon2
		return security.NewArgon2Hasher(security.Params{
			Time:    p.Time,
			Memory:  p.Memory,
			Threads: p.Threads,
			KeyLen:  p.KeyLen,
			SaltLen: p.SaltLen,
		}), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.Runtime, error) {
		store := do.MustInvoke[*sqlite.Store](i)
		bus := do.MustInvoke[*eventbus.Bus](i)
		return app.NewRuntime(sqlite.NewUnitOfWork(store), bus, logger,
			app.WithMetrics(metrics),
		), nil
	})

	registerRepositories(injector)
	registerServices(injector)

	do.Provide(injector, func(i do.Injector) (ports.HealthRegistry, error) {
		registry := health.New(health.WithTimeout(cfg.Store.BusyTimeout))
		registry.Register(do.MustInvoke[*sqlite.Store](i))
		registry.Register(do.MustInvoke[*eventbus.Bus](i))
		return registry, nil
	})
}

func registerRepositories(injector *do.RootScope) {
	do.Provide(injector, func(i do.Injector) (ports.UserRepository, error) {
		return sqlite.NewUserRepository(do.MustInvoke[*sqlite.Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (ports.WorkspaceRepository, error) {
		return sqlite.NewWorkspaceRepository(do.MustInvoke[*sqlite.Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (ports.ProjectRepository, error) {
		return sqlite.NewProjectRepository(do.MustInvoke[*sqlite.Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (ports.TaskRepository, error) {
		return sqlite.NewTaskRepository(do.MustInvoke[*sqlite.Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (ports.AvailabilityRepository, error) {
		return sqlite.NewAvailabilityRepository(do.MustInvoke[*sqlite.Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (ports.ConversationRepository, error) {
		return sqlite.NewConversationRepository(do.MustInvoke[*sqlite.Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (ports.AgentRepository, error) {
		return sqlite.NewAgentRepository(do.MustInvoke[*sqlite.Store](i)), nil
	})
}

func registerServices(injector *do.RootScope) {
	do.Provide(injector, func(i do.Injector) (ports.UserService, error) {
		return app.NewUserService(
			do.MustInvoke[*app.Runtime](i),
			do.MustInvoke[ports.UserRepository](i),
			do.MustInvoke[ports.PasswordHasher](i),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (ports.WorkspaceService, error) {
		return app.NewWorkspaceService(
			do.MustInvoke[*app.Runtime](i),
			do.MustInvoke[ports.UserRepository](i),
			do.MustInvoke[ports.WorkspaceRepository](i),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (ports.ProjectService, error) {
		return app.NewProjectService(
			do.MustInvoke[*app.Runtime](i),
			do.MustInvoke[ports.WorkspaceRepository](i),
			do.MustInvoke[ports.ProjectRepository](i),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (ports.TaskService, error) {
		return app.NewTaskService(
			do.MustInvoke[*app.Runtime](i),
			do.MustInvoke[ports.ProjectRepository](i),
			do.MustInvoke[ports.TaskRepository](i),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (ports.ChatService, error) {
		return app.NewChatService(
			do.MustInvoke[*app.Runtime](i),
			do.MustInvoke[ports.WorkspaceRepository](i),
			do.MustInvoke[ports.ConversationRepository](i),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (ports.AvailabilityService, error) {
		return app.NewAvailabilityService(
			do.MustInvoke[*app.Runtime](i),
			do.MustInvoke[ports.ProjectRepository](i),
			do.MustInvoke[ports.AvailabilityRepository](i),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (ports.AgentService, error) {
		return app.NewAgentService(do.MustInvoke[*app.Runtime](i), app.AgentRepositories{
			Workspaces:     do.MustInvoke[ports.WorkspaceRepository](i),
			Projects:       do.MustInvoke[ports.ProjectRepository](i),
			Tasks:          do.MustInvoke[ports.TaskRepository](i),
			Availabilities: do.MustInvoke[ports.AvailabilityRepository](i),
			Conversations:  do.MustInvoke[ports.ConversationRepository](i),
			Agents:         do.MustInvoke[ports.AgentRepository](i),
		}), nil
	})
}
