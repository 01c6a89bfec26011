package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leadbeacon/beacon/internal/config"
	"github.com/leadbeacon/beacon/internal/core/ports"
	"github.com/leadbeacon/beacon/internal/core/report"
	"github.com/leadbeacon/beacon/internal/core/usecase"
	"github.com/leadbeacon/beacon/internal/infrastructure/providers/listing"
	"github.com/leadbeacon/beacon/internal/infrastructure/providers/probe"
	"github.com/leadbeacon/beacon/internal/infrastructure/providers/search"
	"github.com/leadbeacon/beacon/internal/infrastructure/providers/speed"
	"github.com/leadbeacon/beacon/internal/infrastructure/providers/websitescan"
	"github.com/leadbeacon/beacon/internal/infrastructure/queue/nats"
	"github.com/leadbeacon/beacon/internal/infrastructure/repository/memory"
	"github.com/leadbeacon/beacon/internal/infrastructure/repository/postgres"
	"github.com/leadbeacon/beacon/internal/infrastructure/resilience"
)

type App struct {
	Config config.Config

	Store  ports.AuditStore
	Events ports.AuditEvents

	CreateUC  ports.AuditCreator
	RefreshUC ports.AuditRefresher
	GetUC     ports.AuditReader
	RecapUC   ports.RecapPatcher
	LogUC     *usecase.LogAuditUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	store, db, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	events, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init audit events: %w", err)
	}

	thresholds := report.DefaultThresholds()
	if cfg.ThresholdsPath != "" {
		thresholds, err = report.LoadThresholds(cfg.ThresholdsPath)
		if err != nil {
			slog.Warn("thresholds_load_failed", "path", cfg.ThresholdsPath, "error", err)
		}
	}
	builder := report.NewBuilder(thresholds)

	exec := resilience.NewExecutor(resilience.DefaultConfig())
	scanner := websitescan.New(exec)
	analyzer := speed.New(exec, cfg.SpeedAPIKey)
	searchClient := search.NewClient(exec, cfg.SearchAPIKey)
	listingSource := listing.New(exec, cfg.PlacesAPIKey)
	prober := probe.New()

	createUC := usecase.NewCreateAuditUseCase(store, scanner, analyzer, searchClient, listingSource, prober, builder, events)
	refreshUC := usecase.NewRefreshAuditUseCase(store, scanner, analyzer, searchClient, listingSource, builder, cfg.RetryCeiling, cfg.CASAttempts)
	getUC := usecase.NewGetAuditUseCase(store)
	recapUC := usecase.NewPatchRecapUseCase(store, cfg.CASAttempts)

	return &App{
		Config: cfg,
		Store:  store,
		Events: events,

		CreateUC:  createUC,
		RefreshUC: refreshUC,
		GetUC:     getUC,
		RecapUC:   recapUC,

		closeFn: func() {
			events.Close()
			if db != nil {
				_ = db.Close()
			}
		},
	}, nil
}

// NewWorker wires the subset the spreadsheet worker needs: the store, the
// event subscription and the audit-log use case over the given appender.
func NewWorker(ctx context.Context, cfg config.Config, appender ports.AuditLogAppender) (*App, error) {
	store, db, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	events, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init audit events: %w", err)
	}

	return &App{
		Config: cfg,
		Store:  store,
		Events: events,
		LogUC:  usecase.NewLogAuditUseCase(store, appender),

		closeFn: func() {
			events.Close()
			if db != nil {
				_ = db.Close()
			}
		},
	}, nil
}

func openStore(ctx context.Context, cfg config.Config) (ports.AuditStore, *sql.DB, error) {
	switch cfg.StoreDriver {
	case "memory":
		return memory.NewAuditStore(), nil, nil
	case "postgres":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		store := postgres.NewAuditStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return store, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
