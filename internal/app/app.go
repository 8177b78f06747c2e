package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsClipper/internal/config"
	"NewsClipper/internal/infrastructure/enrich"
	"NewsClipper/internal/infrastructure/navernews"
	"NewsClipper/internal/infrastructure/notion"
	"NewsClipper/internal/infrastructure/rssnews"
	"NewsClipper/internal/infrastructure/scheduler"
	"NewsClipper/internal/infrastructure/storage"
	"NewsClipper/internal/infrastructure/telegram"
	"NewsClipper/internal/logging"
	"NewsClipper/internal/ports"
	"NewsClipper/internal/search"
	"NewsClipper/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	archive  *storage.PostgresArchive
	logger   *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	registry := search.NewRegistry()
	registry.Register(navernews.New(cfg.Search, baseLogger.With("component", "source.naver")))
	registry.Register(rssnews.New(cfg.Search, baseLogger.With("component", "source.gnews")))

	source, err := registry.Resolve(cfg.Search.Source)
	if err != nil {
		return nil, err
	}

	sinkClient := notion.New(cfg.Notion, baseLogger.With("component", "sink.notion"))

	var cleaner ports.StoreCleaner
	if cfg.Notion.ClearBeforeRun {
		cleaner = sinkClient
	}

	var covers ports.CoverResolver
	if cfg.Enrich.Enabled {
		covers = enrich.New(cfg.Enrich.PlaceholderImage, baseLogger.With("component", "enrich"))
	}

	var archive *storage.PostgresArchive
	if cfg.Database.DSN != "" {
		db, err := storage.Open(cfg.Database.DSN)
		if err != nil {
			// The archive is an audit extra; a missing database must not
			// block the clipping run.
			baseLogger.Warn("archive disabled", "error", err)
		} else {
			archive = storage.NewPostgresArchive(db)
		}
	}

	var notifier ports.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}

	deps := usecase.PipelineDeps{
		Source:         source,
		Sink:           sinkClient,
		Cleaner:        cleaner,
		Covers:         covers,
		Notifier:       notifier,
		Categories:     cfg.Categories,
		Collections:    cfg.Notion.Collections,
		ClearBeforeRun: cfg.Notion.ClearBeforeRun,
		ResultSize:     cfg.Search.ResultSize,
		Logger:         baseLogger.With("component", "pipeline"),
	}
	if archive != nil {
		deps.Archive = archive
	}

	pipeline, err := usecase.NewPipeline(deps)
	if err != nil {
		return nil, err
	}

	return &Application{cfg: cfg, pipeline: pipeline, archive: archive, logger: baseLogger}, nil
}

// Run performs a single pipeline execution, or loops daily in daemon mode.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	if a.cfg.Scheduler.Daemon {
		driver := scheduler.NewDailyScheduler(24 * time.Hour)
		sched := usecase.NewScheduler(driver, a.pipeline)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return sched.Stop(context.Background())
	}

	now := time.Now().In(a.cfg.Scheduler.Location())
	summary, err := a.pipeline.Run(ctx, now)
	if err != nil {
		return err
	}
	fmt.Print(usecase.BuildDigest(summary))

	if a.archive != nil {
		for _, cat := range a.cfg.Categories {
			count, err := a.archive.CountByCategory(ctx, cat.Key)
			if err != nil {
				a.logger.Warn("archive count", "category", cat.Key, "error", err)
				continue
			}
			a.logger.Info("archive total", "category", cat.Key, "records", count)
		}
	}
	return nil
}
