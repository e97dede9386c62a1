package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"HNDigest/internal/comments"
	"HNDigest/internal/config"
	"HNDigest/internal/infrastructure/archive"
	"HNDigest/internal/infrastructure/extract"
	"HNDigest/internal/infrastructure/hackernews"
	"HNDigest/internal/infrastructure/llm"
	"HNDigest/internal/infrastructure/notion"
	"HNDigest/internal/infrastructure/scheduler"
	"HNDigest/internal/logging"
	"HNDigest/internal/summarize"
	"HNDigest/internal/usecase"
)

// Application wires configuration into both batch use cases.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	digest   *usecase.Digest
	archive  *archive.SQLiteArchive
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source := hackernews.NewClient(cfg.Source.BaseURL, nil)
	extractor := extract.New(&http.Client{Timeout: cfg.Extractor.Timeout}, baseLogger.With("component", "extractor"))
	collector := comments.NewCollector(source)
	summarizer := summarize.New(llm.NewOpenAIClient(cfg.Summarizer))
	store := notion.NewClient(cfg.Store)

	var arch *archive.SQLiteArchive
	if cfg.Archive.Path != "" {
		opened, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		arch = opened
	}

	deps := usecase.PipelineDeps{
		Source:     source,
		Extractor:  extractor,
		Collector:  collector,
		Summarizer: summarizer,
		Store:      store,
		TopLimit:   cfg.Source.TopLimit,
		Logger:     baseLogger.With("component", "pipeline"),
	}
	if arch != nil {
		deps.Archive = arch
	}

	digest := usecase.NewDigest(usecase.DigestDeps{
		Store:      store,
		WindowDays: cfg.Digest.WindowDays,
		Logger:     baseLogger.With("component", "digest"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		pipeline: usecase.NewPipeline(deps),
		digest:   digest,
		archive:  arch,
	}, nil
}

// CronExpression exposes the configured collection schedule, if any.
func (a *Application) CronExpression() string {
	return a.cfg.Scheduler.CronExpression
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.archive != nil {
		return a.archive.Close()
	}
	return nil
}

// RunCollect executes one collection run to completion.
func (a *Application) RunCollect(ctx context.Context) error {
	return a.pipeline.Collect(ctx)
}

// RunDigest composes and publishes one digest document.
func (a *Application) RunDigest(ctx context.Context) error {
	return a.digest.Run(ctx)
}

// RunScheduled wraps the collection run in a cron loop and blocks until a
// termination signal arrives.
func (a *Application) RunScheduled(ctx context.Context, cronExpression string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	driver := scheduler.NewCronScheduler(cronExpression)
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("collection scheduled", "cron", cronExpression)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	a.logger.Info("shutting down", "signal", sig.String())

	cancel()
	return sched.Stop(context.Background())
}
