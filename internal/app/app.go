package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsAggregator/internal/config"
	"NewsAggregator/internal/credibility"
	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/infrastructure/extract"
	"NewsAggregator/internal/infrastructure/llm"
	"NewsAggregator/internal/infrastructure/scheduler"
	"NewsAggregator/internal/infrastructure/search"
	"NewsAggregator/internal/infrastructure/storage"
	"NewsAggregator/internal/infrastructure/telegram"
	"NewsAggregator/internal/logging"
	"NewsAggregator/internal/ports"
	"NewsAggregator/internal/provider"
	"NewsAggregator/internal/transport/httpapi"
	"NewsAggregator/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	digester *usecase.Digester
	archive  *storage.SQLiteArchive
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	registry := buildRegistry(cfg.Providers)
	if len(registry.Names()) == 0 {
		baseLogger.Warn("no search providers configured; set NEWS_API_KEY, GNEWS_API_KEY or enable rss")
	}

	searcher := search.NewAggregator(registry, cfg.Providers.Order, cfg.Pipeline.Language,
		baseLogger.With("component", "search"))
	extractor := extract.NewExtractor(cfg.Extractor, nil, baseLogger.With("component", "extract"))

	var generator ports.TextGenerator
	if cfg.LLM.APIKey != "" {
		generator = llm.NewChatClient(cfg.LLM)
	} else {
		baseLogger.Warn("no text generation key configured; summaries will be skipped")
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Searcher:      searcher,
		Extractor:     extractor,
		Analyzer:      credibility.NewAnalyzer(nil),
		Generator:     generator,
		MaxResults:    cfg.Pipeline.MaxResults,
		ContextSuffix: cfg.Pipeline.ContextSuffix,
		RunTimeout:    cfg.Pipeline.RunTimeout,
		Logger:        baseLogger.With("component", "pipeline"),
	})

	a := &Application{cfg: cfg, logger: baseLogger}

	deps := usecase.DigestDeps{
		Runner: pipeline,
		Logger: baseLogger.With("component", "digest"),
	}
	if cfg.Archive.Path != "" {
		archive, err := storage.OpenSQLiteArchive(cfg.Archive.Path)
		if err != nil {
			return nil, fmt.Errorf("open run archive: %w", err)
		}
		a.archive = archive
		deps.Archive = archive
	}
	if notifier := telegram.NewNotifier(cfg.Telegram, nil); notifier.Configured() {
		deps.Notifier = notifier
	}

	a.digester = usecase.NewDigester(deps)
	return a, nil
}

func buildRegistry(cfg config.ProviderConfig) *provider.Registry {
	registry := provider.NewRegistry()
	if cfg.NewsAPI.APIKey != "" {
		registry.Register(search.NewNewsAPIProvider(cfg.NewsAPI, nil))
	}
	if cfg.GNews.APIKey != "" {
		registry.Register(search.NewGNewsProvider(cfg.GNews, nil))
	}
	if cfg.RSS.Enabled {
		registry.Register(search.NewRSSProvider(cfg.RSS, nil))
	}
	return registry
}

// Digest runs the pipeline once for query.
func (a *Application) Digest(ctx context.Context, query string) (domain.RunState, error) {
	return a.digester.Digest(ctx, query)
}

// Watch re-runs query every configured interval until ctx is cancelled.
func (a *Application) Watch(ctx context.Context, query string, onRun func(domain.RunState)) error {
	driver := scheduler.NewIntervalScheduler(a.cfg.Watch.Interval)
	watcher := usecase.NewWatcher(driver, a.digester, query, a.logger.With("component", "watch"))
	if err := watcher.Start(ctx, onRun); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return watcher.Stop(stopCtx)
}

// History lists archived runs, newest first.
func (a *Application) History(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if a.archive == nil {
		return nil, fmt.Errorf("run archive is disabled; set ARCHIVE_PATH")
	}
	return a.archive.RecentRuns(ctx, limit)
}

// Serve runs the HTTP API until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	var archive ports.RunArchive
	if a.archive != nil {
		archive = a.archive
	}
	srv := httpapi.NewServer(a.digester, archive, a.logger.With("component", "http"))
	return srv.Run(ctx, a.cfg.Server.Addr)
}

// Close releases the run archive.
func (a *Application) Close() error {
	if a.archive == nil {
		return nil
	}
	return a.archive.Close()
}
