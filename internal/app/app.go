package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"NewsChecker/internal/config"
	"NewsChecker/internal/infrastructure/fetcher"
	"NewsChecker/internal/infrastructure/linkcheck"
	"NewsChecker/internal/infrastructure/parser"
	"NewsChecker/internal/infrastructure/scheduler"
	"NewsChecker/internal/infrastructure/storage"
	"NewsChecker/internal/infrastructure/telegram"
	"NewsChecker/internal/infrastructure/web"
	"NewsChecker/internal/logging"
	"NewsChecker/internal/metrics"
	"NewsChecker/internal/ports"
	"NewsChecker/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	store     *storage.SQLRepository
	metrics   *metrics.Recorder
	crawler   *usecase.Crawler
	scheduler *usecase.Scheduler
}

// New opens the database and builds every adapter from cfg.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	dialect, err := storage.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(ctx, dialect, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	store := storage.NewSQLRepository(db, dialect)

	recorder := metrics.New()
	layout := parser.Layout(cfg.Crawler.Layout)
	extractor, err := parser.NewDetailExtractor(layout, parser.RussianMonths)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	pages := fetcher.New(&http.Client{Timeout: cfg.Crawler.Timeout}, cfg.Crawler.UserAgent, cfg.Crawler.MaxBodyBytes)
	listing := parser.NewListingSource(pages, cfg.Crawler.ListingURL, cfg.Crawler.BaseURL, layout,
		baseLogger.With("component", "listing"))

	classifier := linkcheck.New(&http.Client{Timeout: cfg.Crawler.ProbeTimeout}, linkcheck.Options{
		BaseURL:   cfg.Crawler.BaseURL,
		Timeout:   cfg.Crawler.ProbeTimeout,
		HostDelay: cfg.Crawler.HostDelay,
		UserAgent: cfg.Crawler.UserAgent,
	}, baseLogger.With("component", "linkcheck"))

	detail := usecase.NewDetailProcessor(usecase.DetailDeps{
		Store:      store,
		Fetcher:    pages,
		Extractor:  extractor,
		Classifier: classifier,
		Metrics:    recorder,
		Logger:     baseLogger.With("component", "detail"),
	})

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.Enabled() {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID, tg.APIBase, nil)
	}

	crawler := usecase.NewCrawler(usecase.CrawlerDeps{
		Store:    store,
		Listing:  listing,
		Detail:   detail,
		Notifier: notifier,
		Metrics:  recorder,
		Logger:   baseLogger.With("component", "crawler"),
		Workers:  cfg.Crawler.Workers,
	})

	driver, err := scheduler.NewCronScheduler(scheduler.Options{
		Expression: cfg.Scheduler.CronExpression,
		Location:   cfg.Scheduler.Location(),
		RunOnStart: cfg.Scheduler.RunOnStart,
	}, baseLogger.With("component", "cron"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		store:     store,
		metrics:   recorder,
		crawler:   crawler,
		scheduler: usecase.NewScheduler(driver, crawler, baseLogger.With("component", "scheduler")),
	}, nil
}

// Close releases the database.
func (a *Application) Close() error {
	return a.db.Close()
}

// Migrate creates the schema if it does not exist.
func (a *Application) Migrate(ctx context.Context) error {
	if err := a.store.Migrate(ctx); err != nil {
		return err
	}
	a.logger.Info("schema ready", "driver", a.cfg.Database.Driver)
	return nil
}

// Parse performs one listing crawl followed by one detail check.
func (a *Application) Parse(ctx context.Context) error {
	started, err := a.scheduler.RunNow(ctx)
	if !started {
		return errors.New("a parse run is already in progress")
	}
	return err
}

// Listing runs only the listing crawl.
func (a *Application) Listing(ctx context.Context) (usecase.ListingReport, error) {
	return a.crawler.RunListingCrawl(ctx)
}

// Check runs only the detail check of unchecked articles.
func (a *Application) Check(ctx context.Context) (usecase.DetailReport, error) {
	return a.crawler.RunDetailCheck(ctx)
}

// Serve exposes the HTTP endpoints and runs the cron schedule until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := web.NewRouter(web.Deps{
		RunContext:  ctx,
		Trigger:     a.scheduler,
		BrokenLinks: a.store,
		Metrics:     a.metrics.Handler(),
		Logger:      a.logger.With("component", "http"),
	})

	server := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	a.logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("stop scheduler: %w", err))
	}
	return runErr
}

func (a *Application) shutdownTimeout() time.Duration {
	if a.cfg.HTTP.ShutdownTimeout > 0 {
		return a.cfg.HTTP.ShutdownTimeout
	}
	return 15 * time.Second
}
