package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"remates-scraper/internal/alerting"
	"remates-scraper/internal/config"
	"remates-scraper/internal/scheduler"
	"remates-scraper/internal/scraper"
	"remates-scraper/internal/service"
	"remates-scraper/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI
// commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newSources() ([]scraper.Source, *scraper.Dollar) {
	src := a.Config.Sources
	base := func(url string) scraper.Options {
		return scraper.Options{
			URL:       url,
			Timeout:   src.RequestTimeout,
			UserAgent: src.UserAgent,
		}
	}

	sources := []scraper.Source{
		scraper.NewCACG(base(src.CACGURL), a.Logger),
		scraper.NewColombo(base(src.ColomboURL), a.Logger),
		scraper.NewOFarrell(base(src.OFarrellURL), a.Logger),
		scraper.NewLehmann(base(src.LehmannURL), a.Logger),
		scraper.NewMadelan(base(src.MadelanURL), a.Logger),
	}

	dollar := scraper.NewDollar(src.DollarBlueURL, src.DollarOficialURL, scraper.Options{
		Timeout:   src.RequestTimeout,
		UserAgent: src.UserAgent,
	}, a.Logger)

	return sources, dollar
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Enabled && a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

// openStore picks the persistence adapter: Postgres when a DSN is
// configured, the flat-file store otherwise.
func (a *App) openStore(ctx context.Context) (storage.Store, func(), error) {
	if a.Config.Database.DSN != "" {
		pool, err := storage.NewPool(ctx, a.Config.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := storage.NewRepository(pool)
		return repo, repo.Close, nil
	}

	store := storage.NewFileStore(a.Config.Data.AuctionsPath, a.Config.Data.MarketPath)
	return store, nil, nil
}

func (a *App) newService(store storage.Store) *service.Service {
	sources, dollar := a.newSources()
	return service.New(a.Config, sources, dollar, store, a.newNotifier(), a.Logger)
}

// Scrape executes a single pipeline run, the short-lived batch entry
// point.
func (a *App) Scrape(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	return a.newService(store).ProcessRun(ctx)
}

// Run executes the pipeline on the configured cadence until
// interrupted.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToBucket,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	svc := a.newService(store)

	a.Logger.Info().Dur("interval", a.Config.Scheduler.Interval).Msg("starting scrape daemon")
	err = sched.Run(ctx, func(ctx context.Context, _ time.Time) error {
		return svc.ProcessRun(ctx)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("daemon terminated with error")
		return err
	}

	a.Logger.Info().Msg("scrape daemon stopped")
	return nil
}

// ExportOptions hold parameters for exporting the persisted feed.
type ExportOptions struct {
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}
