package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"remates-scraper/internal/alerting"
	"remates-scraper/internal/config"
	"remates-scraper/internal/market"
	"remates-scraper/internal/merge"
	"remates-scraper/internal/scraper"
	"remates-scraper/internal/storage"
)

// Service orchestrates one scrape-normalize-merge pass: concurrent
// extraction, reconciliation against the persisted collection, and the
// market snapshot update.
type Service struct {
	sources  []scraper.Source
	dollar   *scraper.Dollar
	store    storage.Store
	notifier alerting.Notifier
	logger   zerolog.Logger

	blueSource    string
	oficialSource string
	channels      []string
	now           func() time.Time
}

// New constructs the pipeline service.
func New(cfg *config.Config, sources []scraper.Source, dollar *scraper.Dollar, store storage.Store, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		sources:       sources,
		dollar:        dollar,
		store:         store,
		notifier:      notifier,
		logger:        logger.With().Str("component", "service").Logger(),
		blueSource:    cfg.Sources.DollarBlueURL,
		oficialSource: cfg.Sources.DollarOficialURL,
		channels:      cfg.Alerting.Channels,
		now:           time.Now,
	}
}

// ProcessRun executes one full pipeline pass. The auction feed and the
// market snapshot are independent artifacts: a failure updating one
// does not prevent the other, though any failure surfaces as a
// non-nil error for the process exit code.
func (s *Service) ProcessRun(ctx context.Context) error {
	today := s.now().UTC().Format("2006-01-02")
	s.logger.Info().Str("run_date", today).Int("sources", len(s.sources)).Msg("starting pipeline run")

	agg := scraper.Aggregate(ctx, s.sources, s.dollar, s.logger)

	feedErr := s.updateFeed(ctx, agg, today)
	snapshotErr := s.updateSnapshot(ctx, agg.Rates, today)

	if feedErr != nil {
		return feedErr
	}
	return snapshotErr
}

func (s *Service) updateFeed(ctx context.Context, agg scraper.AggregateResult, today string) error {
	existing, err := s.store.LoadAuctions(ctx)
	if err != nil {
		return fmt.Errorf("load persisted auctions: %w", err)
	}

	result := merge.Run(existing, agg.Auctions, today, scraper.CalendarSlugs)

	if dropped := result.DroppedCurated + result.DroppedScraped; dropped > 0 {
		s.logger.Warn().
			Int("curated", result.DroppedCurated).
			Int("scraped", result.DroppedScraped).
			Msg("records dropped for invalid dates")
	}
	if result.UnknownProvinces > 0 {
		s.logger.Warn().Int("count", result.UnknownProvinces).Msg("records carry provinces outside the canonical set")
	}

	if err := s.store.SaveAuctions(ctx, result.Auctions); err != nil {
		return fmt.Errorf("save auctions: %w", err)
	}

	s.logSummary(result, agg)
	s.notify(ctx, result, agg, today)
	return nil
}

func (s *Service) updateSnapshot(ctx context.Context, rates *storage.DollarRates, today string) error {
	if rates == nil {
		s.logger.Warn().Msg("no currency result; market snapshot untouched")
		return nil
	}

	snapshot, err := s.store.LoadMarketSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load market snapshot: %w", err)
	}

	updated := market.Apply(snapshot, rates, today, s.blueSource, s.oficialSource)
	if err := s.store.SaveMarketSnapshot(ctx, updated); err != nil {
		return fmt.Errorf("save market snapshot: %w", err)
	}

	event := s.logger.Info()
	if rates.Blue != nil {
		event = event.Str("usd_blue", rates.Blue.Venta.String())
	}
	if rates.Oficial != nil {
		event = event.Str("usd_oficial", rates.Oficial.Venta.String())
	}
	event.Msg("market snapshot updated")
	return nil
}

func (s *Service) logSummary(result merge.Result, agg scraper.AggregateResult) {
	provinces := make(map[string]struct{})
	consignatarias := make(map[string]struct{})
	for _, a := range result.Auctions {
		provinces[a.Province] = struct{}{}
		consignatarias[a.ConsignatariaName] = struct{}{}
	}

	names := make([]string, 0, len(provinces))
	for p := range provinces {
		names = append(names, p)
	}
	sort.Strings(names)

	event := s.logger.Info().
		Int("auctions", len(result.Auctions)).
		Int("scraped", len(agg.Auctions)).
		Int("curated", result.CuratedKept).
		Int("merged_duplicates", result.MergedDuplicates).
		Int("consignatarias", len(consignatarias)).
		Strs("provinces", names)
	if len(result.Auctions) > 0 {
		event = event.
			Str("first_date", result.Auctions[0].Date).
			Str("last_date", result.Auctions[len(result.Auctions)-1].Date)
	}
	event.Msg("feed written")
}

func (s *Service) notify(ctx context.Context, result merge.Result, agg scraper.AggregateResult, today string) {
	if s.notifier == nil {
		return
	}

	summary := alerting.RunSummary{
		RunDate:       today,
		TotalAuctions: len(result.Auctions),
		ScrapedCount:  len(agg.Auctions),
		CuratedKept:   result.CuratedKept,
		DroppedCount:  result.DroppedCurated + result.DroppedScraped,
		SourceCounts:  agg.SourceCounts,
		FailedSources: agg.Failed,
		Channels:      s.channels,
	}
	if len(result.Auctions) > 0 {
		summary.FirstDate = result.Auctions[0].Date
		summary.LastDate = result.Auctions[len(result.Auctions)-1].Date
	}
	if agg.Rates != nil {
		if agg.Rates.Blue != nil {
			venta := agg.Rates.Blue.Venta
			summary.UsdBlue = &venta
		}
		if agg.Rates.Oficial != nil {
			venta := agg.Rates.Oficial.Venta
			summary.UsdOficial = &venta
		}
	}

	if err := s.notifier.Notify(ctx, summary); err != nil {
		s.logger.Error().Err(err).Msg("failed to dispatch run summary")
	}
}
