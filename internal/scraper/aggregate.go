package scraper

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"remates-scraper/internal/storage"
)

// AggregateResult collects the contributions of every source after all
// of them have settled.
type AggregateResult struct {
	Auctions     []storage.Auction
	Rates        *storage.DollarRates
	SourceCounts map[string]int
	Failed       []string
}

// Aggregate runs every auction source plus the currency extractor
// concurrently and concatenates their results in source order. A
// failed or panicking source contributes an empty list and is recorded
// in Failed; it never blocks or aborts the others.
func Aggregate(ctx context.Context, sources []Source, dollar *Dollar, logger zerolog.Logger) AggregateResult {
	logger = logger.With().Str("component", "aggregator").Logger()

	perSource := make([][]storage.Auction, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			perSource[i], errs[i] = fetchGuarded(ctx, src)
		}(i, src)
	}

	var rates *storage.DollarRates
	var ratesErr error
	if dollar != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rates, ratesErr = dollar.Fetch(ctx)
		}()
	}
	wg.Wait()

	result := AggregateResult{
		Rates:        rates,
		SourceCounts: make(map[string]int, len(sources)),
	}

	for i, src := range sources {
		if errs[i] != nil {
			logger.Warn().Str("source", src.Name()).Err(errs[i]).Msg("source failed, contributing nothing")
			result.Failed = append(result.Failed, src.Name())
			continue
		}
		result.SourceCounts[src.Name()] = len(perSource[i])
		result.Auctions = append(result.Auctions, perSource[i]...)
	}

	if ratesErr != nil {
		logger.Warn().Err(ratesErr).Msg("currency source failed, snapshot will be skipped")
		result.Failed = append(result.Failed, "dollar")
	}

	logger.Info().
		Int("auctions", len(result.Auctions)).
		Int("failed_sources", len(result.Failed)).
		Msg("aggregation settled")
	return result
}

// fetchGuarded keeps a panicking extractor from taking down the run.
func fetchGuarded(ctx context.Context, src Source) (auctions []storage.Auction, err error) {
	defer func() {
		if r := recover(); r != nil {
			auctions = nil
			err = fmt.Errorf("source panicked: %v", r)
		}
	}()
	return src.Fetch(ctx)
}
