package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"remates-scraper/internal/storage"
)

// Dollar fetches the parallel-market and official USD rates from two
// independent endpoints.
type Dollar struct {
	blueURL    string
	oficialURL string
	userAgent  string
	logger     zerolog.Logger
	client     *http.Client
}

// NewDollar builds the currency extractor over the two rate endpoints.
func NewDollar(blueURL, oficialURL string, opts Options, logger zerolog.Logger) *Dollar {
	return &Dollar{
		blueURL:    blueURL,
		oficialURL: oficialURL,
		userAgent:  opts.UserAgent,
		logger:     logger.With().Str("component", "dollar_source").Logger(),
		client:     newClient(opts.Timeout),
	}
}

// Fetch queries both endpoints concurrently. It returns an error only
// when both fail; a partial result carries whichever rate succeeded.
func (d *Dollar) Fetch(ctx context.Context) (*storage.DollarRates, error) {
	var (
		wg      sync.WaitGroup
		blue    *storage.DollarRate
		oficial *storage.DollarRate
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		blue = d.fetchRate(ctx, d.blueURL)
	}()
	go func() {
		defer wg.Done()
		oficial = d.fetchRate(ctx, d.oficialURL)
	}()
	wg.Wait()

	if blue == nil && oficial == nil {
		return nil, errors.New("both rate endpoints failed")
	}
	return &storage.DollarRates{Blue: blue, Oficial: oficial}, nil
}

func (d *Dollar) fetchRate(ctx context.Context, url string) *storage.DollarRate {
	body, err := fetchBody(ctx, d.client, url, d.userAgent)
	if err != nil {
		d.logger.Warn().Str("url", url).Err(err).Msg("rate fetch failed")
		return nil
	}

	var rate storage.DollarRate
	if err := json.Unmarshal(body, &rate); err != nil {
		d.logger.Warn().Str("url", url).Err(fmt.Errorf("parse rate: %w", err)).Msg("rate fetch failed")
		return nil
	}
	if rate.Venta.IsZero() {
		d.logger.Warn().Str("url", url).Msg("rate response missing venta")
		return nil
	}
	return &rate
}
