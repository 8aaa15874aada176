package app

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"remates-scraper/internal/alerting"
)

// NotifyTest sends a synthetic run summary through the configured
// notifier so the channel can be verified without a live scrape.
func (a *App) NotifyTest(ctx context.Context) error {
	if !a.Config.Alerting.Enabled {
		return errors.New("alerting is not enabled")
	}

	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("no notification channel configured")
	}

	blue := decimal.NewFromInt(1000)
	summary := alerting.RunSummary{
		RunDate:       time.Now().UTC().Format("2006-01-02"),
		TotalAuctions: 2,
		ScrapedCount:  1,
		CuratedKept:   1,
		FailedSources: []string{"lehmann"},
		UsdBlue:       &blue,
		FirstDate:     "2026-03-01",
		LastDate:      "2026-03-02",
		Channels:      a.Config.Alerting.Channels,
	}
	return notifier.Notify(ctx, summary)
}
