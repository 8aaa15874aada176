// Package market applies a fetched currency result to the persisted
// market-reference snapshot.
package market

import (
	"strings"

	"github.com/shopspring/decimal"

	"remates-scraper/internal/storage"
)

var hundred = decimal.NewFromInt(100)

// Apply writes the two pipeline-owned USD series into the snapshot:
// current shifts to prev, the fetched sell rate becomes current, and
// change is the percent delta rounded to one decimal (zero when no
// prior value existed). A series whose fetch failed is left entirely
// untouched. lastUpdate is set to the run date.
func Apply(snapshot storage.MarketSnapshot, rates *storage.DollarRates, today string, blueSource, oficialSource string) storage.MarketSnapshot {
	if rates == nil {
		return snapshot
	}

	if rates.Blue != nil {
		snapshot.UsdBlue = updateSeries(snapshot.UsdBlue, rates.Blue.Venta, blueSource)
	}
	if rates.Oficial != nil {
		snapshot.UsdOficial = updateSeries(snapshot.UsdOficial, rates.Oficial.Venta, oficialSource)
	}
	snapshot.LastUpdate = today

	return snapshot
}

func updateSeries(series storage.MarketSeries, venta decimal.Decimal, source string) storage.MarketSeries {
	prev := series.Current
	series.Prev = prev
	series.Current = venta

	if prev.IsZero() {
		series.Change = decimal.Zero
	} else {
		series.Change = venta.Sub(prev).Div(prev).Mul(hundred).Round(1)
	}

	if source != "" {
		series.Source = trimScheme(source)
	}
	return series
}

func trimScheme(url string) string {
	url = strings.TrimPrefix(url, "https://")
	return strings.TrimPrefix(url, "http://")
}
