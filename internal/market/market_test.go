package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remates-scraper/internal/storage"
)

func rate(venta int64) *storage.DollarRate {
	return &storage.DollarRate{
		Compra: decimal.NewFromInt(venta - 20),
		Venta:  decimal.NewFromInt(venta),
	}
}

func TestApplyShiftsCurrentAndComputesChange(t *testing.T) {
	snapshot := storage.MarketSnapshot{
		UsdBlue: storage.MarketSeries{
			Current: decimal.NewFromInt(1000),
			Prev:    decimal.NewFromInt(950),
			Unit:    "ARS",
		},
	}
	rates := &storage.DollarRates{Blue: rate(1100)}

	got := Apply(snapshot, rates, "2026-02-26", "https://dolarapi.com/v1/dolares/blue", "")

	assert.True(t, got.UsdBlue.Current.Equal(decimal.NewFromInt(1100)), "current = %s", got.UsdBlue.Current)
	assert.True(t, got.UsdBlue.Prev.Equal(decimal.NewFromInt(1000)), "prev = %s", got.UsdBlue.Prev)
	assert.True(t, got.UsdBlue.Change.Equal(decimal.NewFromInt(10)), "change = %s", got.UsdBlue.Change)
	assert.Equal(t, "dolarapi.com/v1/dolares/blue", got.UsdBlue.Source)
	assert.Equal(t, "ARS", got.UsdBlue.Unit)
	assert.Equal(t, "2026-02-26", got.LastUpdate)
}

func TestApplyRoundsChangeToOneDecimal(t *testing.T) {
	snapshot := storage.MarketSnapshot{
		UsdBlue: storage.MarketSeries{Current: decimal.NewFromInt(1200)},
	}
	rates := &storage.DollarRates{Blue: rate(1240)}

	got := Apply(snapshot, rates, "2026-02-26", "", "")

	// 40/1200 = 3.333...%, rounded to one decimal.
	assert.Equal(t, "3.3", got.UsdBlue.Change.String())
}

func TestApplyFirstRunHasZeroChange(t *testing.T) {
	rates := &storage.DollarRates{Oficial: rate(980)}

	got := Apply(storage.MarketSnapshot{}, rates, "2026-02-26", "", "https://dolarapi.com/v1/dolares/oficial")

	assert.True(t, got.UsdOficial.Current.Equal(decimal.NewFromInt(980)))
	assert.True(t, got.UsdOficial.Prev.IsZero())
	assert.True(t, got.UsdOficial.Change.IsZero())
}

func TestApplyLeavesFailedSeriesUntouched(t *testing.T) {
	snapshot := storage.MarketSnapshot{
		UsdBlue: storage.MarketSeries{
			Current: decimal.NewFromInt(1000),
			Prev:    decimal.NewFromInt(950),
			Change:  decimal.NewFromFloat(5.3),
			Source:  "dolarapi.com/v1/dolares/blue",
		},
	}
	rates := &storage.DollarRates{Oficial: rate(980)}

	got := Apply(snapshot, rates, "2026-02-27", "", "")

	assert.True(t, got.UsdBlue.Current.Equal(decimal.NewFromInt(1000)))
	assert.True(t, got.UsdBlue.Prev.Equal(decimal.NewFromInt(950)))
	assert.Equal(t, "5.3", got.UsdBlue.Change.String())
	assert.True(t, got.UsdOficial.Current.Equal(decimal.NewFromInt(980)))
	assert.Equal(t, "2026-02-27", got.LastUpdate)
}

func TestApplyNilRatesReturnsSnapshotUnchanged(t *testing.T) {
	snapshot := storage.MarketSnapshot{
		UsdBlue:    storage.MarketSeries{Current: decimal.NewFromInt(1000)},
		LastUpdate: "2026-02-20",
	}

	got := Apply(snapshot, nil, "2026-02-26", "", "")

	require.Equal(t, "2026-02-20", got.LastUpdate)
	assert.True(t, got.UsdBlue.Current.Equal(decimal.NewFromInt(1000)))
}
