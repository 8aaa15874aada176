package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	dir := t.TempDir()
	return NewFileStore(filepath.Join(dir, "remates.json"), filepath.Join(dir, "market-prices.json"))
}

func TestFileStoreAuctionsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	heads := 3000
	auctionTime := "14:00"
	in := []Auction{
		{
			ID:                1,
			Title:             "Remate Madelan",
			ConsignatariaName: "Madelan SA",
			ConsignatariaSlug: "madelan",
			Date:              "2026-03-02",
			Time:              &auctionTime,
			Location:          "Resistencia, Chaco",
			Province:          "CHACO",
			Type:              "general",
			MainCategory:      "mixto",
			EstimatedHeads:    &heads,
			Source:            SourceWeb,
			SourceURL:         "https://madelan.com.ar/proximos",
			Status:            StatusScheduled,
		},
		{
			ID:                2,
			Title:             "Remate",
			ConsignatariaName: "CACG",
			ConsignatariaSlug: "cacg",
			Date:              "2026-03-05",
			Source:            SourceWeb,
			Status:            StatusScheduled,
		},
	}

	require.NoError(t, store.SaveAuctions(ctx, in))

	out, err := store.LoadAuctions(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFileStoreWritesPrettyJSONWithTrailingNewline(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveAuctions(context.Background(), []Auction{{ID: 1, Title: "Remate"}}))

	data, err := os.ReadFile(store.auctionsPath)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasSuffix(text, "\n"), "file must end with a newline")
	assert.Contains(t, text, "\n  {", "array entries must be indented")
	// Absent optional fields serialize as explicit nulls.
	assert.Contains(t, text, `"time": null`)
	assert.Contains(t, text, `"estimatedHeads": null`)
	assert.NotContains(t, text, "liveLink")
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveAuctions(context.Background(), []Auction{}))

	entries, err := os.ReadDir(filepath.Dir(store.auctionsPath))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "remates.json", entries[0].Name())
}

func TestFileStoreMissingFilesMeanFirstRun(t *testing.T) {
	store := newTestStore(t)

	auctions, err := store.LoadAuctions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, auctions)

	snapshot, err := store.LoadMarketSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshot.LastUpdate)
}

func TestFileStoreSnapshotPreservesForeignKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := `{
  "novillito": {"current": 2950.5, "unit": "ARS/kg"},
  "ternero": {"current": 3400, "unit": "ARS/kg"},
  "usdBlue": {"current": 1000, "prev": 950, "change": 5.3, "unit": "ARS"},
  "lastUpdate": "2026-02-20"
}`
	require.NoError(t, os.WriteFile(store.marketPath, []byte(seed), 0o644))

	snapshot, err := store.LoadMarketSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snapshot.UsdBlue.Current.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "2026-02-20", snapshot.LastUpdate)

	snapshot.UsdBlue.Prev = snapshot.UsdBlue.Current
	snapshot.UsdBlue.Current = decimal.NewFromInt(1100)
	snapshot.LastUpdate = "2026-02-26"
	require.NoError(t, store.SaveMarketSnapshot(ctx, snapshot))

	data, err := os.ReadFile(store.marketPath)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	// Keys owned by other processes survive the read-modify-write.
	assert.JSONEq(t, `{"current": 2950.5, "unit": "ARS/kg"}`, string(raw["novillito"]))
	assert.JSONEq(t, `{"current": 3400, "unit": "ARS/kg"}`, string(raw["ternero"]))
	assert.JSONEq(t, `"2026-02-26"`, string(raw["lastUpdate"]))

	var blue MarketSeries
	require.NoError(t, json.Unmarshal(raw["usdBlue"], &blue))
	assert.True(t, blue.Current.Equal(decimal.NewFromInt(1100)))
	assert.True(t, blue.Prev.Equal(decimal.NewFromInt(1000)))
}

func TestMarketSnapshotMarshalsRatesAsNumbers(t *testing.T) {
	snapshot := MarketSnapshot{
		UsdBlue: MarketSeries{
			Current: decimal.NewFromInt(1100),
			Prev:    decimal.NewFromInt(1000),
			Change:  decimal.NewFromFloat(10.0),
		},
	}

	data, err := json.Marshal(snapshot)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"current":1100`)
	assert.NotContains(t, string(data), `"1100"`)
}
