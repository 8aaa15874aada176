package storage

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// The persisted artifacts carry rates as bare JSON numbers, which
	// is what the dashboard reads.
	decimal.MarshalJSONWithoutQuotes = true
}

// Auction statuses derived at merge time from the record date versus
// the run's reference date.
const (
	StatusCompleted = "completed"
	StatusLive      = "live"
	StatusScheduled = "scheduled"
)

// SourceWeb tags records produced by the automated extractors, as
// opposed to manually curated entries.
const SourceWeb = "web"

// Auction is the canonical record shape every extractor emits and the
// merge engine persists. Optional fields marshal as explicit nulls to
// keep the flat-file shape stable; LiveLink is transient and only ever
// present between extraction and merge.
type Auction struct {
	ID                int     `json:"id,omitempty"`
	Title             string  `json:"title"`
	ConsignatariaName string  `json:"consignatariaName"`
	ConsignatariaSlug string  `json:"consignatariaSlug"`
	Date              string  `json:"date"`
	Time              *string `json:"time"`
	Location          string  `json:"location"`
	Province          string  `json:"province"`
	Type              string  `json:"type"`
	MainCategory      string  `json:"mainCategory"`
	EstimatedHeads    *int    `json:"estimatedHeads"`
	Description       string  `json:"description"`
	YoutubeURL        *string `json:"youtubeUrl"`
	CatalogURL        *string `json:"catalogUrl"`
	Source            string  `json:"source"`
	SourceURL         string  `json:"sourceUrl"`
	LiveLink          *string `json:"liveLink,omitempty"`
	Status            string  `json:"status,omitempty"`
}

// DollarRate is one exchange-rate quote as served by the currency API.
type DollarRate struct {
	Compra decimal.Decimal `json:"compra"`
	Venta  decimal.Decimal `json:"venta"`
}

// DollarRates holds whichever of the two rate fetches succeeded.
type DollarRates struct {
	Blue    *DollarRate
	Oficial *DollarRate
}

// MarketSeries is one named series inside the market snapshot.
type MarketSeries struct {
	Current decimal.Decimal `json:"current"`
	Prev    decimal.Decimal `json:"prev"`
	Change  decimal.Decimal `json:"change"`
	Unit    string          `json:"unit,omitempty"`
	Source  string          `json:"source,omitempty"`
}

// MarketSnapshot is the market-reference artifact. The pipeline owns
// only the two USD series and lastUpdate; every other top-level key is
// owned by unrelated processes and must survive a read-modify-write
// byte for byte, hence the raw passthrough.
type MarketSnapshot struct {
	UsdBlue    MarketSeries
	UsdOficial MarketSeries
	LastUpdate string

	extra map[string]json.RawMessage
}

// UnmarshalJSON splits the snapshot into owned series and untouched
// passthrough keys.
func (m *MarketSnapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if blue, ok := raw["usdBlue"]; ok {
		if err := json.Unmarshal(blue, &m.UsdBlue); err != nil {
			return fmt.Errorf("parse usdBlue series: %w", err)
		}
		delete(raw, "usdBlue")
	}
	if oficial, ok := raw["usdOficial"]; ok {
		if err := json.Unmarshal(oficial, &m.UsdOficial); err != nil {
			return fmt.Errorf("parse usdOficial series: %w", err)
		}
		delete(raw, "usdOficial")
	}
	if last, ok := raw["lastUpdate"]; ok {
		if err := json.Unmarshal(last, &m.LastUpdate); err != nil {
			return fmt.Errorf("parse lastUpdate: %w", err)
		}
		delete(raw, "lastUpdate")
	}

	m.extra = raw
	return nil
}

// MarshalJSON reassembles owned series and passthrough keys into one
// object.
func (m MarketSnapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.extra)+3)
	for k, v := range m.extra {
		out[k] = v
	}

	blue, err := json.Marshal(m.UsdBlue)
	if err != nil {
		return nil, err
	}
	oficial, err := json.Marshal(m.UsdOficial)
	if err != nil {
		return nil, err
	}
	last, err := json.Marshal(m.LastUpdate)
	if err != nil {
		return nil, err
	}

	out["usdBlue"] = blue
	out["usdOficial"] = oficial
	out["lastUpdate"] = last
	return json.Marshal(out)
}
