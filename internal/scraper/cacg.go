package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"remates-scraper/internal/normalize"
	"remates-scraper/internal/storage"
)

// provinceByID maps the CACG numeric province identifier to the
// canonical province name.
var provinceByID = map[string]string{
	"1":  "BUENOS AIRES",
	"2":  "CATAMARCA",
	"3":  "CHACO",
	"4":  "CHUBUT",
	"5":  "CORDOBA",
	"6":  "CORRIENTES",
	"7":  "ENTRE RIOS",
	"8":  "FORMOSA",
	"9":  "JUJUY",
	"10": "LA PAMPA",
	"11": "LA RIOJA",
	"12": "MENDOZA",
	"13": "MISIONES",
	"14": "NEUQUEN",
	"15": "RIO NEGRO",
	"16": "SALTA",
	"17": "SAN JUAN",
	"18": "SAN LUIS",
	"19": "SANTA CRUZ",
	"20": "SANTA FE",
	"21": "SANTIAGO DEL ESTERO",
	"22": "TUCUMAN",
	"23": "TIERRA DEL FUEGO",
	"24": "CAPITAL FEDERAL",
}

// CACG extracts auctions from the consignatarias association API, the
// only structured source in the set.
type CACG struct {
	opts   Options
	logger zerolog.Logger
	client *http.Client
}

// NewCACG builds the structured-API extractor.
func NewCACG(opts Options, logger zerolog.Logger) *CACG {
	return &CACG{
		opts:   opts,
		logger: logger.With().Str("component", "cacg_source").Logger(),
		client: newClient(opts.Timeout),
	}
}

// Name identifies the source in logs and counts.
func (c *CACG) Name() string { return "cacg" }

type cacgResponse struct {
	Dataset struct {
		Rows []cacgRow `json:"rows"`
	} `json:"dataset"`
}

type cacgRow struct {
	Title        string `json:"auction_title"`
	Company      string `json:"company_name"`
	Date         string `json:"auction_date"`
	Time         string `json:"auction_time"`
	Mode         string `json:"auction_mode"`
	Heads        string `json:"auction_heads"`
	Notes        string `json:"auction_notes"`
	Breed        string `json:"auction_breed"`
	Destination  string `json:"auction_destination"`
	StateID      string `json:"state_id"`
	StateName    string `json:"state_name"`
	CityName     string `json:"city_name"`
	BuildingName string `json:"building_name"`
	WWW          string `json:"www"`
	LiveLink     string `json:"live_link"`
	Disabled     string `json:"auction_is_disabled"`
}

// Fetch pulls the auction dataset and maps every enabled row to a
// candidate record.
func (c *CACG) Fetch(ctx context.Context) ([]storage.Auction, error) {
	body, err := fetchBody(ctx, c.client, c.opts.URL, c.opts.UserAgent)
	if err != nil {
		return nil, err
	}

	var payload cacgResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse cacg response: %w", err)
	}

	auctions := make([]storage.Auction, 0, len(payload.Dataset.Rows))
	for _, row := range payload.Dataset.Rows {
		if row.Disabled == "1" {
			continue
		}
		auctions = append(auctions, c.mapRow(row))
	}

	c.logger.Info().Int("count", len(auctions)).Msg("cacg rows mapped")
	return auctions, nil
}

func (c *CACG) mapRow(row cacgRow) storage.Auction {
	province := provinceByID[row.StateID]
	if province == "" {
		province = strings.ToUpper(row.StateName)
	}
	if province == "" {
		province = "BUENOS AIRES"
	}

	city := row.CityName
	if city == "" {
		city = row.BuildingName
	}
	location := province
	if city != "" {
		location = city + ", " + province
	}

	title := row.Title
	if title == "" {
		title = "Remate"
	}
	company := row.Company
	if company == "" {
		company = "Sin consignataria"
	}

	auction := storage.Auction{
		Title:             title,
		ConsignatariaName: company,
		ConsignatariaSlug: normalize.Slugify(company),
		Date:              row.Date,
		Location:          location,
		Province:          province,
		Type:              normalize.AuctionType(row.Title),
		MainCategory:      normalize.MainCategory(row.Title),
		Description:       rowDescription(row),
		Source:            storage.SourceWeb,
		SourceURL:         "https://cacg.org.ar/remates",
	}

	// The sentinel 00:00 means "all day"; times arrive as HH:MM:SS.
	t := row.Time
	if len(t) > 5 {
		t = t[:5]
	}
	if t != "" && t != "00:00" {
		auction.Time = strPtr(t)
	}

	if heads := parseLeadingInt(row.Heads); heads > 0 {
		auction.EstimatedHeads = intPtr(heads)
	}

	if row.WWW != "" {
		auction.SourceURL = row.WWW
	}
	if row.LiveLink != "" {
		auction.LiveLink = strPtr(row.LiveLink)
	}

	return auction
}

func rowDescription(row cacgRow) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{row.Notes, row.Breed, row.Destination} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return row.Title
	}
	return strings.Join(parts, ". ")
}

// parseLeadingInt reads the leading digits of a free-text count such
// as "450 cab".
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		seen = true
	}
	if !seen {
		return 0
	}
	return n
}

var _ Source = (*CACG)(nil)
