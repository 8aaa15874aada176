package scraper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"remates-scraper/internal/normalize"
	"remates-scraper/internal/storage"
)

const (
	colomboName = "Colombo y Colombo SA"
	colomboSlug = "colombo-y-colombo"
)

// Event dates on the Colombo calendar are spread over separate
// day/month/year markup fragments with no shared container, so the
// extractor runs one scan per fragment kind and zips the match lists
// by index. The page emits the lists in matching order; the shortest
// list bounds the trustworthy record count, and any residual
// misalignment is a known accuracy limitation rather than something to
// repair by guessing.
var (
	colomboDayPattern      = regexp.MustCompile(`class="day">(\d+)`)
	colomboMonthPattern    = regexp.MustCompile(`month_(\d{2})_ar`)
	colomboYearPattern     = regexp.MustCompile(`class="year">(\d{4})`)
	colomboTitlePattern    = regexp.MustCompile(`(?i)class="event-title[^"]*"[^>]*>([^<]+)`)
	colomboLocationPattern = regexp.MustCompile(`(?i)class="event-location[^"]*"[^>]*>([^<]+)`)
)

// Colombo extracts auctions from the Colombo y Colombo event calendar.
type Colombo struct {
	opts   Options
	logger zerolog.Logger
	client *http.Client
}

// NewColombo builds the Colombo calendar extractor.
func NewColombo(opts Options, logger zerolog.Logger) *Colombo {
	return &Colombo{
		opts:   opts,
		logger: logger.With().Str("component", "colombo_source").Logger(),
		client: newClient(opts.Timeout),
	}
}

// Name identifies the source in logs and counts.
func (c *Colombo) Name() string { return "colombo" }

// Fetch scans the calendar page and builds one candidate per aligned
// day/month/year triple.
func (c *Colombo) Fetch(ctx context.Context) ([]storage.Auction, error) {
	body, err := fetchBody(ctx, c.client, c.opts.URL, c.opts.UserAgent)
	if err != nil {
		return nil, err
	}
	page := string(body)

	days := submatches(colomboDayPattern, page)
	months := submatches(colomboMonthPattern, page)
	years := submatches(colomboYearPattern, page)
	titles := submatches(colomboTitlePattern, page)
	locations := submatches(colomboLocationPattern, page)

	count := len(days)
	if len(months) < count {
		count = len(months)
	}
	if len(years) < count {
		count = len(years)
	}

	auctions := make([]storage.Auction, 0, count)
	for i := 0; i < count; i++ {
		date := fmt.Sprintf("%s-%s-%s", years[i], months[i], padDay(days[i]))

		title := "Remate CyC"
		if i < len(titles) && strings.TrimSpace(titles[i]) != "" {
			title = strings.TrimSpace(titles[i])
		}
		location := "Buenos Aires"
		if i < len(locations) && strings.TrimSpace(locations[i]) != "" {
			location = strings.TrimSpace(locations[i])
		}

		auctionType := normalize.TypeEspecial
		if strings.Contains(strings.ToLower(title), "rosgan") {
			auctionType = normalize.TypeGeneral
		}

		auctions = append(auctions, storage.Auction{
			Title:             title,
			ConsignatariaName: colomboName,
			ConsignatariaSlug: colomboSlug,
			Date:              date,
			Location:          location,
			Province:          colomboProvince(location),
			Type:              auctionType,
			MainCategory:      normalize.CategoryMixto,
			Description:       title,
			Source:            storage.SourceWeb,
			SourceURL:         c.opts.URL,
		})
	}

	c.logger.Info().Int("count", len(auctions)).Msg("colombo events scanned")
	return auctions, nil
}

func colomboProvince(location string) string {
	lower := strings.ToLower(location)
	switch {
	case strings.Contains(lower, "santa fe"):
		return "SANTA FE"
	case strings.Contains(lower, "corrientes"):
		return "CORRIENTES"
	case strings.Contains(lower, "rosario"):
		return "SANTA FE"
	default:
		return "BUENOS AIRES"
	}
}

func submatches(re *regexp.Regexp, s string) []string {
	matches := re.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

func padDay(d string) string {
	if len(d) == 1 {
		return "0" + d
	}
	return d
}

var _ Source = (*Colombo)(nil)
