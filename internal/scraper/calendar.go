package scraper

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"remates-scraper/internal/normalize"
	"remates-scraper/internal/storage"
)

// Slugs fixed per markup source. Together with the slugs observed on
// the structured API these form the set of consignatarias owned by the
// automated extractors.
const (
	OFarrellSlug = "ofarrell"
	LehmannSlug  = "coop-lehmann"
	MadelanSlug  = "madelan"
)

// CalendarSlugs lists the fixed slugs of the markup extractors.
var CalendarSlugs = []string{colomboSlug, OFarrellSlug, LehmannSlug, MadelanSlug}

var calendarDatePattern = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`)

// CalendarConfig parameterises the shared markup extractor: fixed
// consignataria metadata plus a per-source annotate hook that reads
// keyword cues out of the cleaned context window.
type CalendarConfig struct {
	SourceName string
	Name       string
	Slug       string
	Window     int

	// Annotate fills title, location, province, description and any
	// optional fields from the text surrounding a date match.
	Annotate func(windowText string, auction *storage.Auction)
}

// Calendar scans a loosely-structured calendar page for date-like
// substrings and synthesizes one candidate per unseen future date.
//
// A date repeated on the same page keeps its first occurrence only;
// richer context around a later repeat is discarded before cross-source
// dedup ever runs.
type Calendar struct {
	cfg    CalendarConfig
	opts   Options
	logger zerolog.Logger
	client *http.Client
	now    func() time.Time
}

// NewCalendar builds a markup extractor over the given configuration.
func NewCalendar(cfg CalendarConfig, opts Options, logger zerolog.Logger) *Calendar {
	if cfg.Window <= 0 {
		cfg.Window = 300
	}
	return &Calendar{
		cfg:    cfg,
		opts:   opts,
		logger: logger.With().Str("component", cfg.SourceName+"_source").Logger(),
		client: newClient(opts.Timeout),
		now:    time.Now,
	}
}

// Name identifies the source in logs and counts.
func (c *Calendar) Name() string { return c.cfg.SourceName }

// Fetch scans the page for D/M/YYYY dates and builds one candidate per
// future date, annotated from the surrounding text.
func (c *Calendar) Fetch(ctx context.Context) ([]storage.Auction, error) {
	body, err := fetchBody(ctx, c.client, c.opts.URL, c.opts.UserAgent)
	if err != nil {
		return nil, err
	}
	page := string(body)
	today := c.now().UTC().Format("2006-01-02")

	seen := make(map[string]struct{})
	var auctions []storage.Auction

	for _, match := range calendarDatePattern.FindAllStringSubmatchIndex(page, -1) {
		day := page[match[2]:match[3]]
		month := page[match[4]:match[5]]
		year := page[match[6]:match[7]]
		date := year + "-" + padDay(month) + "-" + padDay(day)

		if date < today {
			continue
		}
		if _, dup := seen[date]; dup {
			continue
		}
		seen[date] = struct{}{}

		window := cleanFragment(contextWindow(page, match[0], c.cfg.Window))

		auction := storage.Auction{
			ConsignatariaName: c.cfg.Name,
			ConsignatariaSlug: c.cfg.Slug,
			Date:              date,
			Type:              normalize.TypeGeneral,
			MainCategory:      normalize.CategoryMixto,
			Source:            storage.SourceWeb,
			SourceURL:         c.opts.URL,
		}
		c.cfg.Annotate(window, &auction)
		auctions = append(auctions, auction)
	}

	c.logger.Info().Int("count", len(auctions)).Msg("calendar dates scanned")
	return auctions, nil
}

// NewOFarrell builds the O'Farrell calendar extractor. Context cues
// distinguish the televised monthly auction from plain in-person ones
// and guess the host town from a fixed list of known places.
func NewOFarrell(opts Options, logger zerolog.Logger) *Calendar {
	return NewCalendar(CalendarConfig{
		SourceName: "ofarrell",
		Name:       "Ivan L. O'Farrell Consignataria",
		Slug:       OFarrellSlug,
		Window:     200,
		Annotate:   annotateOFarrell,
	}, opts, logger)
}

func annotateOFarrell(windowText string, auction *storage.Auction) {
	lower := strings.ToLower(windowText)
	televised := strings.Contains(lower, "televisado")

	location := "Chaco"
	switch {
	case strings.Contains(lower, "machagai"):
		location = "Machagai, Chaco"
	case strings.Contains(lower, "san martin"), strings.Contains(lower, "zapallar"):
		location = "Gral. San Martín, Chaco"
	case strings.Contains(lower, "santa sylvina"):
		location = "Santa Sylvina, Chaco"
	case strings.Contains(lower, "campo gallo"):
		location = "Campo Gallo, Santiago del Estero"
	}

	province := "CHACO"
	if strings.Contains(location, "Santiago") {
		province = "SANTIAGO DEL ESTERO"
	}

	auction.Location = location
	auction.Province = province
	auction.Time = strPtr("14:00")
	if televised {
		auction.Title = "Remate Televisado O'Farrell"
		auction.Description = "Remate Televisado por Canal Rural"
		auction.EstimatedHeads = intPtr(5500)
	} else {
		auction.Title = "Remate General O'Farrell"
		auction.Description = "Remate general presencial y streaming"
	}
}

// lehmannCities are the towns the cooperative holds ring auctions in;
// the first one mentioned near a date wins.
var lehmannCities = []string{
	"Rafaela", "Esperanza", "Emilia", "Felicia", "Helvecia",
	"Progreso", "Pilar", "Suardi", "Romang", "San Agustin",
	"Sarmiento", "Centeno", "Santo Domingo",
}

// NewLehmann builds the Cooperativa Lehmann calendar extractor.
func NewLehmann(opts Options, logger zerolog.Logger) *Calendar {
	return NewCalendar(CalendarConfig{
		SourceName: "lehmann",
		Name:       "Cooperativa Guillermo Lehmann",
		Slug:       LehmannSlug,
		Window:     300,
		Annotate:   annotateLehmann,
	}, opts, logger)
}

func annotateLehmann(windowText string, auction *storage.Auction) {
	city := "Santa Fe"
	for _, candidate := range lehmannCities {
		if strings.Contains(windowText, candidate) {
			city = candidate
			break
		}
	}

	auction.Title = "Remate Feria Lehmann"
	auction.Location = city + ", Santa Fe"
	auction.Province = "SANTA FE"
	auction.Description = "Remate feria de abasto e invernada"
}

var headsPattern = regexp.MustCompile(`(?i)(\d[\d.]*)\s*(?:cab|cabezas)`)

// NewMadelan builds the Madelan calendar extractor.
func NewMadelan(opts Options, logger zerolog.Logger) *Calendar {
	return NewCalendar(CalendarConfig{
		SourceName: "madelan",
		Name:       "Madelan SA",
		Slug:       MadelanSlug,
		Window:     300,
		Annotate:   annotateMadelan,
	}, opts, logger)
}

func annotateMadelan(windowText string, auction *storage.Auction) {
	auction.Title = "Remate Madelan"
	auction.Location = "NEA"
	auction.Province = "CHACO"
	auction.Description = "Remate por internet y streaming"

	if m := headsPattern.FindStringSubmatch(windowText); m != nil {
		if heads := parseLeadingInt(strings.ReplaceAll(m[1], ".", "")); heads > 0 {
			auction.EstimatedHeads = intPtr(heads)
		}
	}
}

var _ Source = (*Calendar)(nil)
