package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"remates-scraper/internal/storage"
)

// dayStat aggregates the feed for one calendar date.
type dayStat struct {
	Date     time.Time
	Auctions int
	Heads    int
}

// Export renders the persisted feed as per-day CSV and/or a PNG chart
// of auction counts and estimated heads.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	auctions, err := store.LoadAuctions(ctx)
	if err != nil {
		return err
	}

	stats := groupByDay(auctions, opts.From, opts.To)
	if len(stats) == 0 {
		a.Logger.Info().Msg("no auctions found for export window")
		return nil
	}

	downsampled := downsampleStats(stats, opts.MaxPoints)
	a.Logger.Info().Int("days", len(stats)).Int("exported", len(downsampled)).Msg("exporting feed")

	if opts.CSVPath != "" {
		if err := writeStatsCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeStatsPNG(opts.PNGPath, downsampled); err != nil {
			return err
		}
	}

	return nil
}

func groupByDay(auctions []storage.Auction, from, to *time.Time) []dayStat {
	byDate := make(map[string]*dayStat)
	for _, auction := range auctions {
		date, err := time.Parse("2006-01-02", auction.Date)
		if err != nil {
			continue
		}
		if from != nil && date.Before(from.UTC().Truncate(24*time.Hour)) {
			continue
		}
		if to != nil && !date.Before(to.UTC()) {
			continue
		}

		stat, ok := byDate[auction.Date]
		if !ok {
			stat = &dayStat{Date: date}
			byDate[auction.Date] = stat
		}
		stat.Auctions++
		if auction.EstimatedHeads != nil {
			stat.Heads += *auction.EstimatedHeads
		}
	}

	stats := make([]dayStat, 0, len(byDate))
	for _, stat := range byDate {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date.Before(stats[j].Date) })
	return stats
}

func downsampleStats(stats []dayStat, max int) []dayStat {
	if max <= 0 || len(stats) <= max {
		return stats
	}

	result := make([]dayStat, 0, max)
	step := float64(len(stats)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(stats) {
			idx = len(stats) - 1
		}
		result = append(result, stats[idx])
	}
	return result
}

func writeStatsCSV(path string, stats []dayStat) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"date", "auctions", "estimated_heads"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, stat := range stats {
		record := []string{
			stat.Date.Format("2006-01-02"),
			fmt.Sprintf("%d", stat.Auctions),
			fmt.Sprintf("%d", stat.Heads),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeStatsPNG(path string, stats []dayStat) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(stats))
	counts := make([]float64, len(stats))
	heads := make([]float64, len(stats))

	for i, stat := range stats {
		x[i] = stat.Date
		counts[i] = float64(stat.Auctions)
		heads[i] = float64(stat.Heads)
	}

	countFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.0f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Auctions per day",
			ValueFormatter: countFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:           "Estimated heads",
			ValueFormatter: countFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Auctions",
				XValues: x,
				YValues: counts,
			},
			chart.TimeSeries{
				Name:    "Heads",
				XValues: x,
				YValues: heads,
				YAxis:   chart.YAxisSecondary,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
