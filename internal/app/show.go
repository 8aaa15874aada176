package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// Show prints the persisted feed as a table, upcoming records first
// capped at the requested limit.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
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
	if len(auctions) == 0 {
		fmt.Fprintln(os.Stdout, "no auctions found")
		return nil
	}

	if opts.Limit > 0 && len(auctions) > opts.Limit {
		auctions = auctions[:opts.Limit]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tDate\tTime\tStatus\tConsignataria\tLocation\tType\tHeads")

	for _, auction := range auctions {
		timeStr := "-"
		if auction.Time != nil {
			timeStr = *auction.Time
		}
		heads := "-"
		if auction.EstimatedHeads != nil {
			heads = fmt.Sprintf("%d", *auction.EstimatedHeads)
		}
		fmt.Fprintf(
			writer,
			"%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			auction.ID,
			auction.Date,
			timeStr,
			auction.Status,
			sanitizeInline(auction.ConsignatariaName),
			sanitizeInline(auction.Location),
			auction.Type,
			heads,
		)
	}

	writer.Flush()
	return nil
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
