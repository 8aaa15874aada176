// Package merge reconciles freshly scraped auction candidates with the
// previously persisted collection. It is a pure transformation over
// explicit inputs so a run can be replayed against synthetic data.
package merge

import (
	"sort"
	"strings"

	"remates-scraper/internal/normalize"
	"remates-scraper/internal/storage"
)

// Result is the outcome of one merge pass plus the counters the
// service logs.
type Result struct {
	Auctions []storage.Auction

	CuratedKept      int
	DroppedCurated   int
	DroppedScraped   int
	MergedDuplicates int
	UnknownProvinces int
}

// Run reconciles the persisted collection with this run's scrape.
//
// Records whose consignataria slug belongs to an automated source
// (any slug observed in the scrape, plus alwaysOwned) are replaced
// wholesale by the fresh candidates; everything else is curated by a
// human and preserved. Both pools are date-validated, provinces are
// canonicalized, duplicates are folded, and the survivors are sorted
// and renumbered with freshly derived statuses against today
// (YYYY-MM-DD).
func Run(existing, scraped []storage.Auction, today string, alwaysOwned []string) Result {
	owned := make(map[string]struct{}, len(scraped)+len(alwaysOwned))
	for _, a := range scraped {
		owned[a.ConsignatariaSlug] = struct{}{}
	}
	for _, slug := range alwaysOwned {
		owned[slug] = struct{}{}
	}

	var result Result

	curated := make([]storage.Auction, 0, len(existing))
	for _, a := range existing {
		if _, automated := owned[a.ConsignatariaSlug]; automated {
			continue
		}
		if !normalize.IsValidDate(a.Date) {
			result.DroppedCurated++
			continue
		}
		curated = append(curated, a)
	}
	result.CuratedKept = len(curated)

	validScraped := make([]storage.Auction, 0, len(scraped))
	for _, a := range scraped {
		if !normalize.IsValidDate(a.Date) {
			result.DroppedScraped++
			continue
		}
		validScraped = append(validScraped, a)
	}

	pool := append(curated, validScraped...)
	for i := range pool {
		pool[i].Province = normalize.Province(pool[i].Province)
		if pool[i].Province != "" && !normalize.KnownProvince(pool[i].Province) {
			result.UnknownProvinces++
		}
	}

	merged, duplicates := deduplicate(pool)
	result.MergedDuplicates = duplicates

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Date != merged[j].Date {
			return merged[i].Date < merged[j].Date
		}
		return timeKey(merged[i]) < timeKey(merged[j])
	})

	for i := range merged {
		merged[i].ID = i + 1
		merged[i].LiveLink = nil
		merged[i].Status = deriveStatus(merged[i].Date, today)
	}

	result.Auctions = merged
	return result
}

// deduplicate folds records announcing the same real-world auction.
// The identity key deliberately ignores time-of-day and the full
// location text, which vary in formatting between sources. The first
// record seen for a key survives; later duplicates only fill fields
// the survivor is missing, never overwrite.
func deduplicate(pool []storage.Auction) ([]storage.Auction, int) {
	index := make(map[string]int, len(pool))
	survivors := make([]storage.Auction, 0, len(pool))
	duplicates := 0

	for _, a := range pool {
		key := dedupKey(a)
		pos, seen := index[key]
		if !seen {
			index[key] = len(survivors)
			survivors = append(survivors, a)
			continue
		}

		duplicates++
		fillMissing(&survivors[pos], a)
	}

	return survivors, duplicates
}

func dedupKey(a storage.Auction) string {
	locality := a.Location
	if comma := strings.Index(locality, ","); comma >= 0 {
		locality = locality[:comma]
	}
	locality = strings.ToLower(strings.TrimSpace(locality))
	return a.Date + "|" + a.ConsignatariaSlug + "|" + locality
}

func fillMissing(dst *storage.Auction, src storage.Auction) {
	if dst.EstimatedHeads == nil && src.EstimatedHeads != nil {
		dst.EstimatedHeads = src.EstimatedHeads
	}
	if dst.Time == nil && src.Time != nil {
		dst.Time = src.Time
	}
	if dst.CatalogURL == nil && src.CatalogURL != nil {
		dst.CatalogURL = src.CatalogURL
	}
	if dst.YoutubeURL == nil && src.YoutubeURL != nil {
		dst.YoutubeURL = src.YoutubeURL
	}
	if dst.LiveLink == nil && src.LiveLink != nil {
		dst.LiveLink = src.LiveLink
	}
}

// timeKey sorts records missing a time ahead of any timed record on
// the same date.
func timeKey(a storage.Auction) string {
	if a.Time == nil {
		return ""
	}
	return *a.Time
}

func deriveStatus(date, today string) string {
	switch {
	case date < today:
		return storage.StatusCompleted
	case date == today:
		return storage.StatusLive
	default:
		return storage.StatusScheduled
	}
}
