// Package scraper contains one extractor per upstream source. Each
// extractor fetches a fixed remote resource within a bounded timeout
// and emits zero or more canonical auction candidates; parse and
// network failures never escape a source boundary.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"remates-scraper/internal/storage"
)

const defaultTimeout = 15 * time.Second

// Source is the contract every auction extractor satisfies.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]storage.Auction, error)
}

// Options carry the shared network parameters for a source.
type Options struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

func newClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func fetchBody(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	if ua := strings.TrimSpace(userAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "remates-scraper/1.0")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d from %s", resp.StatusCode, url)
	}
	return body, nil
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// cleanFragment strips markup from a raw HTML fragment and collapses
// whitespace, yielding the plain text the keyword heuristics inspect.
// Fragments sliced mid-tag are tolerated.
func cleanFragment(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	text := fragment
	if err == nil {
		text = doc.Text()
	}
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(text, " "))
}

// contextWindow slices up to window bytes on each side of a match
// position.
func contextWindow(s string, idx, window int) string {
	start := idx - window
	if start < 0 {
		start = 0
	}
	end := idx + window
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}

func strPtr(s string) *string {
	return &s
}

func intPtr(n int) *int {
	return &n
}
