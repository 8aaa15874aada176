package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RunSummary captures the outcome of one pipeline run for operator
// notification: degraded source coverage is only visible here and in
// the logs.
type RunSummary struct {
	RunDate       string
	TotalAuctions int
	ScrapedCount  int
	CuratedKept   int
	DroppedCount  int
	SourceCounts  map[string]int
	FailedSources []string
	UsdBlue       *decimal.Decimal
	UsdOficial    *decimal.Decimal
	FirstDate     string
	LastDate      string
	Channels      []string
}

// Notifier delivers run summaries.
type Notifier interface {
	Notify(ctx context.Context, summary RunSummary) error
}

// TelegramNotifier pushes run summaries through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier builds a Telegram notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify sends the rendered summary through the sendMessage API.
func (n *TelegramNotifier) Notify(ctx context.Context, summary RunSummary) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    renderMessage(summary),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram responded with status %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram returned ok=false")
		}
	}

	n.logger.Info().Str("run_date", summary.RunDate).
		Int("auctions", summary.TotalAuctions).
		Strs("failed_sources", summary.FailedSources).
		Msg("run summary sent (Telegram)")
	return nil
}

func renderMessage(summary RunSummary) string {
	builder := strings.Builder{}
	builder.WriteString("[Remates Scraper]\n")
	builder.WriteString(fmt.Sprintf("Run: %s\n", summary.RunDate))
	builder.WriteString(fmt.Sprintf("Auctions: %d (%d scraped, %d curated, %d dropped)\n",
		summary.TotalAuctions, summary.ScrapedCount, summary.CuratedKept, summary.DroppedCount))
	if summary.FirstDate != "" {
		builder.WriteString(fmt.Sprintf("Range: %s a %s\n", summary.FirstDate, summary.LastDate))
	}
	if len(summary.FailedSources) > 0 {
		builder.WriteString(fmt.Sprintf("FAILED sources: %s\n", strings.Join(summary.FailedSources, ", ")))
	}
	if summary.UsdBlue != nil {
		builder.WriteString(fmt.Sprintf("USD blue: %s\n", summary.UsdBlue.StringFixed(2)))
	}
	if summary.UsdOficial != nil {
		builder.WriteString(fmt.Sprintf("USD oficial: %s\n", summary.UsdOficial.StringFixed(2)))
	}
	if len(summary.Channels) > 0 {
		builder.WriteString(fmt.Sprintf("Channels: %s\n", strings.Join(summary.Channels, ",")))
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
