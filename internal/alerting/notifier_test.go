package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testSummary() RunSummary {
	blue := decimal.NewFromInt(1100)
	return RunSummary{
		RunDate:       "2026-02-26",
		TotalAuctions: 42,
		ScrapedCount:  38,
		CuratedKept:   4,
		DroppedCount:  1,
		SourceCounts:  map[string]int{"cacg": 30, "madelan": 8},
		FailedSources: []string{"lehmann"},
		UsdBlue:       &blue,
		FirstDate:     "2026-03-01",
		LastDate:      "2026-04-15",
	}
}

func TestTelegramNotifierSuccess(t *testing.T) {
	received := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "sendMessage") {
			t.Fatalf("path should contain sendMessage, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), testSummary()); err != nil {
		t.Fatalf("notify should succeed: %v", err)
	}

	if received["chat_id"] != "chat" {
		t.Fatalf("unexpected chat_id: %#v", received)
	}
	text := received["text"]
	if !strings.Contains(text, "2026-02-26") {
		t.Fatalf("text should carry the run date: %q", text)
	}
	if !strings.Contains(text, "lehmann") {
		t.Fatalf("text should name failed sources: %q", text)
	}
	if !strings.Contains(text, "1100.00") {
		t.Fatalf("text should carry the blue rate: %q", text)
	}
}

func TestTelegramNotifierOKFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), testSummary()); err == nil {
		t.Fatal("ok=false should return an error")
	}
}

func TestTelegramNotifierHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), testSummary()); err == nil {
		t.Fatal("HTTP 403 should return an error")
	}
}

func TestRenderMessageOmitsMissingSections(t *testing.T) {
	summary := RunSummary{RunDate: "2026-02-26", TotalAuctions: 10, ScrapedCount: 10}
	text := renderMessage(summary)

	if strings.Contains(text, "FAILED") {
		t.Fatalf("no failed sources expected: %q", text)
	}
	if strings.Contains(text, "USD") {
		t.Fatalf("no rates expected: %q", text)
	}
	if strings.Contains(text, "Range") {
		t.Fatalf("no date range expected: %q", text)
	}
}
