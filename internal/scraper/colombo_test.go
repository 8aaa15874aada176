package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const colomboPage = `
<div class="event">
  <span class="day">5</span>
  <span class="month month_03_ar">MAR</span>
  <span class="year">2026</span>
  <h3 class="event-title">Remate Especial Aniversario</h3>
  <p class="event-location">Venado Tuerto, Santa Fe</p>
</div>
<div class="event">
  <span class="day">12</span>
  <span class="month month_03_ar">MAR</span>
  <span class="year">2026</span>
  <h3 class="event-title">ROSGAN Televisado</h3>
  <p class="event-location">Rosario</p>
</div>
<div class="event">
  <span class="day">20</span>
  <span class="month month_03_ar">MAR</span>
  <span class="year">2026</span>
</div>`

func TestColomboFetchZipsPositionalScans(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(colomboPage))
	}))
	defer srv.Close()

	src := NewColombo(Options{URL: srv.URL, Timeout: time.Second}, noopLogger())
	auctions, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch should succeed: %v", err)
	}
	if len(auctions) != 3 {
		t.Fatalf("expected 3 events, got %d", len(auctions))
	}

	first := auctions[0]
	if first.Date != "2026-03-05" {
		t.Fatalf("unexpected date %q", first.Date)
	}
	if first.Title != "Remate Especial Aniversario" {
		t.Fatalf("unexpected title %q", first.Title)
	}
	if first.Province != "SANTA FE" {
		t.Fatalf("location mentioning Santa Fe should map province, got %q", first.Province)
	}
	if first.Type != "especial" {
		t.Fatalf("colombo events default to especial, got %q", first.Type)
	}
	if first.ConsignatariaSlug != "colombo-y-colombo" {
		t.Fatalf("unexpected slug %q", first.ConsignatariaSlug)
	}

	rosgan := auctions[1]
	if rosgan.Type != "general" {
		t.Fatalf("rosgan events should be general, got %q", rosgan.Type)
	}
	if rosgan.Province != "SANTA FE" {
		t.Fatalf("rosario should map to SANTA FE, got %q", rosgan.Province)
	}

	bare := auctions[2]
	if bare.Date != "2026-03-20" {
		t.Fatalf("unexpected date %q", bare.Date)
	}
	if bare.Title != "Remate CyC" {
		t.Fatalf("missing title should fall back, got %q", bare.Title)
	}
	if bare.Location != "Buenos Aires" || bare.Province != "BUENOS AIRES" {
		t.Fatalf("missing location should fall back, got %q / %q", bare.Location, bare.Province)
	}
}

func TestColomboFetchShortestListBoundsCount(t *testing.T) {
	// Two days but only one month marker: only one trustworthy record.
	page := `<span class="day">5</span><span class="day">9</span>` +
		`<span class="month_03_ar">M</span>` +
		`<span class="year">2026</span><span class="year">2026</span>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	src := NewColombo(Options{URL: srv.URL, Timeout: time.Second}, noopLogger())
	auctions, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch should succeed: %v", err)
	}
	if len(auctions) != 1 {
		t.Fatalf("expected 1 record, got %d", len(auctions))
	}
	if auctions[0].Date != "2026-03-05" {
		t.Fatalf("unexpected date %q", auctions[0].Date)
	}
}
