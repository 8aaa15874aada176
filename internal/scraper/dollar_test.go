package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDollarFetchBothRates(t *testing.T) {
	blue := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"compra": 1080, "venta": 1100}`))
	}))
	defer blue.Close()
	oficial := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"compra": 960, "venta": 980}`))
	}))
	defer oficial.Close()

	d := NewDollar(blue.URL, oficial.URL, Options{Timeout: time.Second}, noopLogger())
	rates, err := d.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch should succeed: %v", err)
	}
	if rates.Blue == nil || rates.Oficial == nil {
		t.Fatalf("both rates should be present: %+v", rates)
	}
	if rates.Blue.Venta.String() != "1100" {
		t.Fatalf("unexpected blue venta %s", rates.Blue.Venta)
	}
	if rates.Oficial.Venta.String() != "980" {
		t.Fatalf("unexpected oficial venta %s", rates.Oficial.Venta)
	}
}

func TestDollarFetchPartialFailure(t *testing.T) {
	blue := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer blue.Close()
	oficial := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"compra": 960, "venta": 980}`))
	}))
	defer oficial.Close()

	d := NewDollar(blue.URL, oficial.URL, Options{Timeout: time.Second}, noopLogger())
	rates, err := d.Fetch(context.Background())
	if err != nil {
		t.Fatalf("partial failure should not error: %v", err)
	}
	if rates.Blue != nil {
		t.Fatalf("failed blue should be nil, got %+v", rates.Blue)
	}
	if rates.Oficial == nil {
		t.Fatal("oficial should survive")
	}
}

func TestDollarFetchBothFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := NewDollar(srv.URL, srv.URL, Options{Timeout: time.Second}, noopLogger())
	if _, err := d.Fetch(context.Background()); err == nil {
		t.Fatal("both endpoints failing should return an error")
	}
}

func TestDollarFetchRejectsZeroVenta(t *testing.T) {
	zero := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"compra": 0, "venta": 0}`))
	}))
	defer zero.Close()
	oficial := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"compra": 960, "venta": 980}`))
	}))
	defer oficial.Close()

	d := NewDollar(zero.URL, oficial.URL, Options{Timeout: time.Second}, noopLogger())
	rates, err := d.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch should succeed: %v", err)
	}
	if rates.Blue != nil {
		t.Fatalf("zero venta should be discarded, got %+v", rates.Blue)
	}
}
