package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestOpenWeatherCurrentTemperature(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"dt":1700000000,"main":{"temp":3.5}}`)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "test-key")
	p.baseURL = srv.URL

	reading, err := p.CurrentTemperature(context.Background(), "Oslo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery.Get("q") != "Oslo" || gotQuery.Get("appid") != "test-key" || gotQuery.Get("units") != "metric" {
		t.Fatalf("unexpected query: %v", gotQuery)
	}
	if reading.City != "Oslo" || reading.TemperatureC != 3.5 || reading.Provider != "openweathermap" {
		t.Fatalf("unexpected reading: %+v", reading)
	}
	want := time.Unix(1700000000, 0).UTC()
	if !reading.Timestamp.Equal(want) {
		t.Fatalf("expected timestamp %v, got %v", want, reading.Timestamp)
	}
}

func TestOpenWeatherErrorCarriesAPIMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"cod":401,"message":"Invalid API key"}`)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "bad-key")
	p.baseURL = srv.URL

	_, err := p.CurrentTemperature(context.Background(), "Oslo")
	if !errors.Is(err, errUnexpectedStatus) {
		t.Fatalf("expected errUnexpectedStatus, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid API key") {
		t.Fatalf("expected API message in error, got %q", err)
	}
}

func TestOpenWeatherErrorFallbackHint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "bad-key")
	p.baseURL = srv.URL

	_, err := p.CurrentTemperature(context.Background(), "Oslo")
	if err == nil || !strings.Contains(err.Error(), owmKeyHint) {
		t.Fatalf("expected fallback hint in error, got %v", err)
	}
}

func TestOpenWeatherRequiresAPIKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "")
	if _, err := p.CurrentTemperature(context.Background(), "Oslo"); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
