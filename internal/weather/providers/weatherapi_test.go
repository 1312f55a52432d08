package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestWeatherAPICurrentTemperature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" || r.URL.Query().Get("q") != "Lima" {
			t.Errorf("unexpected query: %v", r.URL.Query())
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"location":{"localtime_epoch":1700000000},"current":{"temp_c":-2.5}}`)
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "test-key")
	p.baseURL = srv.URL

	reading, err := p.CurrentTemperature(context.Background(), "Lima")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.TemperatureC != -2.5 || reading.Provider != "weatherapi" {
		t.Fatalf("unexpected reading: %+v", reading)
	}
	want := time.Unix(1700000000, 0).UTC()
	if !reading.Timestamp.Equal(want) {
		t.Fatalf("expected timestamp %v, got %v", want, reading.Timestamp)
	}
}

func TestWeatherAPIErrorCarriesNestedMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":2008,"message":"API key has been disabled."}}`)
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "dead-key")
	p.baseURL = srv.URL

	_, err := p.CurrentTemperature(context.Background(), "Lima")
	if err == nil || !strings.Contains(err.Error(), "API key has been disabled.") {
		t.Fatalf("expected nested API message in error, got %v", err)
	}
}
