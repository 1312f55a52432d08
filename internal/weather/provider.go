package weather

import (
	"context"
	"time"
)

// Reading is a single successful current-temperature observation.
type Reading struct {
	City         string    `json:"city"`
	TemperatureC float64   `json:"temperatureC"`
	Provider     string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"` // always UTC
}

// Provider abstracts the narrow remote capability the fetch harness depends
// on: the current temperature in °C for a city. Everything else a weather
// API may offer is out of scope.
type Provider interface {
	Name() string
	CurrentTemperature(ctx context.Context, city string) (Reading, error)
}
