package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/i474232898/temperature-data-analysis/internal/weather"
	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// The endpoint itself needs no API key, but it addresses by coordinates, so
// city names are geocoded first (which does require a Google API key).
// Coordinates are cached per city for the provider's lifetime.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker

	mu     sync.Mutex
	coords map[string]geocoder.Location
}

func NewOpenMeteoProvider(client *http.Client, geocoderAPIKey string) *OpenMeteoProvider {
	geocoder.ApiKey = geocoderAPIKey

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  client,
		circuit: newCircuit("openmeteo"),
		coords:  make(map[string]geocoder.Location),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) CurrentTemperature(ctx context.Context, city string) (weather.Reading, error) {
	if p.client == nil {
		return weather.Reading{}, errNoHTTPClient
	}

	loc, err := p.coordinates(city)
	if err != nil {
		return weather.Reading{}, err
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
	values.Set("current_weather", "true")

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.Reading{}, err
	}

	result, err := execute(p.circuit, func() (interface{}, error) {
		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, statusError(resp.StatusCode, openMeteoReason(resp))
		}

		var payload openMeteoPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return weather.Reading{}, err
	}

	payload, ok := result.(openMeteoPayload)
	if !ok {
		return weather.Reading{}, fmt.Errorf("unexpected result type from circuit breaker")
	}

	ts, err := time.Parse(time.RFC3339, payload.CurrentWeather.Time)
	if err != nil {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	return weather.Reading{
		City:         city,
		TemperatureC: payload.CurrentWeather.Temperature,
		Provider:     p.name,
		Timestamp:    ts,
	}, nil
}

// coordinates resolves and caches the lat/lon for a city.
func (p *OpenMeteoProvider) coordinates(city string) (geocoder.Location, error) {
	p.mu.Lock()
	loc, ok := p.coords[city]
	p.mu.Unlock()
	if ok {
		return loc, nil
	}

	loc, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		return geocoder.Location{}, fmt.Errorf("geocode %s: %w", city, err)
	}

	p.mu.Lock()
	p.coords[city] = loc
	p.mu.Unlock()

	return loc, nil
}

type openMeteoPayload struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		Time        string  `json:"time"`
	} `json:"current_weather"`
}

// openMeteoReason extracts the "reason" field Open-Meteo puts in error bodies.
func openMeteoReason(resp *http.Response) string {
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Reason
}
