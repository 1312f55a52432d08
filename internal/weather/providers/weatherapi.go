package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/temperature-data-analysis/internal/weather"
	"github.com/sony/gobreaker"
)

// WeatherAPIProvider implements the weather.Provider interface for
// WeatherAPI.com's current-conditions endpoint.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		client:  client,
		circuit: newCircuit("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) CurrentTemperature(ctx context.Context, city string) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("weatherapi api key is not configured")
	}
	if p.client == nil {
		return weather.Reading{}, errNoHTTPClient
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", city)

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
			return nil, statusError(resp.StatusCode, weatherAPIErrorMessage(resp))
		}

		var payload weatherAPIPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return weather.Reading{}, err
	}

	payload, ok := result.(weatherAPIPayload)
	if !ok {
		return weather.Reading{}, fmt.Errorf("unexpected result type from circuit breaker")
	}

	ts := time.Unix(payload.Location.LocaltimeEpoch, 0).UTC()
	if payload.Location.LocaltimeEpoch == 0 {
		ts = time.Now().UTC()
	}

	return weather.Reading{
		City:         city,
		TemperatureC: payload.Current.TempC,
		Provider:     p.name,
		Timestamp:    ts,
	}, nil
}

type weatherAPIPayload struct {
	Location struct {
		LocaltimeEpoch int64 `json:"localtime_epoch"`
	} `json:"location"`
	Current struct {
		TempC float64 `json:"temp_c"`
	} `json:"current"`
}

// weatherAPIErrorMessage extracts the nested error message WeatherAPI.com
// puts in error bodies.
func weatherAPIErrorMessage(resp *http.Response) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error.Message
}
