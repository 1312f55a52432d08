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

// owmKeyHint mirrors the guidance OpenWeatherMap's own clients show when an
// error response carries no message of its own.
const owmKeyHint = "Invalid API key. Please see https://openweathermap.org/faq#error401 for more info."

// OpenWeatherProvider implements the weather.Provider interface for
// OpenWeatherMap's current-weather endpoint.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		client:  client,
		circuit: newCircuit("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) CurrentTemperature(ctx context.Context, city string) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("openweather api key is not configured")
	}
	if p.client == nil {
		return weather.Reading{}, errNoHTTPClient
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

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
			return nil, statusError(resp.StatusCode, owmErrorMessage(resp))
		}

		var payload owmPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return weather.Reading{}, err
	}

	payload, ok := result.(owmPayload)
	if !ok {
		return weather.Reading{}, fmt.Errorf("unexpected result type from circuit breaker")
	}

	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}

	return weather.Reading{
		City:         city,
		TemperatureC: payload.Main.Temp,
		Provider:     p.name,
		Timestamp:    ts,
	}, nil
}

type owmPayload struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// owmErrorMessage extracts the "message" field OpenWeatherMap puts in error
// bodies, falling back to the documented invalid-key hint.
func owmErrorMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return owmKeyHint
}
