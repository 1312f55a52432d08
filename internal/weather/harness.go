package weather

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/i474232898/temperature-data-analysis/internal/analysis"
)

// FetchMode selects how the harness issues the per-city requests.
type FetchMode string

const (
	// FetchSequential issues one request at a time, waiting for each
	// response before starting the next.
	FetchSequential FetchMode = "sequential"
	// FetchConcurrent issues all requests at once over the shared client and
	// waits for every one of them to complete or fail.
	FetchConcurrent FetchMode = "concurrent"
)

// FetchHarness fetches the current temperature for a set of cities from the
// configured provider and measures how long the whole batch takes per mode.
// Per-city failures are absorbed into FetchResults; the batch itself never
// fails.
type FetchHarness struct {
	provider Provider
	logger   *slog.Logger
}

// NewFetchHarness creates a harness around the given provider.
func NewFetchHarness(provider Provider, logger *slog.Logger) *FetchHarness {
	return &FetchHarness{
		provider: provider,
		logger:   logger,
	}
}

// ProviderName reports which provider the harness fetches from.
func (h *FetchHarness) ProviderName() string {
	return h.provider.Name()
}

// Run issues one current-temperature request per city in the given mode and
// returns exactly one FetchResult per requested city, in submission order,
// together with the end-to-end timing. Request deadlines come from ctx and
// the shared HTTP client; there are no retries.
func (h *FetchHarness) Run(ctx context.Context, cities []string, mode FetchMode) ([]FetchResult, analysis.TimingSample, error) {
	start := time.Now()
	results := make([]FetchResult, len(cities))

	switch mode {
	case FetchSequential:
		for i, city := range cities {
			results[i] = h.fetchOne(ctx, city)
		}
	case FetchConcurrent:
		var wg sync.WaitGroup
		for i, city := range cities {
			wg.Add(1)
			go func(i int, city string) {
				defer wg.Done()
				// Each goroutine owns its result slot.
				results[i] = h.fetchOne(ctx, city)
			}(i, city)
		}
		wg.Wait()
	default:
		return nil, analysis.TimingSample{}, fmt.Errorf("unknown fetch mode %q", mode)
	}

	return results, analysis.NewTimingSample(string(mode), time.Since(start)), nil
}

// Compare runs the same batch sequentially and concurrently and reports both
// timings. The attached results come from the concurrent run.
func (h *FetchHarness) Compare(ctx context.Context, cities []string) (*FetchComparison, error) {
	_, seqTiming, err := h.Run(ctx, cities, FetchSequential)
	if err != nil {
		return nil, err
	}

	results, conTiming, err := h.Run(ctx, cities, FetchConcurrent)
	if err != nil {
		return nil, err
	}

	return &FetchComparison{
		Sequential: seqTiming,
		Concurrent: conTiming,
		Results:    results,
	}, nil
}

func (h *FetchHarness) fetchOne(ctx context.Context, city string) FetchResult {
	reading, err := h.provider.CurrentTemperature(ctx, city)
	if err != nil {
		h.logger.Warn("current temperature fetch failed",
			"provider", h.provider.Name(), "city", city, "err", err)
		return FetchResult{City: city, Error: err.Error()}
	}

	temp := reading.TemperatureC
	return FetchResult{City: city, TemperatureC: &temp}
}
