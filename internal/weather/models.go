package weather

import (
	"github.com/i474232898/temperature-data-analysis/internal/analysis"
	"github.com/i474232898/temperature-data-analysis/internal/dataset"
)

// FetchResult is the per-city outcome of one harness run. Exactly one of
// TemperatureC and Error is set: a failed request becomes a failed result,
// never a failed batch.
type FetchResult struct {
	City         string   `json:"city"`
	TemperatureC *float64 `json:"temperatureC,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Verdict classifies a live reading against the seasonal normal range.
type Verdict string

const (
	VerdictNormal    Verdict = "normal"
	VerdictAnomalous Verdict = "anomalous"
	// VerdictIndeterminate means the reference row cannot bound a normal
	// range (fewer than two historical observations for the season).
	VerdictIndeterminate Verdict = "indeterminate"
)

// Assessment places a live reading against a city's seasonal normal range.
// Bounds are nil when the verdict is indeterminate.
type Assessment struct {
	Verdict    Verdict        `json:"verdict"`
	Season     dataset.Season `json:"season"`
	UpperBound *float64       `json:"upperBound,omitempty"`
	LowerBound *float64       `json:"lowerBound,omitempty"`
}

// AssessedReading is a live reading together with its seasonal assessment,
// as stored and served to the presentation layer.
type AssessedReading struct {
	Reading
	Assessment Assessment `json:"assessment"`
}

// FetchComparison reports the same fetch batch executed in both modes within
// one process run. Results carry the concurrent run's outcome; both runs
// yield one result per requested city.
type FetchComparison struct {
	Sequential analysis.TimingSample `json:"sequential"`
	Concurrent analysis.TimingSample `json:"concurrent"`
	Results    []FetchResult         `json:"results"`
}
