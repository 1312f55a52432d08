package analysis

import (
	"math"

	"github.com/i474232898/temperature-data-analysis/internal/dataset"
)

// DefaultWindow is the trailing-window length used for rolling statistics.
const DefaultWindow = 30

// AnnotatedRecord extends a dataset record with the statistics of the
// trailing window ending at that record. The pointer fields stay nil for the
// first window-1 records of a series, where too little history exists for a
// defined mean/std; such records are never flagged as anomalies.
type AnnotatedRecord struct {
	dataset.Record

	RollingMean *float64 `json:"rollingMean,omitempty"`
	RollingStd  *float64 `json:"rollingStd,omitempty"`
	UpperBound  *float64 `json:"upperBound,omitempty"`
	LowerBound  *float64 `json:"lowerBound,omitempty"`
	Anomaly     bool     `json:"anomaly"`
}

// Detector computes rolling statistics and anomaly flags for a single
// city's series, ordered by timestamp.
type Detector struct {
	window int
}

// NewDetector creates a Detector with the given trailing-window length.
// Windows shorter than 2 cannot carry a sample standard deviation and fall
// back to DefaultWindow.
func NewDetector(window int) *Detector {
	if window < 2 {
		window = DefaultWindow
	}
	return &Detector{window: window}
}

// Window returns the configured trailing-window length.
func (d *Detector) Window() int {
	return d.window
}

// Detect annotates each record with the mean, sample standard deviation and
// mean ± 2·std bounds of the trailing window ending at it. A record is an
// anomaly when its temperature falls outside those bounds. Pure function:
// empty input yields empty output and repeated runs are bit-identical.
func (d *Detector) Detect(records []dataset.Record) []AnnotatedRecord {
	out := make([]AnnotatedRecord, 0, len(records))
	win := newWindow(d.window)

	for _, rec := range records {
		win.push(rec.Temperature)

		ann := AnnotatedRecord{Record: rec}
		if win.full() {
			mean := win.mean()
			std := win.sampleStd()
			upper := mean + 2*std
			lower := mean - 2*std

			ann.RollingMean = &mean
			ann.RollingStd = &std
			ann.UpperBound = &upper
			ann.LowerBound = &lower
			ann.Anomaly = rec.Temperature > upper || rec.Temperature < lower
		}
		out = append(out, ann)
	}

	return out
}

// window is a fixed-size trailing window with incremental sum bookkeeping,
// so a full pass over n records costs O(n) regardless of window length.
type window struct {
	capacity int
	values   []float64
	idx      int
	count    int
	sum      float64
	sumSq    float64
}

func newWindow(capacity int) *window {
	return &window{
		capacity: capacity,
		values:   make([]float64, capacity),
	}
}

func (w *window) push(v float64) {
	if w.count == w.capacity {
		old := w.values[w.idx]
		w.sum -= old
		w.sumSq -= old * old
	} else {
		w.count++
	}

	w.values[w.idx] = v
	w.sum += v
	w.sumSq += v * v
	w.idx = (w.idx + 1) % w.capacity
}

func (w *window) full() bool {
	return w.count == w.capacity
}

func (w *window) mean() float64 {
	return w.sum / float64(w.count)
}

// sampleStd is the standard deviation with the n-1 divisor. Floating-point
// cancellation can push the variance of a near-constant window a hair below
// zero; clamp so a constant series yields exactly 0.
func (w *window) sampleStd() float64 {
	n := float64(w.count)
	variance := (w.sumSq - w.sum*w.sum/n) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
