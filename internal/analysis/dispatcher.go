package analysis

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/temperature-data-analysis/internal/dataset"
)

// Mode selects how the dispatcher walks the per-city partitions.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeConcurrent Mode = "concurrent"
)

var (
	// ErrBatchFailed is returned when a worker crashed while detecting a
	// partition; no partial results are merged in that case.
	ErrBatchFailed = errors.New("analysis batch failed")
	// ErrUnknownMode is returned for a mode other than sequential/concurrent.
	ErrUnknownMode = errors.New("unknown analysis mode")
)

// Dispatcher partitions a multi-city dataset by city and runs the rolling
// detector over every partition, either one at a time or on a bounded worker
// pool. Partitions share no mutable state, so both modes produce identical
// output; only the wall-clock time differs.
type Dispatcher struct {
	workers int
	detect  func([]dataset.Record) []AnnotatedRecord
}

// NewDispatcher creates a Dispatcher around a Detector with the given
// window. A non-positive workers value sizes the pool to the machine's
// logical CPUs.
func NewDispatcher(window, workers int) *Dispatcher {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Dispatcher{
		workers: workers,
		detect:  NewDetector(window).Detect,
	}
}

// Run partitions the records by city, applies the detector per partition in
// the requested mode, and merges the per-city results. The merged series
// keeps each city's timestamp order; cities are concatenated in sorted-city
// order so both modes emit byte-identical output. Elapsed time covers the
// whole partition+detect+merge operation.
func (d *Dispatcher) Run(records []dataset.Record, mode Mode) ([]AnnotatedRecord, TimingSample, error) {
	start := time.Now()

	parts := partitionByCity(records)
	results := make([][]AnnotatedRecord, len(parts))

	switch mode {
	case ModeSequential:
		for i, p := range parts {
			results[i] = d.detect(p.records)
		}
	case ModeConcurrent:
		if err := d.detectParallel(parts, results); err != nil {
			return nil, TimingSample{}, err
		}
	default:
		return nil, TimingSample{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	merged := make([]AnnotatedRecord, 0, len(records))
	for _, r := range results {
		merged = append(merged, r...)
	}

	return merged, NewTimingSample(string(mode), time.Since(start)), nil
}

// AnalysisComparison reports the same analysis executed in both modes on the
// same input within one process run.
type AnalysisComparison struct {
	Sequential TimingSample `json:"sequential"`
	Concurrent TimingSample `json:"concurrent"`
	Records    int          `json:"records"`
	Anomalies  int          `json:"anomalies"`
}

// Compare runs the analysis sequentially and concurrently and reports both
// timings. The returned series is the concurrent run's output, which is
// identical to the sequential one by construction.
func (d *Dispatcher) Compare(records []dataset.Record) ([]AnnotatedRecord, *AnalysisComparison, error) {
	_, seqTiming, err := d.Run(records, ModeSequential)
	if err != nil {
		return nil, nil, err
	}

	annotated, conTiming, err := d.Run(records, ModeConcurrent)
	if err != nil {
		return nil, nil, err
	}

	anomalies := 0
	for _, rec := range annotated {
		if rec.Anomaly {
			anomalies++
		}
	}

	return annotated, &AnalysisComparison{
		Sequential: seqTiming,
		Concurrent: conTiming,
		Records:    len(annotated),
		Anomalies:  anomalies,
	}, nil
}

type partition struct {
	city    string
	records []dataset.Record
}

// partitionByCity splits the dataset into one partition per city, each
// stably sorted by timestamp, with partitions in sorted-city order.
func partitionByCity(records []dataset.Record) []partition {
	byCity := make(map[string][]dataset.Record)
	for _, rec := range records {
		byCity[rec.City] = append(byCity[rec.City], rec)
	}

	cities := make([]string, 0, len(byCity))
	for city := range byCity {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	parts := make([]partition, 0, len(cities))
	for _, city := range cities {
		recs := byCity[city]
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].Timestamp.Before(recs[j].Timestamp)
		})
		parts = append(parts, partition{city: city, records: recs})
	}

	return parts
}

// detectParallel feeds the partitions to a worker pool sized to the smaller
// of the configured worker count and the partition count. Workers write into
// disjoint result slots, so no locking is needed on the results themselves;
// a panic in any worker fails the whole batch.
func (d *Dispatcher) detectParallel(parts []partition, results [][]AnnotatedRecord) error {
	workers := d.workers
	if workers > len(parts) {
		workers = len(parts)
	}
	if workers == 0 {
		return nil
	}

	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		batchErr error
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				d.detectOne(parts[i], results, i, &mu, &batchErr)
			}
		}()
	}

	for i := range parts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if batchErr != nil {
		return fmt.Errorf("%w: %v", ErrBatchFailed, batchErr)
	}
	return nil
}

func (d *Dispatcher) detectOne(p partition, results [][]AnnotatedRecord, i int, mu *sync.Mutex, batchErr *error) {
	defer func() {
		if r := recover(); r != nil {
			mu.Lock()
			if *batchErr == nil {
				*batchErr = fmt.Errorf("partition %q panicked: %v", p.city, r)
			}
			mu.Unlock()
		}
	}()

	results[i] = d.detect(p.records)
}
