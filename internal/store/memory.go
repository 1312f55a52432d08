package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/temperature-data-analysis/internal/analysis"
	"github.com/i474232898/temperature-data-analysis/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given city.
	ErrNotFound = errors.New("no data for city")
)

// ReadingHistory holds a time-ordered list of assessed live readings for a
// city.
type ReadingHistory struct {
	Readings []weather.AssessedReading
}

// MemoryStore is a concurrency-safe in-memory holder for the latest analysis
// artifacts and the live assessed readings. Results are deliberately not
// persisted anywhere else.
type MemoryStore struct {
	mu sync.RWMutex

	// key: city, value: live reading history
	readings map[string]*ReadingHistory

	// retention configuration for live readings
	maxHistory int           // max number of readings per city
	maxAge     time.Duration // optional max age for readings

	// latest analysis run artifacts
	annotated map[string][]analysis.AnnotatedRecord
	seasonal  []analysis.SeasonalStat

	analysisCmp *analysis.AnalysisComparison
	fetchCmp    *weather.FetchComparison
}

// NewMemoryStore creates a new MemoryStore with optional retention limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		readings:   make(map[string]*ReadingHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		annotated:  make(map[string][]analysis.AnnotatedRecord),
	}
}

// SaveReading appends a new assessed reading for a city and enforces
// retention.
func (s *MemoryStore) SaveReading(reading weather.AssessedReading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.readings[reading.City]
	if !ok {
		history = &ReadingHistory{}
		s.readings[reading.City] = history
	}

	history.Readings = append(history.Readings, reading)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Readings) > s.maxHistory {
		over := len(history.Readings) - s.maxHistory
		history.Readings = history.Readings[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Readings); i++ {
			if !history.Readings[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.Readings) {
			history.Readings = history.Readings[i:]
		}
	}
}

// LatestReading returns the most recent assessed reading for a city.
func (s *MemoryStore) LatestReading(city string) (weather.AssessedReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.readings[city]
	if !ok || len(history.Readings) == 0 {
		return weather.AssessedReading{}, ErrNotFound
	}
	return history.Readings[len(history.Readings)-1], nil
}

// ReadingRange returns a city's assessed readings, optionally restricted to
// readings with from <= timestamp <= to (zero times disable that side).
func (s *MemoryStore) ReadingRange(city string, from, to time.Time) ([]weather.AssessedReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.readings[city]
	if !ok || len(history.Readings) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.AssessedReading
	for _, r := range history.Readings {
		if !from.IsZero() && r.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && r.Timestamp.After(to) {
			continue
		}
		result = append(result, r)
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// SaveAnalysis replaces the stored analysis artifacts with a fresh run's
// annotated series and seasonal reference table.
func (s *MemoryStore) SaveAnalysis(annotated []analysis.AnnotatedRecord, seasonal []analysis.SeasonalStat) {
	byCity := make(map[string][]analysis.AnnotatedRecord)
	for _, rec := range annotated {
		byCity[rec.City] = append(byCity[rec.City], rec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.annotated = byCity
	s.seasonal = seasonal
}

// AnnotatedSeries returns a city's annotated series, optionally restricted
// to records with from <= timestamp <= to (zero times disable that side).
func (s *MemoryStore) AnnotatedSeries(city string, from, to time.Time) ([]analysis.AnnotatedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.annotated[city]
	if !ok || len(series) == 0 {
		return nil, ErrNotFound
	}

	var result []analysis.AnnotatedRecord
	for _, rec := range series {
		if !from.IsZero() && rec.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && rec.Timestamp.After(to) {
			continue
		}
		result = append(result, rec)
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Anomalies returns only the flagged records of a city's annotated series.
func (s *MemoryStore) Anomalies(city string) ([]analysis.AnnotatedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.annotated[city]
	if !ok || len(series) == 0 {
		return nil, ErrNotFound
	}

	anomalies := make([]analysis.AnnotatedRecord, 0)
	for _, rec := range series {
		if rec.Anomaly {
			anomalies = append(anomalies, rec)
		}
	}
	return anomalies, nil
}

// SeasonalStats returns the seasonal reference rows for a city.
func (s *MemoryStore) SeasonalStats(city string) ([]analysis.SeasonalStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []analysis.SeasonalStat
	for _, stat := range s.seasonal {
		if stat.City == city {
			rows = append(rows, stat)
		}
	}

	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows, nil
}

// SeasonalTable returns the whole seasonal reference table.
func (s *MemoryStore) SeasonalTable() []analysis.SeasonalStat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.seasonal
}

// SaveAnalysisComparison stores the latest sequential-vs-concurrent analysis
// timing report.
func (s *MemoryStore) SaveAnalysisComparison(cmp *analysis.AnalysisComparison) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analysisCmp = cmp
}

// AnalysisComparison returns the latest analysis timing report, if any run
// has completed.
func (s *MemoryStore) AnalysisComparison() (*analysis.AnalysisComparison, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.analysisCmp, s.analysisCmp != nil
}

// SaveFetchComparison stores the latest blocking-vs-concurrent fetch timing
// report.
func (s *MemoryStore) SaveFetchComparison(cmp *weather.FetchComparison) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fetchCmp = cmp
}

// FetchComparison returns the latest fetch timing report, if any run has
// completed.
func (s *MemoryStore) FetchComparison() (*weather.FetchComparison, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.fetchCmp, s.fetchCmp != nil
}
