package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/i474232898/temperature-data-analysis/internal/analysis"
	"github.com/i474232898/temperature-data-analysis/internal/dataset"
	"github.com/i474232898/temperature-data-analysis/internal/store"
	"github.com/i474232898/temperature-data-analysis/internal/weather"
)

// Scheduler periodically refreshes the current temperature for the tracked
// cities, judges each reading against the seasonal reference table, and
// stores the assessed readings.
type Scheduler struct {
	scheduler *gocron.Scheduler
	harness   *weather.FetchHarness
	store     *store.MemoryStore
	cities    []string
	seasons   map[string]dataset.Season
	seasonal  []analysis.SeasonalStat
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a Scheduler. seasons maps each city to its current season
// (the season of the city's most recent historical record).
func New(
	cities []string,
	seasons map[string]dataset.Season,
	seasonal []analysis.SeasonalStat,
	interval time.Duration,
	harness *weather.FetchHarness,
	memStore *store.MemoryStore,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		harness:   harness,
		store:     memStore,
		cities:    cities,
		seasons:   seasons,
		seasonal:  seasonal,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		s.logger.Info("scheduler: no cities configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.refresh)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// refresh fetches all tracked cities concurrently and stores one assessed
// reading per city that answered. Per-city failures are logged by the
// harness and skipped here; they never abort the job.
func (s *Scheduler) refresh() {
	s.logger.Info("scheduler: refreshing live temperatures", "cities", len(s.cities))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results, timing, err := s.harness.Run(ctx, s.cities, weather.FetchConcurrent)
	if err != nil {
		s.logger.Error("scheduler: refresh failed", "err", err)
		return
	}

	now := time.Now().UTC()
	stored := 0
	for _, res := range results {
		if res.Error != "" || res.TemperatureC == nil {
			continue
		}

		assessment := weather.Assessment{Verdict: weather.VerdictIndeterminate, Season: s.seasons[res.City]}
		if stat, ok := analysis.LookupSeasonalStat(s.seasonal, res.City, s.seasons[res.City]); ok {
			assessment = weather.Classify(*res.TemperatureC, stat)
		}

		s.store.SaveReading(weather.AssessedReading{
			Reading: weather.Reading{
				City:         res.City,
				TemperatureC: *res.TemperatureC,
				Provider:     s.harness.ProviderName(),
				Timestamp:    now,
			},
			Assessment: assessment,
		})
		stored++
	}

	s.logger.Info("scheduler: refresh complete",
		"stored", stored, "failed", len(results)-stored, "elapsed", timing.Elapsed)
}
