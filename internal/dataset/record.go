package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Season labels a record with the meteorological season it was observed in.
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
)

// ParseSeason normalizes a raw season cell to one of the four known values.
func ParseSeason(s string) (Season, error) {
	switch Season(strings.ToLower(strings.TrimSpace(s))) {
	case SeasonWinter:
		return SeasonWinter, nil
	case SeasonSpring:
		return SeasonSpring, nil
	case SeasonSummer:
		return SeasonSummer, nil
	case SeasonAutumn:
		return SeasonAutumn, nil
	default:
		return "", fmt.Errorf("unknown season %q", s)
	}
}

// Record is one row of the historical temperature dataset.
type Record struct {
	Timestamp   time.Time `json:"timestamp"` // always UTC
	City        string    `json:"city"`
	Season      Season    `json:"season"`
	Temperature float64   `json:"temperature"` // degrees Celsius
}

// Cities returns the distinct city names in first-seen order.
func Cities(records []Record) []string {
	seen := make(map[string]bool)
	var cities []string
	for _, rec := range records {
		if !seen[rec.City] {
			seen[rec.City] = true
			cities = append(cities, rec.City)
		}
	}
	return cities
}

// LatestSeasons returns, per city, the season of that city's most recent
// record. The live monitor uses it to pick the seasonal reference row a
// current reading should be judged against.
func LatestSeasons(records []Record) map[string]Season {
	latest := make(map[string]time.Time)
	seasons := make(map[string]Season)
	for _, rec := range records {
		if ts, ok := latest[rec.City]; !ok || !rec.Timestamp.Before(ts) {
			latest[rec.City] = rec.Timestamp
			seasons[rec.City] = rec.Season
		}
	}
	return seasons
}
