package analysis

import (
	"math"
	"sort"

	"github.com/i474232898/temperature-data-analysis/internal/dataset"
)

// SeasonalStat is one row of the seasonal reference table: the sample mean
// and sample standard deviation of every historical temperature observed for
// a (city, season) pair. Std is nil when the group holds a single
// observation, since a sample standard deviation needs at least two.
type SeasonalStat struct {
	City   string         `json:"city"`
	Season dataset.Season `json:"season"`
	Mean   float64        `json:"mean"`
	Std    *float64       `json:"std,omitempty"`
	Count  int            `json:"count"`
}

type seasonalKey struct {
	city   string
	season dataset.Season
}

// SeasonalStats groups the records by (city, season) and computes each
// group's mean and sample standard deviation. Exactly one row is produced
// per pair present in the input; rows are sorted by city then season so the
// output is deterministic regardless of how groups are assembled.
func SeasonalStats(records []dataset.Record) []SeasonalStat {
	type acc struct {
		sum   float64
		sumSq float64
		n     int
	}

	groups := make(map[seasonalKey]*acc)
	for _, rec := range records {
		k := seasonalKey{city: rec.City, season: rec.Season}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.sum += rec.Temperature
		a.sumSq += rec.Temperature * rec.Temperature
		a.n++
	}

	stats := make([]SeasonalStat, 0, len(groups))
	for k, a := range groups {
		row := SeasonalStat{
			City:   k.city,
			Season: k.season,
			Mean:   a.sum / float64(a.n),
			Count:  a.n,
		}
		if a.n >= 2 {
			n := float64(a.n)
			variance := (a.sumSq - a.sum*a.sum/n) / (n - 1)
			if variance < 0 {
				variance = 0
			}
			std := math.Sqrt(variance)
			row.Std = &std
		}
		stats = append(stats, row)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].City != stats[j].City {
			return stats[i].City < stats[j].City
		}
		return stats[i].Season < stats[j].Season
	})

	return stats
}

// LookupSeasonalStat finds the reference row for a (city, season) pair.
func LookupSeasonalStat(stats []SeasonalStat, city string, season dataset.Season) (SeasonalStat, bool) {
	for _, s := range stats {
		if s.City == city && s.Season == season {
			return s, true
		}
	}
	return SeasonalStat{}, false
}
