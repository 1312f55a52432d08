package analysis

import (
	"math"
	"reflect"
	"testing"

	"github.com/i474232898/temperature-data-analysis/internal/dataset"
)

func TestSeasonalStatsGroups(t *testing.T) {
	records := []dataset.Record{
		{City: "Oslo", Season: dataset.SeasonWinter, Temperature: -5},
		{City: "Lima", Season: dataset.SeasonWinter, Temperature: 0},
		{City: "Oslo", Season: dataset.SeasonWinter, Temperature: -3},
		{City: "Oslo", Season: dataset.SeasonSummer, Temperature: 20},
		{City: "Oslo", Season: dataset.SeasonWinter, Temperature: -1},
		{City: "Lima", Season: dataset.SeasonWinter, Temperature: 2},
	}

	stats := SeasonalStats(records)
	if len(stats) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(stats))
	}

	// Rows come back sorted by city then season.
	lima, osloSummer, osloWinter := stats[0], stats[1], stats[2]

	if lima.City != "Lima" || lima.Season != dataset.SeasonWinter {
		t.Fatalf("unexpected first row: %+v", lima)
	}
	if lima.Mean != 1 || lima.Count != 2 {
		t.Fatalf("expected Lima mean 1 count 2, got %+v", lima)
	}
	if lima.Std == nil || !almostEqual(*lima.Std, math.Sqrt2) {
		t.Fatalf("expected Lima std sqrt(2), got %+v", lima.Std)
	}

	if osloSummer.City != "Oslo" || osloSummer.Season != dataset.SeasonSummer {
		t.Fatalf("unexpected second row: %+v", osloSummer)
	}
	if osloSummer.Mean != 20 || osloSummer.Count != 1 {
		t.Fatalf("expected Oslo summer mean 20 count 1, got %+v", osloSummer)
	}
	// A single observation has no sample standard deviation.
	if osloSummer.Std != nil {
		t.Fatalf("expected undefined std for single observation, got %v", *osloSummer.Std)
	}

	if osloWinter.Mean != -3 || osloWinter.Count != 3 {
		t.Fatalf("expected Oslo winter mean -3 count 3, got %+v", osloWinter)
	}
	if osloWinter.Std == nil || !almostEqual(*osloWinter.Std, 2) {
		t.Fatalf("expected Oslo winter std 2, got %+v", osloWinter.Std)
	}
}

func TestSeasonalStatsOrderIndependent(t *testing.T) {
	records := []dataset.Record{
		{City: "Oslo", Season: dataset.SeasonWinter, Temperature: -5},
		{City: "Lima", Season: dataset.SeasonSummer, Temperature: 25},
		{City: "Oslo", Season: dataset.SeasonWinter, Temperature: -1},
		{City: "Lima", Season: dataset.SeasonSummer, Temperature: 23},
	}
	reversed := make([]dataset.Record, len(records))
	for i, rec := range records {
		reversed[len(records)-1-i] = rec
	}

	if !reflect.DeepEqual(SeasonalStats(records), SeasonalStats(reversed)) {
		t.Fatal("expected identical stats regardless of input order")
	}
}

func TestSeasonalStatsEmpty(t *testing.T) {
	if stats := SeasonalStats(nil); len(stats) != 0 {
		t.Fatalf("expected no rows for empty input, got %d", len(stats))
	}
}

func TestLookupSeasonalStat(t *testing.T) {
	stats := []SeasonalStat{
		{City: "Oslo", Season: dataset.SeasonWinter, Mean: -3},
		{City: "Oslo", Season: dataset.SeasonSummer, Mean: 18},
	}

	row, ok := LookupSeasonalStat(stats, "Oslo", dataset.SeasonSummer)
	if !ok || row.Mean != 18 {
		t.Fatalf("expected Oslo summer row, got %+v ok=%v", row, ok)
	}

	if _, ok := LookupSeasonalStat(stats, "Lima", dataset.SeasonWinter); ok {
		t.Fatal("expected no row for unknown city")
	}
}
