package weather

import (
	"testing"

	"github.com/i474232898/temperature-data-analysis/internal/analysis"
	"github.com/i474232898/temperature-data-analysis/internal/dataset"
)

func floatPtr(v float64) *float64 { return &v }

func winterStat(mean, std float64) analysis.SeasonalStat {
	return analysis.SeasonalStat{
		City:   "Oslo",
		Season: dataset.SeasonWinter,
		Mean:   mean,
		Std:    floatPtr(std),
		Count:  10,
	}
}

func TestClassifyNormalIncludesBounds(t *testing.T) {
	stat := winterStat(10, 2) // normal range [6, 14]

	for _, temp := range []float64{6, 10, 14} {
		a := Classify(temp, stat)
		if a.Verdict != VerdictNormal {
			t.Fatalf("temp %v: expected normal, got %q", temp, a.Verdict)
		}
		if a.Season != dataset.SeasonWinter {
			t.Fatalf("temp %v: expected winter season, got %q", temp, a.Season)
		}
	}
}

func TestClassifyAnomalous(t *testing.T) {
	stat := winterStat(10, 2)

	if a := Classify(14.01, stat); a.Verdict != VerdictAnomalous {
		t.Fatalf("expected anomalous above upper bound, got %q", a.Verdict)
	}
	if a := Classify(5.99, stat); a.Verdict != VerdictAnomalous {
		t.Fatalf("expected anomalous below lower bound, got %q", a.Verdict)
	}
}

func TestClassifyIndeterminate(t *testing.T) {
	stat := analysis.SeasonalStat{
		City:   "Oslo",
		Season: dataset.SeasonWinter,
		Mean:   10,
		Count:  1, // single observation, no std
	}

	a := Classify(10, stat)
	if a.Verdict != VerdictIndeterminate {
		t.Fatalf("expected indeterminate without std, got %q", a.Verdict)
	}
	if a.UpperBound != nil || a.LowerBound != nil {
		t.Fatal("expected no bounds on an indeterminate assessment")
	}
}

func TestClassifyVerdictUsesExactBounds(t *testing.T) {
	stat := winterStat(10, 1.2345) // exact range [7.531, 12.469]

	// 12.4695 exceeds the exact upper bound even though it sits below the
	// rounded display value 12.47.
	a := Classify(12.4695, stat)
	if a.Verdict != VerdictAnomalous {
		t.Fatalf("expected anomalous against exact bound, got %q", a.Verdict)
	}
	if a.UpperBound == nil || *a.UpperBound != 12.47 {
		t.Fatalf("expected displayed upper bound 12.47, got %v", a.UpperBound)
	}
	if a.LowerBound == nil || *a.LowerBound != 7.53 {
		t.Fatalf("expected displayed lower bound 7.53, got %v", a.LowerBound)
	}
}
