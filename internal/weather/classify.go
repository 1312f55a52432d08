package weather

import (
	"github.com/i474232898/temperature-data-analysis/internal/analysis"
	"github.com/i474232898/temperature-data-analysis/internal/common"
)

// Classify judges a current temperature against a seasonal reference row.
// The normal range is mean ± 2·std; a reading on a bound counts as normal.
// A row without a defined std cannot bound the range, so the verdict is
// indeterminate rather than a comparison against an undefined value.
//
// The verdict uses the exact bounds; the bounds attached to the Assessment
// are rounded to two decimals for presentation.
func Classify(temperatureC float64, stat analysis.SeasonalStat) Assessment {
	if stat.Std == nil {
		return Assessment{
			Verdict: VerdictIndeterminate,
			Season:  stat.Season,
		}
	}

	upper := stat.Mean + 2*(*stat.Std)
	lower := stat.Mean - 2*(*stat.Std)

	verdict := VerdictNormal
	if temperatureC > upper || temperatureC < lower {
		verdict = VerdictAnomalous
	}

	roundedUpper := common.Round2(upper)
	roundedLower := common.Round2(lower)

	return Assessment{
		Verdict:    verdict,
		Season:     stat.Season,
		UpperBound: &roundedUpper,
		LowerBound: &roundedLower,
	}
}
