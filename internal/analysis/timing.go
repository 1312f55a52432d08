package analysis

import "time"

// TimingSample records how long one strategy of a comparison run took,
// measured end to end around the whole operation. Produced once per run and
// handed to the presentation layer; never persisted.
type TimingSample struct {
	Strategy       string        `json:"strategy"`
	Elapsed        time.Duration `json:"-"`
	ElapsedSeconds float64       `json:"elapsedSeconds"`
}

// NewTimingSample builds a sample for the given strategy label.
func NewTimingSample(strategy string, elapsed time.Duration) TimingSample {
	return TimingSample{
		Strategy:       strategy,
		Elapsed:        elapsed,
		ElapsedSeconds: elapsed.Seconds(),
	}
}
