package common

import "math"

// Round2 rounds to two decimal places, the precision the presentation layer
// reports range bounds with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
