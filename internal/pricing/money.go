package pricing

import "math"

// Round2 rounds half-up on amount*100, so 1.005 (stored as 1.00499...)
// gives 1.00.
func Round2(amount float64) float64 {
	return math.Floor(float64(amount*100)+0.5) / 100 // float64() keeps the multiply out of an FMA
}
