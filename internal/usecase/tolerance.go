package usecase

// Price bands for the allowed deviation from a target price.
// Each band applies a percentage of the target price; the lowest band also has a floor.
const (
	lowBandCeiling  = 5000   // targets below this use lowBandPercent with lowBandFloor
	midBandCeiling  = 20000  // targets below this use midBandPercent
	highBandCeiling = 100000 // targets below this use highBandPercent, above it topBandPercent

	lowBandFloor    = 200
	lowBandPercent  = 10
	midBandPercent  = 15
	highBandPercent = 20
	topBandPercent  = 25
)

// Tolerance returns the allowed absolute deviation from targetPrice.
// Percentages truncate toward zero.
func Tolerance(targetPrice int) int {
	switch {
	case targetPrice < lowBandCeiling:
		return max(lowBandFloor, percentOf(targetPrice, lowBandPercent))
	case targetPrice < midBandCeiling:
		return percentOf(targetPrice, midBandPercent)
	case targetPrice < highBandCeiling:
		return percentOf(targetPrice, highBandPercent)
	default:
		return percentOf(targetPrice, topBandPercent)
	}
}

func percentOf(value, percent int) int {
	return value * percent / 100
}

// withinTolerance reports whether price is at most tol away from target
func withinTolerance(price, target, tol int) bool {
	diff := price - target
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol
}
