package logic

// DecisionValue combines the previous and current temperature samples into
// the smoothed value used for threshold comparisons. On the first cycle the
// caller seeds previous with the current sample, so the first decision is
// based on the instantaneous reading.
func DecisionValue(previous, current float64) float64 {
	return (previous + current) / 2
}
