package logic

// Adjustment returns the schedule temperature adjustment in effect after
// daysElapsed whole days.
//
// Offsets are scanned in stored order; every entry whose DaysLater has been
// reached overwrites the running value, so the last qualifying entry in list
// order wins. Offsets are expected to arrive sorted ascending by DaysLater,
// which makes that the latest applicable entry. An unsorted list is honored
// as-is; the result is then order-dependent.
func Adjustment(offsets []Offset, daysElapsed int) float64 {
	var adjustment float64
	for _, o := range offsets {
		if o.DaysLater <= daysElapsed {
			adjustment = o.TempChange
		}
	}
	return adjustment
}
