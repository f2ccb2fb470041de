package logic

// Cooldown guards the cooling stage against compressor short-cycling.
// After the stage turns off, the relay is held off until the configured
// minimum number of off-minutes has passed (one control cycle per minute).
// The heating stage has no such guard.
type Cooldown struct {
	State CoolingState

	// Elapsed counts off-cycles; meaningful only while State is
	// CoolingWaiting.
	Elapsed int
}

// NewCooldown returns a guard in the off state.
func NewCooldown() *Cooldown {
	return &Cooldown{State: CoolingOff}
}

// Step advances the guard by one control cycle and returns the cooling
// relay command. demand reports whether the smoothed temperature is above
// the active high limit.
//
// While waiting, the relay stays off regardless of demand. The wait ends
// after minimumOffMins-1 counted cycles; the cycle that transitioned out
// of the on state accounts for the first off-minute.
func (c *Cooldown) Step(demand bool, minimumOffMins int) bool {
	switch c.State {
	case CoolingOn:
		if demand {
			return true
		}
		c.State = CoolingWaiting
		c.Elapsed = 0
		return false
	case CoolingWaiting:
		c.Elapsed++
		if c.Elapsed >= minimumOffMins-1 {
			c.State = CoolingOff
		}
		return false
	default:
		if demand {
			c.State = CoolingOn
			return true
		}
		return false
	}
}
