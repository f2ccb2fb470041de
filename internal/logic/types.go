// Package logic contains the pure decision core of the thermostat:
// schedule evaluation, temperature smoothing, and the cooling cooldown
// guard. This package has NO external dependencies (no GPIO, MQTT, OS,
// or time.Sleep); the control loop feeds it plain values and applies
// its outputs.
package logic

// CoolingState identifies where the cooling stage is in its duty cycle.
type CoolingState string

const (
	// CoolingOff: the compressor is idle and may start on demand.
	CoolingOff CoolingState = "off"

	// CoolingOn: the compressor is running.
	CoolingOn CoolingState = "on"

	// CoolingWaiting: the compressor recently stopped and is held off
	// for the configured minimum, regardless of demand.
	CoolingWaiting CoolingState = "waiting"
)

// Offset shifts the active temperature limits starting DaysLater days
// after the configured schedule start time.
type Offset struct {
	DaysLater  int
	TempChange float64
}
