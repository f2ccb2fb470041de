// Package status provides a thread-safe status tracker for the thermostat
// daemon. It is read by the HTTP handlers and updated by the control loop.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/thermostat/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Broker    string
	BaseTopic string
	HTTPAddr  string
	SensorID  string
	NTPServer string
	CycleSecs int64
	DBPath    string
}

// CycleResult is what one completed decision cycle reports.
type CycleResult struct {
	CurrentTemp float64
	Decision    float64

	// ActiveLow and ActiveHigh are the schedule-adjusted limits; nil
	// until first computed or when the stage is disabled.
	ActiveLow  *float64
	ActiveHigh *float64

	Unit    string
	HeatOn  bool
	CoolOn  bool
	Cooling logic.CoolingState
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Cycle CycleResult

	// Cycles counts completed decision cycles; Errors counts reported
	// error events.
	Cycles int
	Errors int

	ConfigReady   bool
	ClockSynced   bool
	MQTTConnected bool

	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Ready reports whether the readiness gate is open.
func (s Snapshot) Ready() bool {
	return s.ConfigReady && s.ClockSynced
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Cycle:     CycleResult{Cooling: logic.CoolingOff},
		},
	}
}

// Update records the result of one completed decision cycle.
// Called from the control loop once per cycle.
func (t *Tracker) Update(res CycleResult) {
	t.mu.Lock()
	t.snap.Cycle = res
	t.snap.Cycles++
	t.mu.Unlock()
}

// SetReadiness records the readiness-gate inputs.
func (t *Tracker) SetReadiness(configReady, clockSynced bool) {
	t.mu.Lock()
	t.snap.ConfigReady = configReady
	t.snap.ClockSynced = clockSynced
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// RecordError bumps the reported-error counter.
func (t *Tracker) RecordError() {
	t.mu.Lock()
	t.snap.Errors++
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
