// Package control runs the thermostat's decision loop: once per cycle it
// samples the temperature, applies the schedule and smoothing, decides
// the heating and cooling relay commands, and emits telemetry. Nothing
// in here is fatal; every per-cycle failure is contained, reported, and
// followed by the next cycle.
package control

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sweeney/thermostat/internal/config"
	"github.com/sweeney/thermostat/internal/gpio"
	"github.com/sweeney/thermostat/internal/logger"
	"github.com/sweeney/thermostat/internal/logic"
	"github.com/sweeney/thermostat/internal/metrics"
	"github.com/sweeney/thermostat/internal/mqtt"
	"github.com/sweeney/thermostat/internal/sensor"
	"github.com/sweeney/thermostat/internal/status"
	"github.com/sweeney/thermostat/internal/store"
)

// Timing defaults. One decision cycle per minute; the sensor conversion
// settle time is charged against the period, not added to it.
const (
	DefaultCyclePeriod   = 60 * time.Second
	DefaultSettleDelay   = 750 * time.Millisecond
	DefaultReadinessPoll = 5 * time.Second
)

// Event kinds recorded on the error topic and in the events table.
const (
	EventConfigRejected     = "config_rejected"
	EventClockInconsistency = "clock_inconsistency"
	EventCycleFailure       = "cycle_failure"
)

// Clock provides synchronized UTC time for the schedule computation.
// Implemented by *clock.Service.
type Clock interface {
	Synchronized() bool
	Now() time.Time
}

// Recorder persists cycle history and error events. Implemented by
// *store.Store.
type Recorder interface {
	AppendCycle(c store.Cycle) error
	AppendEvent(kind, message string) error
}

// Deps are the loop's collaborators. Conn, Recorder, Tracker, and
// Metrics are optional.
type Deps struct {
	Sampler   sensor.Sampler
	Clock     Clock
	Relays    gpio.Relays
	Publisher mqtt.Publisher
	Configs   *config.Store
	Conn      mqtt.ConnectionStatus
	Recorder  Recorder
	Tracker   *status.Tracker
	Metrics   *metrics.Metrics
}

// Options tune the loop's timing. Zero values take the defaults.
type Options struct {
	CyclePeriod   time.Duration
	SettleDelay   time.Duration
	ReadinessPoll time.Duration
}

func (o Options) withDefaults() Options {
	if o.CyclePeriod == 0 {
		o.CyclePeriod = DefaultCyclePeriod
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.ReadinessPoll == 0 {
		o.ReadinessPoll = DefaultReadinessPoll
	}
	return o
}

// cycleState carries decision state across cycles. Owned exclusively by
// the loop goroutine.
type cycleState struct {
	previous float64
	current  float64

	// seeded flips once, on the first cycle with a real sample; the
	// first decision is then based on the instantaneous reading.
	seeded bool

	// activeLow and activeHigh are base limits plus the current schedule
	// adjustment. They stay nil until first computed and keep their
	// prior values across clock-inconsistency cycles.
	activeLow  *float64
	activeHigh *float64

	cooldown *logic.Cooldown
}

// Loop is the thermostat's control loop.
type Loop struct {
	deps  Deps
	opts  Options
	log   *logger.Logger
	state cycleState
}

// New creates a Loop. Run starts it.
func New(deps Deps, opts Options, log *logger.Logger) *Loop {
	return &Loop{
		deps:  deps,
		opts:  opts.withDefaults(),
		log:   log,
		state: cycleState{cooldown: logic.NewCooldown()},
	}
}

// Run executes decision cycles until ctx is cancelled. While the
// readiness gate is closed (no config installed, or clock not yet
// synchronized) it rechecks every ReadinessPoll without consuming a
// cycle slot.
func (l *Loop) Run(ctx context.Context) {
	l.log.Infof("control loop started, cycle period %v", l.opts.CyclePeriod)
	for {
		if ctx.Err() != nil {
			return
		}
		if !l.gateOpen() {
			if !sleepCtx(ctx, l.opts.ReadinessPoll) {
				return
			}
			continue
		}
		l.RunCycle(ctx)
		// The settle delay was already spent inside the cycle.
		if !sleepCtx(ctx, l.opts.CyclePeriod-l.opts.SettleDelay) {
			return
		}
	}
}

func (l *Loop) gateOpen() bool {
	ready := l.deps.Configs.Ready()
	synced := l.deps.Clock.Synchronized()
	if l.deps.Tracker != nil {
		l.deps.Tracker.SetReadiness(ready, synced)
		if l.deps.Conn != nil {
			l.deps.Tracker.SetMQTTConnected(l.deps.Conn.IsConnected())
		}
	}
	if ready && synced {
		return true
	}
	if !ready {
		l.log.Infof("waiting for config, will check again in %v", l.opts.ReadinessPoll)
	} else {
		l.log.Infof("waiting for clock sync, will check again in %v", l.opts.ReadinessPoll)
	}
	return false
}

// RunCycle executes one decision cycle against the currently installed
// config. Errors and panics are contained here: they become one reported
// error event and the loop moves on.
func (l *Loop) RunCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			l.reportError(EventCycleFailure, fmt.Sprintf("cycle panic: %v", r))
		}
	}()

	cfg := l.deps.Configs.Current()
	if cfg == nil {
		return
	}
	if err := l.cycle(ctx, cfg); err != nil {
		l.reportError(EventCycleFailure, err.Error())
	}
}

func (l *Loop) cycle(ctx context.Context, cfg *config.Config) error {
	if err := l.deps.Sampler.StartConversion(); err != nil {
		return fmt.Errorf("start conversion: %w", err)
	}
	if !sleepCtx(ctx, l.opts.SettleDelay) {
		return nil
	}
	sample, err := l.deps.Sampler.Read()
	if err != nil {
		return fmt.Errorf("read sample: %w", err)
	}

	temp := sample
	if !cfg.Celsius {
		temp = sample*1.8 + 32
	}
	l.state.current = temp
	if !l.state.seeded {
		l.state.previous = temp
		l.state.seeded = true
	}

	now := l.deps.Clock.Now()
	days := daysElapsed(cfg.StartTime, now)
	if days < 0 {
		// Start in the future, or NTP gave us garbage. Report it, keep
		// the prior active limits, and carry on with the cycle.
		l.reportError(EventClockInconsistency, fmt.Sprintf(
			"Now is %s, startTime is %s UTC, diff was %d days.",
			now.Format(time.RFC3339), cfg.StartTime.Format(time.RFC3339), days))
	} else {
		// Recompute both active limits from this cycle's config snapshot;
		// a limit the installed config disables must not linger from a
		// previous one.
		adj := logic.Adjustment(cfg.Offsets, days)
		l.state.activeLow = nil
		if cfg.LowLimit != nil {
			v := *cfg.LowLimit + adj
			l.state.activeLow = &v
		}
		l.state.activeHigh = nil
		if cfg.HighLimit != nil {
			v := *cfg.HighLimit + adj
			l.state.activeHigh = &v
		}
		l.log.Debugf("%d day(s) in, adjustment %v, active range %v-%v",
			days, adj, limitString(l.state.activeLow), limitString(l.state.activeHigh))
	}

	// A configured stage without an ever-computed active limit means the
	// schedule has never resolved (start still in the future). Fail the
	// cycle before touching either relay.
	if cfg.LowLimit != nil && l.state.activeLow == nil {
		return fmt.Errorf("heating limit configured but no active limit computed yet")
	}
	if cfg.HighLimit != nil && l.state.activeHigh == nil {
		return fmt.Errorf("cooling limit configured but no active limit computed yet")
	}

	decision := logic.DecisionValue(l.state.previous, l.state.current)

	heatOn := cfg.LowLimit != nil && decision < *l.state.activeLow
	if err := l.deps.Relays.SetHeat(heatOn); err != nil {
		return fmt.Errorf("set heat relay: %w", err)
	}

	demand := cfg.HighLimit != nil && decision > *l.state.activeHigh
	coolOn := l.state.cooldown.Step(demand, cfg.MinimumOffMins)
	if err := l.deps.Relays.SetCool(coolOn); err != nil {
		return fmt.Errorf("set cool relay: %w", err)
	}

	l.state.previous = l.state.current

	l.emit(cfg, decision, heatOn, coolOn)
	return nil
}

// emit publishes the status record and feeds the history store, tracker,
// and metrics. Publish failures are logged and swallowed: transport
// trouble must never stall the control logic.
func (l *Loop) emit(cfg *config.Config, decision float64, heatOn, coolOn bool) {
	st := mqtt.Status{
		CurrentTemp:   l.state.current,
		LowTempLimit:  l.state.activeLow,
		HighTempLimit: l.state.activeHigh,
		TempUnit:      cfg.Unit(),
		HeatOn:        heatOn,
		CoolOn:        coolOn,
	}
	if err := l.deps.Publisher.PublishStatus(st); err != nil {
		l.log.Warnf("publish status: %v", err)
	}

	if l.deps.Recorder != nil {
		err := l.deps.Recorder.AppendCycle(store.Cycle{
			Temp:     l.state.current,
			Decision: decision,
			Low:      l.state.activeLow,
			High:     l.state.activeHigh,
			Unit:     cfg.Unit(),
			HeatOn:   heatOn,
			CoolOn:   coolOn,
		})
		if err != nil {
			l.log.Warnf("record cycle: %v", err)
		}
	}

	res := status.CycleResult{
		CurrentTemp: l.state.current,
		Decision:    decision,
		ActiveLow:   l.state.activeLow,
		ActiveHigh:  l.state.activeHigh,
		Unit:        cfg.Unit(),
		HeatOn:      heatOn,
		CoolOn:      coolOn,
		Cooling:     l.state.cooldown.State,
	}
	if l.deps.Tracker != nil {
		l.deps.Tracker.Update(res)
	}
	if l.deps.Metrics != nil {
		l.deps.Metrics.ObserveCycle(res)
	}
}

// reportError publishes, logs, and records one error event.
func (l *Loop) reportError(kind, msg string) {
	l.log.Errorf("%s: %s", kind, msg)
	if err := l.deps.Publisher.PublishError(msg); err != nil {
		l.log.Warnf("publish error event: %v", err)
	}
	if l.deps.Recorder != nil {
		if err := l.deps.Recorder.AppendEvent(kind, msg); err != nil {
			l.log.Warnf("record error event: %v", err)
		}
	}
	if l.deps.Tracker != nil {
		l.deps.Tracker.RecordError()
	}
	if l.deps.Metrics != nil {
		l.deps.Metrics.ObserveError()
	}
}

// daysElapsed floors, so one hour before the start counts as -1 days.
func daysElapsed(start, now time.Time) int {
	return int(math.Floor(now.Sub(start).Hours() / 24))
}

func limitString(v *float64) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%.1f", *v)
}

// sleepCtx waits d and reports false if ctx was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
