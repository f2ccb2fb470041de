// Package metrics exposes the thermostat's Prometheus instrumentation.
package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sweeney/thermostat/internal/status"
)

// Metrics holds the daemon's collectors, registered on one registry.
type Metrics struct {
	CurrentTemp  prometheus.Gauge
	DecisionTemp prometheus.Gauge
	ActiveLow    prometheus.Gauge
	ActiveHigh   prometheus.Gauge
	HeatOn       prometheus.Gauge
	CoolOn       prometheus.Gauge
	Cycles       prometheus.Counter
	Errors       prometheus.Counter
}

// New registers the thermostat collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CurrentTemp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "thermostat_current_temperature",
			Help: "Last sampled temperature, in the configured unit.",
		}),
		DecisionTemp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "thermostat_decision_temperature",
			Help: "Smoothed temperature used for threshold comparisons.",
		}),
		ActiveLow: factory.NewGauge(prometheus.GaugeOpts{
			Name: "thermostat_active_low_limit",
			Help: "Schedule-adjusted heating threshold; NaN when disabled.",
		}),
		ActiveHigh: factory.NewGauge(prometheus.GaugeOpts{
			Name: "thermostat_active_high_limit",
			Help: "Schedule-adjusted cooling threshold; NaN when disabled.",
		}),
		HeatOn: factory.NewGauge(prometheus.GaugeOpts{
			Name: "thermostat_heat_relay_on",
			Help: "Heating relay command (1 on, 0 off).",
		}),
		CoolOn: factory.NewGauge(prometheus.GaugeOpts{
			Name: "thermostat_cool_relay_on",
			Help: "Cooling relay command (1 on, 0 off).",
		}),
		Cycles: factory.NewCounter(prometheus.CounterOpts{
			Name: "thermostat_cycles_total",
			Help: "Completed decision cycles.",
		}),
		Errors: factory.NewCounter(prometheus.CounterOpts{
			Name: "thermostat_errors_total",
			Help: "Reported error events.",
		}),
	}
}

// ObserveCycle records one completed decision cycle.
func (m *Metrics) ObserveCycle(res status.CycleResult) {
	m.CurrentTemp.Set(res.CurrentTemp)
	m.DecisionTemp.Set(res.Decision)
	m.ActiveLow.Set(limitValue(res.ActiveLow))
	m.ActiveHigh.Set(limitValue(res.ActiveHigh))
	m.HeatOn.Set(boolValue(res.HeatOn))
	m.CoolOn.Set(boolValue(res.CoolOn))
	m.Cycles.Inc()
}

// ObserveError records one reported error event.
func (m *Metrics) ObserveError() {
	m.Errors.Inc()
}

func limitValue(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
