package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/thermostat/internal/status"
	"github.com/sweeney/thermostat/internal/store"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details. The temperature fields use the
// same names as the MQTT status payload.
type StatusInner struct {
	CurrentTemp   float64    `json:"currentTemp"`
	DecisionTemp  float64    `json:"decisionTemp"`
	LowTempLimit  *float64   `json:"lowTempLimit"`
	HighTempLimit *float64   `json:"highTempLimit"`
	TempUnit      string     `json:"tempUnit"`
	HeatOn        bool       `json:"heatOn"`
	CoolOn        bool       `json:"coolOn"`
	CoolingState  string     `json:"coolingState"`
	Ready         bool       `json:"ready"`
	ConfigReady   bool       `json:"config_ready"`
	ClockSynced   bool       `json:"clock_synced"`
	Cycles        int        `json:"cycles"`
	Errors        int        `json:"errors"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
	BaseTopic string `json:"base_topic"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Broker    string `json:"broker"`
	BaseTopic string `json:"base_topic"`
	HTTPAddr  string `json:"http_addr"`
	SensorID  string `json:"sensor_id"`
	NTPServer string `json:"ntp_server"`
	CycleSecs int64  `json:"cycle_secs"`
	DBPath    string `json:"db_path"`
}

func formatJSON(snap status.Snapshot) []byte {
	sj := StatusJSON{
		Status: StatusInner{
			CurrentTemp:   snap.Cycle.CurrentTemp,
			DecisionTemp:  snap.Cycle.Decision,
			LowTempLimit:  snap.Cycle.ActiveLow,
			HighTempLimit: snap.Cycle.ActiveHigh,
			TempUnit:      snap.Cycle.Unit,
			HeatOn:        snap.Cycle.HeatOn,
			CoolOn:        snap.Cycle.CoolOn,
			CoolingState:  string(snap.Cycle.Cooling),
			Ready:         snap.Ready(),
			ConfigReady:   snap.ConfigReady,
			ClockSynced:   snap.ClockSynced,
			Cycles:        snap.Cycles,
			Errors:        snap.Errors,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			MQTT: MQTTStatus{
				Connected: snap.MQTTConnected,
				Broker:    snap.Config.Broker,
				BaseTopic: snap.Config.BaseTopic,
			},
			Config: ConfigJSON{
				Broker:    snap.Config.Broker,
				BaseTopic: snap.Config.BaseTopic,
				HTTPAddr:  snap.Config.HTTPAddr,
				SensorID:  snap.Config.SensorID,
				NTPServer: snap.Config.NTPServer,
				CycleSecs: snap.Config.CycleSecs,
				DBPath:    snap.Config.DBPath,
			},
		},
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}

// HistoryJSON is the JSON representation of recent persisted history.
type HistoryJSON struct {
	Cycles []CycleJSON `json:"cycles"`
	Events []EventJSON `json:"events"`
}

// CycleJSON is one persisted decision cycle.
type CycleJSON struct {
	At            string   `json:"at"`
	CurrentTemp   float64  `json:"currentTemp"`
	DecisionTemp  float64  `json:"decisionTemp"`
	LowTempLimit  *float64 `json:"lowTempLimit"`
	HighTempLimit *float64 `json:"highTempLimit"`
	TempUnit      string   `json:"tempUnit"`
	HeatOn        bool     `json:"heatOn"`
	CoolOn        bool     `json:"coolOn"`
}

// EventJSON is one persisted error event.
type EventJSON struct {
	At      string `json:"at"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func formatHistory(cycles []store.Cycle, events []store.Event) []byte {
	hj := HistoryJSON{
		Cycles: make([]CycleJSON, 0, len(cycles)),
		Events: make([]EventJSON, 0, len(events)),
	}
	for _, c := range cycles {
		hj.Cycles = append(hj.Cycles, CycleJSON{
			At:            c.At.UTC().Format(time.RFC3339),
			CurrentTemp:   c.Temp,
			DecisionTemp:  c.Decision,
			LowTempLimit:  c.Low,
			HighTempLimit: c.High,
			TempUnit:      c.Unit,
			HeatOn:        c.HeatOn,
			CoolOn:        c.CoolOn,
		})
	}
	for _, e := range events {
		hj.Events = append(hj.Events, EventJSON{
			At:      e.At.UTC().Format(time.RFC3339),
			Kind:    e.Kind,
			Message: e.Message,
		})
	}

	data, _ := json.MarshalIndent(hj, "", "  ")
	return data
}
