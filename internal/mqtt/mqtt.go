// Package mqtt provides the thermostat's broker transport with
// abstraction for testing.
package mqtt

import "encoding/json"

// Topics holds the full topic strings rooted at the configured base path.
type Topics struct {
	Availability string
	Config       string
	Status       string
	Error        string
}

// TopicsFor builds the topic set for a base path.
func TopicsFor(base string) Topics {
	return Topics{
		Availability: base + "/availability",
		Config:       base + "/config",
		Status:       base + "/status",
		Error:        base + "/error",
	}
}

// Availability payload values. Offline doubles as the broker's last will.
const (
	AvailabilityOnline  = "online"
	AvailabilityOffline = "offline"
)

// Publisher publishes thermostat telemetry to the broker.
type Publisher interface {
	// PublishStatus sends the retained per-cycle status record.
	// Returns error if publishing fails (should not crash the process).
	PublishStatus(s Status) error

	// PublishError sends a plain-text error event, not retained.
	PublishError(msg string) error

	// Close announces offline and disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Status is one completed decision cycle's published record. The limits
// are the active (schedule-adjusted) values and stay null until first
// computed.
type Status struct {
	CurrentTemp   float64  `json:"currentTemp"`
	LowTempLimit  *float64 `json:"lowTempLimit"`
	HighTempLimit *float64 `json:"highTempLimit"`
	TempUnit      string   `json:"tempUnit"`
	HeatOn        bool     `json:"heatOn"`
	CoolOn        bool     `json:"coolOn"`
}

// FormatStatus creates the JSON payload for a status record.
func FormatStatus(s Status) ([]byte, error) {
	return json.Marshal(s)
}
