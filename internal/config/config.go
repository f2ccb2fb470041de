// Package config parses thermostat configuration messages and hands the
// installed configuration to the control loop. A configuration arrives as
// one JSON message on the config topic and always replaces the previous
// one wholesale; there is no partial update.
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/thermostat/internal/logic"
)

// Config is one whole installed configuration. Values are immutable after
// installation; a new message produces a new Config.
type Config struct {
	// StartTime is the schedule origin, UTC.
	StartTime time.Time

	// LowLimit and HighLimit are the base thresholds before schedule
	// adjustment. nil disables that stage entirely; an explicit 0 is a
	// real threshold.
	LowLimit  *float64
	HighLimit *float64

	// MinimumOffMins is the compressor rest period; at least 1.
	MinimumOffMins int

	Celsius bool

	// Offsets in message order. Order matters: see logic.Adjustment.
	Offsets []logic.Offset
}

// Unit returns the reporting unit string, "C" or "F".
func (c Config) Unit() string {
	if c.Celsius {
		return "C"
	}
	return "F"
}

// message mirrors the JSON payload on the config topic. Pointer fields
// distinguish absent from zero.
type message struct {
	StartTimeUTC   *string  `json:"startTimeUTC"`
	LowTempLimit   *float64 `json:"lowTempLimit"`
	HighTempLimit  *float64 `json:"highTempLimit"`
	MinimumOffMins *int     `json:"minimumOffMins"`
	Celsius        bool     `json:"celsius"`
	TempChanges    []struct {
		DaysLater  int     `json:"daysLater"`
		TempChange float64 `json:"tempChange"`
	} `json:"tempChanges"`
}

// Accepted startTimeUTC forms. A zoneless timestamp is taken as UTC.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

func parseStartTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Parse validates a raw config message and builds the Config it describes.
// Nothing is installed here; on error the caller keeps whatever config it
// already had.
func Parse(payload []byte) (*Config, error) {
	var m message
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if m.StartTimeUTC == nil {
		return nil, fmt.Errorf("config missing startTimeUTC")
	}
	start, err := parseStartTime(*m.StartTimeUTC)
	if err != nil {
		return nil, fmt.Errorf("startTimeUTC: %w", err)
	}

	if m.MinimumOffMins == nil {
		return nil, fmt.Errorf("config missing minimumOffMins")
	}
	if *m.MinimumOffMins < 1 {
		return nil, fmt.Errorf("minimumOffMins is %d, must be >= 1", *m.MinimumOffMins)
	}

	cfg := &Config{
		StartTime:      start,
		LowLimit:       m.LowTempLimit,
		HighLimit:      m.HighTempLimit,
		MinimumOffMins: *m.MinimumOffMins,
		Celsius:        m.Celsius,
	}
	for _, tc := range m.TempChanges {
		cfg.Offsets = append(cfg.Offsets, logic.Offset{
			DaysLater:  tc.DaysLater,
			TempChange: tc.TempChange,
		})
	}
	return cfg, nil
}
