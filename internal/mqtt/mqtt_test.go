package mqtt

import (
	"errors"
	"testing"
)

func TestTopicsFor(t *testing.T) {
	topics := TopicsFor("home/thermostat")

	if topics.Availability != "home/thermostat/availability" {
		t.Errorf("availability topic: got %q", topics.Availability)
	}
	if topics.Config != "home/thermostat/config" {
		t.Errorf("config topic: got %q", topics.Config)
	}
	if topics.Status != "home/thermostat/status" {
		t.Errorf("status topic: got %q", topics.Status)
	}
	if topics.Error != "home/thermostat/error" {
		t.Errorf("error topic: got %q", topics.Error)
	}
}

func fptr(v float64) *float64 { return &v }

// The status payload is the wire contract consumed by dashboards; pin the
// exact JSON, including nulls for disabled stages.
func TestFormatStatus(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   string
	}{
		{
			name: "both limits active",
			status: Status{
				CurrentTemp:   71.5,
				LowTempLimit:  fptr(68),
				HighTempLimit: fptr(75),
				TempUnit:      "F",
				HeatOn:        false,
				CoolOn:        true,
			},
			want: `{"currentTemp":71.5,"lowTempLimit":68,"highTempLimit":75,"tempUnit":"F","heatOn":false,"coolOn":true}`,
		},
		{
			name: "heating only, celsius",
			status: Status{
				CurrentTemp:  19.25,
				LowTempLimit: fptr(20),
				TempUnit:     "C",
				HeatOn:       true,
			},
			want: `{"currentTemp":19.25,"lowTempLimit":20,"highTempLimit":null,"tempUnit":"C","heatOn":true,"coolOn":false}`,
		},
		{
			name:   "no limits computed yet",
			status: Status{CurrentTemp: 70, TempUnit: "F"},
			want:   `{"currentTemp":70,"lowTempLimit":null,"highTempLimit":null,"tempUnit":"F","heatOn":false,"coolOn":false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := FormatStatus(tt.status)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(payload) != tt.want {
				t.Errorf("payload:\n got  %s\n want %s", payload, tt.want)
			}
		})
	}
}

func TestAvailabilityValues(t *testing.T) {
	// The broker retains these strings; dashboards match them
	// case-sensitively.
	if AvailabilityOnline != "online" || AvailabilityOffline != "offline" {
		t.Errorf("availability values changed: %q / %q", AvailabilityOnline, AvailabilityOffline)
	}
}

func TestFakeRecordsStatuses(t *testing.T) {
	f := NewFakePublisher()

	s := Status{CurrentTemp: 21.5, TempUnit: "C", HeatOn: true}
	if err := f.PublishStatus(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Statuses) != 1 {
		t.Fatalf("recorded statuses: got %d, want 1", len(f.Statuses))
	}
	if f.Statuses[0] != s {
		t.Errorf("recorded status: got %+v", f.Statuses[0])
	}
	if len(f.StatusPayloads) != 1 {
		t.Fatalf("recorded payloads: got %d, want 1", len(f.StatusPayloads))
	}
}

func TestFakeRecordsErrors(t *testing.T) {
	f := NewFakePublisher()

	if err := f.PublishError("sensor read failed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Errors) != 1 || f.Errors[0] != "sensor read failed" {
		t.Errorf("recorded errors: got %v", f.Errors)
	}
}

func TestFakeFailures(t *testing.T) {
	f := NewFakePublisher()
	f.StatusFailure = errors.New("broker gone")
	f.ErrorFailure = errors.New("broker gone")

	if err := f.PublishStatus(Status{}); err == nil {
		t.Error("expected status publish failure")
	}
	if err := f.PublishError("oops"); err == nil {
		t.Error("expected error publish failure")
	}
	if len(f.Statuses) != 0 || len(f.Errors) != 0 {
		t.Error("failed publishes must not be recorded")
	}
}

func TestFakeReset(t *testing.T) {
	f := NewFakePublisher()
	f.PublishStatus(Status{CurrentTemp: 1})
	f.PublishError("x")
	f.Close()

	f.Reset()

	if len(f.Statuses) != 0 || len(f.Errors) != 0 || f.Closed {
		t.Error("Reset should clear all recorded state")
	}
}
