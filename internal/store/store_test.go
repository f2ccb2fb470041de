package store

import (
	"testing"
	"time"
)

func fptr(v float64) *float64 { return &v }

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndReadCycles(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.AppendCycle(Cycle{
			At:       base.Add(time.Duration(i) * time.Minute),
			Temp:     70 + float64(i),
			Decision: 70.5 + float64(i),
			Low:      fptr(68),
			High:     fptr(75),
			Unit:     "F",
			HeatOn:   i == 0,
		})
		if err != nil {
			t.Fatalf("append cycle %d: %v", i, err)
		}
	}

	cycles, err := s.RecentCycles(2)
	if err != nil {
		t.Fatalf("recent cycles: %v", err)
	}
	if len(cycles) != 2 {
		t.Fatalf("row count: got %d, want 2", len(cycles))
	}
	// Newest first.
	if cycles[0].Temp != 72 || cycles[1].Temp != 71 {
		t.Errorf("order: got temps %v, %v, want 72, 71", cycles[0].Temp, cycles[1].Temp)
	}
	if cycles[0].At != base.Add(2*time.Minute) {
		t.Errorf("timestamp round-trip: got %v", cycles[0].At)
	}
	if cycles[0].Low == nil || *cycles[0].Low != 68 {
		t.Errorf("low limit round-trip: got %v", cycles[0].Low)
	}
	if cycles[0].ID == "" {
		t.Error("append should assign a row id")
	}
}

func TestNilLimitsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.AppendCycle(Cycle{Temp: 21, Decision: 21, Unit: "C"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	cycles, err := s.RecentCycles(1)
	if err != nil {
		t.Fatalf("recent cycles: %v", err)
	}
	if len(cycles) != 1 {
		t.Fatalf("row count: got %d, want 1", len(cycles))
	}
	if cycles[0].Low != nil || cycles[0].High != nil {
		t.Errorf("disabled limits must come back nil, got %v / %v", cycles[0].Low, cycles[0].High)
	}
	if cycles[0].HeatOn || cycles[0].CoolOn {
		t.Error("relay flags should round-trip false")
	}
}

func TestAppendAndReadEvents(t *testing.T) {
	s := openTestStore(t)

	if err := s.AppendEvent("clock_inconsistency", "schedule starts in the future"); err != nil {
		t.Fatalf("append event: %v", err)
	}
	if err := s.AppendEvent("cycle_failure", "read sample: no probe"); err != nil {
		t.Fatalf("append event: %v", err)
	}

	events, err := s.RecentEvents(10)
	if err != nil {
		t.Fatalf("recent events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("row count: got %d, want 2", len(events))
	}
	for _, e := range events {
		if e.ID == "" || e.At.IsZero() {
			t.Errorf("event %+v missing id or timestamp", e)
		}
	}
}

func TestRecentOnEmptyStore(t *testing.T) {
	s := openTestStore(t)

	cycles, err := s.RecentCycles(5)
	if err != nil {
		t.Fatalf("recent cycles: %v", err)
	}
	if len(cycles) != 0 {
		t.Errorf("expected no rows, got %d", len(cycles))
	}

	events, err := s.RecentEvents(5)
	if err != nil {
		t.Fatalf("recent events: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no rows, got %d", len(events))
	}
}
