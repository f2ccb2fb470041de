package gpio

import (
	"errors"
	"testing"
)

func TestFakeRelaysRecordCommands(t *testing.T) {
	f := NewFakeRelays()

	if f.Heat() || f.Cool() {
		t.Error("relays should start off")
	}

	if err := f.SetHeat(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.SetCool(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.SetHeat(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Cool() {
		t.Errorf("Cool: got %v, want false", f.Cool())
	}
	if f.Heat() {
		t.Errorf("Heat: got %v, want false after last command", f.Heat())
	}

	wantHeat := []bool{true, false}
	if len(f.HeatHistory) != len(wantHeat) {
		t.Fatalf("HeatHistory length: got %d, want %d", len(f.HeatHistory), len(wantHeat))
	}
	for i, want := range wantHeat {
		if f.HeatHistory[i] != want {
			t.Errorf("HeatHistory[%d]: got %v, want %v", i, f.HeatHistory[i], want)
		}
	}
	if len(f.CoolHistory) != 1 || f.CoolHistory[0] != false {
		t.Errorf("CoolHistory: got %v, want [false]", f.CoolHistory)
	}
}

func TestFakeRelaysError(t *testing.T) {
	f := NewFakeRelays()
	f.SetError = errors.New("simulated error")

	if err := f.SetHeat(true); err == nil {
		t.Error("expected error from SetHeat")
	}
	if err := f.SetCool(true); err == nil {
		t.Error("expected error from SetCool")
	}
	if len(f.HeatHistory) != 0 || len(f.CoolHistory) != 0 {
		t.Error("failed commands must not be recorded")
	}
}

func TestFakeRelaysClose(t *testing.T) {
	f := NewFakeRelays()

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeRelaysReset(t *testing.T) {
	f := NewFakeRelays()
	f.SetHeat(true)
	f.SetCool(true)
	f.Close()

	f.Reset()

	if f.Heat() || f.Cool() || f.Closed {
		t.Error("Reset should clear state")
	}
	if len(f.HeatHistory) != 0 || len(f.CoolHistory) != 0 {
		t.Error("Reset should clear history")
	}
}
