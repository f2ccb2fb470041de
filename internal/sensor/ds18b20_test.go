package sensor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseW1Slave(t *testing.T) {
	tests := []struct {
		name string
		data string
		want float64
	}{
		{
			"room temperature",
			"72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n72 01 4b 46 7f ff 0e 10 57 t=23125",
			23.125,
		},
		{
			"below freezing",
			"f8 ff 4b 46 7f ff 08 10 9c : crc=9c YES\nf8 ff 4b 46 7f ff 08 10 9c t=-500",
			-0.5,
		},
		{
			"trailing newline",
			"4b 01 4b 46 7f ff 0c 10 d8 : crc=d8 YES\n4b 01 4b 46 7f ff 0c 10 d8 t=20687\n",
			20.687,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseW1Slave([]byte(tt.data))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseW1SlaveRejects(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			"failed crc",
			"72 01 4b 46 7f ff 0e 10 57 : crc=57 NO\n72 01 4b 46 7f ff 0e 10 57 t=23125",
			"CRC",
		},
		{
			"single line",
			"72 01 4b 46 7f ff 0e 10 57 : crc=57 YES",
			"unexpected w1_slave contents",
		},
		{
			"missing temperature field",
			"72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n72 01 4b 46 7f ff 0e 10 57",
			"no temperature",
		},
		{
			"garbage temperature",
			"72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n72 01 4b 46 7f ff 0e 10 57 t=abc",
			"parse temperature",
		},
		{
			"empty file",
			"",
			"unexpected w1_slave contents",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseW1Slave([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

// setupFakeProbe lays out a w1 sysfs tree in a temp dir and points the
// package at it.
func setupFakeProbe(t *testing.T, deviceID, contents string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, deviceID), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, deviceID, "w1_slave"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	old := w1Dir
	w1Dir = dir
	t.Cleanup(func() { w1Dir = old })
}

func TestDS18B20ReadsProbe(t *testing.T) {
	setupFakeProbe(t, "28-0316a2d8ff00",
		"72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n72 01 4b 46 7f ff 0e 10 57 t=21500")

	d, err := NewDS18B20("28-0316a2d8ff00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer d.Close()

	if err := d.StartConversion(); err != nil {
		t.Fatalf("StartConversion: %v", err)
	}
	got, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != 21.5 {
		t.Errorf("got %v, want 21.5", got)
	}
}

func TestNewDS18B20MissingProbe(t *testing.T) {
	setupFakeProbe(t, "28-0316a2d8ff00", "x")

	if _, err := NewDS18B20("28-doesnotexist"); err == nil {
		t.Error("expected error for absent probe")
	}
	if _, err := NewDS18B20(""); err == nil {
		t.Error("expected error for empty device id")
	}
}

func TestFakeSampler(t *testing.T) {
	f := NewFakeSampler([]float64{20, 21, 22})

	for _, want := range []float64{20, 21, 22, 22, 22} {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	}

	if err := f.StartConversion(); err != nil {
		t.Fatalf("StartConversion: %v", err)
	}
	if f.Conversions != 1 {
		t.Errorf("Conversions: got %d, want 1", f.Conversions)
	}

	f.Close()
	if !f.Closed {
		t.Error("expected Closed=true")
	}
}

func TestFakeSamplerErrors(t *testing.T) {
	f := NewFakeSampler(nil)
	if _, err := f.Read(); err == nil {
		t.Error("expected error with no samples configured")
	}

	f = NewFakeSampler([]float64{20})
	f.ReadError = os.ErrDeadlineExceeded
	if _, err := f.Read(); err == nil {
		t.Error("expected injected read error")
	}
}
