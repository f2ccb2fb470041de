package sensor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// w1Dir is where the kernel w1 therm driver exposes probes.
// Overridable in tests.
var w1Dir = "/sys/bus/w1/devices"

// DS18B20 reads a single one-wire temperature probe via sysfs.
type DS18B20 struct {
	path string
}

// NewDS18B20 opens the probe with the given one-wire id (e.g. "28-0316a2...").
func NewDS18B20(deviceID string) (*DS18B20, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("sensor device id not configured")
	}
	path := filepath.Join(w1Dir, deviceID, "w1_slave")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("probe %s: %w", deviceID, err)
	}
	return &DS18B20{path: path}, nil
}

// StartConversion is a no-op: the w1 driver triggers a conversion on read
// and blocks until it finishes.
func (d *DS18B20) StartConversion() error {
	return nil
}

// Read returns the probe temperature in Celsius.
func (d *DS18B20) Read() (float64, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return 0, fmt.Errorf("read probe: %w", err)
	}
	return parseW1Slave(data)
}

// Close releases the probe. Nothing is held open between reads.
func (d *DS18B20) Close() error {
	return nil
}

// parseW1Slave extracts degrees Celsius from the two-line w1_slave format:
//
//	72 01 4b 46 7f ff 0e 10 57 : crc=57 YES
//	72 01 4b 46 7f ff 0e 10 57 t=23125
func parseW1Slave(data []byte) (float64, error) {
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		return 0, fmt.Errorf("unexpected w1_slave contents: %q", string(data))
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[0]), "YES") {
		return 0, fmt.Errorf("probe CRC check failed: %q", strings.TrimSpace(lines[0]))
	}
	i := strings.LastIndex(lines[1], "t=")
	if i < 0 {
		return 0, fmt.Errorf("no temperature in w1_slave output: %q", lines[1])
	}
	milli, err := strconv.Atoi(strings.TrimSpace(lines[1][i+2:]))
	if err != nil {
		return 0, fmt.Errorf("parse temperature: %w", err)
	}
	return float64(milli) / 1000, nil
}
