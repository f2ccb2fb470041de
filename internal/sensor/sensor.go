// Package sensor reads temperatures from the DS18B20 one-wire probe.
// The real implementation goes through the w1 sysfs interface; the fake
// returns scripted samples for tests.
package sensor

// Sampler produces temperature samples in degrees Celsius.
type Sampler interface {
	// StartConversion asks the probe to begin a temperature conversion.
	// Callers wait the settle delay before Read.
	StartConversion() error

	// Read returns the converted temperature in Celsius.
	Read() (float64, error)

	// Close releases the probe.
	Close() error
}
