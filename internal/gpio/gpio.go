// Package gpio drives the heat and cool relay outputs with hardware
// abstraction. The real implementation uses the Linux GPIO character
// device. The fake implementation allows testing without hardware.
package gpio

// Relays commands the two relay outputs and reports the last applied state.
type Relays interface {
	// SetHeat applies the heating relay command.
	SetHeat(on bool) error

	// SetCool applies the cooling relay command.
	SetCool(on bool) error

	// Heat reports the last applied heating command.
	Heat() bool

	// Cool reports the last applied cooling command.
	Cool() bool

	// Close commands both relays off and releases GPIO resources.
	Close() error
}

// Default relay pin assignments.
const (
	DefaultPinHeat = 18
	DefaultPinCool = 19
)
