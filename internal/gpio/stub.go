//go:build !linux

package gpio

import "errors"

// RealRelays is not available on non-Linux platforms.
type RealRelays struct{}

// NewRealRelays returns an error on non-Linux platforms.
func NewRealRelays(chipName string, pinHeat, pinCool int) (*RealRelays, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// SetHeat is not implemented on non-Linux platforms.
func (r *RealRelays) SetHeat(on bool) error {
	return errors.New("gpio: not supported")
}

// SetCool is not implemented on non-Linux platforms.
func (r *RealRelays) SetCool(on bool) error {
	return errors.New("gpio: not supported")
}

// Heat is not implemented on non-Linux platforms.
func (r *RealRelays) Heat() bool { return false }

// Cool is not implemented on non-Linux platforms.
func (r *RealRelays) Cool() bool { return false }

// Close is not implemented on non-Linux platforms.
func (r *RealRelays) Close() error {
	return nil
}
