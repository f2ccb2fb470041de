//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealRelays drives relays on actual hardware using the Linux GPIO
// character device.
type RealRelays struct {
	chip *gpiocdev.Chip
	heat *gpiocdev.Line
	cool *gpiocdev.Line

	heatOn bool
	coolOn bool
}

// NewRealRelays requests both relay lines as outputs, initially off.
func NewRealRelays(chipName string, pinHeat, pinCool int) (*RealRelays, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	heatLine, err := chip.RequestLine(pinHeat, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request heat pin %d: %w", pinHeat, err)
	}

	coolLine, err := chip.RequestLine(pinCool, gpiocdev.AsOutput(0))
	if err != nil {
		heatLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request cool pin %d: %w", pinCool, err)
	}

	return &RealRelays{
		chip: chip,
		heat: heatLine,
		cool: coolLine,
	}, nil
}

// SetHeat applies the heating relay command.
func (r *RealRelays) SetHeat(on bool) error {
	if err := r.heat.SetValue(pinValue(on)); err != nil {
		return fmt.Errorf("set heat pin: %w", err)
	}
	r.heatOn = on
	return nil
}

// SetCool applies the cooling relay command.
func (r *RealRelays) SetCool(on bool) error {
	if err := r.cool.SetValue(pinValue(on)); err != nil {
		return fmt.Errorf("set cool pin: %w", err)
	}
	r.coolOn = on
	return nil
}

// Heat reports the last applied heating command.
func (r *RealRelays) Heat() bool { return r.heatOn }

// Cool reports the last applied cooling command.
func (r *RealRelays) Cool() bool { return r.coolOn }

// Close commands both relays off before releasing the lines, so a daemon
// restart never leaves a stage running unattended.
func (r *RealRelays) Close() error {
	var errs []error

	if r.heat != nil {
		if err := r.heat.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("heat pin off: %w", err))
		}
		if err := r.heat.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close heat pin: %w", err))
		}
	}
	if r.cool != nil {
		if err := r.cool.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("cool pin off: %w", err))
		}
		if err := r.cool.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cool pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func pinValue(on bool) int {
	if on {
		return 1
	}
	return 0
}
