package gpio

// FakeRelays is a test double that records relay commands.
type FakeRelays struct {
	// HeatHistory and CoolHistory record every applied command in order.
	HeatHistory []bool
	CoolHistory []bool

	heatOn bool
	coolOn bool

	// Closed tracks if Close was called
	Closed bool

	// SetError, if set, will be returned by SetHeat and SetCool
	SetError error
}

// NewFakeRelays creates a FakeRelays with both relays off.
func NewFakeRelays() *FakeRelays {
	return &FakeRelays{}
}

// SetHeat records the heating relay command.
func (f *FakeRelays) SetHeat(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.heatOn = on
	f.HeatHistory = append(f.HeatHistory, on)
	return nil
}

// SetCool records the cooling relay command.
func (f *FakeRelays) SetCool(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.coolOn = on
	f.CoolHistory = append(f.CoolHistory, on)
	return nil
}

// Heat reports the last applied heating command.
func (f *FakeRelays) Heat() bool { return f.heatOn }

// Cool reports the last applied cooling command.
func (f *FakeRelays) Cool() bool { return f.coolOn }

// Close marks the relays as closed.
func (f *FakeRelays) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded history and state.
func (f *FakeRelays) Reset() {
	f.HeatHistory = nil
	f.CoolHistory = nil
	f.heatOn = false
	f.coolOn = false
	f.Closed = false
}
