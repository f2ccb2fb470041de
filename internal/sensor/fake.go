package sensor

import "errors"

// FakeSampler is a test double that returns scripted temperatures.
type FakeSampler struct {
	// Samples contains Celsius readings to return in order.
	// When exhausted, Read repeats the last sample.
	Samples []float64

	// index tracks current position in Samples
	index int

	// Conversions counts StartConversion calls
	Conversions int

	// Closed tracks if Close was called
	Closed bool

	// ConversionError, if set, will be returned by StartConversion()
	ConversionError error

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeSampler creates a FakeSampler with the given samples.
func NewFakeSampler(samples []float64) *FakeSampler {
	return &FakeSampler{Samples: samples}
}

// StartConversion records the conversion request.
func (f *FakeSampler) StartConversion() error {
	if f.ConversionError != nil {
		return f.ConversionError
	}
	f.Conversions++
	return nil
}

// Read returns the next scripted sample.
func (f *FakeSampler) Read() (float64, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}
	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample, nil
}

// Close marks the sampler as closed.
func (f *FakeSampler) Close() error {
	f.Closed = true
	return nil
}
