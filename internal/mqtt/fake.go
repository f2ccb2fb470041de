package mqtt

// FakePublisher records published records for test assertions.
type FakePublisher struct {
	// Statuses contains every status record that was published, in order.
	Statuses []Status

	// StatusPayloads contains the JSON payloads for those records.
	StatusPayloads [][]byte

	// Errors contains every error message that was published.
	Errors []string

	// StatusFailure, if set, will be returned by PublishStatus.
	StatusFailure error

	// ErrorFailure, if set, will be returned by PublishError.
	ErrorFailure error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishStatus records the status record.
func (f *FakePublisher) PublishStatus(s Status) error {
	if f.StatusFailure != nil {
		return f.StatusFailure
	}

	f.Statuses = append(f.Statuses, s)

	payload, err := FormatStatus(s)
	if err != nil {
		return err
	}
	f.StatusPayloads = append(f.StatusPayloads, payload)

	return nil
}

// PublishError records the error message.
func (f *FakePublisher) PublishError(msg string) error {
	if f.ErrorFailure != nil {
		return f.ErrorFailure
	}
	f.Errors = append(f.Errors, msg)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded records.
func (f *FakePublisher) Reset() {
	f.Statuses = nil
	f.StatusPayloads = nil
	f.Errors = nil
	f.StatusFailure = nil
	f.ErrorFailure = nil
	f.Closed = false
	f.Connected = false
}
