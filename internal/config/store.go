package config

import "sync"

// Store is the handoff cell between the MQTT subscriber goroutine and the
// control loop. Install swaps the whole Config under a write lock, so the
// loop observes either the old value or the new one, never a mix. Ready is
// monotone: once true it stays true for the process lifetime.
type Store struct {
	mu  sync.RWMutex
	cur *Config
}

// NewStore returns an empty store; Ready is false until the first install.
func NewStore() *Store {
	return &Store{}
}

// Ingest parses a raw config message and installs the result on success.
// On failure the previously-installed configuration is left untouched.
func (s *Store) Ingest(payload []byte) (*Config, error) {
	cfg, err := Parse(payload)
	if err != nil {
		return nil, err
	}
	s.Install(cfg)
	return cfg, nil
}

// Install atomically replaces the entire configuration.
func (s *Store) Install(cfg *Config) {
	s.mu.Lock()
	s.cur = cfg
	s.mu.Unlock()
}

// Current returns the installed configuration, or nil before the first
// install. Callers must treat the result as read-only.
func (s *Store) Current() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Ready reports whether a configuration has ever been installed.
func (s *Store) Ready() bool {
	return s.Current() != nil
}
