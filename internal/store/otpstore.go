package store

import (
	"fmt"
	"path/filepath"
	"sync"

	"chatrelay/internal/boot"
	"chatrelay/internal/model"
)

const otpFile = "otp.json"

// OTPStore is the durable set of live OTP entries, keyed by identity.
// On disk it is an object keyed by identity; this is the canonical encoding
// and no other layout is read.
type OTPStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]model.OTPEntry
}

func NewOTPStore(config *boot.Config) (*OTPStore, error) {
	s := &OTPStore{
		path:    filepath.Join(config.DataDirectory(), otpFile),
		entries: make(map[string]model.OTPEntry),
	}
	if _, err := loadSnapshot(s.path, &s.entries); err != nil {
		return nil, fmt.Errorf("loading otp entries: %w", err)
	}
	if s.entries == nil {
		s.entries = make(map[string]model.OTPEntry)
	}
	return s, nil
}

// Get returns the live entry for the identity, if any.
func (s *OTPStore) Get(identity string) (model.OTPEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[identity]
	return entry, ok
}

// Put stores the entry for the identity, replacing any prior one. The entry
// is not visible until the snapshot write succeeds.
func (s *OTPStore) Put(identity string, entry model.OTPEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, hadPrior := s.entries[identity]
	s.entries[identity] = entry
	if err := writeSnapshot(s.path, s.entries); err != nil {
		if hadPrior {
			s.entries[identity] = prior
		} else {
			delete(s.entries, identity)
		}
		return fmt.Errorf("persisting otp entry: %w", err)
	}
	return nil
}

// Delete removes the entry for the identity. Removing an absent identity is
// a no-op.
func (s *OTPStore) Delete(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, hadPrior := s.entries[identity]
	if !hadPrior {
		return nil
	}
	delete(s.entries, identity)
	if err := writeSnapshot(s.path, s.entries); err != nil {
		s.entries[identity] = prior
		return fmt.Errorf("persisting otp entry removal: %w", err)
	}
	return nil
}
