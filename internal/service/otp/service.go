// Package otp implements the one-time-code issuance and verification state
// machine. Per identity: NONE -> ISSUED -> VERIFIED | EXPIRED | LOCKED,
// where every terminal state removes the entry.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"chatrelay/internal/model"
)

const codeDigits = 6

// Result is the caller-distinguishable outcome of a verification attempt.
type Result string

const (
	ResultVerified Result = "VERIFIED"
	ResultNotFound Result = "NOT_FOUND"
	ResultExpired  Result = "EXPIRED"
	ResultInvalid  Result = "INVALID"
	ResultLocked   Result = "LOCKED"
)

type Config interface {
	OTPLifetime() time.Duration
	OTPAttemptLimit() int
}

// Store is the durable keyed entry set the state machine drives. Every
// mutation must be durable before it returns.
type Store interface {
	Get(identity string) (model.OTPEntry, bool)
	Put(identity string, entry model.OTPEntry) error
	Delete(identity string) error
}

type service struct {
	mu    sync.Mutex
	store Store
	ttl   time.Duration
	limit int
	now   func() time.Time
}

func New(config Config, store Store) *service {
	return &service{
		store: store,
		ttl:   config.OTPLifetime(),
		limit: config.OTPAttemptLimit(),
		now:   time.Now,
	}
}

// Issue generates a fresh code for the identity, atomically replacing any
// prior entry. The old code is invalid the moment this returns. The entry
// is durable before the code is handed back.
func (s *service) Issue(identity string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}

	now := s.now().UTC()
	entry := model.OTPEntry{
		Code:      code,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.store.Put(identity, entry); err != nil {
		return "", fmt.Errorf("storing otp entry: %w", err)
	}
	return code, nil
}

// Verify checks a supplied code against the live entry for the identity.
// The mutex serializes verification against issuance so an attempt
// increment is never lost and a verify never reads a half-written entry.
func (s *service) Verify(identity, supplied string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.store.Get(identity)
	if !ok {
		return ResultNotFound, nil
	}

	if s.now().After(entry.ExpiresAt) {
		if err := s.store.Delete(identity); err != nil {
			return "", fmt.Errorf("removing expired otp entry: %w", err)
		}
		return ResultExpired, nil
	}

	if supplied != entry.Code {
		entry.Attempts++
		if entry.Attempts >= s.limit {
			if err := s.store.Delete(identity); err != nil {
				return "", fmt.Errorf("removing locked otp entry: %w", err)
			}
			return ResultLocked, nil
		}
		if err := s.store.Put(identity, entry); err != nil {
			return "", fmt.Errorf("storing attempt count: %w", err)
		}
		return ResultInvalid, nil
	}

	if err := s.store.Delete(identity); err != nil {
		return "", fmt.Errorf("removing verified otp entry: %w", err)
	}
	return ResultVerified, nil
}

// generateCode draws a fixed-width numeric code from a cryptographically
// strong source.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
