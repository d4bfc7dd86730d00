package model

import "time"

// OTPEntry is the durable record of one issued verification code. At most
// one live entry exists per identity; issuing a new code replaces any prior
// entry. The entry is removed on successful verification, expiry detection,
// or when the attempt limit is reached.
type OTPEntry struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"createdAt"`
}
