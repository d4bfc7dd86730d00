package model

import "time"

// Group is a named channel. Names are trimmed and non-empty; they are not
// enforced unique but callers should treat them as a natural key.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
