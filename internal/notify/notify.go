// Package notify defines the outbound notification capability the relay
// depends on. The actual mail transport is a deployment concern and lives
// outside this repository.
package notify

import (
	"context"

	"github.com/labstack/gommon/log"
)

// Sender delivers an out-of-band notification to an identity.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender writes notifications to the application log. It stands in for a
// real mail transport in development.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, subject, body string) error {
	log.Infof("notification to %s: %s: %s", to, subject, body)
	return nil
}
