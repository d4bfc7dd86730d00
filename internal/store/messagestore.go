package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"chatrelay/internal/boot"
	"chatrelay/internal/model"
)

const messagesFile = "messages.json"

// MessageStore is the durable append-only message log, persisted as a JSON
// array in log order.
type MessageStore struct {
	mu       sync.Mutex
	path     string
	now      func() time.Time
	messages []model.Message
}

func NewMessageStore(config *boot.Config) (*MessageStore, error) {
	s := &MessageStore{
		path: filepath.Join(config.DataDirectory(), messagesFile),
		now:  time.Now,
	}
	if _, err := loadSnapshot(s.path, &s.messages); err != nil {
		return nil, fmt.Errorf("loading message log: %w", err)
	}
	return s, nil
}

// Append stamps the message and adds it to the durable log. The timestamp
// is assigned under the store lock and clamped so it never runs backwards,
// keeping timestamp order consistent with log order. The message is not in
// the log until the snapshot write succeeds.
func (s *MessageStore) Append(msg *model.Message) error {
	if strings.TrimSpace(msg.Group) == "" {
		return model.ErrorEmptyMessageGroup
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UTC()
	if n := len(s.messages); n > 0 && s.messages[n-1].Timestamp.After(ts) {
		ts = s.messages[n-1].Timestamp
	}
	msg.Timestamp = ts

	s.messages = append(s.messages, *msg)
	if err := writeSnapshot(s.path, s.messages); err != nil {
		s.messages = s.messages[:len(s.messages)-1]
		return fmt.Errorf("persisting message log: %w", err)
	}
	return nil
}

// Query returns all messages for the group in log order.
func (s *MessageStore) Query(group string) []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]model.Message, 0)
	for _, msg := range s.messages {
		if msg.Group == group {
			messages = append(messages, msg)
		}
	}
	return messages
}
