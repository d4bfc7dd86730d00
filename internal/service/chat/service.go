// Package chat implements the group broadcast router: validate, persist,
// then fan out to the live subscribers of the message's group.
package chat

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"chatrelay/internal/model"
)

// MessageLog is the durable append-only log behind the router.
type MessageLog interface {
	Append(msg *model.Message) error
	Query(group string) []model.Message
}

// Broadcaster fans a finalized message out to the live subscribers of a
// group. Delivery to any single recipient is best effort and must not
// block.
type Broadcaster interface {
	Broadcast(group string, payload []byte)
}

type service struct {
	mu        sync.Mutex
	log       MessageLog
	broadcast Broadcaster
}

func New(log MessageLog, broadcaster Broadcaster) *service {
	return &service{log: log, broadcast: broadcaster}
}

// Publish durably records the intent and pushes the finalized message to
// every live subscriber of its group. If persistence fails the whole
// publish fails and nothing is fanned out. The mutex spans append and
// fan-out so the fan-out order within a group always matches log order.
func (s *service) Publish(intent *model.MessageIntent) (*model.Message, error) {
	group := strings.TrimSpace(intent.Group)
	if group == "" {
		return nil, model.ErrorEmptyMessageGroup
	}

	msg := &model.Message{
		ID:       model.CreateID(),
		Group:    group,
		Sender:   intent.Sender,
		SenderID: intent.SenderID,
		Text:     intent.Text,
		Status:   model.MessageStatusDelivered,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.log.Append(msg); err != nil {
		return nil, fmt.Errorf("appending message: %w", err)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	s.broadcast.Broadcast(group, payload)

	return msg, nil
}

// History returns the durable messages of a group in delivery order.
func (s *service) History(group string) []model.Message {
	return s.log.Query(group)
}
