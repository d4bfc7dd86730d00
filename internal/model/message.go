package model

import "time"

type MessageStatus string

// MessageStatusDelivered means the message was durably recorded, not that
// any subscriber received it.
const MessageStatusDelivered MessageStatus = "DELIVERED"

// Message is one durably recorded chat message. Once appended to the log it
// is immutable; log order is the authoritative delivery order within a group.
type Message struct {
	ID        string        `json:"id"`
	Group     string        `json:"group"`
	Sender    string        `json:"sender,omitempty"`
	SenderID  string        `json:"senderId,omitempty"`
	Text      string        `json:"text"`
	Timestamp time.Time     `json:"timestamp"`
	Status    MessageStatus `json:"status"`
}

// MessageIntent is the caller-supplied part of a message, before the relay
// assigns id, timestamp and status. Sender fields are opaque; no
// authentication happens at the publish boundary.
type MessageIntent struct {
	Group    string `json:"group"`
	Text     string `json:"text"`
	Sender   string `json:"sender"`
	SenderID string `json:"senderId"`
}
