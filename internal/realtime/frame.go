package realtime

import (
	"encoding/json"
	"time"
)

const (
	FrameTypeSubscribe  = "subscribe"
	FrameTypeMessage    = "message"
	FrameTypeConnection = "connection"
)

// Frame is the envelope for every inbound realtime payload.
type Frame struct {
	Type          string `json:"type"`
	Group         string `json:"group"`
	Text          string `json:"text"`
	Sender        string `json:"sender"`
	SenderID      string `json:"senderId"`
	WalletAddress string `json:"walletAddress"`
}

// ConnectionAck is the server frame confirming a successful connect.
type ConnectionAck struct {
	Type      string `json:"type"`
	Status    string `json:"status"`
	ClientID  string `json:"clientId"`
	Timestamp string `json:"timestamp"`
}

func connectionAck(clientID string, at time.Time) []byte {
	payload, _ := json.Marshal(ConnectionAck{
		Type:      FrameTypeConnection,
		Status:    "success",
		ClientID:  clientID,
		Timestamp: at.UTC().Format(time.RFC3339),
	})
	return payload
}
