package events

import (
	"encoding/json"
	"time"
)

// Event types published on the hub.
const (
	TypeApplicationCreated = "application.created"
	TypeApplicationUpdated = "application.updated"
	TypeResponseClassified = "response.classified"
	TypeFollowupSent       = "followup.sent"
	TypePollStatus         = "poll.status"
	TypeConfigUpdated      = "config.updated"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, v int, data any) Event {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	return Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
}

// Encode renders the JSON wire form written on the SSE stream.
func (e Event) Encode() string {
	b, _ := json.Marshal(e)
	return string(b)
}
