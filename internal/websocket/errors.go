package websocket

import (
	"encoding/json"
	"errors"
)

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrInvalidEvent    = errors.New("invalid event format")
)

// MarshalEvent encodes an event envelope for room-wide delivery via
// Hub.SendToRoom.
func MarshalEvent(eventType EventType, data interface{}) ([]byte, error) {
	ev := Event{Type: eventType}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		ev.Data = raw
	}
	return json.Marshal(ev)
}
