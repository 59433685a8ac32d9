package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024
)

// Event is the wire envelope for the chat channel.
type Event struct {
	Type EventType       `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EventHandler reacts to inbound client events. A returned error is
// reported back to the client as an error event.
type EventHandler interface {
	HandleEvent(client *Client, ev *Event) error
}

// Client is a single realtime session. DisplayName is fixed at connect
// time; teamID holds the id of the at-most-one joined room.
type Client struct {
	ID          uuid.UUID
	DisplayName string
	Conn        *websocket.Conn
	Send        chan []byte
	Hub         *Hub

	mu     sync.RWMutex
	teamID string
}

func NewClient(hub *Hub, conn *websocket.Conn, displayName string) *Client {
	return &Client{
		ID:          uuid.New(),
		DisplayName: displayName,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Hub:         hub,
	}
}

// Team returns the id of the joined team, or "" when not in a room.
func (c *Client) Team() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.teamID
}

func (c *Client) setTeam(teamID string) {
	c.mu.Lock()
	c.teamID = teamID
	c.mu.Unlock()
}

// ReadPump reads events from the connection and dispatches them to handler
// until the connection drops.
func (c *Client) ReadPump(handler EventHandler) {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var ev Event
		if err := c.Conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warnw("websocket read error", "client", c.ID, "err", err)
			}
			break
		}

		if handler == nil {
			continue
		}
		if err := handler.HandleEvent(c, &ev); err != nil {
			c.SendError(err.Error())
		}
	}
}

// WritePump writes queued payloads to the connection and keeps it alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent queues an event for this client only.
func (c *Client) SendEvent(eventType EventType, data interface{}) error {
	ev := Event{Type: eventType}

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		ev.Data = raw
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	select {
	case c.Send <- payload:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) SendError(message string) {
	c.SendEvent(EventError, map[string]string{"message": message})
}
