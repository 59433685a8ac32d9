package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventType names the events exchanged over the chat channel.
type EventType string

const (
	// Inbound
	EventJoinTeam  EventType = "joinTeam"
	EventLeaveTeam EventType = "leaveTeam"

	// Inbound and outbound
	EventMessage EventType = "message"

	// Outbound
	EventTeamCreated EventType = "teamCreated"
	EventError       EventType = "error"
)

// Hub tracks connected clients and the rooms they occupy. Rooms are keyed
// by team id; a client is in at most one room at a time.
type Hub struct {
	clients map[uuid.UUID]*Client
	rooms   map[string]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	log *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(log *zap.SugaredLogger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		rooms:      make(map[string]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes register/unregister requests until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// Stop shuts the hub down and closes every connection.
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.rooms = make(map[string]map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.log.Infow("client connected", "client", client.ID, "username", client.DisplayName)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	// Dropped connections leave their room silently; no notice is
	// broadcast, unlike an explicit leaveTeam.
	h.removeFromRoomLocked(client)
	delete(h.clients, client.ID)
	close(client.Send)

	h.log.Infow("client disconnected", "client", client.ID, "username", client.DisplayName)
}

// JoinRoom places the client in the room for teamID. Joining the room the
// client is already in is a no-op; joining a different room moves the
// client out of the old one first.
func (h *Hub) JoinRoom(client *Client, teamID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.Team() == teamID {
		return
	}
	h.removeFromRoomLocked(client)

	if _, ok := h.rooms[teamID]; !ok {
		h.rooms[teamID] = make(map[uuid.UUID]*Client)
	}
	h.rooms[teamID][client.ID] = client
	client.setTeam(teamID)
}

// LeaveRoom removes the client from the room for teamID, if it is there.
func (h *Hub) LeaveRoom(client *Client, teamID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.Team() != teamID {
		return
	}
	h.removeFromRoomLocked(client)
}

func (h *Hub) removeFromRoomLocked(client *Client) {
	teamID := client.Team()
	if teamID == "" {
		return
	}
	if room, ok := h.rooms[teamID]; ok {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(h.rooms, teamID)
		}
	}
	client.setTeam("")
}

// SendToRoom delivers payload to every client in the room, the sender
// included. Clients with a full send queue are skipped.
func (h *Hub) SendToRoom(teamID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[teamID] {
		select {
		case client.Send <- payload:
		default:
			h.log.Warnw("client send queue full, dropping", "client", client.ID)
		}
	}
}

// RoomSize returns the number of connections currently in a team's room.
func (h *Hub) RoomSize(teamID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[teamID])
}
