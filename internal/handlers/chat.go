package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/teamline/teamline/internal/handlers/dto"
	"github.com/teamline/teamline/internal/models"
	ws "github.com/teamline/teamline/internal/websocket"
)

const systemUsername = "System"

var (
	errJoinTeamFailed = errors.New("Failed to join team")
	errSendFailed     = errors.New("Failed to send message")
)

// ChatHandler is the realtime coordinator: it resolves accounts and teams
// for socket joins, persists chat messages and fans them out to the
// team's room.
type ChatHandler struct {
	users    UserStore
	teams    TeamStore
	messages MessageStore
	hub      *ws.Hub
	log      *zap.SugaredLogger
}

func NewChatHandler(users UserStore, teams TeamStore, messages MessageStore, hub *ws.Hub, log *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{
		users:    users,
		teams:    teams,
		messages: messages,
		hub:      hub,
		log:      log,
	}
}

// Welcome greets a freshly connected client. Sent to that client only.
func (h *ChatHandler) Welcome(client *ws.Client) {
	client.SendEvent(ws.EventMessage, dto.ChatBroadcast{
		Username: systemUsername,
		Message:  "Welcome to our schedule app!",
	})
}

func (h *ChatHandler) HandleEvent(client *ws.Client, ev *ws.Event) error {
	switch ev.Type {
	case ws.EventJoinTeam:
		return h.joinTeam(client, ev.Data)
	case ws.EventLeaveTeam:
		return h.leaveTeam(client, ev.Data)
	case ws.EventMessage:
		return h.sendMessage(client, ev.Data)
	default:
		h.log.Warnw("unknown chat event", "type", ev.Type, "client", client.ID)
		return nil
	}
}

// joinTeam resolves the account for the client's display name (creating it
// on first sight), finds or creates the team, adds the account to the
// member set and puts the connection into the team's room.
func (h *ChatHandler) joinTeam(client *ws.Client, data json.RawMessage) error {
	var teamName string
	if err := json.Unmarshal(data, &teamName); err != nil || teamName == "" {
		h.log.Warnw("joinTeam with non-string team name", "client", client.ID)
		return errJoinTeamFailed
	}

	ctx := context.Background()

	user, err := h.users.EnsureUser(ctx, client.DisplayName)
	if err != nil {
		h.log.Errorw("joinTeam: ensure user failed", "username", client.DisplayName, "err", err)
		return errJoinTeamFailed
	}

	team, created, err := h.teams.FindOrCreateTeam(ctx, teamName, user.ID)
	if err != nil {
		h.log.Errorw("joinTeam: find or create team failed", "team", teamName, "err", err)
		return errJoinTeamFailed
	}
	if !created && !team.HasMember(user.ID) {
		if err := h.teams.AddTeamMember(ctx, team.ID, user.ID); err != nil {
			h.log.Errorw("joinTeam: add member failed", "team", teamName, "err", err)
			return errJoinTeamFailed
		}
	}

	roomID := team.ID.Hex()
	h.hub.JoinRoom(client, roomID)

	client.SendEvent(ws.EventTeamCreated, dto.TeamCreated{
		TeamID:   roomID,
		TeamName: team.Name,
	})

	h.broadcastSystem(roomID, fmt.Sprintf("%s has joined the team %s", client.DisplayName, teamName))
	h.log.Infow("client joined team", "client", client.ID, "team", teamName, "created", created)
	return nil
}

// leaveTeam removes the account from the member set and the connection
// from the room. Lookup misses are logged and dropped; unlike joinTeam no
// error event is sent.
func (h *ChatHandler) leaveTeam(client *ws.Client, data json.RawMessage) error {
	var rawID string
	if err := json.Unmarshal(data, &rawID); err != nil || rawID == "" {
		h.log.Warnw("leaveTeam without team id", "client", client.ID)
		return nil
	}

	teamID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		h.log.Warnw("leaveTeam with malformed team id", "client", client.ID, "teamId", rawID)
		return nil
	}

	ctx := context.Background()

	team, err := h.teams.GetTeam(ctx, teamID)
	if err != nil {
		h.log.Warnw("leaveTeam: team lookup failed", "teamId", rawID, "err", err)
		return nil
	}
	user, err := h.users.FindUserByUsername(ctx, client.DisplayName)
	if err != nil {
		h.log.Warnw("leaveTeam: user lookup failed", "username", client.DisplayName, "err", err)
		return nil
	}

	if err := h.teams.RemoveTeamMember(ctx, team.ID, user.ID); err != nil {
		h.log.Errorw("leaveTeam: remove member failed", "teamId", rawID, "err", err)
		return nil
	}

	// Rooms are keyed by the canonical hex form, not the client-supplied
	// id, which may differ in case.
	roomID := team.ID.Hex()
	h.hub.LeaveRoom(client, roomID)
	h.broadcastSystem(roomID, fmt.Sprintf("%s has left the team.", client.DisplayName))
	h.log.Infow("client left team", "client", client.ID, "teamId", roomID)
	return nil
}

// sendMessage persists a chat message and fans it out to the team's room.
// The display name is resolved once and that single value is used for both
// the stored record and the broadcast.
func (h *ChatHandler) sendMessage(client *ws.Client, data json.RawMessage) error {
	// A payload that does not decode (wrong types included) is dropped
	// silently, same as an empty body.
	var payload dto.ChatMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		h.log.Warnw("malformed message payload", "client", client.ID)
		return nil
	}

	if strings.TrimSpace(payload.Message) == "" {
		return nil
	}

	teamID, err := primitive.ObjectIDFromHex(payload.TeamID)
	if err != nil {
		h.log.Warnw("message with malformed team id", "teamId", payload.TeamID)
		return nil
	}

	ctx := context.Background()

	if _, err := h.teams.GetTeam(ctx, teamID); err != nil {
		h.log.Warnw("message for unknown team", "teamId", payload.TeamID, "err", err)
		return nil
	}

	username := payload.Username
	if username == "" {
		username = "Anonymous"
	}

	msg := &models.Message{
		TeamID:    teamID,
		Username:  username,
		Message:   payload.Message,
		Timestamp: time.Now(),
	}
	if err := h.messages.InsertMessage(ctx, msg); err != nil {
		h.log.Errorw("failed to persist message", "teamId", payload.TeamID, "err", err)
		return errSendFailed
	}

	out, err := ws.MarshalEvent(ws.EventMessage, dto.ChatBroadcast{
		Username: username,
		Message:  payload.Message,
	})
	if err != nil {
		return errSendFailed
	}
	h.hub.SendToRoom(teamID.Hex(), out)
	return nil
}

func (h *ChatHandler) broadcastSystem(roomID, text string) {
	out, err := ws.MarshalEvent(ws.EventMessage, dto.ChatBroadcast{
		Username: systemUsername,
		Message:  text,
	})
	if err != nil {
		h.log.Errorw("failed to encode system notice", "err", err)
		return
	}
	h.hub.SendToRoom(roomID, out)
}
