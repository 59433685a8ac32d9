package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHub() *Hub {
	return NewHub(zap.NewNop().Sugar())
}

func TestJoinRoomIsIdempotent(t *testing.T) {
	h := newTestHub()
	c := NewClient(h, nil, "alice")

	h.JoinRoom(c, "team-1")
	h.JoinRoom(c, "team-1")

	assert.Equal(t, 1, h.RoomSize("team-1"))
	assert.Equal(t, "team-1", c.Team())
}

func TestJoinRoomMovesClientOutOfPreviousRoom(t *testing.T) {
	h := newTestHub()
	c := NewClient(h, nil, "alice")

	h.JoinRoom(c, "team-1")
	h.JoinRoom(c, "team-2")

	assert.Equal(t, 0, h.RoomSize("team-1"))
	assert.Equal(t, 1, h.RoomSize("team-2"))
	assert.Equal(t, "team-2", c.Team())
}

func TestLeaveRoomOnlyAffectsOccupiedRoom(t *testing.T) {
	h := newTestHub()
	c := NewClient(h, nil, "alice")
	h.JoinRoom(c, "team-1")

	h.LeaveRoom(c, "team-2")
	assert.Equal(t, "team-1", c.Team())

	h.LeaveRoom(c, "team-1")
	assert.Empty(t, c.Team())
	assert.Equal(t, 0, h.RoomSize("team-1"))
}

func TestSendToRoomReachesEveryOccupantIncludingSender(t *testing.T) {
	h := newTestHub()
	a := NewClient(h, nil, "alice")
	b := NewClient(h, nil, "bob")
	outsider := NewClient(h, nil, "carol")

	h.JoinRoom(a, "team-1")
	h.JoinRoom(b, "team-1")
	h.JoinRoom(outsider, "team-2")

	h.SendToRoom("team-1", []byte("hello"))

	for _, c := range []*Client{a, b} {
		select {
		case payload := <-c.Send:
			assert.Equal(t, "hello", string(payload))
		default:
			t.Fatalf("client %s received nothing", c.DisplayName)
		}
	}

	select {
	case <-outsider.Send:
		t.Fatal("client in another room received the broadcast")
	default:
	}
}

func TestSendToRoomSkipsClientsWithFullQueue(t *testing.T) {
	h := newTestHub()
	full := NewClient(h, nil, "slow")
	full.Send = make(chan []byte) // unbuffered and never read
	ok := NewClient(h, nil, "fast")

	h.JoinRoom(full, "team-1")
	h.JoinRoom(ok, "team-1")

	h.SendToRoom("team-1", []byte("x"))

	select {
	case payload := <-ok.Send:
		assert.Equal(t, "x", string(payload))
	default:
		t.Fatal("healthy client was not delivered to")
	}
}

func TestUnregisterRemovesClientFromRoomWithoutNotice(t *testing.T) {
	h := newTestHub()
	a := NewClient(h, nil, "alice")
	b := NewClient(h, nil, "bob")

	h.registerClient(a)
	h.registerClient(b)
	h.JoinRoom(a, "team-1")
	h.JoinRoom(b, "team-1")

	h.unregisterClient(a)

	assert.Equal(t, 1, h.RoomSize("team-1"))
	assert.Empty(t, a.Team())

	// A dropped connection produces no room broadcast.
	select {
	case payload := <-b.Send:
		t.Fatalf("unexpected broadcast on disconnect: %s", payload)
	default:
	}

	_, open := <-a.Send
	assert.False(t, open, "send channel should be closed on unregister")
}

func TestUnregisterUnknownClientIsNoOp(t *testing.T) {
	h := newTestHub()
	c := NewClient(h, nil, "alice")

	h.unregisterClient(c)

	select {
	case _, open := <-c.Send:
		require.False(t, open)
		t.Fatal("send channel of an unregistered client must stay open")
	default:
	}
}

func TestSendEventEncodesEnvelope(t *testing.T) {
	h := newTestHub()
	c := NewClient(h, nil, "alice")

	require.NoError(t, c.SendEvent(EventError, map[string]string{"message": "nope"}))

	payload := <-c.Send
	assert.JSONEq(t, `{"event":"error","data":{"message":"nope"}}`, string(payload))
}
