package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rocketscienceinc/caro-backend/internal/config"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
	"github.com/rocketscienceinc/caro-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.WebSocket {
	return config.WebSocket{
		SendBuffer:     16,
		WriteTimeout:   time.Second,
		PongTimeout:    10 * time.Second,
		PingPeriod:     5 * time.Second,
		MaxMessageSize: 4096,
	}
}

func newTestServer(options ...usecase.Option) (*Server, *Hub) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub()
	manager := usecase.NewRoomManager(logger, hub, options...)

	return New(logger, testConfig(), hub, manager), hub
}

// attach - registers a connection without a socket; events are read straight from its queue.
func attach(hub *Hub, id string) *Conn {
	conn := newConn(id, nil, 16)
	hub.add(conn)

	return conn
}

func nextEvent(t *testing.T, conn *Conn) *entity.Event {
	t.Helper()

	select {
	case data := <-conn.send:
		var event entity.Event
		require.NoError(t, json.Unmarshal(data, &event))
		return &event
	case <-time.After(time.Second):
		t.Fatalf("no event for %s", conn.ID)
		return nil
	}
}

func assertNoEvent(t *testing.T, conn *Conn) {
	t.Helper()

	select {
	case data := <-conn.send:
		t.Fatalf("unexpected event for %s: %s", conn.ID, data)
	default:
	}
}

func TestServer_OnMessage(t *testing.T) {
	t.Run("create_room and join_room", func(t *testing.T) {
		// Given: two connections
		server, hub := newTestServer()
		conn1, conn2 := attach(hub, "conn-1"), attach(hub, "conn-2")

		// When: conn-1 creates R1 and conn-2 joins
		server.OnMessage("conn-1", []byte(`{"type":"create_room","roomId":"R1","playerId":"p1"}`))
		created := nextEvent(t, conn1)
		server.OnMessage("conn-2", []byte(`{"type":"join_room","roomId":"R1","playerId":"p2"}`))

		// Then: conn-1 got room_created and both got player_joined
		assert.Equal(t, &entity.Event{Type: entity.EventRoomCreated, RoomID: "R1"}, created)
		for _, conn := range []*Conn{conn1, conn2} {
			event := nextEvent(t, conn)
			assert.Equal(t, entity.EventPlayerJoined, event.Type)
			assert.True(t, event.Room.IsGameActive)
			assert.Len(t, event.Room.Players, 2)
		}
	})

	t.Run("move_made at the origin", func(t *testing.T) {
		// Given: an active room
		server, hub := newTestServer()
		conn1, conn2 := attach(hub, "conn-1"), attach(hub, "conn-2")
		server.OnMessage("conn-1", []byte(`{"type":"create_room","roomId":"R1","playerId":"p1"}`))
		server.OnMessage("conn-2", []byte(`{"type":"join_room","roomId":"R1","playerId":"p2"}`))
		nextEvent(t, conn1)
		nextEvent(t, conn1)
		nextEvent(t, conn2)

		// When: X plays (0,0)
		server.OnMessage("conn-1", []byte(`{"type":"move_made","roomId":"R1","playerId":"p1","row":0,"col":0}`))

		// Then: zero coordinates are accepted
		event := nextEvent(t, conn2)
		assert.Equal(t, entity.EventMoveMade, event.Type)
		assert.Equal(t, &[2]int{0, 0}, event.LastMove)
		assert.Equal(t, entity.PlayerX, event.Room.Board[0][0])
	})

	t.Run("Malformed payloads produce an error to the sender only", func(t *testing.T) {
		tests := []struct {
			name    string
			payload string
			message string
		}{
			{"not json", `{"type":`, "Failed to process message!"},
			{"json array", `[1,2]`, "Failed to process message!"},
			{"unknown type", `{"type":"fly"}`, "Unknown message type!"},
			{"missing type", `{"roomId":"R1"}`, "Unknown message type!"},
			{"missing roomId", `{"type":"create_room","playerId":"p1"}`, "Failed to process message!"},
			{"missing playerId", `{"type":"join_room","roomId":"R1"}`, "Failed to process message!"},
			{"missing col", `{"type":"move_made","roomId":"R1","playerId":"p1","row":1}`, "Failed to process message!"},
			{"row is a string", `{"type":"move_made","roomId":"R1","playerId":"p1","row":"1","col":1}`, "Failed to process message!"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// Given: a room with a bystander
				server, hub := newTestServer()
				conn1, conn2 := attach(hub, "conn-1"), attach(hub, "conn-2")
				server.OnMessage("conn-1", []byte(`{"type":"create_room","roomId":"R1","playerId":"p1"}`))
				nextEvent(t, conn1)

				// When: conn-2 sends a bad payload
				server.OnMessage("conn-2", []byte(tt.payload))

				// Then: only conn-2 is told
				assert.Equal(t, entity.NewErrorEvent(tt.message), nextEvent(t, conn2))
				assertNoEvent(t, conn1)
			})
		}
	})

	t.Run("Registry errors are reported", func(t *testing.T) {
		tests := []struct {
			name    string
			payload string
			message string
		}{
			{"join unknown room", `{"type":"join_room","roomId":"nope","playerId":"p2"}`, "Room does not exist!"},
			{"duplicate room", `{"type":"create_room","roomId":"R1","playerId":"p9"}`, "Room already exists!"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server, hub := newTestServer()
				conn1, conn2 := attach(hub, "conn-1"), attach(hub, "conn-2")
				server.OnMessage("conn-1", []byte(`{"type":"create_room","roomId":"R1","playerId":"p1"}`))
				nextEvent(t, conn1)

				server.OnMessage("conn-2", []byte(tt.payload))

				assert.Equal(t, entity.NewErrorEvent(tt.message), nextEvent(t, conn2))
				assertNoEvent(t, conn1)
			})
		}
	})

	t.Run("Full room", func(t *testing.T) {
		// Given: a full room
		server, hub := newTestServer()
		conn1, conn2, conn3 := attach(hub, "conn-1"), attach(hub, "conn-2"), attach(hub, "conn-3")
		server.OnMessage("conn-1", []byte(`{"type":"create_room","roomId":"R1","playerId":"p1"}`))
		server.OnMessage("conn-2", []byte(`{"type":"join_room","roomId":"R1","playerId":"p2"}`))
		nextEvent(t, conn1)
		nextEvent(t, conn1)
		nextEvent(t, conn2)

		// When: a third player joins
		server.OnMessage("conn-3", []byte(`{"type":"join_room","roomId":"R1","playerId":"p3"}`))

		// Then: only the joiner hears about it
		assert.Equal(t, entity.NewErrorEvent("Room is full!"), nextEvent(t, conn3))
		assertNoEvent(t, conn1)
		assertNoEvent(t, conn2)
	})

	t.Run("Illegal moves are silent by default", func(t *testing.T) {
		server, hub := newTestServer()
		conn1 := attach(hub, "conn-1")
		server.OnMessage("conn-1", []byte(`{"type":"create_room","roomId":"R1","playerId":"p1"}`))
		nextEvent(t, conn1)

		server.OnMessage("conn-1", []byte(`{"type":"move_made","roomId":"R1","playerId":"p1","row":7,"col":7}`))

		assertNoEvent(t, conn1)
	})

	t.Run("Illegal moves are reported when enabled", func(t *testing.T) {
		// Given: reports enabled and an active room
		server, hub := newTestServer(usecase.WithIllegalMoveReports(true))
		conn1, conn2 := attach(hub, "conn-1"), attach(hub, "conn-2")
		server.OnMessage("conn-1", []byte(`{"type":"create_room","roomId":"R1","playerId":"p1"}`))
		server.OnMessage("conn-2", []byte(`{"type":"join_room","roomId":"R1","playerId":"p2"}`))
		nextEvent(t, conn1)
		nextEvent(t, conn1)
		nextEvent(t, conn2)

		// When: O moves out of turn
		server.OnMessage("conn-2", []byte(`{"type":"move_made","roomId":"R1","playerId":"p2","row":7,"col":7}`))

		// Then: only O is told why
		assert.Equal(t, entity.NewErrorEvent("It's not your turn!"), nextEvent(t, conn2))
		assertNoEvent(t, conn1)
	})

	t.Run("A panicking handler is contained", func(t *testing.T) {
		// Given: a registry that panics
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		hub := NewHub()
		server := New(logger, testConfig(), hub, panickingRooms{})
		conn1 := attach(hub, "conn-1")

		// When: a message reaches it
		require.NotPanics(t, func() {
			server.OnMessage("conn-1", []byte(`{"type":"create_room","roomId":"R1","playerId":"p1"}`))
		})

		// Then: the sender gets a generic error
		assert.Equal(t, entity.NewErrorEvent("Failed to process message!"), nextEvent(t, conn1))
	})
}

func TestServer_OnDisconnect(t *testing.T) {
	// Given: an active room
	server, hub := newTestServer()
	conn1, conn2 := attach(hub, "conn-1"), attach(hub, "conn-2")
	server.OnMessage("conn-1", []byte(`{"type":"create_room","roomId":"R1","playerId":"p1"}`))
	server.OnMessage("conn-2", []byte(`{"type":"join_room","roomId":"R1","playerId":"p2"}`))
	nextEvent(t, conn1)
	nextEvent(t, conn1)
	nextEvent(t, conn2)

	// When: conn-1 goes away
	server.OnDisconnect("conn-1")

	// Then: conn-2 receives player_left and conn-1 is released
	event := nextEvent(t, conn2)
	assert.Equal(t, entity.EventPlayerLeft, event.Type)
	assert.False(t, event.Room.IsGameActive)
	assert.Equal(t, 1, hub.Len())
	require.ErrorIs(t, hub.Send("conn-1", entity.NewErrorEvent("x")), ErrConnectionClosed)
}

func TestHub_Send(t *testing.T) {
	t.Run("Full buffer fails without blocking", func(t *testing.T) {
		// Given: a connection with room for one frame
		hub := NewHub()
		conn := newConn("conn-1", nil, 1)
		hub.add(conn)
		require.NoError(t, hub.Send("conn-1", entity.NewRoomCreatedEvent("R1")))

		// When: another event is sent
		err := hub.Send("conn-1", entity.NewRoomCreatedEvent("R2"))

		// Then: it is refused
		require.ErrorIs(t, err, ErrSendBufferFull)
	})

	t.Run("Closed connection", func(t *testing.T) {
		hub := NewHub()
		conn := newConn("conn-1", nil, 1)
		hub.add(conn)
		conn.close()
		conn.close()

		require.ErrorIs(t, hub.Send("conn-1", entity.NewRoomCreatedEvent("R1")), ErrConnectionClosed)
	})
}

// panickingRooms - every call dereferences the nil embedded registry.
type panickingRooms struct {
	roomManager
}
