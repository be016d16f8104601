package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
	"github.com/rocketscienceinc/caro-backend/internal/usecase"
	"github.com/rocketscienceinc/caro-backend/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopNotifier struct{}

func (nopNotifier) Send(string, *entity.Event) error { return nil }

func newTestHandler(t *testing.T) (http.Handler, *usecase.RoomManager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	collector := metrics.New()
	manager := usecase.NewRoomManager(logger, nopNotifier{}, usecase.WithRecorder(collector))

	return New(logger, manager, collector.Handler()).Handler(), manager
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestServer_Ping(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := get(handler, "/ping")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestServer_Rooms(t *testing.T) {
	t.Run("Returns the live room", func(t *testing.T) {
		// Given: an active room
		handler, manager := newTestHandler(t)
		_, err := manager.CreateRoom("R1", "p1", "conn-1")
		require.NoError(t, err)
		_, err = manager.JoinRoom("R1", "p2", "conn-2")
		require.NoError(t, err)

		// When: the room is requested
		rec := get(handler, "/rooms/R1")

		// Then: the body is the room view
		require.Equal(t, http.StatusOK, rec.Code)

		var view entity.RoomView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, "R1", view.RoomID)
		assert.True(t, view.IsGameActive)
		assert.NotContains(t, rec.Body.String(), "conn-1")
	})

	t.Run("Unknown room is 404", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		rec := get(handler, "/rooms/nope")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"Room does not exist!"}`, rec.Body.String())
	})

	t.Run("Counts rooms", func(t *testing.T) {
		handler, manager := newTestHandler(t)
		_, err := manager.CreateRoom("R1", "p1", "conn-1")
		require.NoError(t, err)

		rec := get(handler, "/rooms")

		assert.JSONEq(t, `{"rooms":1}`, rec.Body.String())
	})
}

func TestServer_Metrics(t *testing.T) {
	// Given: one room
	handler, manager := newTestHandler(t)
	_, err := manager.CreateRoom("R1", "p1", "conn-1")
	require.NoError(t, err)

	// When: metrics are scraped
	rec := get(handler, "/metrics")

	// Then: the room gauge is exported
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "caro_rooms_active 1")
}
