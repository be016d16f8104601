package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	return rec.Body.String()
}

func TestMetrics(t *testing.T) {
	t.Run("Collectors track registry events", func(t *testing.T) {
		// Given: fresh metrics
		m := New()

		// When: events are recorded
		m.RoomsActive(3)
		m.RoomsActive(2)
		m.MoveRejected()
		m.SendFailed()
		m.SendFailed()
		m.MessageReceived("move_made")
		m.ConnectionOpened()
		m.ConnectionOpened()
		m.ConnectionClosed()

		// Then: the exposition holds the latest values
		body := scrape(t, m)
		assert.Contains(t, body, "caro_rooms_active 2")
		assert.Contains(t, body, "caro_moves_rejected_total 1")
		assert.Contains(t, body, "caro_send_failures_total 2")
		assert.Contains(t, body, `caro_messages_received_total{type="move_made"} 1`)
		assert.Contains(t, body, "caro_connections_open 1")
	})

	t.Run("Instances do not share state", func(t *testing.T) {
		// Given: two metrics instances
		first, second := New(), New()

		// When: only the first records a room
		first.RoomsActive(1)

		// Then: the second still reports zero
		assert.Contains(t, scrape(t, first), "caro_rooms_active 1")
		assert.Contains(t, scrape(t, second), "caro_rooms_active 0")
	})
}
