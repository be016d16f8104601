package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

type roomReader interface {
	Snapshot(roomID string) (*entity.RoomView, error)
	RoomCount() int
}

type roomsHandler struct {
	logger *slog.Logger
	rooms  roomReader
}

// getRoom - GET /rooms/{id} returns the live room state.
func (that *roomsHandler) getRoom(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "getRoom")

	room, err := that.rooms.Snapshot(r.PathValue("id"))
	if errors.Is(err, apperror.ErrRoomNotFound) {
		writeJSON(log, w, http.StatusNotFound, map[string]string{"message": apperror.Message(err)})
		return
	}

	if err != nil {
		log.Error("failed to get room", "error", err)
		writeJSON(log, w, http.StatusInternalServerError, map[string]string{"message": apperror.Message(err)})
		return
	}

	writeJSON(log, w, http.StatusOK, room)
}

// getStats - GET /rooms returns the number of live rooms.
func (that *roomsHandler) getStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(that.logger, w, http.StatusOK, map[string]int{"rooms": that.rooms.RoomCount()})
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to write response", "error", err)
	}
}
