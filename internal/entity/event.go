package entity

// Outbound event types.
const (
	EventRoomCreated  = "room_created"
	EventPlayerJoined = "player_joined"
	EventMoveMade     = "move_made"
	EventGameReset    = "game_reset"
	EventPlayerLeft   = "player_left"
	EventError        = "error"
)

// Event is a message delivered to one or more connections.
type Event struct {
	Type     string    `json:"type"`
	RoomID   string    `json:"roomId,omitempty"`
	Room     *RoomView `json:"room,omitempty"`
	LastMove *[2]int   `json:"lastMove,omitempty"`
	Message  string    `json:"message,omitempty"`
}

func NewRoomCreatedEvent(roomID string) *Event {
	return &Event{Type: EventRoomCreated, RoomID: roomID}
}

// NewRoomEvent - builds an event carrying the full room state.
func NewRoomEvent(eventType string, room *Room) *Event {
	return &Event{Type: eventType, Room: room.View()}
}

func NewMoveMadeEvent(room *Room, row, col int) *Event {
	return &Event{Type: EventMoveMade, Room: room.View(), LastMove: &[2]int{row, col}}
}

func NewErrorEvent(message string) *Event {
	return &Event{Type: EventError, Message: message}
}
