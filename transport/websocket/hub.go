package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

// Hub - registry of open connections keyed by connection id.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*Conn),
	}
}

func (that *Hub) add(conn *Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.conns[conn.ID] = conn
}

func (that *Hub) remove(connID string) {
	that.mu.Lock()
	conn, ok := that.conns[connID]
	delete(that.conns, connID)
	that.mu.Unlock()

	if ok {
		conn.close()
	}
}

// Send - encodes the event and queues it on the connection. It never waits on the network.
func (that *Hub) Send(connID string, event *entity.Event) error {
	that.mu.RLock()
	conn, ok := that.conns[connID]
	that.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrConnectionClosed, connID)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = conn.enqueue(data); err != nil {
		return fmt.Errorf("failed to queue %s for %s: %w", event.Type, connID, err)
	}

	return nil
}

func (that *Hub) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.conns)
}

// closeAll - closes every connection's outbound queue so the write pumps send a close frame.
func (that *Hub) closeAll() {
	that.mu.RLock()
	conns := make([]*Conn, 0, len(that.conns))
	for _, conn := range that.conns {
		conns = append(conns, conn)
	}
	that.mu.RUnlock()

	for _, conn := range conns {
		conn.close()
	}
}
