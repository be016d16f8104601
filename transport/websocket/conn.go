package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrSendBufferFull   = errors.New("send buffer is full")
	ErrConnectionClosed = errors.New("connection is closed")
)

// Conn - one websocket client. Outbound frames go through send and are written only by writePump.
type Conn struct {
	ID string

	ws   *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newConn(id string, ws *websocket.Conn, bufferSize int) *Conn {
	return &Conn{
		ID:   id,
		ws:   ws,
		send: make(chan []byte, bufferSize),
	}
}

// enqueue - queues a frame without blocking.
func (that *Conn) enqueue(data []byte) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return ErrConnectionClosed
	}

	select {
	case that.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// close - stops the write pump. Safe to call more than once.
func (that *Conn) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	close(that.send)
}

// writePump - writes queued frames and pings until the send channel is closed or a write fails.
func (that *Conn) writePump(writeTimeout, pingPeriod time.Duration) error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.ws.Close()
	}()

	for {
		select {
		case data, ok := <-that.send:
			_ = that.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = that.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}

			if err := that.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return err
			}
		case <-ticker.C:
			_ = that.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := that.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}
