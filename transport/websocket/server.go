package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/caro-backend/internal/config"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type roomManager interface {
	CreateRoom(roomID, playerID, connID string) (*entity.RoomView, error)
	JoinRoom(roomID, playerID, connID string) (*entity.RoomView, error)
	ApplyMove(roomID, playerID string, row, col int) error
	ResetGame(roomID string)
	LeaveRoom(roomID, playerID string)
	Disconnect(connID string)
}

type recorder interface {
	MessageReceived(messageType string)
	ConnectionOpened()
	ConnectionClosed()
}

type handlerFunc func(connID string, message *Message) error

type Server struct {
	logger   *slog.Logger
	conf     config.WebSocket
	hub      *Hub
	rooms    roomManager
	recorder recorder

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc
}

type Option func(*Server)

func WithRecorder(recorder recorder) Option {
	return func(that *Server) {
		that.recorder = recorder
	}
}

func New(logger *slog.Logger, conf config.WebSocket, hub *Hub, rooms roomManager, options ...Option) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		conf:     conf,
		hub:      hub,
		rooms:    rooms,
		recorder: nopRecorder{},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[typeCreateRoom] = server.handleCreateRoom
	server.handlers[typeJoinRoom] = server.handleJoinRoom
	server.handlers[typeMoveMade] = server.handleMoveMade
	server.handlers[typeResetGame] = server.handleResetGame
	server.handlers[typeLeaveRoom] = server.handleLeaveRoom

	for _, option := range options {
		option(server)
	}

	return server
}

// Handler - routes /ws to the upgrader.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down websocket server", "error", err)
		}

		that.hub.closeAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the request and runs the connection until it closes.
func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	conn := newConn(uuid.NewString(), ws, that.conf.SendBuffer)
	that.hub.add(conn)
	that.OnConnect(conn.ID)

	go func() {
		if err := conn.writePump(that.conf.WriteTimeout, that.conf.PingPeriod); err != nil {
			that.OnTransportError(conn.ID, err)
		}
	}()

	that.readLoop(conn)
	that.OnDisconnect(conn.ID)
}

// readLoop - feeds inbound frames to OnMessage one at a time until the peer goes away.
func (that *Server) readLoop(conn *Conn) {
	conn.ws.SetReadLimit(that.conf.MaxMessageSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(that.conf.PongTimeout))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(that.conf.PongTimeout))
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				that.OnTransportError(conn.ID, err)
			}
			return
		}

		that.OnMessage(conn.ID, data)
	}
}

type nopRecorder struct{}

func (nopRecorder) MessageReceived(string) {}
func (nopRecorder) ConnectionOpened()      {}
func (nopRecorder) ConnectionClosed()      {}
