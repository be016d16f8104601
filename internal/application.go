package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/caro-backend/internal/config"
	"github.com/rocketscienceinc/caro-backend/internal/repository"
	"github.com/rocketscienceinc/caro-backend/internal/repository/storage"
	"github.com/rocketscienceinc/caro-backend/internal/service"
	"github.com/rocketscienceinc/caro-backend/internal/usecase"
	"github.com/rocketscienceinc/caro-backend/pkg/metrics"
	"github.com/rocketscienceinc/caro-backend/transport/rest"
	"github.com/rocketscienceinc/caro-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	collector := metrics.New()
	hub := websocket.NewHub()

	options := []usecase.Option{
		usecase.WithRecorder(collector),
		usecase.WithIllegalMoveReports(conf.Game.ReportIllegalMoves),
	}

	if conf.Redis.Enabled {
		mirror, closeStorage, err := initMirror(ctx, logger, conf.Redis)
		if err != nil {
			return err
		}
		defer closeStorage()

		go mirror.Run(ctx)
		options = append(options, usecase.WithObserver(mirror))
	}

	roomManager := usecase.NewRoomManager(logger, hub, options...)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, roomManager, collector.Handler())
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, conf.WebSocket, hub, roomManager, websocket.WithRecorder(collector))
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// initMirror - connects to redis and builds the room snapshot mirror.
func initMirror(ctx context.Context, logger *slog.Logger, conf config.Redis) (*service.RoomMirror, func(), error) {
	if conf.Host == "" || conf.Port == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.GetRedisAddr(), conf.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			logger.Error("could not close redis storage", "error", err)
		}
	}

	roomRepo := repository.NewRoomRepository(redisStorage.Connection, conf.TTL)

	return service.NewRoomMirror(logger, roomRepo, 0), closeStorage, nil
}
