package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const (
	readLimit       = 4 << 10
	shutdownTimeout = 5 * time.Second
)

type gameService interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)

	ApplyMove(ctx context.Context, id string, cell int) (*entity.Session, *entity.GameEnded, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)
}

type Server struct {
	logger      *slog.Logger
	gameService gameService
	upgrader    websocket.Upgrader
	hub         *hub

	handlers map[string]func(ctx context.Context, c *client, req *Request) error
}

func New(logger *slog.Logger, gameService gameService) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameService: gameService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		hub: newHub(),

		handlers: make(map[string]func(context.Context, *client, *Request) error),
	}

	server.handlers[actionNew] = server.handleNewGame
	server.handlers[actionJoin] = server.handleJoinGame
	server.handlers[actionTurn] = server.handleGameTurn
	server.handlers[actionRestart] = server.handleRestart

	return server
}

// Handler returns the HTTP handler that upgrades /ws requests.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) upgradeToWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{conn: conn}
	conn.SetReadLimit(readLimit)

	// Shutdown does not close hijacked connections
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	defer func() {
		stop()
		that.hub.unsubscribe(c)
		_ = conn.Close()
	}()

	log.Debug("WebSocket connection established", "remote", r.RemoteAddr)

	that.handleMessages(ctx, c)
}

// handleMessages - processes messages from the client until the connection closes.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("connection closed", "error", err)
			}

			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			that.sendError(c, actionError, "malformed message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			that.sendError(c, message.Action, fmt.Sprintf("unknown action %q", message.Action))
			continue
		}

		var req Request
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &req); err != nil {
				that.sendError(c, message.Action, "invalid payload")
				continue
			}
		}

		if err = handler(ctx, c, &req); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}
