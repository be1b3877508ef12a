package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const (
	actionNew     = "game:new"
	actionJoin    = "game:join"
	actionTurn    = "game:turn"
	actionRestart = "game:restart"
	actionEnded   = "game:ended"
	actionError   = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Request is the payload a client sends.
type Request struct {
	SessionID string `json:"session_id,omitempty"`
	Cell      *int   `json:"cell,omitempty"`
}

// Response is the payload the server sends back or broadcasts. Clients drop a
// state whose Version is lower than the one they already render.
type Response struct {
	SessionID string            `json:"session_id,omitempty"`
	Version   uint64            `json:"version,omitempty"`
	Game      *entity.Game      `json:"game,omitempty"`
	Status    string            `json:"status,omitempty"`
	Event     *entity.GameEnded `json:"event,omitempty"`
	Error     string            `json:"error,omitempty"`
}

func newResponse(session *entity.Session) Response {
	game := session.Game

	return Response{
		SessionID: session.ID,
		Version:   session.Version,
		Game:      &game,
		Status:    game.Status(),
	}
}
