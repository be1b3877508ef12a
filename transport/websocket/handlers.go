package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

func (that *Server) handleNewGame(ctx context.Context, c *client, _ *Request) error {
	session, err := that.gameService.CreateSession(ctx)
	if err != nil {
		that.sendError(c, actionNew, "failed to create a new game")
		return fmt.Errorf("failed to create session: %w", err)
	}

	that.hub.subscribe(c, session.ID)

	return c.send(actionNew, newResponse(session))
}

func (that *Server) handleJoinGame(ctx context.Context, c *client, req *Request) error {
	if req.SessionID == "" {
		that.sendError(c, actionJoin, "session_id is required")
		return nil
	}

	session, err := that.gameService.GetSession(ctx, req.SessionID)
	if err != nil {
		return that.replyServiceError(c, actionJoin, err)
	}

	that.hub.subscribe(c, session.ID)

	return c.send(actionJoin, newResponse(session))
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, req *Request) error {
	sessionID := that.hub.session(c)
	if sessionID == "" {
		that.sendError(c, actionTurn, apperror.ErrNotInSession.Error())
		return nil
	}

	if req.Cell == nil {
		that.sendError(c, actionTurn, "cell is required")
		return nil
	}

	unlock := that.hub.lockSession(sessionID)
	defer unlock()

	session, event, err := that.gameService.ApplyMove(ctx, sessionID, *req.Cell)
	if err != nil {
		return that.replyServiceError(c, actionTurn, err)
	}

	that.broadcast(session, actionTurn, newResponse(session))

	if event != nil {
		resp := newResponse(session)
		resp.Event = event
		that.broadcast(session, actionEnded, resp)
	}

	return nil
}

func (that *Server) handleRestart(ctx context.Context, c *client, _ *Request) error {
	sessionID := that.hub.session(c)
	if sessionID == "" {
		that.sendError(c, actionRestart, apperror.ErrNotInSession.Error())
		return nil
	}

	unlock := that.hub.lockSession(sessionID)
	defer unlock()

	session, err := that.gameService.Restart(ctx, sessionID)
	if err != nil {
		return that.replyServiceError(c, actionRestart, err)
	}

	that.broadcast(session, actionRestart, newResponse(session))

	return nil
}

// broadcast sends payload to every connection watching the session.
func (that *Server) broadcast(session *entity.Session, action string, payload Response) {
	log := that.logger.With("method", "broadcast", "session_id", session.ID)

	for _, watcher := range that.hub.clients(session.ID) {
		if err := watcher.send(action, payload); err != nil {
			log.Warn("failed to send game update", "error", err)
		}
	}
}

func (that *Server) replyServiceError(c *client, action string, err error) error {
	if errors.Is(err, apperror.ErrSessionNotFound) {
		that.sendError(c, action, apperror.ErrSessionNotFound.Error())
		return nil
	}

	that.sendError(c, action, "internal error")

	return err
}

func (that *Server) sendError(c *client, action, errorMsg string) {
	if err := c.send(action, Response{Error: errorMsg}); err != nil {
		that.logger.Warn("failed to send error response", "action", action, "error", err)
	}
}
