package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/keylock"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
)

type GameService interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error

	ApplyMove(ctx context.Context, id string, cell int) (*entity.Session, *entity.GameEnded, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameService struct {
	logger *slog.Logger

	// serialises load-apply-store per session id
	locks    *keylock.KeyLock
	gameRepo gameRepo
	now      func() time.Time
}

func NewGameService(logger *slog.Logger, gameRepo gameRepo) GameService {
	return &gameService{
		logger:   logger.With("component", "game_service"),
		locks:    keylock.New(),
		gameRepo: gameRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (that *gameService) CreateSession(ctx context.Context) (*entity.Session, error) {
	session := entity.NewSession(uuid.NewString())
	session.UpdatedAt = that.now()

	if err := that.gameRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Debug("session created", "session_id", session.ID)

	return session, nil
}

func (that *gameService) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *gameService) DeleteSession(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// ApplyMove plays cell in the session. A rejected move returns the stored session
// untouched with a nil event and no error.
func (that *gameService) ApplyMove(ctx context.Context, id string, cell int) (*entity.Session, *entity.GameEnded, error) {
	log := that.logger.With("method", "ApplyMove", "session_id", id)

	unlock := that.locks.Lock(id)
	defer unlock()

	session, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	controller := tictactoe.RestoreGameController(session.Game)
	controller.OnGameEnded(func(event entity.GameEnded) {
		log.Info("game ended", "winner", string(event.Winner), "tie", event.IsTie(), "board", controller.State().Board.String())
	})

	before := session.Game

	game, event := controller.ApplyMove(cell)
	if game == before {
		log.Debug("move ignored", "cell", cell, "finished", game.Finished)
		return session, nil, nil
	}

	session.Game = game
	session.Version++
	session.UpdatedAt = that.now()

	if err = that.gameRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to update session: %w", err)
	}

	return session, event, nil
}

func (that *gameService) Restart(ctx context.Context, id string) (*entity.Session, error) {
	unlock := that.locks.Lock(id)
	defer unlock()

	session, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	controller := tictactoe.RestoreGameController(session.Game)
	session.Game = controller.Restart()
	session.Version++
	session.UpdatedAt = that.now()

	if err = that.gameRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	that.logger.Debug("session restarted", "session_id", id)

	return session, nil
}
