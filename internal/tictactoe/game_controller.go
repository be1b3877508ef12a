package tictactoe

import "github.com/rocketscienceinc/tictactoe-core/internal/entity"

// GameController owns the state of one running game and is the only thing a
// presentation layer talks to.
type GameController struct {
	state   entity.Game
	onEnded func(entity.GameEnded)
}

func NewGameController() *GameController {
	return &GameController{
		state: entity.NewGame(),
	}
}

// OnGameEnded registers a hook called once per game, right after the move that ended it.
func (that *GameController) OnGameEnded(hook func(entity.GameEnded)) {
	that.onEnded = hook
}

func (that *GameController) ApplyMove(cell int) (entity.Game, *entity.GameEnded) {
	next, event := that.state.ApplyMove(cell)
	that.state = next

	if event != nil && that.onEnded != nil {
		that.onEnded(*event)
	}

	return next, event
}

func (that *GameController) Restart() entity.Game {
	that.state = that.state.Restart()

	return that.state
}

func (that *GameController) State() entity.Game {
	return that.state
}

func (that *GameController) Status() string {
	return that.state.Status()
}

// RestoreGameController resumes a controller from a previously stored game.
func RestoreGameController(game entity.Game) *GameController {
	return &GameController{
		state: game,
	}
}
