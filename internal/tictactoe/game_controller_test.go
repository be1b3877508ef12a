package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameController(t *testing.T) {
	// Given: a new controller
	controller := NewGameController()

	// Then: it should start from the initial game
	require.Equal(t, entity.NewGame(), controller.State())
	assert.Equal(t, "it is X's turn", controller.Status())
}

func TestGameController_ApplyMove(t *testing.T) {
	t.Run("ApplyMove", func(t *testing.T) {
		// Given: a new controller
		controller := NewGameController()

		// When: X moves to the center
		game, event := controller.ApplyMove(4)

		// Then: the returned and owned state should match
		require.Nil(t, event)
		assert.Equal(t, entity.MarkX, game.Board[4])
		assert.Equal(t, game, controller.State())
		assert.Equal(t, "it is O's turn", controller.Status())
	})

	t.Run("Rejected move keeps the state", func(t *testing.T) {
		// Given: a controller where cell 4 is taken
		controller := NewGameController()
		before, _ := controller.ApplyMove(4)

		// When: O taps the same cell
		after, event := controller.ApplyMove(4)

		// Then: nothing changes
		assert.Nil(t, event)
		assert.Equal(t, before, after)
		assert.Equal(t, before, controller.State())
	})

	t.Run("Hook fires once when the game ends", func(t *testing.T) {
		// Given: a controller with an end-of-game hook
		controller := NewGameController()

		var ended []entity.GameEnded
		controller.OnGameEnded(func(event entity.GameEnded) {
			ended = append(ended, event)
		})

		// When: X wins and more taps follow
		for _, cell := range []int{0, 3, 1, 4, 2, 5, 6} {
			controller.ApplyMove(cell)
		}

		// Then: the hook was called exactly once with X as the winner
		require.Len(t, ended, 1)
		assert.Equal(t, entity.MarkX, ended[0].Winner)
		assert.Equal(t, "game over", controller.Status())
	})
}

func TestGameController_Restart(t *testing.T) {
	// Given: a finished game
	controller := NewGameController()

	endings := 0
	controller.OnGameEnded(func(entity.GameEnded) { endings++ })

	for _, cell := range []int{0, 3, 1, 4, 2} {
		controller.ApplyMove(cell)
	}
	require.True(t, controller.State().Finished)

	// When: restarting
	game := controller.Restart()

	// Then: the controller is back to the initial state
	assert.Equal(t, entity.NewGame(), game)
	assert.Equal(t, entity.NewGame(), controller.State())

	// Then: the next game can end and notify again
	for _, cell := range []int{3, 0, 4, 1, 5} {
		controller.ApplyMove(cell)
	}

	assert.Equal(t, 2, endings)
	assert.Equal(t, entity.MarkX, controller.State().Winner)
}
