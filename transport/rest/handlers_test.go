package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository"
	"github.com/rocketscienceinc/tictactoe-core/internal/service"
	"github.com/rocketscienceinc/tictactoe-core/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := suite.NewLogger()
	gameService := service.NewGameService(logger, repository.NewMemoryGameRepository(0))

	return NewRouter(logger, gameService)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeGame(t *testing.T, rec *httptest.ResponseRecorder) GameResponse {
	t.Helper()

	var resp GameResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	return resp
}

func createGame(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/games", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	return decodeGame(t, rec).SessionID
}

func postMove(t *testing.T, router http.Handler, id string, cell int) GameResponse {
	t.Helper()

	body, err := json.Marshal(map[string]int{"cell": cell})
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodPost, "/games/"+id+"/moves", string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	return decodeGame(t, rec)
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestCreateAndGetGame(t *testing.T) {
	// Given: a router with an in-memory store
	router := newTestRouter(t)

	// When: a game is created
	id := createGame(t, router)

	// Then: it can be fetched in its initial state
	rec := doRequest(t, router, http.MethodGet, "/games/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeGame(t, rec)
	assert.Equal(t, id, resp.SessionID)
	assert.Equal(t, entity.NewGame(), resp.Game)
	assert.Equal(t, "it is X's turn", resp.Status)
	assert.Equal(t, uint64(1), resp.Version)
	assert.Nil(t, resp.Event)
}

func TestApplyMove(t *testing.T) {
	t.Run("X wins on the top row", func(t *testing.T) {
		// Given: a new game
		router := newTestRouter(t)
		id := createGame(t, router)

		// When: moves 0,3,1,4,2 are played
		var resp GameResponse
		for _, cell := range []int{0, 3, 1, 4} {
			resp = postMove(t, router, id, cell)
			assert.Nil(t, resp.Event)
		}
		resp = postMove(t, router, id, 2)

		// Then: the game is over with X as the winner
		assert.True(t, resp.Game.Finished)
		assert.Equal(t, entity.MarkX, resp.Game.Winner)
		assert.Equal(t, "game over", resp.Status)
		require.NotNil(t, resp.Event)
		assert.Equal(t, []int{0, 1, 2}, resp.Event.Line)

		// Then: further taps are ignored without an event
		after := postMove(t, router, id, 5)
		assert.Equal(t, resp.Game, after.Game)
		assert.Nil(t, after.Event)
	})

	t.Run("Occupied cell returns the unchanged state", func(t *testing.T) {
		router := newTestRouter(t)
		id := createGame(t, router)

		first := postMove(t, router, id, 4)
		second := postMove(t, router, id, 4)

		assert.Equal(t, first.Game, second.Game)
		assert.Equal(t, entity.MarkO, second.Game.Turn)
		assert.Equal(t, uint64(2), first.Version)
		assert.Equal(t, first.Version, second.Version)
	})

	t.Run("Malformed body", func(t *testing.T) {
		router := newTestRouter(t)
		id := createGame(t, router)

		for _, body := range []string{"{", "{}", `{"cell":"a"}`, `{"cell":1,"extra":true}`} {
			rec := doRequest(t, router, http.MethodPost, "/games/"+id+"/moves", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		}
	})

	t.Run("Unknown session", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doRequest(t, router, http.MethodPost, "/games/missing/moves", `{"cell":0}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "session not found")
	})
}

func TestRestartAndDelete(t *testing.T) {
	// Given: a game with a few moves
	router := newTestRouter(t)
	id := createGame(t, router)
	postMove(t, router, id, 0)
	postMove(t, router, id, 1)

	// When: restarting
	rec := doRequest(t, router, http.MethodPost, "/games/"+id+"/restart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Then: the game is back to its initial state
	assert.Equal(t, entity.NewGame(), decodeGame(t, rec).Game)

	// When: deleting the game
	rec = doRequest(t, router, http.MethodDelete, "/games/"+id, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Then: it is gone
	rec = doRequest(t, router, http.MethodGet, "/games/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
