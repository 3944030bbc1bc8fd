package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraclearcade/tictactoe-backend/internal/apperror"
	"github.com/oraclearcade/tictactoe-backend/internal/entity"
	"github.com/oraclearcade/tictactoe-backend/internal/oracle"
)

type fakeGameService struct {
	session *entity.GameSession
	err     error

	lastUserID    string
	lastSessionID string
	lastBoard     entity.Board
}

func (that *fakeGameService) CreateGameSession(_ context.Context, ownerID string, _ bool) (*entity.GameSession, error) {
	that.lastUserID = ownerID
	return that.session, that.err
}

func (that *fakeGameService) GetGameSession(_ context.Context, sessionID string) (*entity.GameSession, error) {
	that.lastSessionID = sessionID
	return that.session, that.err
}

func (that *fakeGameService) PlayerMove(_ context.Context, submitted entity.Board, sessionID, userID string) (*entity.GameSession, error) {
	that.lastBoard = submitted
	that.lastSessionID = sessionID
	that.lastUserID = userID
	return that.session, that.err
}

func (that *fakeGameService) PCMove(_ context.Context, submitted entity.Board, userID, sessionID string) (*entity.GameSession, error) {
	that.lastBoard = submitted
	that.lastSessionID = sessionID
	that.lastUserID = userID
	return that.session, that.err
}

type fakeBoardChecker struct {
	status *oracle.BoardStatus
	err    error
}

func (that *fakeBoardChecker) CheckBoard(_ context.Context, _ entity.Board) (*oracle.BoardStatus, error) {
	return that.status, that.err
}

func newGameTestContext(t *testing.T, method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	ctx := echo.New().NewContext(req, rec)
	if userID != "" {
		ctx.Set(userIDContextKey, userID)
	}

	return ctx, rec
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGameHandler_CreateGameSession(t *testing.T) {
	t.Run("Returns 201 with the new session view", func(t *testing.T) {
		// Given: a service that creates a session with the player to move
		session := entity.NewGameSession("user-1", true)
		game := &fakeGameService{session: session}
		handler := NewGameHandler(discardLogger(), game, &fakeBoardChecker{})

		ctx, rec := newGameTestContext(t, http.MethodPost, "/game/create_game_session", `{"startWithPlayer":true}`, "user-1")

		// When: creating the session
		require.NoError(t, handler.CreateGameSession(ctx))

		// Then: 201 with session id, an all-zero board and ongoing status
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "user-1", game.lastUserID)

		var resp gameSessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, session.ID, resp.SessionID)
		assert.Equal(t, entity.Board{}, resp.Board)
		assert.Equal(t, wireStatusOngoing, resp.GameStatus)
	})

	t.Run("Returns 400 for a malformed body", func(t *testing.T) {
		handler := NewGameHandler(discardLogger(), &fakeGameService{}, &fakeBoardChecker{})

		ctx, rec := newGameTestContext(t, http.MethodPost, "/game/create_game_session", `{"startWithPlayer":`, "user-1")

		require.NoError(t, handler.CreateGameSession(ctx))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGameHandler_PlayerMove(t *testing.T) {
	t.Run("Returns 200 with the collapsed game status", func(t *testing.T) {
		// Given: a service whose move ends in a player win
		session := entity.NewGameSession("user-1", true)
		session.Status = entity.StatusPlayerWon
		game := &fakeGameService{session: session}
		handler := NewGameHandler(discardLogger(), game, &fakeBoardChecker{})

		body := fmt.Sprintf(`{"board":[[1,0,0],[0,0,0],[0,0,0]],"sessionId":%q}`, session.ID)
		ctx, rec := newGameTestContext(t, http.MethodPost, "/game/player_move", body, "user-1")

		// When: submitting the move
		require.NoError(t, handler.PlayerMove(ctx))

		// Then: 200 and player_won collapses to won on the wire
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, session.ID, game.lastSessionID)
		assert.Equal(t, entity.CellPlayer, game.lastBoard[0][0])

		var resp moveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, wireStatusWon, resp.GameStatus)
	})

	t.Run("Maps Forbidden to 401", func(t *testing.T) {
		game := &fakeGameService{err: apperror.ErrForbidden}
		handler := NewGameHandler(discardLogger(), game, &fakeBoardChecker{})

		ctx, rec := newGameTestContext(t, http.MethodPost, "/game/player_move", `{"board":[[1,0,0],[0,0,0],[0,0,0]],"sessionId":"s-1"}`, "user-2")

		require.NoError(t, handler.PlayerMove(ctx))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Maps InvalidMove to 400", func(t *testing.T) {
		game := &fakeGameService{err: apperror.ErrInvalidMove}
		handler := NewGameHandler(discardLogger(), game, &fakeBoardChecker{})

		ctx, rec := newGameTestContext(t, http.MethodPost, "/game/player_move", `{"board":[[1,0,0],[0,0,0],[0,0,0]],"sessionId":"s-1"}`, "user-1")

		require.NoError(t, handler.PlayerMove(ctx))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Rejects a board with an out-of-range mark", func(t *testing.T) {
		game := &fakeGameService{}
		handler := NewGameHandler(discardLogger(), game, &fakeBoardChecker{})

		ctx, rec := newGameTestContext(t, http.MethodPost, "/game/player_move", `{"board":[[7,0,0],[0,0,0],[0,0,0]],"sessionId":"s-1"}`, "user-1")

		require.NoError(t, handler.PlayerMove(ctx))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGameHandler_PCMove(t *testing.T) {
	t.Run("Returns 201 with the engine's move applied", func(t *testing.T) {
		// Given: a service whose computer move keeps the game going
		session := entity.NewGameSession("user-1", false)
		session.Board[1][1] = entity.CellComputer
		session.NextTurn = entity.TurnPlayer
		game := &fakeGameService{session: session}
		handler := NewGameHandler(discardLogger(), game, &fakeBoardChecker{})

		body := fmt.Sprintf(`{"board":[[0,0,0],[0,0,0],[0,0,0]],"sessionId":%q}`, session.ID)
		ctx, rec := newGameTestContext(t, http.MethodPost, "/game/pc_move", body, "user-1")

		// When: requesting the computer move
		require.NoError(t, handler.PCMove(ctx))

		// Then: 201 with the updated board
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp moveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, entity.CellComputer, resp.Board[1][1])
		assert.Equal(t, wireStatusOngoing, resp.GameStatus)
	})

	t.Run("Maps an unavailable oracle to 400", func(t *testing.T) {
		game := &fakeGameService{err: apperror.ErrOracleUnavailable}
		handler := NewGameHandler(discardLogger(), game, &fakeBoardChecker{})

		ctx, rec := newGameTestContext(t, http.MethodPost, "/game/pc_move", `{"board":[[0,0,0],[0,0,0],[0,0,0]],"sessionId":"s-1"}`, "user-1")

		require.NoError(t, handler.PCMove(ctx))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGameHandler_GetGameSession(t *testing.T) {
	t.Run("Returns the stored session view", func(t *testing.T) {
		session := entity.NewGameSession("user-1", true)
		game := &fakeGameService{session: session}
		handler := NewGameHandler(discardLogger(), game, &fakeBoardChecker{})

		ctx, rec := newGameTestContext(t, http.MethodGet, "/game?sessionId="+session.ID, "", "user-1")

		require.NoError(t, handler.GetGameSession(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, session.ID, game.lastSessionID)
	})

	t.Run("Requires the sessionId parameter", func(t *testing.T) {
		handler := NewGameHandler(discardLogger(), &fakeGameService{}, &fakeBoardChecker{})

		ctx, rec := newGameTestContext(t, http.MethodGet, "/game", "", "user-1")

		require.NoError(t, handler.GetGameSession(ctx))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Maps an unknown session to 400", func(t *testing.T) {
		handler := NewGameHandler(discardLogger(), &fakeGameService{err: apperror.ErrSessionNotFound}, &fakeBoardChecker{})

		ctx, rec := newGameTestContext(t, http.MethodGet, "/game?sessionId=missing", "", "user-1")

		require.NoError(t, handler.GetGameSession(ctx))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGameHandler_CheckBoard(t *testing.T) {
	t.Run("Returns the oracle's verdict", func(t *testing.T) {
		checker := &fakeBoardChecker{status: &oracle.BoardStatus{Status: "x wins"}}
		handler := NewGameHandler(discardLogger(), &fakeGameService{}, checker)

		ctx, rec := newGameTestContext(t, http.MethodPost, "/game/check_board", `{"board":[[1,1,1],[0,-1,0],[0,0,-1]]}`, "user-1")

		require.NoError(t, handler.CheckBoard(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"x wins"}`, rec.Body.String())
	})

	t.Run("Rejects a board no alternating game can reach", func(t *testing.T) {
		handler := NewGameHandler(discardLogger(), &fakeGameService{}, &fakeBoardChecker{})

		ctx, rec := newGameTestContext(t, http.MethodPost, "/game/check_board", `{"board":[[1,1,1],[1,0,0],[0,0,0]]}`, "user-1")

		require.NoError(t, handler.CheckBoard(ctx))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestToWireStatus(t *testing.T) {
	// Both terminal win statuses collapse to the same wire value.
	cases := map[entity.GameStatus]string{
		entity.StatusOngoing:     wireStatusOngoing,
		entity.StatusPlayerWon:   wireStatusWon,
		entity.StatusComputerWon: wireStatusWon,
		entity.StatusDraw:        wireStatusDraw,
	}

	for status, want := range cases {
		assert.Equal(t, want, toWireStatus(status), "status %s", status)
	}
}
