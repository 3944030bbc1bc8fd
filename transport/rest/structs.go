package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oraclearcade/tictactoe-backend/internal/apperror"
	"github.com/oraclearcade/tictactoe-backend/internal/entity"
)

// Wire statuses collapse who won: clients only learn that the game is over,
// and infer the winner from which side moved last.
const (
	wireStatusOngoing = "ongoing"
	wireStatusWon     = "won"
	wireStatusDraw    = "draw"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type createGameSessionRequest struct {
	StartWithPlayer bool `json:"startWithPlayer"`
}

type moveRequest struct {
	Board     entity.Board `json:"board"`
	SessionID string       `json:"sessionId"`
}

type checkBoardRequest struct {
	Board entity.Board `json:"board"`
}

type gameSessionResponse struct {
	SessionID  string       `json:"sessionId"`
	Board      entity.Board `json:"board"`
	GameStatus string       `json:"gameStatus"`
}

type moveResponse struct {
	Board      entity.Board `json:"board"`
	GameStatus string       `json:"gameStatus"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toWireStatus(status entity.GameStatus) string {
	switch status {
	case entity.StatusPlayerWon, entity.StatusComputerWon:
		return wireStatusWon
	case entity.StatusDraw:
		return wireStatusDraw
	default:
		return wireStatusOngoing
	}
}

func toSessionResponse(session *entity.GameSession) gameSessionResponse {
	return gameSessionResponse{
		SessionID:  session.ID,
		Board:      session.Board,
		GameStatus: toWireStatus(session.Status),
	}
}

func toMoveResponse(session *entity.GameSession) moveResponse {
	return moveResponse{
		Board:      session.Board,
		GameStatus: toWireStatus(session.Status),
	}
}

// writeError maps core errors onto the wire: ownership failures are 401,
// everything else the core surfaces is a caller mistake and maps to 400.
func writeError(ctx echo.Context, err error) error {
	if errors.Is(err, apperror.ErrForbidden) || errors.Is(err, apperror.ErrUnauthorized) {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
	}

	return ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}
