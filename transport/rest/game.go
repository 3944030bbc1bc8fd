package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oraclearcade/tictactoe-backend/internal/entity"
	"github.com/oraclearcade/tictactoe-backend/internal/oracle"
)

type GameHandler interface {
	CreateGameSession(ctx echo.Context) error
	GetGameSession(ctx echo.Context) error
	PlayerMove(ctx echo.Context) error
	PCMove(ctx echo.Context) error
	CheckBoard(ctx echo.Context) error
}

type gameService interface {
	CreateGameSession(ctx context.Context, ownerID string, startWithPlayer bool) (*entity.GameSession, error)
	GetGameSession(ctx context.Context, sessionID string) (*entity.GameSession, error)

	PlayerMove(ctx context.Context, submitted entity.Board, sessionID, userID string) (*entity.GameSession, error)
	PCMove(ctx context.Context, submitted entity.Board, userID, sessionID string) (*entity.GameSession, error)
}

type boardChecker interface {
	CheckBoard(ctx context.Context, board entity.Board) (*oracle.BoardStatus, error)
}

type gameHandler struct {
	logger *slog.Logger

	game    gameService
	checker boardChecker
}

func NewGameHandler(logger *slog.Logger, game gameService, checker boardChecker) GameHandler {
	return &gameHandler{
		logger:  logger.With("component", "game-handler"),
		game:    game,
		checker: checker,
	}
}

func (that *gameHandler) CreateGameSession(ctx echo.Context) error {
	var req createGameSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	session, err := that.game.CreateGameSession(ctx.Request().Context(), userIDFrom(ctx), req.StartWithPlayer)
	if err != nil {
		that.logger.Error("failed to create game session", "error", err)
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toSessionResponse(session))
}

func (that *gameHandler) GetGameSession(ctx echo.Context) error {
	sessionID := ctx.QueryParam("sessionId")
	if sessionID == "" {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "sessionId is required"})
	}

	session, err := that.game.GetGameSession(ctx.Request().Context(), sessionID)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toSessionResponse(session))
}

func (that *gameHandler) PlayerMove(ctx echo.Context) error {
	var req moveRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	session, err := that.game.PlayerMove(ctx.Request().Context(), req.Board, req.SessionID, userIDFrom(ctx))
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toMoveResponse(session))
}

func (that *gameHandler) PCMove(ctx echo.Context) error {
	var req moveRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	session, err := that.game.PCMove(ctx.Request().Context(), req.Board, userIDFrom(ctx), req.SessionID)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toMoveResponse(session))
}

func (that *gameHandler) CheckBoard(ctx echo.Context) error {
	var req checkBoardRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := req.Board.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	status, err := that.checker.CheckBoard(ctx.Request().Context(), req.Board)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, status)
}
