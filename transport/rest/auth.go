package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oraclearcade/tictactoe-backend/internal/entity"
)

type AuthHandler interface {
	Register(ctx echo.Context) error
	Login(ctx echo.Context) error
}

type authService interface {
	Register(ctx context.Context, email, password, name string) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
}

type authHandler struct {
	logger *slog.Logger

	auth authService
}

func NewAuthHandler(logger *slog.Logger, auth authService) AuthHandler {
	return &authHandler{
		logger: logger.With("component", "auth-handler"),
		auth:   auth,
	}
}

func (that *authHandler) Register(ctx echo.Context) error {
	var req registerRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.Email == "" || len(req.Password) < 6 || req.Name == "" {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "email, name and a password of at least 6 characters are required"})
	}

	user, token, err := that.auth.Register(ctx.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toAuthResponse(user, token))
}

func (that *authHandler) Login(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	user, token, err := that.auth.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toAuthResponse(user, token))
}

func toAuthResponse(user *entity.User, token string) authResponse {
	return authResponse{
		User: userResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
		Token: token,
	}
}
