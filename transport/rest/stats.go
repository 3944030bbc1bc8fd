package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oraclearcade/tictactoe-backend/internal/entity"
)

type StatsHandler interface {
	GetUserStats(ctx echo.Context) error
}

type statsService interface {
	GetUserStats(ctx context.Context, userID string) (*entity.UserStats, error)
}

type statsHandler struct {
	stats statsService
}

func NewStatsHandler(stats statsService) StatsHandler {
	return &statsHandler{
		stats: stats,
	}
}

func (that *statsHandler) GetUserStats(ctx echo.Context) error {
	stats, err := that.stats.GetUserStats(ctx.Request().Context(), userIDFrom(ctx))
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, stats)
}
