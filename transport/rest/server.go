package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	logger *slog.Logger
	echo   *echo.Echo
}

// New builds the HTTP surface: open auth routes, bearer-guarded game and
// stats routes, and a liveness ping.
func New(logger *slog.Logger, auth AuthHandler, game GameHandler, stats StatsHandler, verifier TokenVerifier) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	e.GET("/ping", NewPingHandler().Ping)

	e.POST("/auth/register", auth.Register)
	e.POST("/auth/login", auth.Login)

	bearerAuth := BearerAuth(verifier)

	gameGroup := e.Group("/game", bearerAuth)
	gameGroup.POST("/create_game_session", game.CreateGameSession)
	gameGroup.POST("/player_move", game.PlayerMove)
	gameGroup.POST("/pc_move", game.PCMove)
	gameGroup.POST("/check_board", game.CheckBoard)
	gameGroup.GET("", game.GetGameSession)

	statsGroup := e.Group("/stats", bearerAuth)
	statsGroup.GET("", stats.GetUserStats)

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 30 * time.Second

	return &Server{
		logger: logger.With("component", "rest"),
		echo:   e,
	}
}

// Start serves until the context is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	errCh := make(chan error, 1)

	go func() {
		if err := that.echo.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := that.echo.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
			return err
		}

		return nil
	}
}
