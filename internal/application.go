package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/oraclearcade/tictactoe-backend/internal/config"
	"github.com/oraclearcade/tictactoe-backend/internal/oracle"
	"github.com/oraclearcade/tictactoe-backend/internal/repository"
	"github.com/oraclearcade/tictactoe-backend/internal/repository/storage"
	"github.com/oraclearcade/tictactoe-backend/internal/repository/storage/sqlite"
	"github.com/oraclearcade/tictactoe-backend/internal/service"
	"github.com/oraclearcade/tictactoe-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - wires storages, repositories, services and the HTTP server, then
// serves until a shutdown signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := sqlite.New(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	sessionRepo := repository.NewGameSessionRepository(redisStorage.Connection)
	userRepo := repository.NewUserRepository(sqliteStorage.Connection)
	statsRepo := repository.NewStatsRepository(sqliteStorage.Connection)

	oracleClient := oracle.New(conf.Oracle.BaseURL, conf.Oracle.Timeout)

	authService := service.NewAuthService(conf.JWTSecretKey, userRepo)
	gameService := service.NewGameService(logger, sessionRepo, oracleClient, statsRepo)
	statsService := service.NewStatsService(statsRepo)

	server := rest.New(
		logger,
		rest.NewAuthHandler(logger, authService),
		rest.NewGameHandler(logger, gameService, oracleClient),
		rest.NewStatsHandler(statsService),
		authService,
	)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err = server.Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	return nil
}
