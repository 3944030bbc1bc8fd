package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/oraclearcade/tictactoe-backend/internal"
	"github.com/oraclearcade/tictactoe-backend/internal/config"
)

// main loads the configuration, builds the logger and hands off to the
// application. Any bootstrap failure surfaces through the panic guard.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	conf := config.MustLoad(filepath.Join(baseDir, "config.yml"))
	logger := newLogger(conf.LogLevel)

	if err = app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// newLogger builds a JSON slog logger at the configured level, defaulting to
// info for anything unrecognized.
func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	if logLevel == "debug" {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
