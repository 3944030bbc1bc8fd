package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oraclearcade/tictactoe-backend/internal/entity"
)

type StatsRepository interface {
	RecordOutcome(ctx context.Context, userID string, outcome entity.Outcome) error
	GetUserStats(ctx context.Context, userID string) (*entity.UserStats, error)
}

type statsRepository struct {
	conn *sql.DB
}

func NewStatsRepository(conn *sql.DB) StatsRepository {
	return &statsRepository{
		conn: conn,
	}
}

func (that *statsRepository) RecordOutcome(ctx context.Context, userID string, outcome entity.Outcome) error {
	query := `INSERT INTO game_results (user_id, outcome, recorded_at) VALUES (?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query, userID, string(outcome), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("can't record outcome: %w", err)
	}

	return nil
}

func (that *statsRepository) GetUserStats(ctx context.Context, userID string) (*entity.UserStats, error) {
	query := `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN outcome = 'win' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN outcome = 'loss' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN outcome = 'draw' THEN 1 ELSE 0 END), 0)
	FROM game_results WHERE user_id = ?`

	var stats entity.UserStats

	err := that.conn.QueryRowContext(ctx, query, userID).
		Scan(&stats.TotalGames, &stats.Wins, &stats.Losses, &stats.Draws)
	if err != nil {
		return nil, fmt.Errorf("can't read user stats: %w", err)
	}

	return &stats, nil
}
