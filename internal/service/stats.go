package service

import (
	"context"
	"fmt"

	"github.com/oraclearcade/tictactoe-backend/internal/entity"
)

type StatsService interface {
	GetUserStats(ctx context.Context, userID string) (*entity.UserStats, error)
}

type statsRepo interface {
	GetUserStats(ctx context.Context, userID string) (*entity.UserStats, error)
}

type statsService struct {
	stats statsRepo
}

func NewStatsService(stats statsRepo) StatsService {
	return &statsService{
		stats: stats,
	}
}

func (that *statsService) GetUserStats(ctx context.Context, userID string) (*entity.UserStats, error) {
	stats, err := that.stats.GetUserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not get stats for user: %w", err)
	}

	return stats, nil
}
