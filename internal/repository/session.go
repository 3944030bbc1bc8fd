package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/oraclearcade/tictactoe-backend/internal/apperror"
	"github.com/oraclearcade/tictactoe-backend/internal/entity"
)

const sessionKeyPrefix = "session:"

type GameSessionRepository interface {
	Create(ctx context.Context, session *entity.GameSession) error
	GetByID(ctx context.Context, id string) (*entity.GameSession, error)
	CompareAndSwap(ctx context.Context, id string, expectedVersion int64, session *entity.GameSession) error
}

type dbGameSession struct {
	client *redis.Client
}

func NewGameSessionRepository(client *redis.Client) GameSessionRepository {
	return &dbGameSession{
		client: client,
	}
}

func (that *dbGameSession) Create(ctx context.Context, session *entity.GameSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	created, err := that.client.SetNX(ctx, sessionKeyPrefix+session.ID, payload, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	if !created {
		return fmt.Errorf("%w: session id %s already stored", apperror.ErrConflict, session.ID)
	}

	return nil
}

func (that *dbGameSession) GetByID(ctx context.Context, id string) (*entity.GameSession, error) {
	response, err := that.client.Get(ctx, sessionKeyPrefix+id).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}

	var existingSession entity.GameSession
	if err = json.Unmarshal([]byte(response), &existingSession); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &existingSession, nil
}

// CompareAndSwap stores session only if the stored record still carries
// expectedVersion. The key is WATCHed for the whole transaction, so a write
// that lands between the version check and the SET aborts the pipeline and
// surfaces as ErrConflict as well.
func (that *dbGameSession) CompareAndSwap(ctx context.Context, id string, expectedVersion int64, session *entity.GameSession) error {
	key := sessionKeyPrefix + id

	err := that.client.Watch(ctx, func(tx *redis.Tx) error {
		response, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return apperror.ErrSessionNotFound
		}

		if err != nil {
			return fmt.Errorf("failed to get session by ID: %w", err)
		}

		var stored entity.GameSession
		if err = json.Unmarshal([]byte(response), &stored); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}

		if stored.Version != expectedVersion {
			return fmt.Errorf("%w: expected version %d, stored %d", apperror.ErrConflict, expectedVersion, stored.Version)
		}

		session.Version = expectedVersion + 1

		payload, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("could not marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to set session: %w", err)
		}

		return nil
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: session %s changed during update", apperror.ErrConflict, id)
	}

	return err
}
