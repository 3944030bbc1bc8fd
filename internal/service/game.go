package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oraclearcade/tictactoe-backend/internal/apperror"
	"github.com/oraclearcade/tictactoe-backend/internal/entity"
)

type GameService interface {
	CreateGameSession(ctx context.Context, ownerID string, startWithPlayer bool) (*entity.GameSession, error)
	GetGameSession(ctx context.Context, sessionID string) (*entity.GameSession, error)

	PlayerMove(ctx context.Context, submitted entity.Board, sessionID, userID string) (*entity.GameSession, error)
	PCMove(ctx context.Context, submitted entity.Board, userID, sessionID string) (*entity.GameSession, error)
}

type sessionRepo interface {
	Create(ctx context.Context, session *entity.GameSession) error
	GetByID(ctx context.Context, id string) (*entity.GameSession, error)
	CompareAndSwap(ctx context.Context, id string, expectedVersion int64, session *entity.GameSession) error
}

type moveOracle interface {
	RequestMove(ctx context.Context, board entity.Board, role entity.Cell) (entity.Board, error)
}

type statsRecorder interface {
	RecordOutcome(ctx context.Context, userID string, outcome entity.Outcome) error
}

type gameService struct {
	logger *slog.Logger

	sessions sessionRepo
	oracle   moveOracle
	stats    statsRecorder
}

func NewGameService(logger *slog.Logger, sessions sessionRepo, oracle moveOracle, stats statsRecorder) GameService {
	return &gameService{
		logger:   logger.With("component", "game-service"),
		sessions: sessions,
		oracle:   oracle,
		stats:    stats,
	}
}

// CreateGameSession starts a fresh match on an empty board. When the computer
// opens, the first move is still driven by the caller through PCMove so that
// every computer move runs through one code path.
func (that *gameService) CreateGameSession(ctx context.Context, ownerID string, startWithPlayer bool) (*entity.GameSession, error) {
	session := entity.NewGameSession(ownerID, startWithPlayer)

	if err := that.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (that *gameService) GetGameSession(ctx context.Context, sessionID string) (*entity.GameSession, error) {
	session, err := that.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// PlayerMove accepts the player's proposed board, which must extend the
// stored board by exactly one player mark.
func (that *gameService) PlayerMove(ctx context.Context, submitted entity.Board, sessionID, userID string) (*entity.GameSession, error) {
	session, err := that.loadOwnedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if session.IsTerminal() || session.NextTurn != entity.TurnPlayer {
		return nil, fmt.Errorf("%w: status %s, next turn %s", apperror.ErrInvalidState, session.Status, session.NextTurn)
	}

	move, err := entity.Diff(session.Board, submitted)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	if move.Mark != entity.CellPlayer {
		return nil, fmt.Errorf("%w: mark %d is not the player's", apperror.ErrInvalidMove, move.Mark)
	}

	return that.applyMove(ctx, session, submitted, entity.TurnComputer)
}

// PCMove lets the engine place the computer's mark. The caller must echo the
// stored board back unchanged, which also makes retries after an engine
// outage safe.
func (that *gameService) PCMove(ctx context.Context, submitted entity.Board, userID, sessionID string) (*entity.GameSession, error) {
	session, err := that.loadOwnedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if session.IsTerminal() || session.NextTurn != entity.TurnComputer {
		return nil, fmt.Errorf("%w: status %s, next turn %s", apperror.ErrInvalidState, session.Status, session.NextTurn)
	}

	if submitted != session.Board {
		return nil, fmt.Errorf("%w: submitted board does not match the stored board", apperror.ErrConflict)
	}

	newBoard, err := that.oracle.RequestMove(ctx, session.Board, entity.CellComputer)
	if err != nil {
		return nil, fmt.Errorf("engine move failed: %w", err)
	}

	return that.applyMove(ctx, session, newBoard, entity.TurnPlayer)
}

func (that *gameService) loadOwnedSession(ctx context.Context, sessionID, userID string) (*entity.GameSession, error) {
	session, err := that.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if !session.IsOwnedBy(userID) {
		return nil, fmt.Errorf("%w: session %s", apperror.ErrForbidden, sessionID)
	}

	return session, nil
}

// applyMove commits one accepted move: evaluate the new board, flip or clear
// the turn, persist against the loaded version and record the outcome once
// the game ends. A compare-and-swap loss means a concurrent move won and
// nothing here took effect.
func (that *gameService) applyMove(ctx context.Context, session *entity.GameSession, newBoard entity.Board, nextTurn entity.Turn) (*entity.GameSession, error) {
	expectedVersion := session.Version

	session.Board = newBoard
	session.Status = newBoard.Evaluate()
	session.UpdatedAt = time.Now().UTC()

	if session.IsTerminal() {
		session.NextTurn = ""
	} else {
		session.NextTurn = nextTurn
	}

	if err := that.sessions.CompareAndSwap(ctx, session.ID, expectedVersion, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	that.recordOutcome(ctx, session)

	return session, nil
}

// Outcome recording must not fail the move; a lost event is logged and
// dropped.
func (that *gameService) recordOutcome(ctx context.Context, session *entity.GameSession) {
	outcome, terminal := session.OutcomeForOwner()
	if !terminal {
		return
	}

	log := that.logger.With("method", "recordOutcome")

	if err := that.stats.RecordOutcome(ctx, session.OwnerID, outcome); err != nil {
		log.Error("failed to record game outcome", "session", session.ID, "owner", session.OwnerID, "error", err)
		return
	}

	log.Info("game finished", "session", session.ID, "outcome", outcome)
}
