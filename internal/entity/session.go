package entity

import (
	"time"

	"github.com/google/uuid"
)

type Turn string

const (
	TurnPlayer   Turn = "player"
	TurnComputer Turn = "computer"
)

// Outcome is a finished game seen from the player's side.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// GameSession is one match owned by one user. It is mutated only through the
// game service, one accepted move at a time; Version backs the store's
// compare-and-swap.
type GameSession struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Board     Board      `json:"board"`
	Status    GameStatus `json:"status"`
	NextTurn  Turn       `json:"next_turn,omitempty"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewGameSession(ownerID string, startWithPlayer bool) *GameSession {
	turn := TurnComputer
	if startWithPlayer {
		turn = TurnPlayer
	}

	now := time.Now().UTC()

	return &GameSession{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Status:    StatusOngoing,
		NextTurn:  turn,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *GameSession) IsTerminal() bool {
	return that.Status != StatusOngoing
}

func (that *GameSession) IsOwnedBy(userID string) bool {
	return that.OwnerID == userID
}

// OutcomeForOwner maps a terminal status to the owner's outcome. The second
// return is false while the game is still ongoing.
func (that *GameSession) OutcomeForOwner() (Outcome, bool) {
	switch that.Status {
	case StatusPlayerWon:
		return OutcomeWin, true
	case StatusComputerWon:
		return OutcomeLoss, true
	case StatusDraw:
		return OutcomeDraw, true
	default:
		return "", false
	}
}
