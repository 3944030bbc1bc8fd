// Package oracle is the HTTP client for the external move-prediction engine.
// The engine owns the computer opponent's algorithm; this client only speaks
// its wire protocol and polices the boards it hands back.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oraclearcade/tictactoe-backend/internal/apperror"
	"github.com/oraclearcade/tictactoe-backend/internal/entity"
)

const (
	makeMovePath       = "/make_move"
	checkGameStatePath = "/check_game_state"
)

// The engine speaks x/o while the core speaks player/computer marks.
const (
	enginePlayerMark   = "x"
	engineComputerMark = "o"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type moveRequest struct {
	Board         entity.Board `json:"board"`
	CurrentPlayer string       `json:"current_player"`
}

type moveResponse struct {
	Board entity.Board `json:"board"`
}

// BoardStatus is the engine's verdict on a standalone board, passed through
// to check_board callers unchanged.
type BoardStatus struct {
	Status string `json:"status"`
}

// RequestMove asks the engine to place one mark for role on board and returns
// the resulting board. Transport failures, timeouts and non-2xx responses
// surface as ErrOracleUnavailable; a response board that is not board plus
// exactly one new role mark surfaces as ErrOracleInvalidResponse. Neither
// failure leaves any state behind.
func (that *Client) RequestMove(ctx context.Context, board entity.Board, role entity.Cell) (entity.Board, error) {
	payload := moveRequest{
		Board:         board,
		CurrentPlayer: engineMark(role),
	}

	var response moveResponse
	if err := that.post(ctx, makeMovePath, payload, &response); err != nil {
		return entity.Board{}, err
	}

	move, err := entity.Diff(board, response.Board)
	if err != nil {
		return entity.Board{}, fmt.Errorf("%w: %w", apperror.ErrOracleInvalidResponse, err)
	}

	if move.Mark != role {
		return entity.Board{}, fmt.Errorf("%w: engine placed mark %d instead of %d", apperror.ErrOracleInvalidResponse, move.Mark, role)
	}

	return response.Board, nil
}

// CheckBoard asks the engine to classify a standalone board.
func (that *Client) CheckBoard(ctx context.Context, board entity.Board) (*BoardStatus, error) {
	payload := moveRequest{
		Board:         board,
		CurrentPlayer: enginePlayerMark,
	}

	var status BoardStatus
	if err := that.post(ctx, checkGameStatePath, payload, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

func (that *Client) post(ctx context.Context, path string, payload, response any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not marshal engine request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not build engine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := that.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: engine answered %d", apperror.ErrOracleUnavailable, resp.StatusCode)
	}

	if err = json.NewDecoder(resp.Body).Decode(response); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrOracleInvalidResponse, err)
	}

	return nil
}

func engineMark(role entity.Cell) string {
	if role == entity.CellPlayer {
		return enginePlayerMark
	}
	return engineComputerMark
}
