package apperror

import "errors"

var (
	ErrSessionNotFound = errors.New("game session not found")
	ErrForbidden       = errors.New("game session belongs to another user")
	ErrInvalidMove     = errors.New("invalid move")
	ErrInvalidState    = errors.New("move submitted out of turn or after game end")
	ErrConflict        = errors.New("game session was updated concurrently")

	ErrOracleUnavailable     = errors.New("move oracle unavailable")
	ErrOracleInvalidResponse = errors.New("move oracle returned an invalid board")

	ErrNotFound           = errors.New("record not found")
	ErrEmailAlreadyTaken  = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("missing or invalid auth token")
)
