package apperror

import "errors"

var (
	ErrInsufficientCalls  = errors.New("not enough distinct calls to fill the board")
	ErrInvalidPosition    = errors.New("invalid board position")
	ErrGameIsNotStarted   = errors.New("game is not started")
	ErrGameAlreadyStarted = errors.New("game is already started")
	ErrNoActiveGame       = errors.New("no active game")
)
