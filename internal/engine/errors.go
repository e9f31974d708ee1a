package engine

import "errors"

var (
	ErrInvalidDelta = errors.New("engine: delta must be positive and finite")
	ErrUnknownBody  = errors.New("engine: body not in world")
	ErrUnstable     = errors.New("engine: body state became non-finite")
)
