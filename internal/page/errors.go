package page

import "errors"

var (
	ErrBadSize      = errors.New("page: width and height must be positive")
	ErrMissingID    = errors.New("page: element without id")
	ErrDuplicateID  = errors.New("page: duplicate element id")
	ErrPointerOrder = errors.New("page: pointer waypoints out of order")
	ErrUnknownScene = errors.New("page: unknown scene")
)
