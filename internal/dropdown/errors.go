package dropdown

import "errors"

var (
	ErrNotInitialised     = errors.New("dropdown: Init has not been called")
	ErrAlreadyInitialised = errors.New("dropdown: already initialised")
	ErrTransform          = errors.New("dropdown: unreadable transform")
)
