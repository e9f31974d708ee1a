package cssx

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty indicates a transform value with no functions.
	ErrEmpty = errors.New("cssx: empty transform")

	// ErrUnknownFunction indicates a transform function this package does not implement.
	ErrUnknownFunction = errors.New("cssx: unknown transform function")

	// ErrBadArgument indicates a wrong number of arguments or an unparsable number.
	ErrBadArgument = errors.New("cssx: bad transform argument")

	// ErrUnit indicates a unit that cannot be resolved without layout (em, %, ...).
	ErrUnit = errors.New("cssx: unsupported unit")
)

// SyntaxError reports malformed transform text.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("cssx: syntax error at offset %d: %s", e.Offset, e.Msg)
}
