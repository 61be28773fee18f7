package urlregex

import "errors"

var ErrInvalidMode = errors.New("invalid mode")

// InvalidModeError reports a mode value outside of the supported set.
type InvalidModeError struct {
	Value string
}

func (e *InvalidModeError) Error() string {
	return "wrong mode: " + e.Value
}

func (e *InvalidModeError) Is(target error) bool {
	return target == ErrInvalidMode
}
