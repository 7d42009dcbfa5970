package service

import "errors"

// Error kinds surfaced at the registry boundary. They are returned unwrapped
// so callers can branch on them with errors.Is.
var (
	ErrWrongAnswer         = errors.New("WrongAnswer")
	ErrQuestionDoesntExist = errors.New("QuestionDoesntExist")
	ErrInvalidPowerLevel   = errors.New("InvalidPowerLevel")
	ErrInvalidCaller       = errors.New("InvalidCaller")
)

var (
	ErrNotInitialized     = errors.New("registry is not initialized")
	ErrAlreadyInitialized = errors.New("registry is already initialized")
	ErrEmptyIdentity      = errors.New("identity is required")
)

// IsKind reports whether err is one of the registry error kinds.
func IsKind(err error) bool {
	return errors.Is(err, ErrWrongAnswer) ||
		errors.Is(err, ErrQuestionDoesntExist) ||
		errors.Is(err, ErrInvalidPowerLevel) ||
		errors.Is(err, ErrInvalidCaller)
}
