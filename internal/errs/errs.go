package errs

import "errors"

var (
	ErrInvalidID             = errors.New("invalid id")
	ErrChallengeNotFound     = errors.New("challenge not found")
	ErrUserChallengeNotFound = errors.New("user challenge not found")
	ErrTipNotFound           = errors.New("tip not found")
	ErrEventNotFound         = errors.New("event not found")
	ErrAlreadyJoined         = errors.New("user already joined")
)

// ValidationError carries the human-readable message for a 400 response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
