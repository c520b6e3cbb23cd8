package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity does not exist or is not in the
	// state the operation requires.
	ErrNotFound = errors.New("record not found")
	// ErrQuestionPublished is returned when a mutation targets a question
	// that has already been published.
	ErrQuestionPublished = errors.New("published questions cannot be modified")
	// ErrNoActiveQuiz indicates no question is inside its visibility window.
	ErrNoActiveQuiz = errors.New("no quiz is currently active")
	// ErrQuizCompleted indicates the user already submitted a result for the
	// current visibility window. Distinct from ErrNoActiveQuiz on purpose.
	ErrQuizCompleted = errors.New("quiz already completed for the current window")
	// ErrSessionActive is returned when a second session is started while one
	// is in progress.
	ErrSessionActive = errors.New("a quiz session is already in progress")
	// ErrNoSession is returned for session operations without a started session.
	ErrNoSession = errors.New("no quiz session in progress")
	// ErrSessionSubmitted is returned for session operations after submission.
	ErrSessionSubmitted = errors.New("quiz session already submitted")
	// ErrUnanswered is returned when advancing or submitting with a missing answer.
	ErrUnanswered = errors.New("question has no recorded answer")
	// ErrUsernameTaken is returned on registration with a duplicate username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned on failed login or password change.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports malformed or incomplete input detected at the
// service layer, beyond what request binding covers.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
