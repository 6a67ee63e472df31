package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Fehlerklassen, die die HTTP-Schicht auf Statuscodes abbildet.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrAIGeneration    = errors.New("ai generation failed")
)

// Error trägt eine nutzerlesbare Meldung und die Fehlerklasse.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// notFound übersetzt gorm.ErrRecordNotFound in ErrNotFound mit eigener Meldung.
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(ErrNotFound, "%s", msg)
	}
	return err
}
