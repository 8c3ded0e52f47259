package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies expected application failures so the HTTP layer can map
// them to status codes without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidState
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsInvalidState(err error) bool {
	return KindOf(err) == KindInvalidState
}

func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}
