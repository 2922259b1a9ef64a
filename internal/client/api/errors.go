package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// ErrUnavailable reports that the server could not be reached or answered
// with something that is not the API.
var ErrUnavailable = errors.New("server unavailable")

// Error is a non-2xx API response. It unwraps to the common sentinel that
// matches its status code.
type Error struct {
	Status  int
	Message string
	kind    error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.kind
}

func newError(status int, msg string) *Error {
	return &Error{Status: status, Message: msg, kind: sentinelFor(status)}
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusBadRequest:
		return common.ErrorValidation
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	default:
		return common.ErrorInternal
	}
}
