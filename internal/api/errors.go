package api

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest marks failures caused by the request payload rather
// than the server. Handlers map it to a 400 response.
var ErrInvalidRequest = errors.New("invalid request")

type invalidRequestError struct {
	msg string
}

func (e *invalidRequestError) Error() string { return e.msg }

func (e *invalidRequestError) Unwrap() error { return ErrInvalidRequest }

// invalidRequestf builds an error that unwraps to ErrInvalidRequest.
func invalidRequestf(format string, args ...any) error {
	return &invalidRequestError{msg: fmt.Sprintf(format, args...)}
}
