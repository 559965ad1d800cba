package externalApi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("error not found")
	ErrUnauthenticated = errors.New("error unauthenticated")
)

// StatusError is any non-2xx answer except 401, which is reported as ErrUnauthenticated.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
