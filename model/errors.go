package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidPosition = errors.New("invalid seat position")
	ErrDuplicateId     = errors.New("duplicate id")
)

// NotFoundError names the entity that could not be resolved.
type NotFoundError struct {
	Kind string
	Id   string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Id)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
