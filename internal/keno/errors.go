package keno

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidConfiguration  = errors.New("invalid configuration")
	ErrOutOfRange            = errors.New("number out of range")
	ErrPreconditionViolation = errors.New("precondition violation")
)

// ValueError reports the offending value and the constraint it broke.
type ValueError struct {
	Kind       error
	Field      string
	Value      int
	Constraint string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s=%d, want %s", e.Kind, e.Field, e.Value, e.Constraint)
}

func (e *ValueError) Unwrap() error { return e.Kind }

func invalidConfig(field string, value int, constraint string) error {
	return &ValueError{Kind: ErrInvalidConfiguration, Field: field, Value: value, Constraint: constraint}
}

func precondition(field string, value int, constraint string) error {
	return &ValueError{Kind: ErrPreconditionViolation, Field: field, Value: value, Constraint: constraint}
}
