package services

import (
	"errors"
	"fmt"
)

// ValidationError rejects bad or missing input: empty text, sub-floor
// amounts, self-pairs. Operations check everything before mutating, so a
// rejected call leaves state untouched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError reports an unknown story, pair or wallet.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

func NewNotFoundError(kind string, id uint) error {
	return &NotFoundError{Kind: kind, Key: fmt.Sprintf("%d", id)}
}

func NewNotFoundKeyError(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// CollaboratorError wraps a failure talking to an external collaborator
// (database, settlement service). In-memory state is never left half-mutated
// when one of these surfaces.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator unavailable: %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func NewCollaboratorError(op string, err error) error {
	return &CollaboratorError{Op: op, Err: err}
}

func IsCollaborator(err error) bool {
	var ce *CollaboratorError
	return errors.As(err, &ce)
}
