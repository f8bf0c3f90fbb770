// Package apperr holds the error taxonomy shared by the stores and the HTTP layer.
package apperr

import (
	"fmt"
	"strings"
)

// ValidationError lists every failing field of a rejected input.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// Validation builds a ValidationError from field messages.
func Validation(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Add appends a message; handy while collecting failures.
func (e *ValidationError) Add(format string, args ...any) {
	e.Fields = append(e.Fields, fmt.Sprintf(format, args...))
}

// OrNil returns nil when nothing was collected.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvalidTransitionError is returned for order status changes absent from the
// lifecycle table.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}
