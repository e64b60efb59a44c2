// Package apperr defines the error taxonomy every operation resolves to:
// validation failures, business-rule denials, missing entities, uniqueness
// conflicts and timeouts. Nothing in the service layer is fatal; every
// error here is per-operation and recoverable by retry or correction.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError is malformed or out-of-range input: a caller bug, always
// safe to report to the end actor.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// RuleViolation is well-formed input that the current aggregate state
// forbids. The reason is shown to the actor verbatim.
type RuleViolation struct {
	Code   string
	Reason string
}

func (e *RuleViolation) Error() string {
	return fmt.Sprintf("rule violation (%s): %s", e.Code, e.Reason)
}

// NotFoundError means the id does not exist, which may also indicate a
// stale client cache.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConflictError means the write would violate a uniqueness or referential
// invariant.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

// TimeoutError is transient. Reads are safe to retry; creates are not
// retried blindly because the uniqueness invariants catch duplicates.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %s timed out", e.Op)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsRuleViolation(err error) bool {
	var e *RuleViolation
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsTimeout(err error) bool {
	var e *TimeoutError
	return errors.As(err, &e)
}
