package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code classifies a domain failure. Every kernel error carries exactly one code.
type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeDuplicate         Code = "DUPLICATE"
	CodeNotFound          Code = "NOT_FOUND"
	CodeForbidden         Code = "FORBIDDEN"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeInvalidState      Code = "INVALID_STATE"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
)

// Sentinel errors for errors.Is() checking. Each *Error unwraps to the
// sentinel matching its Code.
var (
	ErrValidation        = errors.New("validation error")
	ErrDuplicate         = errors.New("duplicate")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidTransition = errors.New("invalid transition")
)

var sentinels = map[Code]error{
	CodeValidation:        ErrValidation,
	CodeDuplicate:         ErrDuplicate,
	CodeNotFound:          ErrNotFound,
	CodeForbidden:         ErrForbidden,
	CodeUnauthorized:      ErrUnauthorized,
	CodeInvalidState:      ErrInvalidState,
	CodeInvalidTransition: ErrInvalidTransition,
}

// Error is the typed domain error returned by aggregate operations.
// Use errors.Is(err, domain.ErrForbidden) for simple checks, or
// errors.As(err, &derr) to read Code and Details.
type Error struct {
	Code    Code
	Message string
	Details map[string]string
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Details[k])
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(parts, ", "))
}

func (e *Error) Unwrap() error {
	return sentinels[e.Code]
}

// NewError builds an *Error with the given code and formatted message.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetail returns a copy of e carrying one more detail entry.
func (e *Error) WithDetail(key, value string) *Error {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Code: e.Code, Message: e.Message, Details: details}
}

func Forbidden(format string, args ...any) error {
	return NewError(CodeForbidden, format, args...)
}

func NotFound(format string, args ...any) error {
	return NewError(CodeNotFound, format, args...)
}

func InvalidState(format string, args ...any) error {
	return NewError(CodeInvalidState, format, args...)
}

func Duplicate(format string, args ...any) error {
	return NewError(CodeDuplicate, format, args...)
}

func Unauthorized(format string, args ...any) error {
	return NewError(CodeUnauthorized, format, args...)
}

// InvalidTransition reports a state/event pair rejected by a state machine.
func InvalidTransition(currentState, eventType string) error {
	return NewError(CodeInvalidTransition, "event %s is not allowed in state %s", eventType, currentState).
		WithDetail("currentState", currentState).
		WithDetail("eventType", eventType)
}

// CodeOf returns the domain code carried by err, or "" when err is not a
// domain failure.
func CodeOf(err error) Code {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Code
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return CodeValidation
	}
	for code, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, field := range keys {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return fmt.Sprintf("%s: %s", CodeValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FieldError is shorthand for a ValidationError with a single field.
func FieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
