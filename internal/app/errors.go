package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates that a referenced job, application or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates that the caller lacks a required permission.
	ErrForbidden = errors.New("access denied")
	// ErrUnauthenticated indicates that the caller has no valid session.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrUpstream wraps store and mail transport failures. Callers may retry.
	ErrUpstream = errors.New("temporarily unavailable, please retry")
	// ErrEmailTaken indicates that another user already uses the email address.
	ErrEmailTaken = errors.New("email already in use")
	// ErrEmailNotLogged indicates that the mail transport accepted a message
	// but its log entry could not be stored. Resending would duplicate it.
	ErrEmailNotLogged = errors.New("email sent but not recorded")
)

// ValidationError reports invalid or missing input, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}
