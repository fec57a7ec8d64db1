package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("identifier already exists")
	ErrBadCreds  = errors.New("invalid email or password")
	ErrExhausted = errors.New("sku keyspace exhausted")
)

// ValidationError names the field that failed so clients can surface it.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s %s", e.Field, e.Msg) }

func missing(field string) error {
	return &ValidationError{Field: field, Msg: "is required"}
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }
