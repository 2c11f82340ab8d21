package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig signals invalid engine configuration (weights, thresholds, timeouts).
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrBackendUnavailable signals a failed call to an external search backend.
	ErrBackendUnavailable = errors.New("search backend unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrParse signals a malformed boolean query expression.
	ErrParse = errors.New("malformed query expression")
)

// ParseError reports a malformed boolean query expression with the offending
// position. It is the only failure class that reaches the caller of a search;
// backend failures degrade to empty per-strategy contributions instead.
type ParseError struct {
	Expression string
	Pos        int
	Msg        string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d: %s", ErrParse.Error(), e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// NewParseError creates a parse error for an expression.
func NewParseError(expression string, pos int, msg string) error {
	return &ParseError{Expression: expression, Pos: pos, Msg: msg}
}
