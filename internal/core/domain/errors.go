package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingColumns  = errors.New("missing required columns")
	ErrWorkbookOpen    = errors.New("workbook cannot be opened")
	ErrSessionNotFound = errors.New("session not found")
	ErrTemporary       = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// MissingColumnsError lists the headers an upload lacked.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing columns: %v", e.Columns)
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}
