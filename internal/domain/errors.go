package domain

import (
	"errors"
	"fmt"
)

// ErrCategoryNotFound is returned by a brand lookup that has no answer for a vendor.
var ErrCategoryNotFound = errors.New("category not found")

// ErrInvalidRate is returned when a rate table holds a zero or negative multiplier.
var ErrInvalidRate = errors.New("exchange rate must be > 0")

// MalformedRecordError reports a required field that is missing or unparseable.
type MalformedRecordError struct {
	Source string
	Row    int
	Field  string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("malformed record: field %q", e.Field)
	if e.Source != "" {
		msg += fmt.Sprintf(" in %s", e.Source)
	}
	msg += fmt.Sprintf(" row %d", e.Row)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// UnknownCurrencyError reports a currency code absent from the rate table.
// Source and Row are set when the code came from a transaction.
type UnknownCurrencyError struct {
	Code   string
	Source string
	Row    int
}

func (e *UnknownCurrencyError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("unknown currency %q (%s row %d)", e.Code, e.Source, e.Row)
	}
	return fmt.Sprintf("unknown currency %q", e.Code)
}
