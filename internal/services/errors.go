package services

import (
	"errors"

	"drogaria/internal/repositories"
)

// RuleError is a business-rule violation with a user-facing message. Handlers
// show it on the form or redirect it back as a query message; it never maps
// to a 500. Infrastructure failures use ordinary wrapped errors instead.
type RuleError string

func (e RuleError) Error() string { return string(e) }

// IsRule reports whether err is (or wraps) a RuleError.
func IsRule(err error) bool {
	var re RuleError
	return errors.As(err, &re)
}

func isNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}
