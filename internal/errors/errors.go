package errors

import (
	"errors"
	"fmt"
)

// Common error types for the web flow token bridge
var (
	// State parameter errors
	ErrValidation = errors.New("invalid state value")

	// Token endpoint errors
	ErrTransport = errors.New("transport failure")
	ErrParse     = errors.New("cannot parse JSON response")

	// Surrogate token errors
	ErrNotFound = errors.New("unable to find token")

	// Push-back errors
	ErrPushBack = errors.New("token push-back rejected")
)

// ProviderError is returned when the identity provider answers a token request
// with an error / error_description body instead of a grant.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Code != "" {
		return e.Code
	}
	return "identity provider returned an error"
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Reduce collapses an error into a string suitable for display in the
// browser-facing flow pages. Provider errors reduce to their description.
func Reduce(err error) string {
	if err == nil {
		return "(null)"
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	return err.Error()
}
