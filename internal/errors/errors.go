// Package errors holds the sentinel error taxonomy shared by the filter
// and its collaborators, plus the thin helpers the teacher repo's handlers
// use to wrap and inspect them.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Malformed-check errors.
	ErrNoHTTPAttributes = errors.New("check carries no http attributes")

	// Protocol-violation errors (user agent sent a bad/missing/tampered
	// cookie or query parameter).
	ErrMissingStateCookie  = errors.New("missing state cookie")
	ErrInvalidStateCookie  = errors.New("state cookie does not decrypt")
	ErrMalformedStateValue = errors.New("decrypted state cookie is malformed")
	ErrMissingCode         = errors.New("missing code query parameter")
	ErrMissingState        = errors.New("missing state query parameter")
	ErrStateMismatch       = errors.New("state query parameter does not match state cookie")
	ErrTokenResponseBad    = errors.New("token endpoint returned a non-2xx status or an unparseable body")
	ErrMissingAccessToken  = errors.New("access token header configured but no access token was returned")

	// Transport-failure errors.
	ErrTokenEndpointUnreachable = errors.New("token endpoint request failed")

	// General.
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
