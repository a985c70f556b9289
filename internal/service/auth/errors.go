package auth

import (
	"errors"
	"fmt"
)

// Authentication errors. Every token failure wraps ErrInvalidToken so callers
// can treat them uniformly while logs keep the specific cause.
var (
	// ErrInvalidToken indicates a malformed token or a bad signature.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token is past its expiry.
	ErrExpiredToken = fmt.Errorf("%w: expired", ErrInvalidToken)

	// ErrWrongTokenType indicates an access token used as a refresh token or vice versa.
	ErrWrongTokenType = fmt.Errorf("%w: wrong token type", ErrInvalidToken)

	// ErrMissingSubject indicates the token carries no subject claim.
	ErrMissingSubject = fmt.Errorf("%w: missing subject", ErrInvalidToken)

	// ErrInvalidCredentials is returned by Login for both an unknown email and a
	// wrong password.
	ErrInvalidCredentials = errors.New("incorrect email or password")
)
