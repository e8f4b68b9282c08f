package auth

import "errors"

// ErrTokenEmpty is returned when a verifier is created for an empty token.
var ErrTokenEmpty = errors.New("auth token cannot be empty")
