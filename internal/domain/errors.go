package domain

import "errors"

var (
	// ErrUnauthenticated: the operation needs an identity and there is none.
	ErrUnauthenticated = errors.New("login required")
	// ErrForbidden: the identity's role does not allow the operation.
	ErrForbidden = errors.New("permission denied")
	ErrInvalid   = errors.New("invalid input")
	ErrNotFound  = errors.New("not found")
)
