package payment

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthorized        = errors.New("payment: not authorized")
	ErrUnsupportedOperation = errors.New("payment: operation not supported")
	ErrInvalidCredential    = errors.New("payment: credential is required")
	ErrAuthorizerRequired   = errors.New("payment: authorizer is required")
	ErrNilOrder             = errors.New("payment: order is required")
)

// AuthorizationError is returned by Pay when the method requires an
// authorizer that has not granted authorization yet. Authorize, then retry.
type AuthorizationError struct {
	Method Method
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("payment: %s: not authorized", e.Method)
}

func (e *AuthorizationError) Unwrap() error { return ErrNotAuthorized }

// UnsupportedOperationError is returned when a caller asks a method for a
// capability it does not compose, such as an MFA challenge on credit.
type UnsupportedOperationError struct {
	Method Method
	Op     string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("payment: %s: %s not supported", e.Method, e.Op)
}

func (e *UnsupportedOperationError) Unwrap() error { return ErrUnsupportedOperation }

func IsNotAuthorized(err error) bool {
	return errors.Is(err, ErrNotAuthorized)
}

func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}
