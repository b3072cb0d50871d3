package model

import "errors"

var (
	// ErrUnauthorized means the credential is invalid or expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials means login was refused.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation means the mutation input is malformed.
	ErrValidation = errors.New("validation error")
	// ErrInsufficientFunds means a spend exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotFound means the entity does not exist (any more).
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail means a student with the email already exists.
	ErrDuplicateEmail = errors.New("email is already taken")
	// ErrNetwork is a transport failure; the request may be retried.
	ErrNetwork = errors.New("network failure")
	// ErrForbidden means the current role may not perform the operation.
	ErrForbidden = errors.New("operation not allowed for this role")
	// ErrNoSession means no user is signed in.
	ErrNoSession = errors.New("not signed in")
	// ErrServer is a server side failure without a more specific kind.
	ErrServer = errors.New("server error")
)

// Error is a typed failure carrying a human readable message.
// It unwraps to one of the sentinel errors above.
type Error struct {
	Kind    error
	Message string
}

// NewError creates an Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Retryable reports whether err is a transport failure.
func Retryable(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// UserMessage returns the text shown to the user for err.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	switch {
	case errors.Is(err, ErrNetwork):
		return "Connection problem, please try again"
	case errors.Is(err, ErrInsufficientFunds):
		return "Not enough coins"
	case errors.Is(err, ErrUnauthorized):
		return "Session expired, please log in again"
	case errors.Is(err, ErrServer):
		return "Something went wrong on the server"
	}
	return err.Error()
}
