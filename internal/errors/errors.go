package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds surfaced by the session and task layers
var (
	// ErrNoToken means an authenticated call was attempted without a credential
	ErrNoToken = errors.New("no authentication token")
	// ErrAuthentication means the API rejected the credentials or the token
	ErrAuthentication = errors.New("authentication failed")
	// ErrRegistration means sign-up was rejected (validation or conflict)
	ErrRegistration = errors.New("registration failed")
	// ErrNetwork is a transport-level failure
	ErrNetwork = errors.New("network error")
	// ErrServer is any other non-2xx response
	ErrServer = errors.New("server error")

	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// APIError is a failed call to the remote API. Kind is one of the sentinels
// above and is what errors.Is matches against.
type APIError struct {
	Kind       error
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d %s)", e.Kind, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Kind.Error()
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// Is lets a 404 APIError also match ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Validation returns an ErrValidation error with the given message.
func Validation(format string, args ...interface{}) error {
	return &APIError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Message returns the user-presentable message carried by err.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}

// IsSessionInvalid reports whether err should end the local session.
func IsSessionInvalid(err error) bool {
	return errors.Is(err, ErrAuthentication) || errors.Is(err, ErrNoToken)
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

// Join combines errors, ignoring nils
func Join(errs ...error) error {
	return errors.Join(errs...)
}
