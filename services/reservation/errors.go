package reservation

import "fmt"

// AuthError means the login exchange did not yield a usable bearer token.
type AuthError struct {
	Code    string
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newAuthError(status int, msg string) error {
	return &AuthError{Code: "authError", Status: status, Message: msg}
}

// BookingError means the submission was rejected, including the case where
// the single post-refresh retry also failed.
type BookingError struct {
	Code    string
	Status  int
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newBookingError(status int, msg string) error {
	return &BookingError{Code: "bookingError", Status: status, Message: msg}
}
