package customerrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

var (
	ErrBadRequest          = &Error{Code: http.StatusBadRequest, Message: "Invalid request body"}
	ErrMissingFields       = &Error{Code: http.StatusBadRequest, Message: "All fields are required"}
	ErrPasswordTooShort    = &Error{Code: http.StatusBadRequest, Message: "Password must be at least 8 characters long"}
	ErrUserAlreadyExists   = &Error{Code: http.StatusBadRequest, Message: "Email or username already exists"}
	ErrMissingCredentials  = &Error{Code: http.StatusBadRequest, Message: "Email and password are required"}
	ErrMissingQuestion     = &Error{Code: http.StatusBadRequest, Message: "Title and description are required"}
	ErrTitleTooLong        = &Error{Code: http.StatusBadRequest, Message: "Title must be 200 characters or less"}
	ErrMissingAnswer       = &Error{Code: http.StatusBadRequest, Message: "Answer is required"}
	ErrInvalidCredentials  = &Error{Code: http.StatusUnauthorized, Message: "Invalid credentials"}
	ErrAccessTokenRequired = &Error{Code: http.StatusUnauthorized, Message: "Access token required"}
	ErrInvalidToken        = &Error{Code: http.StatusForbidden, Message: "Invalid token"}
	ErrQuestionNotFound    = &Error{Code: http.StatusNotFound, Message: "Question not found"}
	ErrNotFound            = &Error{Code: http.StatusNotFound, Message: "Not found"}
	ErrTooManyRequests     = &Error{Code: http.StatusTooManyRequests, Message: "Too many requests"}
	ErrInternalServer      = &Error{Code: http.StatusInternalServerError, Message: "Server error"}
	ErrDbUnreachable       = &Error{Code: http.StatusServiceUnavailable, Message: "Database unreachable"}
)

func GetStatus(err error) int {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	switch {
	case errors.Is(err, jwt.ErrSignatureInvalid), errors.Is(err, jwt.ErrTokenExpired):
		return http.StatusForbidden

	default:
		return http.StatusInternalServerError
	}
}

// GetMessage returns the client-facing message. Anything that is not one of
// the sentinels above collapses to the generic server error.
func GetMessage(err error) string {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	switch {
	case errors.Is(err, jwt.ErrSignatureInvalid), errors.Is(err, jwt.ErrTokenExpired):
		return ErrInvalidToken.Message

	default:
		return ErrInternalServer.Message
	}
}

// IsInternal reports whether err is something the caller must not see.
func IsInternal(err error) bool {
	return GetStatus(err) >= http.StatusInternalServerError
}
