package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/npezzotti/go-messenger/internal/messaging"
)

type ApiError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}

	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func lower(s string) string {
	return strings.ToLower(s)
}

func NewBadRequestError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Message:    lower(http.StatusText(http.StatusBadRequest)),
	}
}

// NewValidationError surfaces a domain validation message to the client with
// a 400 status.
func NewValidationError(err error) *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Message:    err.Error(),
	}
}

func NewNotFoundError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusNotFound,
		Message:    lower(http.StatusText(http.StatusNotFound)),
	}
}

func NewInternalServerError(err error) *ApiError {
	return &ApiError{
		StatusCode: http.StatusInternalServerError,
		Message:    lower(http.StatusText(http.StatusInternalServerError)),
		Err:        err,
	}
}

func NewUnauthorizedError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusUnauthorized,
		Message:    lower(http.StatusText(http.StatusUnauthorized)),
	}
}

func NewMethodNotAllowedError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusMethodNotAllowed,
		Message:    lower(http.StatusText(http.StatusMethodNotAllowed)),
	}
}

// domainError maps messaging errors onto API responses. Validation and
// domain failures surface their message with a 400, unknown references map
// to 404, bad credentials to a non-specific 401, and anything else is a 500
// carrying no internal detail.
func domainError(err error) *ApiError {
	switch {
	case errors.Is(err, messaging.ErrValidation),
		errors.Is(err, messaging.ErrDuplicateUser),
		errors.Is(err, messaging.ErrSelfConversation),
		errors.Is(err, messaging.ErrEmptyMessage),
		errors.Is(err, messaging.ErrRecipientNotFound):
		return NewValidationError(err)
	case errors.Is(err, messaging.ErrNotFound):
		return NewNotFoundError()
	case errors.Is(err, messaging.ErrInvalidCredentials):
		return NewUnauthorizedError()
	default:
		return NewInternalServerError(err)
	}
}
