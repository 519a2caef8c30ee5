package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput is returned when a required form field is empty.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateUsername is returned when registering an already-taken username.
	ErrDuplicateUsername = errors.New("username already registered")
	// ErrUnknownUser is returned when no account exists for a username.
	ErrUnknownUser = errors.New("unknown user")
	// ErrBadPassword is returned when a password does not match the stored hash.
	ErrBadPassword = errors.New("incorrect password")
	// ErrPostNotFound is returned when a post id does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrForbidden is returned when a user mutates a post they do not own.
	ErrForbidden = errors.New("forbidden")
)

// HTTPStatus maps a domain error to the status code its handler should
// answer with. Everything unrecognized is an internal error.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDuplicateUsername),
		errors.Is(err, ErrUnknownUser),
		errors.Is(err, ErrBadPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
