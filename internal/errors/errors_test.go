package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrDuplicateUsername, http.StatusBadRequest},
		{ErrUnknownUser, http.StatusBadRequest},
		{ErrBadPassword, http.StatusBadRequest},
		{ErrPostNotFound, http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: title is required", ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), "for %v", tt.err)
	}
}
