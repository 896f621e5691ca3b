package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewValidation([]string{"name is required"}), http.StatusUnprocessableEntity},
		{NewConflict("Post already liked", ""), http.StatusUnprocessableEntity},
		{NewUnauthenticated("Token is not valid", nil), http.StatusUnauthorized},
		{NewUnauthorized("bad password", nil), http.StatusUnauthorized},
		{NewPermissionDenied("User not authorized", ""), http.StatusUnauthorized},
		{NewNotFound("Post", "1"), http.StatusNotFound},
		{NewInternal("db down", errors.New("conn refused")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewNotFound("Post", "1")), http.StatusNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTTPStatus(tt.err), tt.err.Error())
	}
}

func TestPublicMessages(t *testing.T) {
	assert.Equal(t, []string{"a is required", "b is required"}, PublicMessages(NewValidation([]string{"a is required", "b is required"})))
	assert.Equal(t, []string{"Post not found"}, PublicMessages(NewNotFound("Post", "1")))
	assert.Equal(t, []string{"Invalid credentials"}, PublicMessages(NewUnauthorized("no such user", nil)))

	internal := NewInternal("insert failed", errors.New("pq: password=hunter2"))
	assert.Equal(t, []string{PublicInternalMessage}, PublicMessages(internal))
	assert.Equal(t, []string{PublicInternalMessage}, PublicMessages(errors.New("raw")))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewInternal("save", cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, cause, err.Cause())
	assert.Contains(t, err.Error(), "boom")
}
