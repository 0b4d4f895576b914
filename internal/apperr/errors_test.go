package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("member not found"), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"bad request", BadRequest("bad"), http.StatusBadRequest},
		{"conflict", Conflict("taken"), http.StatusConflict},
		{"wrapped", fmt.Errorf("load: %w", NotFound("x")), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestPublicMessage_HidesInternalDetail(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: connection refused")))
	assert.Equal(t, "Member not found", PublicMessage(NotFound("Member not found")))
}

func TestInvalidNamesFirstField(t *testing.T) {
	type payload struct {
		Email    string `json:"email" validate:"required,email"`
		Priority string `json:"priority" validate:"oneof=low high"`
	}
	v := NewValidator()

	err := Invalid(v.Struct(payload{Email: "nope", Priority: "low"}))
	assert.Equal(t, KindBadRequest, err.Kind)
	assert.Equal(t, "email: failed email", err.Message)

	err = Invalid(v.Struct(payload{Email: "a@b.co", Priority: "mid"}))
	assert.Equal(t, "priority: failed oneof=low high", err.Message)

	assert.Equal(t, "invalid request body", Invalid(errors.New("eof")).Message)
}
