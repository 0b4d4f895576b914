package respond

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/fshub-online/aiph-lambda/internal/apperr"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		body      string
		challenge string
	}{
		{"not found", apperr.NotFound("Member not found"), http.StatusNotFound, `{"detail":"Member not found"}`, ""},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`, "Bearer"},
		{"internal hides detail", errors.New("pq: connection reset"), http.StatusInternalServerError, `{"detail":"internal server error"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			AppError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
			assert.Equal(t, tt.challenge, rec.Header().Get("WWW-Authenticate"))
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
