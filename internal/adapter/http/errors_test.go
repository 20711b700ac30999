package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/diillson/training-center-go/internal/app/account"
	"github.com/diillson/training-center-go/internal/app/auth"
	"github.com/diillson/training-center-go/internal/domain/repository"
	apperrors "github.com/diillson/training-center-go/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestToAPIError(t *testing.T) {
	validation := &account.ValidationError{Fields: map[string][]string{"email": {"The email field is required."}}}

	tests := []struct {
		name     string
		err      error
		status   int
		wantCode int
		wantMsg  string
	}{
		{"validation as 400", validation, http.StatusBadRequest, http.StatusBadRequest, "The given data was invalid."},
		{"validation as 422", fmt.Errorf("wrap: %w", validation), http.StatusUnprocessableEntity, http.StatusUnprocessableEntity, "The given data was invalid."},
		{"trainer not found", fmt.Errorf("delete: %w", repository.ErrTrainerNotFound), http.StatusBadRequest, http.StatusNotFound, "Trainer not found"},
		{"user not found", repository.ErrUserNotFound, http.StatusBadRequest, http.StatusNotFound, "Trainer not found"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusBadRequest, http.StatusUnauthorized, "Invalid credentials."},
		{"api error passes through", apperrors.BadRequest("bad id", nil), http.StatusUnprocessableEntity, http.StatusBadRequest, "bad id"},
		{"anything else", errors.New("disk I/O error"), http.StatusBadRequest, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toAPIError(tt.err, tt.status)
			assert.Equal(t, tt.wantCode, got.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, got.Message)
			}
		})
	}

	for _, status := range []int{http.StatusBadRequest, http.StatusUnprocessableEntity} {
		got := toAPIError(validation, status)
		assert.Equal(t, status, got.Code)
		assert.Equal(t, validation.Fields, got.Details)
		assert.ErrorIs(t, got, validation, "o erro original continua na cadeia")
	}
}
