package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorConstructorsCarryDistinctCodesAndStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", NewValidationError("bad input", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("no"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", NewForbidden("no"), "FORBIDDEN", http.StatusForbidden},
		{"unauthorized action", NewUnauthorizedAction("not yours"), "UNAUTHORIZED_ACTION", http.StatusForbidden},
		{"not found", NewNotFound("task", nil), "NOT_FOUND", http.StatusNotFound},
		{"conflict", NewConflict("dup", nil), "CONFLICT", http.StatusConflict},
		{"already completed", NewAlreadyCompleted("done"), "ALREADY_COMPLETED", http.StatusConflict},
		{"internal", NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.status, de.HTTPStatus)
		})
	}
}

func TestForbiddenAndUnauthorizedActionAreDistinct(t *testing.T) {
	forbidden := ToDomainError(NewForbidden("role"))
	ownership := ToDomainError(NewUnauthorizedAction("owner"))
	assert.NotEqual(t, forbidden.Code, ownership.Code)
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	de := ToDomainError(errors.New("surprise"))
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	de := ToDomainError(fmt.Errorf("lookup: %w", sql.ErrNoRows))
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestToDomainErrorUnwrapsNested(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewNotFound("task", nil))
	de := ToDomainError(wrapped)
	assert.Equal(t, "NOT_FOUND", de.Code)
}
