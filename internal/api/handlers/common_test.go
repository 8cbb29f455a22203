package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"onboard-backend/internal/repository"
	"onboard-backend/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"repository miss", fmt.Errorf("training %w", repository.ErrNotFound), http.StatusNotFound},
		{"assignment miss", repository.ErrAssignmentNotFound, http.StatusNotFound},
		{"permission denial", services.ErrNotAssignmentOwner, http.StatusForbidden},
		{"malformed id", fmt.Errorf("%w task ID", repository.ErrInvalidID), http.StatusBadRequest},
		{"domain conflict", fmt.Errorf("already decided: %w", services.ErrInvalidInput), http.StatusBadRequest},
		{"unclassified failure", errors.New("write conflict"), http.StatusInternalServerError},
		{"message text alone never classifies", errors.New("replica set not found"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}
