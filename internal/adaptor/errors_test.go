package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/usecase"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriteServiceError(t *testing.T) {
	night := time.Date(2030, 4, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation fields", &usecase.ValidationError{Fields: map[string]string{"RoomCount": "Minimum is 1"}}, http.StatusBadRequest},
		{"validation sentinel", fmt.Errorf("%w: bad status", usecase.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("booking x: %w", usecase.ErrNotFound), http.StatusNotFound},
		{"room not found", fmt.Errorf("room x: %w: %w", usecase.ErrNotFound, usecase.ErrIncompleteInventory), http.StatusNotFound},
		{"forbidden", usecase.ErrForbidden, http.StatusForbidden},
		{"capacity", &usecase.CapacityError{Date: night, Reason: entity.ReasonInsufficientCapacity}, http.StatusConflict},
		{"invalid state", fmt.Errorf("%w: cancel", usecase.ErrInvalidState), http.StatusConflict},
		{"incomplete", usecase.ErrIncompleteInventory, http.StatusConflict},
		{"lock timeout", fmt.Errorf("reserve: %w", repository.ErrLockTimeout), http.StatusServiceUnavailable},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, zap.NewNop(), tt.err, "test")
			require.Equal(t, tt.code, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, false, body["status"])
		})
	}
}

func TestWriteServiceError_CapacityBody(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("reserve: %w", &usecase.CapacityError{
		Date:   time.Date(2030, 4, 2, 0, 0, 0, 0, time.UTC),
		Reason: entity.ReasonClosed,
	})
	writeServiceError(rec, zap.NewNop(), err, "create booking")

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, map[string]string{"date": "2030-04-02", "reason": "closed"}, body.Errors)
}
