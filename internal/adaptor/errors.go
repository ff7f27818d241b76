package adaptor

import (
	"errors"
	"net/http"
	"time"

	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

// writeServiceError maps usecase and storage errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr *usecase.ValidationError
		capacityErr   *usecase.CapacityError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, "Access denied")

	case errors.As(err, &capacityErr):
		utils.ResponseConflict(w, "Insufficient capacity", map[string]string{
			"date":   capacityErr.Date.Format(time.DateOnly),
			"reason": string(capacityErr.Reason),
		})

	case errors.Is(err, usecase.ErrInvalidState), errors.Is(err, usecase.ErrIncompleteInventory):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case repository.IsRetryable(err):
		log.Warn(operation+" failed - storage busy", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Please retry")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
