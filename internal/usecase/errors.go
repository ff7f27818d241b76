package usecase

import (
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/utils"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrIncompleteInventory  = errors.New("incomplete inventory")
	ErrInvalidState         = errors.New("invalid booking state")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
)

// ValidationError lists the rejected fields. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func validate(data interface{}) error {
	if errs := utils.ValidateStruct(data); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// CapacityError names the first night that could not take the requested
// units. It matches ErrInsufficientCapacity.
type CapacityError struct {
	Date   time.Time
	Reason entity.UnavailableReason
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("insufficient capacity on %s: %s", e.Date.Format(time.DateOnly), e.Reason)
}

func (e *CapacityError) Unwrap() error {
	return ErrInsufficientCapacity
}

func invalidState(booking *entity.Booking, action string) error {
	return fmt.Errorf("%w: cannot %s booking %s in status %s", ErrInvalidState, action, booking.ID.String(), booking.Status)
}
