package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusCreated        BookingStatus = "created"
	BookingStatusPaymentPending BookingStatus = "payment_pending"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusCompleted      BookingStatus = "completed"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusFailed         BookingStatus = "failed"
)

type Booking struct {
	Base
	RoomID         uuid.UUID       `db:"room_id"`
	HotelID        uuid.UUID       `db:"hotel_id"`
	UserID         uuid.UUID       `db:"user_id"`
	PaymentID      *uuid.UUID      `db:"payment_id"`
	RoomCount      int             `db:"room_count"`
	CheckInDate    time.Time       `db:"check_in_date"`
	CheckOutDate   time.Time       `db:"check_out_date"`
	TotalPrice     decimal.Decimal `db:"total_price"`
	Status         BookingStatus   `db:"status"`
	IdempotencyKey *string         `db:"idempotency_key"`
	GuestIDs       []uuid.UUID
}

// CanTransition is the booking state table. Every status is listed so that a
// new status cannot silently inherit transitions.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingStatusCreated:
		return to == BookingStatusPaymentPending || to == BookingStatusFailed
	case BookingStatusPaymentPending:
		return to == BookingStatusConfirmed || to == BookingStatusFailed
	case BookingStatusConfirmed:
		return to == BookingStatusCompleted || to == BookingStatusCancelled
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusFailed:
		return false
	default:
		return false
	}
}

func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusFailed:
		return true
	default:
		return false
	}
}

// HoldsInventory reports whether the booking's nights are still counted as
// releasable capacity.
func (s BookingStatus) HoldsInventory() bool {
	return s == BookingStatusPaymentPending || s == BookingStatusConfirmed
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusCreated, BookingStatusPaymentPending, BookingStatusConfirmed,
		BookingStatusCompleted, BookingStatusCancelled, BookingStatusFailed:
		return true
	default:
		return false
	}
}

// Nights returns the number of nights in [CheckInDate, CheckOutDate).
func (b *Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}
