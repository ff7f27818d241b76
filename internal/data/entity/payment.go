package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	Base
	BookingID     uuid.UUID       `db:"booking_id"`
	TransactionID string          `db:"transaction_id"`
	Status        PaymentStatus   `db:"status"`
	Amount        decimal.Decimal `db:"amount"`
}
