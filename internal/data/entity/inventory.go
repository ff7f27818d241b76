package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnavailableReason explains why a night cannot take more units.
type UnavailableReason string

const (
	ReasonClosed               UnavailableReason = "closed"
	ReasonInsufficientCapacity UnavailableReason = "insufficient_capacity"
)

var (
	ErrInventoryOverbooked = errors.New("booked count would exceed total count")
	ErrInventoryUnderflow  = errors.New("booked count would drop below zero")
)

// Inventory is the capacity record of one room type on one night.
// Unique per (room_id, hotel_id, date); rows are never deleted.
type Inventory struct {
	Base
	RoomID      uuid.UUID       `db:"room_id"`
	HotelID     uuid.UUID       `db:"hotel_id"`
	Date        time.Time       `db:"date"`
	BookedCount int             `db:"booked_count"`
	TotalCount  int             `db:"total_count"`
	SurgeFactor decimal.Decimal `db:"surge_factor"`
	Price       decimal.Decimal `db:"price"`
	City        string          `db:"city"`
	Closed      bool            `db:"closed"`
}

// NewInventory materializes a fresh night for a room at catalog defaults.
func NewInventory(room *Room, hotel *Hotel, date time.Time, now time.Time) *Inventory {
	surge := decimal.NewFromInt(1)
	return &Inventory{
		Base: Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RoomID:      room.ID,
		HotelID:     room.HotelID,
		Date:        date,
		BookedCount: 0,
		TotalCount:  room.TotalCount,
		SurgeFactor: surge,
		Price:       NightlyPrice(room.BasePrice, surge),
		City:        hotel.City,
		Closed:      false,
	}
}

// NightlyPrice is base price times surge, rounded to cents.
func NightlyPrice(basePrice, surgeFactor decimal.Decimal) decimal.Decimal {
	return basePrice.Mul(surgeFactor).Round(2)
}

func (i *Inventory) Free() int {
	if i.Closed {
		return 0
	}
	return i.TotalCount - i.BookedCount
}

// Check reports whether units can be taken from this night.
func (i *Inventory) Check(units int) (bool, UnavailableReason) {
	if i.Closed {
		return false, ReasonClosed
	}
	if i.TotalCount-i.BookedCount < units {
		return false, ReasonInsufficientCapacity
	}
	return true, ""
}

func (i *Inventory) Reserve(units int, now time.Time) error {
	if ok, reason := i.Check(units); !ok {
		if reason == ReasonClosed {
			return fmt.Errorf("night %s is closed", i.Date.Format(time.DateOnly))
		}
		return fmt.Errorf("night %s: %w", i.Date.Format(time.DateOnly), ErrInventoryOverbooked)
	}
	i.BookedCount += units
	i.UpdatedAt = now
	return nil
}

func (i *Inventory) Release(units int, now time.Time) error {
	if i.BookedCount < units {
		return fmt.Errorf("night %s: %w", i.Date.Format(time.DateOnly), ErrInventoryUnderflow)
	}
	i.BookedCount -= units
	i.UpdatedAt = now
	return nil
}

// Reprice recomputes the stored nightly price after a surge change.
func (i *Inventory) Reprice(basePrice, surgeFactor decimal.Decimal, now time.Time) {
	i.SurgeFactor = surgeFactor
	i.Price = NightlyPrice(basePrice, surgeFactor)
	i.UpdatedAt = now
}
