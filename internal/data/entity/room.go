package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Room struct {
	Base
	HotelID    uuid.UUID       `db:"hotel_id"`
	Type       string          `db:"type"`
	BasePrice  decimal.Decimal `db:"base_price"`
	Photos     []string        `db:"photos"`
	Amenities  []string        `db:"amenities"`
	Capacity   int             `db:"capacity"`    // guests per unit
	TotalCount int             `db:"total_count"` // units of this type
}
