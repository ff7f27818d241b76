package response

import (
	"time"

	"hotel-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

// AvailabilityResponse is advisory: a later reservation may still fail.
type AvailabilityResponse struct {
	RoomID     string                   `json:"room_id"`
	CheckIn    string                   `json:"check_in"`
	CheckOut   string                   `json:"check_out"`
	Units      int                      `json:"units"`
	Available  bool                     `json:"available"`
	TotalPrice *decimal.Decimal         `json:"total_price,omitempty"`
	Nights     []NightPrice             `json:"nights,omitempty"`
	BlockedOn  string                   `json:"blocked_on,omitempty"`
	Reason     entity.UnavailableReason `json:"reason,omitempty"`
}

type NightPrice struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
	Free  int             `json:"free"`
}

type InventoryResponse struct {
	ID          string          `json:"id"`
	RoomID      string          `json:"room_id"`
	HotelID     string          `json:"hotel_id"`
	Date        string          `json:"date"`
	City        string          `json:"city"`
	BookedCount int             `json:"booked_count"`
	TotalCount  int             `json:"total_count"`
	SurgeFactor decimal.Decimal `json:"surge_factor"`
	Price       decimal.Decimal `json:"price"`
	Closed      bool            `json:"closed"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func InventoryToResponse(inv *entity.Inventory) InventoryResponse {
	return InventoryResponse{
		ID:          inv.ID.String(),
		RoomID:      inv.RoomID.String(),
		HotelID:     inv.HotelID.String(),
		Date:        inv.Date.Format(time.DateOnly),
		City:        inv.City,
		BookedCount: inv.BookedCount,
		TotalCount:  inv.TotalCount,
		SurgeFactor: inv.SurgeFactor,
		Price:       inv.Price,
		Closed:      inv.Closed,
		UpdatedAt:   inv.UpdatedAt,
	}
}

func InventoriesToResponse(nights []*entity.Inventory) []InventoryResponse {
	out := make([]InventoryResponse, 0, len(nights))
	for _, inv := range nights {
		out = append(out, InventoryToResponse(inv))
	}
	return out
}
