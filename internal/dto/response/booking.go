package response

import (
	"time"

	"hotel-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID           string               `json:"id"`
	RoomID       string               `json:"room_id"`
	HotelID      string               `json:"hotel_id"`
	UserID       string               `json:"user_id"`
	RoomCount    int                  `json:"room_count"`
	CheckInDate  string               `json:"check_in_date"`
	CheckOutDate string               `json:"check_out_date"`
	Nights       int                  `json:"nights"`
	TotalPrice   decimal.Decimal      `json:"total_price"`
	Status       entity.BookingStatus `json:"status"`
	GuestIDs     []string             `json:"guest_ids,omitempty"`
	Payment      *PaymentResponse     `json:"payment,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type PaymentResponse struct {
	ID            string               `json:"id"`
	TransactionID string               `json:"transaction_id"`
	Amount        decimal.Decimal      `json:"amount"`
	Status        entity.PaymentStatus `json:"status"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func BookingToResponse(booking *entity.Booking, payment *entity.Payment) *BookingResponse {
	resp := &BookingResponse{
		ID:           booking.ID.String(),
		RoomID:       booking.RoomID.String(),
		HotelID:      booking.HotelID.String(),
		UserID:       booking.UserID.String(),
		RoomCount:    booking.RoomCount,
		CheckInDate:  booking.CheckInDate.Format(time.DateOnly),
		CheckOutDate: booking.CheckOutDate.Format(time.DateOnly),
		Nights:       booking.Nights(),
		TotalPrice:   booking.TotalPrice,
		Status:       booking.Status,
		CreatedAt:    booking.CreatedAt,
		UpdatedAt:    booking.UpdatedAt,
	}

	for _, id := range booking.GuestIDs {
		resp.GuestIDs = append(resp.GuestIDs, id.String())
	}

	if payment != nil {
		resp.Payment = &PaymentResponse{
			ID:            payment.ID.String(),
			TransactionID: payment.TransactionID,
			Amount:        payment.Amount,
			Status:        payment.Status,
			UpdatedAt:     payment.UpdatedAt,
		}
	}

	return resp
}
