package request

type CreateBookingRequest struct {
	RoomID       string   `json:"room_id" validate:"required,uuid"`
	CheckInDate  string   `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOutDate string   `json:"check_out_date" validate:"required,datetime=2006-01-02"`
	RoomCount    int      `json:"room_count" validate:"required,min=1"`
	GuestIDs     []string `json:"guest_ids" validate:"omitempty,dive,uuid"`

	// Set from the Idempotency-Key header.
	IdempotencyKey string `json:"-" validate:"omitempty,max=128"`
}

type PaymentWebhookRequest struct {
	BookingID     string  `json:"booking_id" validate:"required,uuid"`
	Status        string  `json:"status" validate:"required"`
	TransactionID *string `json:"transaction_id,omitempty" validate:"omitempty,max=255"`
}
