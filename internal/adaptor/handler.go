package adaptor

import (
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking   *BookingHandler
	Inventory *InventoryHandler
	Payment   *PaymentHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Booking:   NewBookingHandler(service.Booking, log),
		Inventory: NewInventoryHandler(service.Inventory, log),
		Payment:   NewPaymentHandler(service.Booking, config.Webhook.Secret, log),
	}
}
