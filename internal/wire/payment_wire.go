package wire

import (
	"hotel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler) {
	// POST /api/payments/webhook - gateway callback, authenticated by shared secret
	r.Post("/api/payments/webhook", paymentHandler.Webhook)
}
