package adaptor

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

const WebhookSecretHeader = "X-Webhook-Secret"

type PaymentHandler struct {
	service usecase.BookingService
	secret  string
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.BookingService, secret string, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		secret:  secret,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// Webhook handles POST /api/payments/webhook (gateway callback)
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(r.Header.Get(WebhookSecretHeader)), []byte(h.secret)) != 1 {
		h.log.Warn("Rejected payment webhook", zap.String("remote_addr", r.RemoteAddr))
		utils.ResponseUnauthorized(w, "Invalid webhook secret")
		return
	}

	var req request.PaymentWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	err := h.service.OnPaymentStatusChanged(r.Context(), req.BookingID, entity.PaymentStatus(req.Status), req.TransactionID)
	if err != nil {
		writeServiceError(w, h.log, err, "apply payment event")
		return
	}

	utils.ResponseSuccess(w, "accepted", nil)
}
