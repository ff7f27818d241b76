package adaptor

import (
	"encoding/json"
	"fmt"
	"net/http"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	req.IdempotencyKey = r.Header.Get(IdempotencyKeyHeader)

	booking, err := h.service.CreateBooking(r.Context(), userID.String(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetBooking handles GET /api/bookings/{id} (owner or admin)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.authorizedBooking(w, r, "get booking")
	if !ok {
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID.String(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (owner or admin)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.authorizedBooking(w, r, "cancel booking")
	if !ok {
		return
	}

	if err := h.service.CancelBooking(r.Context(), booking.ID); err != nil {
		writeServiceError(w, h.log, err, "cancel booking")
		return
	}

	updated, err := h.service.GetBooking(r.Context(), booking.ID)
	if err != nil {
		writeServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", updated)
}

// authorizedBooking loads the booking in the URL and checks the caller owns it
// or is an admin. It writes the error response itself.
func (h *BookingHandler) authorizedBooking(w http.ResponseWriter, r *http.Request, operation string) (*response.BookingResponse, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return nil, false
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return nil, false
	}

	booking, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, operation)
		return nil, false
	}

	role, _ := utils.GetRoleFromContext(r.Context())
	if booking.UserID != userID.String() && role != string(entity.RoleAdmin) {
		writeServiceError(w, h.log, fmt.Errorf("booking %s: %w", bookingID, usecase.ErrForbidden), operation)
		return nil, false
	}

	return booking, true
}
