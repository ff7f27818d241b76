package wire

import (
	"hotel-booking/internal/adaptor"
	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, repo *repository.Repository, log *zap.Logger) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/bookings - Reserve rooms and open a pending payment
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings/{id} - Booking detail (owner or admin)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)

		// PUT /api/bookings/{id}/cancel - Cancel and release inventory (owner or admin)
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// GET /api/user/bookings - Booking history of the caller
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})
}
