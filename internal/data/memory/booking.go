package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"

	"github.com/google/uuid"
)

func cloneBooking(b *entity.Booking) *entity.Booking {
	cp := *b
	cp.GuestIDs = slices.Clone(b.GuestIDs)
	if b.PaymentID != nil {
		id := *b.PaymentID
		cp.PaymentID = &id
	}
	if b.IdempotencyKey != nil {
		key := *b.IdempotencyKey
		cp.IdempotencyKey = &key
	}
	return &cp
}

type bookingRepository struct {
	c *scope
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	return r.c.write(ctx, func(st *state) error {
		if _, ok := st.bookings[booking.ID]; ok {
			return fmt.Errorf("create booking %s: %w", booking.ID.String(), repository.ErrDuplicate)
		}
		if booking.IdempotencyKey != nil {
			if _, ok := st.bookingKeys[*booking.IdempotencyKey]; ok {
				return fmt.Errorf("create booking %s: %w", booking.ID.String(), repository.ErrDuplicate)
			}
		}

		stored := cloneBooking(booking)
		st.bookings[stored.ID] = stored
		if stored.IdempotencyKey != nil {
			st.bookingKeys[*stored.IdempotencyKey] = stored.ID
		}
		return nil
	})
}

func (r *bookingRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking *entity.Booking
	r.c.read(func(st *state) {
		if b, ok := st.bookings[id]; ok {
			booking = cloneBooking(b)
		}
	})
	return booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *bookingRepository) FindByIdempotencyKey(_ context.Context, key string) (*entity.Booking, error) {
	var booking *entity.Booking
	r.c.read(func(st *state) {
		if id, ok := st.bookingKeys[key]; ok {
			booking = cloneBooking(st.bookings[id])
		}
	})
	return booking, nil
}

func (r *bookingRepository) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	bookings := r.filter(func(b *entity.Booking) bool { return b.UserID == userID })
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })

	if offset >= len(bookings) {
		return nil, nil
	}
	bookings = bookings[offset:]
	if limit > 0 && limit < len(bookings) {
		bookings = bookings[:limit]
	}
	return bookings, nil
}

func (r *bookingRepository) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.filter(func(b *entity.Booking) bool { return b.UserID == userID }))), nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, at time.Time) error {
	return r.c.write(ctx, func(st *state) error {
		stored, ok := st.bookings[bookingID]
		if !ok {
			return fmt.Errorf("booking %s not found", bookingID.String())
		}

		stored.Status = status
		stored.UpdatedAt = at
		return nil
	})
}

func (r *bookingRepository) FindPendingCreatedBefore(_ context.Context, before time.Time, limit int) ([]*entity.Booking, error) {
	bookings := r.filter(func(b *entity.Booking) bool {
		return b.Status == entity.BookingStatusPaymentPending && b.CreatedAt.Before(before)
	})
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.Before(bookings[j].CreatedAt) })
	return head(bookings, limit), nil
}

func (r *bookingRepository) FindConfirmedCheckedOutBy(_ context.Context, date time.Time, limit int) ([]*entity.Booking, error) {
	bookings := r.filter(func(b *entity.Booking) bool {
		return b.Status == entity.BookingStatusConfirmed && !b.CheckOutDate.After(date)
	})
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CheckOutDate.Before(bookings[j].CheckOutDate) })
	return head(bookings, limit), nil
}

func (r *bookingRepository) filter(keep func(b *entity.Booking) bool) []*entity.Booking {
	var bookings []*entity.Booking
	r.c.read(func(st *state) {
		for _, b := range st.bookings {
			if keep(b) {
				bookings = append(bookings, cloneBooking(b))
			}
		}
	})
	return bookings
}

func head(bookings []*entity.Booking, limit int) []*entity.Booking {
	if limit > 0 && len(bookings) > limit {
		return bookings[:limit]
	}
	return bookings
}

type paymentRepository struct {
	c *scope
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.c.write(ctx, func(st *state) error {
		if _, ok := st.paymentsByBooking[payment.BookingID]; ok {
			return fmt.Errorf("create payment for booking %s: %w", payment.BookingID.String(), repository.ErrDuplicate)
		}

		cp := *payment
		st.payments[cp.ID] = &cp
		st.paymentsByBooking[cp.BookingID] = cp.ID
		return nil
	})
}

func (r *paymentRepository) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	var payment *entity.Payment
	r.c.read(func(st *state) {
		if id, ok := st.paymentsByBooking[bookingID]; ok {
			cp := *st.payments[id]
			payment = &cp
		}
	})
	return payment, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus, transactionID *string, at time.Time) error {
	return r.c.write(ctx, func(st *state) error {
		stored, ok := st.payments[paymentID]
		if !ok {
			return fmt.Errorf("payment %s not found", paymentID.String())
		}

		stored.Status = status
		if transactionID != nil {
			stored.TransactionID = *transactionID
		}
		stored.UpdatedAt = at
		return nil
	})
}
