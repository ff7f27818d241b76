package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// Create inserts the booking and its guest links.
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	// FindByIDForUpdate locks the booking row. Only meaningful inside WithinTx.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, at time.Time) error

	// Sweeper queries
	FindPendingCreatedBefore(ctx context.Context, before time.Time, limit int) ([]*entity.Booking, error)
	FindConfirmedCheckedOutBy(ctx context.Context, date time.Time, limit int) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, room_id, hotel_id, user_id, payment_id, room_count, check_in_date, check_out_date,
		total_price, status, idempotency_key, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.HotelID,
		&booking.UserID,
		&booking.PaymentID,
		&booking.RoomCount,
		&booking.CheckInDate,
		&booking.CheckOutDate,
		&booking.TotalPrice,
		&booking.Status,
		&booking.IdempotencyKey,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.HotelID,
		booking.UserID,
		booking.PaymentID,
		booking.RoomCount,
		booking.CheckInDate,
		booking.CheckOutDate,
		booking.TotalPrice,
		booking.Status,
		booking.IdempotencyKey,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), MapError(err))
	}

	if len(booking.GuestIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, guestID := range booking.GuestIDs {
		batch.Queue(`INSERT INTO booking_guests (booking_id, guest_id) VALUES ($1, $2)`, booking.ID, guestID)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		r.log.Error("Failed to link booking guests",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("link guests to booking %s: %w", booking.ID.String(), MapError(err))
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.findOne(ctx, "ID", id.String(), query, id)
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, "ID", id.String(), query, id)
}

func (r *bookingRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE idempotency_key = $1`
	return r.findOne(ctx, "idempotency key", key, query, key)
}

func (r *bookingRepository) findOne(ctx context.Context, by, value, query string, arg any) (*entity.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by "+by,
			zap.Error(err),
			zap.String("value", value),
		)
		return nil, fmt.Errorf("find booking by %s %s: %w", by, value, MapError(err))
	}

	guestIDs, err := r.findGuestIDs(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	booking.GuestIDs = guestIDs

	return booking, nil
}

func (r *bookingRepository) findGuestIDs(ctx context.Context, bookingID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT guest_id FROM booking_guests WHERE booking_id = $1 ORDER BY guest_id`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find guests of booking %s: %w", bookingID.String(), MapError(err))
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan booking guest row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	bookings, err := r.queryMany(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), MapError(err))
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, at time.Time) error {
	query := `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, status, at)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), MapError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}

func (r *bookingRepository) FindPendingCreatedBefore(ctx context.Context, before time.Time, limit int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3`

	bookings, err := r.queryMany(ctx, query, entity.BookingStatusPaymentPending, before, limit)
	if err != nil {
		r.log.Error("Failed to find stale pending bookings", zap.Error(err), zap.Time("before", before))
		return nil, fmt.Errorf("find pending bookings created before %s: %w", before.Format(time.RFC3339), err)
	}
	return bookings, nil
}

func (r *bookingRepository) FindConfirmedCheckedOutBy(ctx context.Context, date time.Time, limit int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1 AND check_out_date <= $2
		ORDER BY check_out_date
		LIMIT $3`

	bookings, err := r.queryMany(ctx, query, entity.BookingStatusConfirmed, date, limit)
	if err != nil {
		r.log.Error("Failed to find finished stays", zap.Error(err), zap.Time("date", date))
		return nil, fmt.Errorf("find confirmed bookings checked out by %s: %w", date.Format(time.DateOnly), err)
	}
	return bookings, nil
}

func (r *bookingRepository) queryMany(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, MapError(rows.Err())
}
