package repository

import (
	"context"
	"time"

	"hotel-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Hotel     HotelRepository
	Room      RoomRepository
	Inventory InventoryRepository
	Booking   BookingRepository
	Payment   PaymentRepository
	Guest     GuestRepository
	Session   SessionRepository
	Tx        Transactor
}

// Transactor runs fn against repositories bound to a single transaction.
// A non-nil error from fn rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *Repository) error) error
}

func NewRepository(db database.PgxIface, lockTimeout time.Duration, log *zap.Logger) *Repository {
	repos := newRepositorySet(db, log)
	repos.Tx = &pgTransactor{
		db:          db,
		lockTimeout: lockTimeout,
		log:         log.With(zap.String("repository", "tx")),
	}
	return repos
}

func newRepositorySet(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Hotel:     NewHotelRepository(q, log),
		Room:      NewRoomRepository(q, log),
		Inventory: NewInventoryRepository(q, log),
		Booking:   NewBookingRepository(q, log),
		Payment:   NewPaymentRepository(q, log),
		Guest:     NewGuestRepository(q, log),
		Session:   NewSessionRepository(q, log),
	}
}
