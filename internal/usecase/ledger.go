package usecase

import (
	"context"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ledger is the only code that changes booked counts. Every method takes the
// repositories to run against so that callers decide the transaction.
type ledger struct {
	lazy bool
	now  func() time.Time
	log  *zap.Logger
}

func (l *ledger) room(ctx context.Context, repo *repository.Repository, roomID uuid.UUID) (*entity.Room, error) {
	room, err := repo.Room.FindByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("find room %s: %w", roomID.String(), err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w: %w", roomID.String(), ErrNotFound, ErrIncompleteInventory)
	}
	return room, nil
}

// materialize creates the nights of [from, to) that do not exist yet at the
// room's catalog defaults.
func (l *ledger) materialize(ctx context.Context, repo *repository.Repository, room *entity.Room, from, to time.Time) error {
	existing, err := repo.Inventory.FindRange(ctx, room.ID, from, to)
	if err != nil {
		return err
	}

	have := byDate(existing)
	var missing []time.Time
	for _, night := range utils.Nights(from, to) {
		if _, ok := have[dateKey(night)]; !ok {
			missing = append(missing, night)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	hotel, err := repo.Hotel.FindByID(ctx, room.HotelID)
	if err != nil {
		return fmt.Errorf("find hotel %s: %w", room.HotelID.String(), err)
	}
	if hotel == nil {
		return fmt.Errorf("hotel %s of room %s: %w", room.HotelID.String(), room.ID.String(), ErrIncompleteInventory)
	}

	now := l.now()
	nights := make([]*entity.Inventory, 0, len(missing))
	for _, night := range missing {
		nights = append(nights, entity.NewInventory(room, hotel, night, now))
	}

	return repo.Inventory.CreateMissing(ctx, nights)
}

// read returns the nights of [from, to) that exist, materializing the rest
// first when lazy materialization is on.
func (l *ledger) read(ctx context.Context, repo *repository.Repository, room *entity.Room, from, to time.Time) ([]*entity.Inventory, error) {
	if l.lazy {
		if err := l.materialize(ctx, repo, room, from, to); err != nil {
			return nil, err
		}
	}
	return repo.Inventory.FindRange(ctx, room.ID, from, to)
}

// reserve takes units on every night of [from, to) or on none. It must run
// inside a transaction. Rows are locked in ascending date order.
func (l *ledger) reserve(ctx context.Context, tx *repository.Repository, room *entity.Room, from, to time.Time, units int) (decimal.Decimal, error) {
	if l.lazy {
		if err := l.materialize(ctx, tx, room, from, to); err != nil {
			return decimal.Zero, err
		}
	}

	locked, err := tx.Inventory.LockRange(ctx, room.ID, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	have := byDate(locked)
	for _, night := range utils.Nights(from, to) {
		inv, ok := have[dateKey(night)]
		if !ok {
			return decimal.Zero, &CapacityError{Date: night, Reason: entity.ReasonInsufficientCapacity}
		}
		if ok, reason := inv.Check(units); !ok {
			return decimal.Zero, &CapacityError{Date: night, Reason: reason}
		}
	}

	now := l.now()
	for _, inv := range locked {
		if err := inv.Reserve(units, now); err != nil {
			return decimal.Zero, err
		}
		if err := tx.Inventory.SaveBookedCount(ctx, inv); err != nil {
			return decimal.Zero, err
		}
	}

	return stayPrice(locked, units), nil
}

// release gives back the units of a booking on every night it covers. It
// must run inside a transaction after the booking row is locked.
func (l *ledger) release(ctx context.Context, tx *repository.Repository, booking *entity.Booking) error {
	locked, err := tx.Inventory.LockRange(ctx, booking.RoomID, booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		return err
	}
	if len(locked) != booking.Nights() {
		return fmt.Errorf("booking %s covers %d nights but %d are stored: %w",
			booking.ID.String(), booking.Nights(), len(locked), ErrIncompleteInventory)
	}

	now := l.now()
	for _, inv := range locked {
		if err := inv.Release(booking.RoomCount, now); err != nil {
			return fmt.Errorf("release booking %s: %w", booking.ID.String(), err)
		}
		if err := tx.Inventory.SaveBookedCount(ctx, inv); err != nil {
			return err
		}
	}

	l.log.Debug("Inventory released",
		zap.String("booking_id", booking.ID.String()),
		zap.Int("nights", len(locked)),
		zap.Int("units", booking.RoomCount),
	)
	return nil
}

func dateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

func byDate(nights []*entity.Inventory) map[string]*entity.Inventory {
	m := make(map[string]*entity.Inventory, len(nights))
	for _, inv := range nights {
		m[dateKey(inv.Date)] = inv
	}
	return m
}
