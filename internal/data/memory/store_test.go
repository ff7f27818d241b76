package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var day = time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

func seedNight(t *testing.T, repo *repository.Repository, total int) *entity.Inventory {
	t.Helper()

	hotel := &entity.Hotel{Base: entity.Base{ID: uuid.New()}, City: "Oslo"}
	room := &entity.Room{Base: entity.Base{ID: uuid.New()}, HotelID: hotel.ID, BasePrice: decimal.NewFromInt(80), TotalCount: total}
	inv := entity.NewInventory(room, hotel, day, day)
	require.NoError(t, repo.Inventory.CreateMissing(t.Context(), []*entity.Inventory{inv}))
	return inv
}

func TestWithinTx_RollsBackEveryWrite(t *testing.T) {
	store := New(time.Second, zap.NewNop())
	repo := store.Repository()
	ctx := t.Context()
	inv := seedNight(t, repo, 2)

	booking := &entity.Booking{Base: entity.Base{ID: uuid.New()}, UserID: uuid.New(), Status: entity.BookingStatusPaymentPending}
	errBoom := errors.New("boom")

	err := repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		nights, err := tx.Inventory.LockRange(ctx, inv.RoomID, day, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.NoError(t, nights[0].Reserve(2, day))
		require.NoError(t, tx.Inventory.SaveBookedCount(ctx, nights[0]))
		require.NoError(t, tx.Booking.Create(ctx, booking))
		require.NoError(t, tx.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusConfirmed, day))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	nights, err := repo.Inventory.FindRange(ctx, inv.RoomID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Zero(t, nights[0].BookedCount)

	got, err := repo.Booking.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestWithinTx_ReadsOutsideSeeOnlyCommitted(t *testing.T) {
	store := New(time.Second, zap.NewNop())
	repo := store.Repository()
	ctx := t.Context()
	inv := seedNight(t, repo, 3)
	nextDay := day.AddDate(0, 0, 1)

	booked := func(r *repository.Repository) int {
		nights, err := r.Inventory.FindRange(ctx, inv.RoomID, day, nextDay)
		require.NoError(t, err)
		return nights[0].BookedCount
	}

	written := make(chan struct{})
	finish := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
			nights, err := tx.Inventory.LockRange(ctx, inv.RoomID, day, nextDay)
			if err != nil {
				return err
			}
			if err := nights[0].Reserve(2, day); err != nil {
				return err
			}
			if err := tx.Inventory.SaveBookedCount(ctx, nights[0]); err != nil {
				return err
			}
			own, err := tx.Inventory.FindRange(ctx, inv.RoomID, day, nextDay)
			if err != nil {
				return err
			}
			if own[0].BookedCount != 2 {
				return errors.New("transaction does not see its own write")
			}
			close(written)
			<-finish
			return nil
		})
	}()

	<-written
	require.Zero(t, booked(repo))

	close(finish)
	require.NoError(t, <-done)
	require.Equal(t, 2, booked(repo))
}

func TestWithinTx_LockTimeout(t *testing.T) {
	store := New(20*time.Millisecond, zap.NewNop())
	repo := store.Repository()
	ctx := t.Context()
	inv := seedNight(t, repo, 2)

	held := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
			close(held)
			<-done
			return nil
		})
	}()
	<-held

	err := repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error { return nil })
	require.ErrorIs(t, err, repository.ErrLockTimeout)
	require.True(t, repository.IsRetryable(err))

	// plain writes wait for the transaction too
	inv.BookedCount = 1
	require.ErrorIs(t, repo.Inventory.SaveBookedCount(ctx, inv), repository.ErrLockTimeout)

	close(done)
	require.Eventually(t, func() bool {
		return repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error { return nil }) == nil
	}, time.Second, 5*time.Millisecond)
}

func TestWithinTx_HonoursContext(t *testing.T) {
	store := New(0, zap.NewNop())
	repo := store.Repository()

	held := make(chan struct{})
	done := make(chan struct{})
	defer close(done)
	go func() {
		_ = repo.Tx.WithinTx(context.Background(), func(tx *repository.Repository) error {
			close(held)
			<-done
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	err := repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error { return nil })
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInventory_EnforcesBounds(t *testing.T) {
	repo := New(time.Second, zap.NewNop()).Repository()
	ctx := t.Context()
	inv := seedNight(t, repo, 2)

	inv.BookedCount = 3
	require.Error(t, repo.Inventory.SaveBookedCount(ctx, inv))

	inv.BookedCount = 2
	require.NoError(t, repo.Inventory.SaveBookedCount(ctx, inv))

	inv.TotalCount = 1
	require.Error(t, repo.Inventory.SaveSettings(ctx, inv))

	// existing nights are left alone
	dup := *inv
	dup.ID = uuid.New()
	dup.BookedCount = 0
	require.NoError(t, repo.Inventory.CreateMissing(ctx, []*entity.Inventory{&dup}))
	nights, err := repo.Inventory.FindRange(ctx, inv.RoomID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, nights, 1)
	require.Equal(t, inv.ID, nights[0].ID)
	require.Equal(t, 2, nights[0].BookedCount)
}

func TestBooking_UniqueIdempotencyKey(t *testing.T) {
	repo := New(time.Second, zap.NewNop()).Repository()
	ctx := t.Context()
	key := "k-1"

	first := &entity.Booking{Base: entity.Base{ID: uuid.New()}, IdempotencyKey: &key}
	second := &entity.Booking{Base: entity.Base{ID: uuid.New()}, IdempotencyKey: &key}

	require.NoError(t, repo.Booking.Create(ctx, first))
	require.ErrorIs(t, repo.Booking.Create(ctx, second), repository.ErrDuplicate)

	got, err := repo.Booking.FindByIdempotencyKey(ctx, key)
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
}

func TestSession_FindValidSession(t *testing.T) {
	store := New(time.Second, zap.NewNop())
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	active := &entity.Session{Token: uuid.New(), UserID: uuid.New(), Role: entity.RoleAdmin, ExpiresAt: now.Add(time.Hour)}
	expired := &entity.Session{Token: uuid.New(), UserID: uuid.New(), ExpiresAt: now.Add(-time.Second)}
	revoked := &entity.Session{Token: uuid.New(), UserID: uuid.New(), ExpiresAt: now.Add(time.Hour), RevokedAt: &now}
	for _, s := range []*entity.Session{active, expired, revoked} {
		store.AddSession(s)
	}

	repo := store.Repository()
	got, err := repo.Session.FindValidSession(t.Context(), active.Token.String())
	require.NoError(t, err)
	require.Equal(t, entity.RoleAdmin, got.Role)

	for _, s := range []*entity.Session{expired, revoked} {
		got, err := repo.Session.FindValidSession(t.Context(), s.Token.String())
		require.NoError(t, err)
		require.Nil(t, got)
	}
}
