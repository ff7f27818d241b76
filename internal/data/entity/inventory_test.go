package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newNight(total int) *Inventory {
	hotel := &Hotel{Base: Base{ID: uuid.New()}, City: "Porto"}
	room := &Room{
		Base:       Base{ID: uuid.New()},
		HotelID:    hotel.ID,
		BasePrice:  decimal.RequireFromString("89.99"),
		TotalCount: total,
	}
	return NewInventory(room, hotel, time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC), time.Now())
}

func TestNewInventory_Defaults(t *testing.T) {
	inv := newNight(3)

	require.Zero(t, inv.BookedCount)
	require.Equal(t, 3, inv.TotalCount)
	require.False(t, inv.Closed)
	require.Equal(t, "Porto", inv.City)
	require.True(t, decimal.NewFromInt(1).Equal(inv.SurgeFactor))
	require.Equal(t, "89.99", inv.Price.StringFixed(2))
}

func TestInventory_ReserveRelease(t *testing.T) {
	inv := newNight(2)
	now := time.Now()

	require.NoError(t, inv.Reserve(2, now))
	require.Equal(t, 0, inv.Free())
	require.ErrorIs(t, inv.Reserve(1, now), ErrInventoryOverbooked)
	require.Equal(t, 2, inv.BookedCount)

	require.NoError(t, inv.Release(2, now))
	require.ErrorIs(t, inv.Release(1, now), ErrInventoryUnderflow)
	require.Zero(t, inv.BookedCount)
}

func TestInventory_Check(t *testing.T) {
	inv := newNight(2)

	ok, reason := inv.Check(2)
	require.True(t, ok)
	require.Empty(t, reason)

	ok, reason = inv.Check(3)
	require.False(t, ok)
	require.Equal(t, ReasonInsufficientCapacity, reason)

	inv.Closed = true
	ok, reason = inv.Check(1)
	require.False(t, ok)
	require.Equal(t, ReasonClosed, reason)
	require.Zero(t, inv.Free())
	require.Error(t, inv.Reserve(1, time.Now()))
}

func TestNightlyPrice_RoundsToCents(t *testing.T) {
	tests := []struct {
		base, surge, want string
	}{
		{"100", "1.5", "150.00"},
		{"89.99", "1.15", "103.49"},
		{"100", "0.333", "33.30"},
	}
	for _, tt := range tests {
		got := NightlyPrice(decimal.RequireFromString(tt.base), decimal.RequireFromString(tt.surge))
		require.Equal(t, tt.want, got.StringFixed(2), "%s x %s", tt.base, tt.surge)
	}
}
