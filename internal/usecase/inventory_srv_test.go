package usecase

import (
	"errors"
	"testing"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/dto/request"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCheckAvailability_PricesEveryNightWithSurge(t *testing.T) {
	f := newFixture(t, 5)
	ctx := t.Context()

	_, err := f.inventory.UpdateInventory(ctx, f.room.ID.String(), &request.UpdateInventoryRequest{
		InventoryRangeRequest: request.InventoryRangeRequest{From: "2030-02-02", To: "2030-02-03"},
		SurgeFactor:           ptr(decimal.RequireFromString("1.5")),
	})
	require.NoError(t, err)

	got, err := f.inventory.CheckAvailability(ctx, f.room.ID.String(), &request.AvailabilityRequest{
		CheckIn:  "2030-02-01",
		CheckOut: "2030-02-03",
		Units:    1,
	})
	require.NoError(t, err)
	require.True(t, got.Available)
	require.True(t, decimal.NewFromInt(250).Equal(*got.TotalPrice), "total %s", got.TotalPrice)
	require.Len(t, got.Nights, 2)
	require.True(t, decimal.NewFromInt(150).Equal(got.Nights[1].Price))

	got, err = f.inventory.CheckAvailability(ctx, f.room.ID.String(), &request.AvailabilityRequest{
		CheckIn:  "2030-02-01",
		CheckOut: "2030-02-03",
		Units:    2,
	})
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(500).Equal(*got.TotalPrice))
}

func TestCheckAvailability_ClosedNightBlocks(t *testing.T) {
	f := newFixture(t, 5)
	ctx := t.Context()

	_, err := f.inventory.UpdateInventory(ctx, f.room.ID.String(), &request.UpdateInventoryRequest{
		InventoryRangeRequest: request.InventoryRangeRequest{From: "2030-02-02", To: "2030-02-03"},
		Closed:                ptr(true),
	})
	require.NoError(t, err)

	got, err := f.inventory.CheckAvailability(ctx, f.room.ID.String(), &request.AvailabilityRequest{
		CheckIn:  "2030-02-01",
		CheckOut: "2030-02-04",
		Units:    1,
	})
	require.NoError(t, err)
	require.False(t, got.Available)
	require.Equal(t, "2030-02-02", got.BlockedOn)
	require.Equal(t, entity.ReasonClosed, got.Reason)
	require.Nil(t, got.TotalPrice)
}

func TestCheckAvailability_ReportsFirstFullNight(t *testing.T) {
	f := newFixture(t, 2)
	ctx := t.Context()

	_, err := f.booking.CreateBooking(ctx, f.userID.String(), f.bookingRequest("2030-02-03", "2030-02-04", 2))
	require.NoError(t, err)

	got, err := f.inventory.CheckAvailability(ctx, f.room.ID.String(), &request.AvailabilityRequest{
		CheckIn:  "2030-02-01",
		CheckOut: "2030-02-05",
		Units:    1,
	})
	require.NoError(t, err)
	require.False(t, got.Available)
	require.Equal(t, "2030-02-03", got.BlockedOn)
	require.Equal(t, entity.ReasonInsufficientCapacity, got.Reason)
}

func TestCheckAvailability_WithoutLazyMaterialization(t *testing.T) {
	f := newFixture(t, 2, func(c *utils.BookingConfig) { c.LazyMaterialize = false })
	ctx := t.Context()

	got, err := f.inventory.CheckAvailability(ctx, f.room.ID.String(), &request.AvailabilityRequest{
		CheckIn:  "2030-02-01",
		CheckOut: "2030-02-03",
		Units:    1,
	})
	require.NoError(t, err)
	require.False(t, got.Available)
	require.Equal(t, "2030-02-01", got.BlockedOn)
	require.Equal(t, entity.ReasonClosed, got.Reason)
	require.Empty(t, f.bookedCounts("2030-02-01", "2030-02-03"), "availability must not create nights")

	_, err = f.inventory.OpenInventory(ctx, f.room.ID.String(), &request.InventoryRangeRequest{From: "2030-02-01", To: "2030-02-03"})
	require.NoError(t, err)

	got, err = f.inventory.CheckAvailability(ctx, f.room.ID.String(), &request.AvailabilityRequest{
		CheckIn:  "2030-02-01",
		CheckOut: "2030-02-03",
		Units:    1,
	})
	require.NoError(t, err)
	require.True(t, got.Available)
}

func TestCheckAvailability_Validation(t *testing.T) {
	f := newFixture(t, 2)

	tests := []struct {
		name   string
		roomID string
		req    request.AvailabilityRequest
		want   error
	}{
		{"missing dates", f.room.ID.String(), request.AvailabilityRequest{Units: 1}, ErrValidation},
		{"bad date", f.room.ID.String(), request.AvailabilityRequest{CheckIn: "2030-13-01", CheckOut: "2030-02-03", Units: 1}, ErrValidation},
		{"reversed range", f.room.ID.String(), request.AvailabilityRequest{CheckIn: "2030-02-03", CheckOut: "2030-02-01", Units: 1}, ErrValidation},
		{"empty range", f.room.ID.String(), request.AvailabilityRequest{CheckIn: "2030-02-03", CheckOut: "2030-02-03", Units: 1}, ErrValidation},
		{"past", f.room.ID.String(), request.AvailabilityRequest{CheckIn: "2030-01-01", CheckOut: "2030-01-03", Units: 1}, ErrValidation},
		{"zero units", f.room.ID.String(), request.AvailabilityRequest{CheckIn: "2030-02-01", CheckOut: "2030-02-03"}, ErrValidation},
		{"too long", f.room.ID.String(), request.AvailabilityRequest{CheckIn: "2030-02-01", CheckOut: "2030-04-01", Units: 1}, ErrValidation},
		{"bad room id", "room-1", request.AvailabilityRequest{CheckIn: "2030-02-01", CheckOut: "2030-02-03", Units: 1}, ErrValidation},
		{"unknown room", uuid.NewString(), request.AvailabilityRequest{CheckIn: "2030-02-01", CheckOut: "2030-02-03", Units: 1}, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.inventory.CheckAvailability(t.Context(), tt.roomID, &tt.req)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateInventory_RejectsTotalBelowBooked(t *testing.T) {
	f := newFixture(t, 3)
	ctx := t.Context()

	_, err := f.booking.CreateBooking(ctx, f.userID.String(), f.bookingRequest("2030-02-02", "2030-02-03", 2))
	require.NoError(t, err)

	_, err = f.inventory.UpdateInventory(ctx, f.room.ID.String(), &request.UpdateInventoryRequest{
		InventoryRangeRequest: request.InventoryRangeRequest{From: "2030-02-01", To: "2030-02-04"},
		TotalCount:            ptr(1),
		SurgeFactor:           ptr(decimal.NewFromInt(2)),
	})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "TotalCount")

	// nothing of the range changed
	nights, err := f.inventory.Calendar(ctx, f.room.ID.String(), &request.InventoryRangeRequest{From: "2030-02-01", To: "2030-02-04"})
	require.NoError(t, err)
	require.Len(t, nights, 3)
	for _, night := range nights {
		require.Equal(t, 3, night.TotalCount)
		require.True(t, decimal.NewFromInt(100).Equal(night.Price))
	}
}

func TestUpdateInventory_RequiresAChange(t *testing.T) {
	f := newFixture(t, 3)

	_, err := f.inventory.UpdateInventory(t.Context(), f.room.ID.String(), &request.UpdateInventoryRequest{
		InventoryRangeRequest: request.InventoryRangeRequest{From: "2030-02-01", To: "2030-02-04"},
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.inventory.UpdateInventory(t.Context(), f.room.ID.String(), &request.UpdateInventoryRequest{
		InventoryRangeRequest: request.InventoryRangeRequest{From: "2030-02-01", To: "2030-02-04"},
		SurgeFactor:           ptr(decimal.Zero),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateInventory_SurgeFactorPrecision(t *testing.T) {
	tests := []struct {
		name  string
		surge string
		price string
	}{
		{name: "three decimals", surge: "1.255"},
		{name: "rounds to zero", surge: "0.001"},
		{name: "negative", surge: "-1"},
		{name: "above column range", surge: "1000"},
		{name: "two decimals", surge: "1.25", price: "125.00"},
		{name: "trailing zeros", surge: "0.500", price: "50.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 3)

			nights, err := f.inventory.UpdateInventory(t.Context(), f.room.ID.String(), &request.UpdateInventoryRequest{
				InventoryRangeRequest: request.InventoryRangeRequest{From: "2030-02-01", To: "2030-02-02"},
				SurgeFactor:           ptr(decimal.RequireFromString(tt.surge)),
			})
			if tt.price == "" {
				var validationErr *ValidationError
				require.True(t, errors.As(err, &validationErr), "err %v", err)
				require.Contains(t, validationErr.Fields, "SurgeFactor")
				return
			}

			require.NoError(t, err)
			require.Len(t, nights, 1)
			require.Equal(t, tt.price, nights[0].Price.StringFixed(2))
			// stored price is exactly base price times the stored surge
			require.True(t, f.room.BasePrice.Mul(nights[0].SurgeFactor).Equal(nights[0].Price))
		})
	}
}

func TestOpenInventory_IsRepeatable(t *testing.T) {
	f := newFixture(t, 4)
	ctx := t.Context()
	rng := &request.InventoryRangeRequest{From: "2030-03-01", To: "2030-03-08"}

	first, err := f.inventory.OpenInventory(ctx, f.room.ID.String(), rng)
	require.NoError(t, err)
	require.Len(t, first, 7)
	require.Equal(t, "Lisbon", first[0].City)
	require.Equal(t, f.hotel.ID.String(), first[0].HotelID)

	second, err := f.inventory.OpenInventory(ctx, f.room.ID.String(), rng)
	require.NoError(t, err)
	require.Len(t, second, 7)
	for i := range first {
		require.Equal(t, first[i].ID, second[i].ID)
	}
}
