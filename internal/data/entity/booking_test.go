package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var allStatuses = []BookingStatus{
	BookingStatusCreated,
	BookingStatusPaymentPending,
	BookingStatusConfirmed,
	BookingStatusCompleted,
	BookingStatusCancelled,
	BookingStatusFailed,
}

func TestBookingStatus_CanTransition(t *testing.T) {
	allowed := map[BookingStatus][]BookingStatus{
		BookingStatusCreated:        {BookingStatusPaymentPending, BookingStatusFailed},
		BookingStatusPaymentPending: {BookingStatusConfirmed, BookingStatusFailed},
		BookingStatusConfirmed:      {BookingStatusCompleted, BookingStatusCancelled},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			require.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}

	require.False(t, BookingStatus("refunded").CanTransition(BookingStatusCancelled))
}

func TestBookingStatus_Classification(t *testing.T) {
	for _, s := range allStatuses {
		require.True(t, s.Valid(), s)
		require.Equal(t, s == BookingStatusPaymentPending || s == BookingStatusConfirmed, s.HoldsInventory(), s)
		// terminal statuses have no way out
		if s.IsTerminal() {
			for _, to := range allStatuses {
				require.False(t, s.CanTransition(to))
			}
		}
	}
	require.False(t, BookingStatus("").Valid())
}

func TestBooking_Nights(t *testing.T) {
	b := &Booking{
		CheckInDate:  time.Date(2030, 3, 30, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2030, 4, 2, 0, 0, 0, 0, time.UTC),
	}
	require.Equal(t, 3, b.Nights())
}
