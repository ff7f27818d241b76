package usecase

import (
	"sync"
	"testing"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/memory"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	t         *testing.T
	store     *memory.Store
	repo      *repository.Repository
	clock     *testClock
	config    utils.BookingConfig
	hotel     *entity.Hotel
	room      *entity.Room
	userID    uuid.UUID
	booking   BookingService
	inventory InventoryService
}

func testConfig() utils.BookingConfig {
	return utils.BookingConfig{
		MaxRetries:      3,
		RetryBaseDelay:  time.Millisecond,
		PaymentTimeout:  15 * time.Minute,
		CancelCutoff:    24 * time.Hour,
		LazyMaterialize: true,
		SweepInterval:   time.Minute,
		MaxNights:       30,
		MaxUnitsPerStay: 10,
	}
}

// newFixture seeds one hotel with one room type of totalCount units priced
// at 100 per night.
func newFixture(t *testing.T, totalCount int, configure ...func(*utils.BookingConfig)) *fixture {
	t.Helper()

	config := testConfig()
	for _, fn := range configure {
		fn(&config)
	}

	clock := &testClock{now: time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)}
	store := memory.New(5*time.Second, zap.NewNop())

	hotel := &entity.Hotel{
		Base:     entity.Base{ID: uuid.New()},
		Name:     "Harbour View",
		City:     "Lisbon",
		IsActive: true,
	}
	room := &entity.Room{
		Base:       entity.Base{ID: uuid.New()},
		HotelID:    hotel.ID,
		Type:       "double",
		BasePrice:  decimal.NewFromInt(100),
		Capacity:   2,
		TotalCount: totalCount,
	}
	store.AddHotel(hotel)
	store.AddRoom(room)

	repo := store.Repository()
	return &fixture{
		t:         t,
		store:     store,
		repo:      repo,
		clock:     clock,
		config:    config,
		hotel:     hotel,
		room:      room,
		userID:    uuid.New(),
		booking:   NewBookingService(repo, config, clock.Now, zap.NewNop()),
		inventory: NewInventoryService(repo, config, clock.Now, zap.NewNop()),
	}
}

func (f *fixture) bookingRequest(checkIn, checkOut string, units int) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		RoomID:       f.room.ID.String(),
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		RoomCount:    units,
	}
}

func (f *fixture) addGuest(owner uuid.UUID) uuid.UUID {
	guest := &entity.Guest{
		BaseSimple: entity.BaseSimple{ID: uuid.New()},
		UserID:     owner,
		Name:       "Guest " + owner.String()[:4],
		Gender:     entity.GenderOther,
		Age:        30,
	}
	f.store.AddGuest(guest)
	return guest.ID
}

// bookedCounts returns the booked count of every stored night of [from, to).
func (f *fixture) bookedCounts(from, to string) map[string]int {
	f.t.Helper()

	start, err := utils.ParseDate(from)
	if err != nil {
		f.t.Fatal(err)
	}
	end, err := utils.ParseDate(to)
	if err != nil {
		f.t.Fatal(err)
	}

	nights, err := f.repo.Inventory.FindRange(f.t.Context(), f.room.ID, start, end)
	if err != nil {
		f.t.Fatal(err)
	}

	counts := make(map[string]int, len(nights))
	for _, inv := range nights {
		counts[inv.Date.Format(time.DateOnly)] = inv.BookedCount
	}
	return counts
}
