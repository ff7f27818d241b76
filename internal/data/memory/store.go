// Package memory keeps the whole booking store in process memory. It backs
// the "memory" database driver and the service tests.
//
// Transactions are serialized through a single slot. Waiting for the slot is
// bounded by the lock timeout, like a row lock wait in Postgres. A transaction
// works on its own copy of the booking state and publishes it on commit, so
// reads outside it never wait and only ever see committed data.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type inventoryKey struct {
	roomID uuid.UUID
	date   string
}

func keyOf(roomID uuid.UUID, date time.Time) inventoryKey {
	return inventoryKey{roomID: roomID, date: date.Format(time.DateOnly)}
}

type Store struct {
	mu          sync.Mutex
	slot        chan struct{}
	lockTimeout time.Duration
	now         func() time.Time
	log         *zap.Logger

	hotels   map[uuid.UUID]*entity.Hotel
	rooms    map[uuid.UUID]*entity.Room
	guests   map[uuid.UUID]*entity.Guest
	sessions map[string]*entity.Session

	// committed is replaced on commit, never modified in place.
	committed *state
}

// state is everything a transaction can write.
type state struct {
	inventories       map[inventoryKey]*entity.Inventory
	inventoryIDs      map[uuid.UUID]inventoryKey
	bookings          map[uuid.UUID]*entity.Booking
	bookingKeys       map[string]uuid.UUID
	payments          map[uuid.UUID]*entity.Payment
	paymentsByBooking map[uuid.UUID]uuid.UUID
}

func newState() *state {
	return &state{
		inventories:       make(map[inventoryKey]*entity.Inventory),
		inventoryIDs:      make(map[uuid.UUID]inventoryKey),
		bookings:          make(map[uuid.UUID]*entity.Booking),
		bookingKeys:       make(map[string]uuid.UUID),
		payments:          make(map[uuid.UUID]*entity.Payment),
		paymentsByBooking: make(map[uuid.UUID]uuid.UUID),
	}
}

func (st *state) clone() *state {
	cp := &state{
		inventories:       make(map[inventoryKey]*entity.Inventory, len(st.inventories)),
		inventoryIDs:      maps.Clone(st.inventoryIDs),
		bookings:          make(map[uuid.UUID]*entity.Booking, len(st.bookings)),
		bookingKeys:       maps.Clone(st.bookingKeys),
		payments:          make(map[uuid.UUID]*entity.Payment, len(st.payments)),
		paymentsByBooking: maps.Clone(st.paymentsByBooking),
	}
	for key, inv := range st.inventories {
		night := *inv
		cp.inventories[key] = &night
	}
	for id, b := range st.bookings {
		cp.bookings[id] = cloneBooking(b)
	}
	for id, p := range st.payments {
		payment := *p
		cp.payments[id] = &payment
	}
	return cp
}

func New(lockTimeout time.Duration, log *zap.Logger) *Store {
	return &Store{
		slot:        make(chan struct{}, 1),
		lockTimeout: lockTimeout,
		now:         time.Now,
		log:         log.With(zap.String("repository", "memory")),
		hotels:      make(map[uuid.UUID]*entity.Hotel),
		rooms:       make(map[uuid.UUID]*entity.Room),
		guests:      make(map[uuid.UUID]*entity.Guest),
		sessions:    make(map[string]*entity.Session),
		committed:   newState(),
	}
}

// SetClock replaces the clock used for session expiry.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Repository returns repositories whose writes each run as their own
// single-statement transaction.
func (s *Store) Repository() *repository.Repository {
	repos := newRepositorySet(&scope{store: s})
	repos.Tx = s
	return repos
}

func newRepositorySet(c *scope) *repository.Repository {
	return &repository.Repository{
		Hotel:     &hotelRepository{c: c},
		Room:      &roomRepository{c: c},
		Inventory: &inventoryRepository{c: c},
		Booking:   &bookingRepository{c: c},
		Payment:   &paymentRepository{c: c},
		Guest:     &guestRepository{c: c},
		Session:   &sessionRepository{c: c},
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	c := &scope{store: s, tx: s.begin()}
	repos := newRepositorySet(c)
	repos.Tx = flatTransactor{repos: repos}

	if err := fn(repos); err != nil {
		s.log.Debug("Transaction rolled back", zap.Error(err))
		return err
	}

	s.commit(c.tx)
	return nil
}

func (s *Store) acquire(ctx context.Context) (func(), error) {
	var expired <-chan time.Time
	if s.lockTimeout > 0 {
		timer := time.NewTimer(s.lockTimeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case s.slot <- struct{}{}:
		return func() { <-s.slot }, nil
	case <-expired:
		return nil, fmt.Errorf("wait for transaction after %s: %w", s.lockTimeout, repository.ErrLockTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// begin copies the committed state. Only the slot holder may call it.
func (s *Store) begin() *state {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.clone()
}

func (s *Store) commit(st *state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed = st
}

type flatTransactor struct {
	repos *repository.Repository
}

func (f flatTransactor) WithinTx(_ context.Context, fn func(tx *repository.Repository) error) error {
	return fn(f.repos)
}

// scope is what a repository reads and writes through: the committed state,
// or the private state of an open transaction.
type scope struct {
	store *Store
	tx    *state
}

func (c *scope) read(fn func(st *state)) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if c.tx != nil {
		fn(c.tx)
		return
	}
	fn(c.store.committed)
}

// write applies fn to the transaction state. Outside a transaction it runs
// as a transaction of its own. fn's changes are discarded when it fails.
func (c *scope) write(ctx context.Context, fn func(st *state) error) error {
	if c.tx != nil {
		return fn(c.tx)
	}

	release, err := c.store.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	st := c.store.begin()
	if err := fn(st); err != nil {
		return err
	}
	c.store.commit(st)
	return nil
}
