package memory

import (
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Catalog and session data is owned by other services. These helpers load it
// into the store.

func (s *Store) AddHotel(hotel *entity.Hotel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := *hotel
	s.hotels[h.ID] = &h
}

func (s *Store) AddRoom(room *entity.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *room
	s.rooms[r.ID] = &r
}

func (s *Store) AddGuest(guest *entity.Guest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := *guest
	s.guests[g.ID] = &g
}

func (s *Store) AddSession(session *entity.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := *session
	s.sessions[sess.Token.String()] = &sess
}

// Seed is the catalog and session data the memory driver starts with.
type Seed struct {
	Hotels   []SeedHotel   `mapstructure:"hotels"`
	Guests   []SeedGuest   `mapstructure:"guests"`
	Sessions []SeedSession `mapstructure:"sessions"`
}

type SeedHotel struct {
	ID    string     `mapstructure:"id"`
	Name  string     `mapstructure:"name"`
	City  string     `mapstructure:"city"`
	Rooms []SeedRoom `mapstructure:"rooms"`
}

type SeedRoom struct {
	ID         string `mapstructure:"id"`
	Type       string `mapstructure:"type"`
	BasePrice  string `mapstructure:"base_price"`
	Capacity   int    `mapstructure:"capacity"`
	TotalCount int    `mapstructure:"total_count"`
}

type SeedGuest struct {
	ID     string `mapstructure:"id"`
	UserID string `mapstructure:"user_id"`
	Name   string `mapstructure:"name"`
	Gender string `mapstructure:"gender"`
	Age    int    `mapstructure:"age"`
}

type SeedSession struct {
	Token     string        `mapstructure:"token"`
	UserID    string        `mapstructure:"user_id"`
	Role      string        `mapstructure:"role"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
}

const defaultSessionTTL = 24 * time.Hour

// ReadSeedFile decodes a seed file. The format follows the file extension
// (yaml, json or toml).
func ReadSeedFile(path string) (*Seed, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var seed Seed
	if err := v.Unmarshal(&seed); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return &seed, nil
}

// LoadSeed validates the whole seed before adding any of it.
func (s *Store) LoadSeed(seed *Seed, now time.Time) error {
	var (
		hotels   []*entity.Hotel
		rooms    []*entity.Room
		guests   []*entity.Guest
		sessions []*entity.Session
	)

	for i, h := range seed.Hotels {
		id, err := uuid.Parse(h.ID)
		if err != nil {
			return fmt.Errorf("hotels[%d].id: %w", i, err)
		}
		if h.Name == "" || h.City == "" {
			return fmt.Errorf("hotels[%d]: name and city are required", i)
		}
		hotels = append(hotels, &entity.Hotel{
			Base:     entity.Base{ID: id, CreatedAt: now, UpdatedAt: now},
			Name:     h.Name,
			City:     h.City,
			IsActive: true,
		})

		for j, rm := range h.Rooms {
			roomID, err := uuid.Parse(rm.ID)
			if err != nil {
				return fmt.Errorf("hotels[%d].rooms[%d].id: %w", i, j, err)
			}
			price, err := decimal.NewFromString(rm.BasePrice)
			if err != nil || !price.IsPositive() {
				return fmt.Errorf("hotels[%d].rooms[%d].base_price: must be a positive amount", i, j)
			}
			if rm.Capacity < 1 || rm.TotalCount < 1 {
				return fmt.Errorf("hotels[%d].rooms[%d]: capacity and total_count must be at least 1", i, j)
			}
			rooms = append(rooms, &entity.Room{
				Base:       entity.Base{ID: roomID, CreatedAt: now, UpdatedAt: now},
				HotelID:    id,
				Type:       rm.Type,
				BasePrice:  price.Round(2),
				Capacity:   rm.Capacity,
				TotalCount: rm.TotalCount,
			})
		}
	}

	for i, g := range seed.Guests {
		id, err := uuid.Parse(g.ID)
		if err != nil {
			return fmt.Errorf("guests[%d].id: %w", i, err)
		}
		userID, err := uuid.Parse(g.UserID)
		if err != nil {
			return fmt.Errorf("guests[%d].user_id: %w", i, err)
		}
		guests = append(guests, &entity.Guest{
			BaseSimple: entity.BaseSimple{ID: id, CreatedAt: now},
			UserID:     userID,
			Name:       g.Name,
			Gender:     entity.Gender(g.Gender),
			Age:        g.Age,
		})
	}

	for i, sess := range seed.Sessions {
		token, err := uuid.Parse(sess.Token)
		if err != nil {
			return fmt.Errorf("sessions[%d].token: %w", i, err)
		}
		userID, err := uuid.Parse(sess.UserID)
		if err != nil {
			return fmt.Errorf("sessions[%d].user_id: %w", i, err)
		}
		role := entity.UserRole(sess.Role)
		switch role {
		case "":
			role = entity.RoleCustomer
		case entity.RoleCustomer, entity.RoleAdmin:
		default:
			return fmt.Errorf("sessions[%d].role: unknown role %q", i, sess.Role)
		}
		ttl := sess.ExpiresIn
		if ttl <= 0 {
			ttl = defaultSessionTTL
		}
		sessions = append(sessions, &entity.Session{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			UserID:     userID,
			Token:      token,
			Role:       role,
			ExpiresAt:  now.Add(ttl),
		})
	}

	for _, h := range hotels {
		s.AddHotel(h)
	}
	for _, r := range rooms {
		s.AddRoom(r)
	}
	for _, g := range guests {
		s.AddGuest(g)
	}
	for _, sess := range sessions {
		s.AddSession(sess)
	}

	s.log.Info("Seed loaded",
		zap.Int("hotels", len(hotels)),
		zap.Int("rooms", len(rooms)),
		zap.Int("guests", len(guests)),
		zap.Int("sessions", len(sessions)),
	)
	return nil
}
