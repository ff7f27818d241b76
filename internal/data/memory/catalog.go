package memory

import (
	"context"
	"sort"

	"hotel-booking/internal/data/entity"

	"github.com/google/uuid"
)

type hotelRepository struct {
	c *scope
}

func (r *hotelRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Hotel, error) {
	var hotel *entity.Hotel
	r.c.read(func(*state) {
		if h, ok := r.c.store.hotels[id]; ok {
			cp := *h
			hotel = &cp
		}
	})
	return hotel, nil
}

type roomRepository struct {
	c *scope
}

func (r *roomRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Room, error) {
	var room *entity.Room
	r.c.read(func(*state) {
		if rm, ok := r.c.store.rooms[id]; ok {
			cp := *rm
			room = &cp
		}
	})
	return room, nil
}

type guestRepository struct {
	c *scope
}

func (r *guestRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Guest, error) {
	var guests []*entity.Guest
	r.c.read(func(*state) {
		for _, id := range ids {
			if g, ok := r.c.store.guests[id]; ok {
				cp := *g
				guests = append(guests, &cp)
			}
		}
	})
	sort.Slice(guests, func(i, j int) bool { return guests[i].Name < guests[j].Name })
	return guests, nil
}

type sessionRepository struct {
	c *scope
}

func (r *sessionRepository) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	var session *entity.Session
	r.c.read(func(*state) {
		sess, ok := r.c.store.sessions[token]
		if !ok || sess.RevokedAt != nil || !sess.ExpiresAt.After(r.c.store.now()) {
			return
		}
		cp := *sess
		session = &cp
	})
	return session, nil
}
