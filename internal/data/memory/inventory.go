package memory

import (
	"context"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"

	"github.com/google/uuid"
)

type inventoryRepository struct {
	c *scope
}

func (r *inventoryRepository) FindRange(_ context.Context, roomID uuid.UUID, from, to time.Time) ([]*entity.Inventory, error) {
	var nights []*entity.Inventory
	r.c.read(func(st *state) {
		for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
			if inv, ok := st.inventories[keyOf(roomID, d)]; ok {
				cp := *inv
				nights = append(nights, &cp)
			}
		}
	})
	return nights, nil
}

// LockRange needs no row locks: a transaction already owns the whole store.
func (r *inventoryRepository) LockRange(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*entity.Inventory, error) {
	return r.FindRange(ctx, roomID, from, to)
}

func (r *inventoryRepository) CreateMissing(ctx context.Context, nights []*entity.Inventory) error {
	if len(nights) == 0 {
		return nil
	}

	return r.c.write(ctx, func(st *state) error {
		for _, inv := range nights {
			key := keyOf(inv.RoomID, inv.Date)
			if _, ok := st.inventories[key]; ok {
				continue
			}
			cp := *inv
			st.inventories[key] = &cp
			st.inventoryIDs[cp.ID] = key
		}
		return nil
	})
}

func (r *inventoryRepository) SaveBookedCount(ctx context.Context, inv *entity.Inventory) error {
	return r.update(ctx, inv.ID, func(stored *entity.Inventory) {
		stored.BookedCount = inv.BookedCount
		stored.UpdatedAt = inv.UpdatedAt
	})
}

func (r *inventoryRepository) SaveSettings(ctx context.Context, inv *entity.Inventory) error {
	return r.update(ctx, inv.ID, func(stored *entity.Inventory) {
		stored.TotalCount = inv.TotalCount
		stored.SurgeFactor = inv.SurgeFactor
		stored.Price = inv.Price
		stored.Closed = inv.Closed
		stored.UpdatedAt = inv.UpdatedAt
	})
}

func (r *inventoryRepository) update(ctx context.Context, id uuid.UUID, apply func(stored *entity.Inventory)) error {
	return r.c.write(ctx, func(st *state) error {
		key, ok := st.inventoryIDs[id]
		if !ok {
			return fmt.Errorf("inventory %s not found", id.String())
		}

		stored := st.inventories[key]
		next := *stored
		apply(&next)

		// same checks as the table constraints
		if next.BookedCount < 0 || next.BookedCount > next.TotalCount {
			return fmt.Errorf("update inventory %s: booked %d out of bounds of %d", id.String(), next.BookedCount, next.TotalCount)
		}
		if !next.SurgeFactor.IsPositive() {
			return fmt.Errorf("update inventory %s: surge factor must be positive", id.String())
		}

		*stored = next
		return nil
	})
}
