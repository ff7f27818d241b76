package repository

import (
	"context"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type InventoryRepository interface {
	// FindRange returns the existing nights of [from, to) ordered by date. Missing nights are absent.
	FindRange(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*entity.Inventory, error)
	// LockRange is FindRange with row locks taken in ascending date order. Only meaningful inside WithinTx.
	LockRange(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*entity.Inventory, error)
	// CreateMissing inserts nights that do not exist yet; existing nights are left untouched.
	CreateMissing(ctx context.Context, nights []*entity.Inventory) error
	SaveBookedCount(ctx context.Context, inv *entity.Inventory) error
	SaveSettings(ctx context.Context, inv *entity.Inventory) error
}

type inventoryRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewInventoryRepository(db database.Querier, log *zap.Logger) InventoryRepository {
	return &inventoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "inventory")),
	}
}

const inventoryColumns = `id, room_id, hotel_id, date, booked_count, total_count, surge_factor, price, city, closed, created_at, updated_at`

func (r *inventoryRepository) FindRange(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventories
		WHERE room_id = $1 AND date >= $2 AND date < $3
		ORDER BY date`

	return r.queryRange(ctx, query, roomID, from, to)
}

func (r *inventoryRepository) LockRange(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventories
		WHERE room_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
		FOR UPDATE`

	return r.queryRange(ctx, query, roomID, from, to)
}

func (r *inventoryRepository) queryRange(ctx context.Context, query string, roomID uuid.UUID, from, to time.Time) ([]*entity.Inventory, error) {
	rows, err := r.db.Query(ctx, query, roomID, from, to)
	if err != nil {
		r.log.Error("Failed to query inventory range",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, fmt.Errorf("query inventory for room %s: %w", roomID.String(), MapError(err))
	}
	defer rows.Close()

	var nights []*entity.Inventory
	for rows.Next() {
		var inv entity.Inventory
		if err := rows.Scan(
			&inv.ID,
			&inv.RoomID,
			&inv.HotelID,
			&inv.Date,
			&inv.BookedCount,
			&inv.TotalCount,
			&inv.SurgeFactor,
			&inv.Price,
			&inv.City,
			&inv.Closed,
			&inv.CreatedAt,
			&inv.UpdatedAt,
		); err != nil {
			r.log.Error("Failed to scan inventory row", zap.Error(err))
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		nights = append(nights, &inv)
	}

	// lock waits surface here, not at Query
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read inventory for room %s: %w", roomID.String(), MapError(err))
	}

	return nights, nil
}

func (r *inventoryRepository) CreateMissing(ctx context.Context, nights []*entity.Inventory) error {
	if len(nights) == 0 {
		return nil
	}

	query := `
		INSERT INTO inventories (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT ON CONSTRAINT unique_room_hotel_date DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, inv := range nights {
		batch.Queue(query,
			inv.ID,
			inv.RoomID,
			inv.HotelID,
			inv.Date,
			inv.BookedCount,
			inv.TotalCount,
			inv.SurgeFactor,
			inv.Price,
			inv.City,
			inv.Closed,
			inv.CreatedAt,
			inv.UpdatedAt,
		)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return r.createFailed(nights[0].RoomID, err)
	}

	r.log.Debug("Inventory nights materialized",
		zap.String("room_id", nights[0].RoomID.String()),
		zap.Int("nights", len(nights)),
	)
	return nil
}

func (r *inventoryRepository) createFailed(roomID uuid.UUID, err error) error {
	r.log.Error("Failed to materialize inventory",
		zap.Error(err),
		zap.String("room_id", roomID.String()),
	)
	return fmt.Errorf("materialize inventory for room %s: %w", roomID.String(), MapError(err))
}

func (r *inventoryRepository) SaveBookedCount(ctx context.Context, inv *entity.Inventory) error {
	query := `UPDATE inventories SET booked_count = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, inv.ID, inv.BookedCount, inv.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update booked count",
			zap.Error(err),
			zap.String("inventory_id", inv.ID.String()),
			zap.Int("booked_count", inv.BookedCount),
		)
		return fmt.Errorf("update booked count of inventory %s: %w", inv.ID.String(), MapError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("inventory %s not found", inv.ID.String())
	}

	return nil
}

func (r *inventoryRepository) SaveSettings(ctx context.Context, inv *entity.Inventory) error {
	query := `
		UPDATE inventories
		SET total_count = $2, surge_factor = $3, price = $4, closed = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		inv.ID,
		inv.TotalCount,
		inv.SurgeFactor,
		inv.Price,
		inv.Closed,
		inv.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update inventory settings",
			zap.Error(err),
			zap.String("inventory_id", inv.ID.String()),
		)
		return fmt.Errorf("update inventory %s: %w", inv.ID.String(), MapError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("inventory %s not found", inv.ID.String())
	}

	return nil
}
