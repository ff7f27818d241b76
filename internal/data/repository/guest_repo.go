package repository

import (
	"context"
	"fmt"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GuestRepository interface {
	// FindByIDs returns the guests that exist; unknown IDs are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Guest, error)
}

type guestRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewGuestRepository(db database.Querier, log *zap.Logger) GuestRepository {
	return &guestRepository{
		db:  db,
		log: log.With(zap.String("repository", "guest")),
	}
}

func (r *guestRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Guest, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, name, gender, age, created_at
		FROM guests
		WHERE id = ANY($1)
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find guests", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find guests: %w", MapError(err))
	}
	defer rows.Close()

	var guests []*entity.Guest
	for rows.Next() {
		var guest entity.Guest
		if err := rows.Scan(
			&guest.ID,
			&guest.UserID,
			&guest.Name,
			&guest.Gender,
			&guest.Age,
			&guest.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan guest row: %w", err)
		}
		guests = append(guests, &guest)
	}

	return guests, MapError(rows.Err())
}
