package usecase

import (
	"context"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var maxSurgeFactor = decimal.RequireFromString("999.99")

type InventoryService interface {
	// CheckAvailability is advisory and takes no locks.
	CheckAvailability(ctx context.Context, roomID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)

	// Admin endpoints
	OpenInventory(ctx context.Context, roomID string, req *request.InventoryRangeRequest) ([]response.InventoryResponse, error)
	UpdateInventory(ctx context.Context, roomID string, req *request.UpdateInventoryRequest) ([]response.InventoryResponse, error)
	Calendar(ctx context.Context, roomID string, req *request.InventoryRangeRequest) ([]response.InventoryResponse, error)
}

type inventoryService struct {
	repo    *repository.Repository
	config  utils.BookingConfig
	ledger  *ledger
	retrier *retrier
	now     func() time.Time
	log     *zap.Logger
}

func NewInventoryService(repo *repository.Repository, config utils.BookingConfig, now func() time.Time, log *zap.Logger) InventoryService {
	log = log.With(zap.String("service", "inventory"))
	return &inventoryService{
		repo:    repo,
		config:  config,
		ledger:  &ledger{lazy: config.LazyMaterialize, now: now, log: log},
		retrier: newRetrier(config, log),
		now:     now,
		log:     log,
	}
}

func (s *inventoryService) CheckAvailability(ctx context.Context, roomID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	roomUUID, err := parseID("room_id", roomID)
	if err != nil {
		return nil, err
	}

	checkIn, checkOut, err := parseStay(stayField{"CheckIn", "CheckOut"}, req.CheckIn, req.CheckOut, s.config.MaxNights, s.now())
	if err != nil {
		return nil, err
	}

	room, err := s.ledger.room(ctx, s.repo, roomUUID)
	if err != nil {
		return nil, err
	}

	nights, err := s.ledger.read(ctx, s.repo, room, checkIn, checkOut)
	if err != nil {
		s.log.Error("Failed to read inventory",
			zap.Error(err),
			zap.String("room_id", roomID),
		)
		return nil, fmt.Errorf("check availability of room %s: %w", roomID, err)
	}

	resp := &response.AvailabilityResponse{
		RoomID:   roomUUID.String(),
		CheckIn:  dateKey(checkIn),
		CheckOut: dateKey(checkOut),
		Units:    req.Units,
	}

	have := byDate(nights)
	for _, night := range utils.Nights(checkIn, checkOut) {
		inv, ok := have[dateKey(night)]
		if !ok {
			// never opened
			resp.BlockedOn, resp.Reason = dateKey(night), entity.ReasonClosed
			return resp, nil
		}
		if ok, reason := inv.Check(req.Units); !ok {
			resp.BlockedOn, resp.Reason = dateKey(night), reason
			return resp, nil
		}
		resp.Nights = append(resp.Nights, response.NightPrice{
			Date:  dateKey(night),
			Price: inv.Price,
			Free:  inv.Free(),
		})
	}

	total := stayPrice(nights, req.Units)
	resp.Available = true
	resp.TotalPrice = &total
	return resp, nil
}

func (s *inventoryService) OpenInventory(ctx context.Context, roomID string, req *request.InventoryRangeRequest) ([]response.InventoryResponse, error) {
	roomUUID, from, to, err := s.parseRange(roomID, req)
	if err != nil {
		return nil, err
	}

	var nights []*entity.Inventory
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		room, err := s.ledger.room(ctx, tx, roomUUID)
		if err != nil {
			return err
		}
		if err := s.ledger.materialize(ctx, tx, room, from, to); err != nil {
			return err
		}
		nights, err = tx.Inventory.FindRange(ctx, roomUUID, from, to)
		return err
	})
	if err != nil {
		s.log.Error("Failed to open inventory",
			zap.Error(err),
			zap.String("room_id", roomID),
		)
		return nil, fmt.Errorf("open inventory of room %s: %w", roomID, err)
	}

	s.log.Info("Inventory opened",
		zap.String("room_id", roomID),
		zap.String("from", req.From),
		zap.String("to", req.To),
	)

	return response.InventoriesToResponse(nights), nil
}

func (s *inventoryService) UpdateInventory(ctx context.Context, roomID string, req *request.UpdateInventoryRequest) ([]response.InventoryResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.SurgeFactor == nil && req.Closed == nil && req.TotalCount == nil {
		return nil, newValidationError("SurgeFactor", "At least one of surge_factor, closed or total_count is required")
	}
	if req.SurgeFactor != nil {
		if err := checkSurgeFactor(*req.SurgeFactor); err != nil {
			return nil, err
		}
	}

	roomUUID, from, to, err := s.parseRange(roomID, &req.InventoryRangeRequest)
	if err != nil {
		return nil, err
	}

	var nights []*entity.Inventory
	err = s.retrier.do(ctx, "update_inventory", func() error {
		return s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
			room, err := s.ledger.room(ctx, tx, roomUUID)
			if err != nil {
				return err
			}
			if err := s.ledger.materialize(ctx, tx, room, from, to); err != nil {
				return err
			}

			locked, err := tx.Inventory.LockRange(ctx, roomUUID, from, to)
			if err != nil {
				return err
			}

			now := s.now()
			for _, inv := range locked {
				if req.TotalCount != nil {
					if *req.TotalCount < inv.BookedCount {
						return newValidationError("TotalCount",
							fmt.Sprintf("%s already has %d units booked", dateKey(inv.Date), inv.BookedCount))
					}
					inv.TotalCount = *req.TotalCount
				}
				if req.Closed != nil {
					inv.Closed = *req.Closed
				}
				if req.SurgeFactor != nil {
					inv.Reprice(room.BasePrice, *req.SurgeFactor, now)
				}
				inv.UpdatedAt = now

				if err := tx.Inventory.SaveSettings(ctx, inv); err != nil {
					return err
				}
			}

			nights = locked
			return nil
		})
	})
	if err != nil {
		s.log.Error("Failed to update inventory",
			zap.Error(err),
			zap.String("room_id", roomID),
		)
		return nil, fmt.Errorf("update inventory of room %s: %w", roomID, err)
	}

	s.log.Info("Inventory updated",
		zap.String("room_id", roomID),
		zap.String("from", req.From),
		zap.String("to", req.To),
		zap.Int("nights", len(nights)),
	)

	return response.InventoriesToResponse(nights), nil
}

func (s *inventoryService) Calendar(ctx context.Context, roomID string, req *request.InventoryRangeRequest) ([]response.InventoryResponse, error) {
	roomUUID, from, to, err := s.parseRange(roomID, req)
	if err != nil {
		return nil, err
	}

	room, err := s.ledger.room(ctx, s.repo, roomUUID)
	if err != nil {
		return nil, err
	}

	nights, err := s.ledger.read(ctx, s.repo, room, from, to)
	if err != nil {
		return nil, fmt.Errorf("read calendar of room %s: %w", roomID, err)
	}

	return response.InventoriesToResponse(nights), nil
}

func (s *inventoryService) parseRange(roomID string, req *request.InventoryRangeRequest) (uuid.UUID, time.Time, time.Time, error) {
	if err := validate(req); err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}

	roomUUID, err := parseID("room_id", roomID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}

	from, to, err := parseDates(req.From, req.To, "From", "To")
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	if len(utils.Nights(from, to)) > s.config.MaxNights {
		return uuid.Nil, time.Time{}, time.Time{}, newValidationError("To", fmt.Sprintf("Range is limited to %d nights", s.config.MaxNights))
	}

	return roomUUID, from, to, nil
}

// stayField names the request fields a stay was parsed from.
type stayField struct {
	in, out string
}

// parseStay parses a guest stay, which may not start in the past.
func parseStay(fields stayField, checkIn, checkOut string, maxNights int, now time.Time) (time.Time, time.Time, error) {
	from, to, err := parseDates(checkIn, checkOut, fields.in, fields.out)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from.Before(utils.DateOnly(now)) {
		return time.Time{}, time.Time{}, newValidationError(fields.in, "Must not be in the past")
	}
	if len(utils.Nights(from, to)) > maxNights {
		return time.Time{}, time.Time{}, newValidationError(fields.out, fmt.Sprintf("Stay is limited to %d nights", maxNights))
	}
	return from, to, nil
}

func parseDates(fromValue, toValue, fromField, toField string) (time.Time, time.Time, error) {
	from, err := utils.ParseDate(fromValue)
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError(fromField, err.Error())
	}
	to, err := utils.ParseDate(toValue)
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError(toField, err.Error())
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, newValidationError(toField, "Must be after the start date")
	}
	return from, to, nil
}

// checkSurgeFactor accepts what surge_factor NUMERIC(5,2) stores unchanged.
func checkSurgeFactor(surge decimal.Decimal) error {
	if !surge.Equal(surge.Round(2)) {
		return newValidationError("SurgeFactor", "At most 2 decimal places")
	}
	if !surge.IsPositive() || surge.GreaterThan(maxSurgeFactor) {
		return newValidationError("SurgeFactor", "Must be greater than 0 and at most 999.99")
	}
	return nil
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, newValidationError(field, "Must be a valid UUID")
	}
	return id, nil
}
