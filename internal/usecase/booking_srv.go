package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/metrics"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// sweepBatch bounds how many bookings one sweep handles.
const sweepBatch = 100

type BookingService interface {
	// Customer endpoints
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelBooking(ctx context.Context, bookingID string) error

	// Payment gateway
	OnPaymentStatusChanged(ctx context.Context, bookingID string, status entity.PaymentStatus, transactionID *string) error

	// Sweeps, run by the worker
	ExpirePayments(ctx context.Context) (int, error)
	CompleteStays(ctx context.Context) (int, error)
}

type bookingService struct {
	repo    *repository.Repository
	config  utils.BookingConfig
	ledger  *ledger
	retrier *retrier
	metrics *metrics.Booking
	now     func() time.Time
	log     *zap.Logger
}

func NewBookingService(repo *repository.Repository, config utils.BookingConfig, now func() time.Time, log *zap.Logger) BookingService {
	log = log.With(zap.String("service", "booking"))
	return &bookingService{
		repo:    repo,
		config:  config,
		ledger:  &ledger{lazy: config.LazyMaterialize, now: now, log: log},
		retrier: newRetrier(config, log),
		metrics: metrics.BookingMetrics(),
		now:     now,
		log:     log,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	userUUID, err := parseID("user_id", userID)
	if err != nil {
		return nil, err
	}

	roomID, err := parseID("RoomID", req.RoomID)
	if err != nil {
		return nil, err
	}

	if req.RoomCount > s.config.MaxUnitsPerStay {
		return nil, newValidationError("RoomCount", fmt.Sprintf("Maximum is %d", s.config.MaxUnitsPerStay))
	}

	checkIn, checkOut, err := parseStay(stayField{"CheckInDate", "CheckOutDate"}, req.CheckInDate, req.CheckOutDate, s.config.MaxNights, s.now())
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		existing, err := s.replay(ctx, userUUID, req.IdempotencyKey)
		if err != nil || existing != nil {
			return existing, err
		}
	}

	room, err := s.ledger.room(ctx, s.repo, roomID)
	if err != nil {
		return nil, err
	}

	guestIDs, err := s.checkGuests(ctx, userUUID, room, req)
	if err != nil {
		return nil, err
	}

	var (
		booking *entity.Booking
		payment *entity.Payment
	)
	err = s.retrier.do(ctx, "reserve", func() error {
		return s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
			total, err := s.ledger.reserve(ctx, tx, room, checkIn, checkOut, req.RoomCount)
			if err != nil {
				return err
			}

			booking, payment = s.newBooking(userUUID, room, checkIn, checkOut, req, guestIDs, total)
			if err := tx.Booking.Create(ctx, booking); err != nil {
				return err
			}
			return tx.Payment.Create(ctx, payment)
		})
	})
	if err != nil {
		return s.reserveFailed(ctx, userUUID, req, err)
	}

	s.metrics.Reservation(metrics.OutcomeReserved)
	s.metrics.Transition(string(entity.BookingStatusCreated), string(booking.Status))
	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID),
		zap.String("room_id", req.RoomID),
		zap.String("check_in", req.CheckInDate),
		zap.String("check_out", req.CheckOutDate),
		zap.Int("room_count", req.RoomCount),
		zap.String("total_price", booking.TotalPrice.String()),
	)

	return response.BookingToResponse(booking, payment), nil
}

func (s *bookingService) reserveFailed(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest, err error) (*response.BookingResponse, error) {
	var capacityErr *CapacityError
	switch {
	case errors.As(err, &capacityErr):
		s.metrics.Reservation(metrics.OutcomeInsufficient)
		s.log.Info("Reservation rejected",
			zap.String("room_id", req.RoomID),
			zap.String("date", dateKey(capacityErr.Date)),
			zap.String("reason", string(capacityErr.Reason)),
		)
		return nil, err

	case errors.Is(err, repository.ErrDuplicate) && req.IdempotencyKey != "":
		// a concurrent request with the same key won
		existing, replayErr := s.replay(ctx, userID, req.IdempotencyKey)
		if replayErr == nil && existing != nil {
			return existing, nil
		}
	}

	s.metrics.Reservation(metrics.OutcomeFailed)
	s.log.Error("Failed to create booking",
		zap.Error(err),
		zap.String("user_id", userID.String()),
		zap.String("room_id", req.RoomID),
	)
	return nil, fmt.Errorf("create booking: %w", err)
}

// replay returns the booking created earlier with the same idempotency key.
func (s *bookingService) replay(ctx context.Context, userID uuid.UUID, key string) (*response.BookingResponse, error) {
	existing, err := s.repo.Booking.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find booking by idempotency key: %w", err)
	}
	if existing == nil {
		return nil, nil
	}
	if existing.UserID != userID {
		return nil, newValidationError("IdempotencyKey", "Already used")
	}

	payment, err := s.repo.Payment.FindByBookingID(ctx, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("find payment of booking %s: %w", existing.ID.String(), err)
	}

	s.metrics.Reservation(metrics.OutcomeReplayed)
	s.log.Info("Booking replayed", zap.String("booking_id", existing.ID.String()))
	return response.BookingToResponse(existing, payment), nil
}

// checkGuests verifies the guests belong to the user and fit the booked units.
func (s *bookingService) checkGuests(ctx context.Context, userID uuid.UUID, room *entity.Room, req *request.CreateBookingRequest) ([]uuid.UUID, error) {
	if len(req.GuestIDs) > room.Capacity*req.RoomCount {
		return nil, newValidationError("GuestIDs",
			fmt.Sprintf("%d units of this room hold at most %d guests", req.RoomCount, room.Capacity*req.RoomCount))
	}

	ids := make([]uuid.UUID, 0, len(req.GuestIDs))
	seen := make(map[uuid.UUID]bool, len(req.GuestIDs))
	for _, raw := range req.GuestIDs {
		id := uuid.MustParse(raw) // validated by the uuid tag
		if seen[id] {
			return nil, newValidationError("GuestIDs", "Must not contain duplicates")
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	guests, err := s.repo.Guest.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find guests: %w", err)
	}
	if len(guests) != len(ids) {
		return nil, newValidationError("GuestIDs", "Unknown guest")
	}
	for _, guest := range guests {
		if guest.UserID != userID {
			return nil, newValidationError("GuestIDs", "Unknown guest")
		}
	}

	return ids, nil
}

func (s *bookingService) newBooking(userID uuid.UUID, room *entity.Room, checkIn, checkOut time.Time,
	req *request.CreateBookingRequest, guestIDs []uuid.UUID, total decimal.Decimal) (*entity.Booking, *entity.Payment) {
	now := s.now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RoomID:       room.ID,
		HotelID:      room.HotelID,
		UserID:       userID,
		RoomCount:    req.RoomCount,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		TotalPrice:   total,
		// stored only once the reservation commits, so never as Created
		Status:   entity.BookingStatusPaymentPending,
		GuestIDs: guestIDs,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		booking.IdempotencyKey = &key
	}

	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:     booking.ID,
		TransactionID: utils.GeneratePaymentReference(now),
		Status:        entity.PaymentStatusPending,
		Amount:        total,
	}
	booking.PaymentID = &payment.ID

	return booking, payment
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	payment, err := s.repo.Payment.FindByBookingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment of booking %s: %w", bookingID, err)
	}

	return response.BookingToResponse(booking, payment), nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := parseID("user_id", userID)
	if err != nil {
		return nil, err
	}

	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, limit, offset)
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("get bookings of user %s: %w", userID, err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count bookings of user %s: %w", userID, err)
	}

	data := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		data = append(data, *response.BookingToResponse(booking, nil))
	}

	return response.NewPaginatedResponse(data, max(req.Page, 1), limit, total), nil
}

// CancelBooking releases a confirmed booking before the cancellation cutoff.
// Cancelling an already cancelled or failed booking succeeds without change.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) error {
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return err
	}

	var from entity.BookingStatus
	err = s.retrier.do(ctx, "release", func() error {
		return s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
			booking, err := s.lockBooking(ctx, tx, id)
			if err != nil {
				return err
			}

			from = booking.Status
			if booking.Status == entity.BookingStatusCancelled || booking.Status == entity.BookingStatusFailed {
				return nil
			}
			if !booking.Status.CanTransition(entity.BookingStatusCancelled) {
				return invalidState(booking, "cancel")
			}

			deadline := booking.CheckInDate.Add(-s.config.CancelCutoff)
			if !s.now().Before(deadline) {
				return fmt.Errorf("%w: cancellation of booking %s closed at %s",
					ErrInvalidState, bookingID, deadline.Format(time.RFC3339))
			}

			return s.releaseBooking(ctx, tx, booking, entity.BookingStatusCancelled)
		})
	})
	if err != nil {
		s.log.Warn("Failed to cancel booking", zap.Error(err), zap.String("booking_id", bookingID))
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	if from.HoldsInventory() {
		s.log.Info("Booking cancelled", zap.String("booking_id", bookingID))
	}
	return nil
}

// OnPaymentStatusChanged applies a gateway event. Events that do not map to
// a transition of the booking's current status are logged and ignored.
func (s *bookingService) OnPaymentStatusChanged(ctx context.Context, bookingID string, status entity.PaymentStatus, transactionID *string) error {
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return err
	}

	var target entity.BookingStatus
	switch status {
	case entity.PaymentStatusSucceeded:
		target = entity.BookingStatusConfirmed
	case entity.PaymentStatusFailed:
		target = entity.BookingStatusFailed
	case entity.PaymentStatusPending:
		s.log.Debug("Payment still pending", zap.String("booking_id", bookingID))
		return nil
	default:
		s.log.Warn("Ignoring unknown payment status",
			zap.String("booking_id", bookingID),
			zap.String("status", string(status)),
		)
		return nil
	}

	return s.retrier.do(ctx, "payment_event", func() error {
		return s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
			booking, err := s.lockBooking(ctx, tx, id)
			if err != nil {
				return err
			}
			if booking.Status == target {
				return nil
			}
			if !booking.Status.CanTransition(target) {
				s.log.Warn("Ignoring payment event for booking state",
					zap.String("booking_id", bookingID),
					zap.String("booking_status", string(booking.Status)),
					zap.String("payment_status", string(status)),
				)
				return nil
			}

			payment, err := tx.Payment.FindByBookingID(ctx, id)
			if err != nil {
				return err
			}
			if payment != nil {
				if err := tx.Payment.UpdateStatus(ctx, payment.ID, status, transactionID, s.now()); err != nil {
					return err
				}
			}

			if target == entity.BookingStatusFailed {
				return s.releaseBooking(ctx, tx, booking, target)
			}
			return s.transition(ctx, tx, booking, target)
		})
	})
}

// ExpirePayments fails bookings whose payment did not arrive in time.
func (s *bookingService) ExpirePayments(ctx context.Context) (int, error) {
	before := s.now().Add(-s.config.PaymentTimeout)
	stale, err := s.repo.Booking.FindPendingCreatedBefore(ctx, before, sweepBatch)
	if err != nil {
		return 0, fmt.Errorf("find expired payments: %w", err)
	}

	expired := 0
	var errs []error
	for _, candidate := range stale {
		released := false
		err := s.retrier.do(ctx, "release", func() error {
			released = false
			return s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
				booking, err := s.lockBooking(ctx, tx, candidate.ID)
				if err != nil {
					return err
				}
				// paid while we were looking
				if booking.Status != entity.BookingStatusPaymentPending {
					return nil
				}

				payment, err := tx.Payment.FindByBookingID(ctx, booking.ID)
				if err != nil {
					return err
				}
				if payment != nil {
					if err := tx.Payment.UpdateStatus(ctx, payment.ID, entity.PaymentStatusFailed, nil, s.now()); err != nil {
						return err
					}
				}

				released = true
				return s.releaseBooking(ctx, tx, booking, entity.BookingStatusFailed)
			})
		})
		if err != nil {
			s.log.Error("Failed to expire booking", zap.Error(err), zap.String("booking_id", candidate.ID.String()))
			errs = append(errs, err)
			continue
		}
		if released {
			expired++
		}
	}

	if expired > 0 {
		s.log.Info("Expired unpaid bookings", zap.Int("count", expired))
	}
	return expired, errors.Join(errs...)
}

// CompleteStays marks confirmed bookings whose stay has ended. Their nights
// stay consumed.
func (s *bookingService) CompleteStays(ctx context.Context) (int, error) {
	today := utils.DateOnly(s.now())
	finished, err := s.repo.Booking.FindConfirmedCheckedOutBy(ctx, today, sweepBatch)
	if err != nil {
		return 0, fmt.Errorf("find finished stays: %w", err)
	}

	completed := 0
	var errs []error
	for _, candidate := range finished {
		done := false
		err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
			booking, err := s.lockBooking(ctx, tx, candidate.ID)
			if err != nil {
				return err
			}
			if booking.Status != entity.BookingStatusConfirmed {
				return nil
			}
			done = true
			return s.transition(ctx, tx, booking, entity.BookingStatusCompleted)
		})
		if err != nil {
			s.log.Error("Failed to complete stay", zap.Error(err), zap.String("booking_id", candidate.ID.String()))
			errs = append(errs, err)
			continue
		}
		if done {
			completed++
		}
	}

	if completed > 0 {
		s.log.Info("Completed stays", zap.Int("count", completed))
	}
	return completed, errors.Join(errs...)
}

func (s *bookingService) lockBooking(ctx context.Context, tx *repository.Repository, id uuid.UUID) (*entity.Booking, error) {
	booking, err := tx.Booking.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", id.String(), ErrNotFound)
	}
	return booking, nil
}

// releaseBooking returns the booking's units and moves it to a terminal
// status in the caller's transaction.
func (s *bookingService) releaseBooking(ctx context.Context, tx *repository.Repository, booking *entity.Booking, to entity.BookingStatus) error {
	if !booking.Status.HoldsInventory() {
		return invalidState(booking, "release")
	}
	if err := s.ledger.release(ctx, tx, booking); err != nil {
		return err
	}
	if err := s.transition(ctx, tx, booking, to); err != nil {
		return err
	}
	s.metrics.Release(string(to))
	return nil
}

func (s *bookingService) transition(ctx context.Context, tx *repository.Repository, booking *entity.Booking, to entity.BookingStatus) error {
	from := booking.Status
	if !from.CanTransition(to) {
		return invalidState(booking, "move to "+string(to))
	}
	if err := tx.Booking.UpdateStatus(ctx, booking.ID, to, s.now()); err != nil {
		return err
	}
	booking.Status = to
	s.metrics.Transition(string(from), string(to))
	return nil
}
