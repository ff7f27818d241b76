package usecase

import (
	"time"

	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/metrics"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Inventory InventoryService
	Booking   BookingService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Inventory: NewInventoryService(repo, config.Booking, time.Now, log),
		Booking:   NewBookingService(repo, config.Booking, time.Now, log),
	}
}

func newRetrier(config utils.BookingConfig, log *zap.Logger) *retrier {
	return &retrier{
		maxRetries: config.MaxRetries,
		baseDelay:  config.RetryBaseDelay,
		metrics:    metrics.BookingMetrics(),
		log:        log,
	}
}
