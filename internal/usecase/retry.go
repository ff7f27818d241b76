package usecase

import (
	"context"
	"time"

	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// retrier reruns a whole transaction after a lock timeout or a transient
// storage error. Any other error stops it immediately.
type retrier struct {
	maxRetries int
	baseDelay  time.Duration
	metrics    *metrics.Booking
	log        *zap.Logger
}

func (r *retrier) do(ctx context.Context, operation string, fn func() error) error {
	defer r.metrics.ObserveDuration(operation, time.Now())

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.baseDelay
	policy.MaxInterval = 20 * r.baseDelay
	policy.MaxElapsedTime = 0

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !repository.IsRetryable(err) {
			return backoff.Permanent(err)
		}

		r.metrics.Retry(operation)
		r.log.Warn("Retrying transaction",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(max(r.maxRetries, 0))), ctx))
}
