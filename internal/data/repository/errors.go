package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrLockTimeout means a row lock could not be taken in time. Safe to retry.
	ErrLockTimeout = errors.New("lock timeout")
	// ErrTransient covers serialization failures and dropped connections.
	ErrTransient = errors.New("transient storage error")
	// ErrDuplicate is a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
)

const (
	sqlStateLockNotAvailable     = "55P03"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateSerializationFailure = "40001"
	sqlStateUniqueViolation      = "23505"
)

// MapError tags driver errors with the sentinel the service layer retries on.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateLockNotAvailable, sqlStateDeadlockDetected:
			return fmt.Errorf("%w: %s", ErrLockTimeout, pgErr.Message)
		case sqlStateSerializationFailure:
			return fmt.Errorf("%w: %s", ErrTransient, pgErr.Message)
		case sqlStateUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		}
		return err
	}

	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}

	return err
}

// IsRetryable reports whether the whole transaction may be attempted again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout) || errors.Is(err, ErrTransient)
}
