package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      error
		retryable bool
	}{
		{"lock not available", &pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"}, ErrLockTimeout, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, ErrLockTimeout, true},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, ErrTransient, true},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "bookings_idempotency_key_key"}, ErrDuplicate, false},
		{"wrapped", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "55P03"}), ErrLockTimeout, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			require.ErrorIs(t, got, tt.want)
			require.Equal(t, tt.retryable, IsRetryable(got))
		})
	}
}

func TestMapError_PassesThrough(t *testing.T) {
	require.NoError(t, MapError(nil))

	check := &pgconn.PgError{Code: "23514"}
	require.Same(t, check, MapError(check))

	plain := errors.New("boom")
	require.Equal(t, plain, MapError(plain))
	require.False(t, IsRetryable(plain))
}
