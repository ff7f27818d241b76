package repository

import (
	"context"
	"testing"

	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

// recordingQuerier answers every QueryRow with row and records the arguments.
type recordingQuerier struct {
	database.Querier
	row  pgx.Row
	args [][]any
}

func (q *recordingQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	q.args = append(q.args, args)
	return q.row
}

func TestFindValidSession_MalformedTokenIsUnknown(t *testing.T) {
	q := &recordingQuerier{row: rowFunc(func(...any) error { return pgx.ErrNoRows })}
	repo := NewSessionRepository(q, zap.NewNop())

	for _, token := range []string{"not-a-uuid", "", "12345"} {
		session, err := repo.FindValidSession(t.Context(), token)
		require.NoError(t, err, token)
		require.Nil(t, session, token)
	}
	require.Empty(t, q.args)

	token := uuid.New()
	session, err := repo.FindValidSession(t.Context(), token.String())
	require.NoError(t, err)
	require.Nil(t, session)
	require.Equal(t, [][]any{{token}}, q.args)
}
