package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_RunOnceContinuesAfterFailure(t *testing.T) {
	var order []string
	jobs := []Job{
		{Name: "broken", Run: func(context.Context) (int, error) {
			order = append(order, "broken")
			return 0, errors.New("boom")
		}},
		{Name: "healthy", Run: func(context.Context) (int, error) {
			order = append(order, "healthy")
			return 2, nil
		}},
	}

	NewScheduler(time.Minute, zap.NewNop(), jobs...).RunOnce(t.Context())
	require.Equal(t, []string{"broken", "healthy"}, order)
}

func TestScheduler_RunUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	job := Job{Name: "tick", Run: func(context.Context) (int, error) {
		runs.Add(1)
		return 0, nil
	}}

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- NewScheduler(5*time.Millisecond, zap.NewNop(), job).Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
