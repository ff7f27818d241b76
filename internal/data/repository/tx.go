package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type pgTransactor struct {
	db          database.PgxIface
	lockTimeout time.Duration
	log         *zap.Logger
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(tx *Repository) error) (err error) {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", MapError(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.Background())
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				t.log.Error("Failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	if t.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", t.lockTimeout.Milliseconds())
		if _, err = tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, timeout); err != nil {
			return fmt.Errorf("set lock timeout: %w", MapError(err))
		}
	}

	repos := newRepositorySet(tx, t.log)
	repos.Tx = flatTransactor{repos: repos}

	if err = fn(repos); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", MapError(err))
	}

	return nil
}

// flatTransactor joins the surrounding transaction instead of nesting.
type flatTransactor struct {
	repos *Repository
}

func (f flatTransactor) WithinTx(_ context.Context, fn func(tx *Repository) error) error {
	return fn(f.repos)
}
