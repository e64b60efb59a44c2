// Package repository is the PostgreSQL implementation of the aggregate
// store. Revision checks ride on every UPDATE/DELETE so two racing
// mutations on the same row serialize: the loser sees zero rows affected
// and surfaces store.ErrStaleRev for the service to re-evaluate.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"agencydesk/internal/apperr"
	"agencydesk/internal/store"
	"agencydesk/pkg/metrics"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Postgres struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

var _ store.AggregateStore = (*Postgres)(nil)

func NewPostgres(db *pgxpool.Pool, logger *zap.Logger) *Postgres {
	return &Postgres{db: db, logger: logger}
}

func (r *Postgres) observe(operation, table string, start time.Time) {
	metrics.RecordDBQueryDuration(operation, table, time.Since(start))
}

// notFound maps pgx.ErrNoRows onto the taxonomy.
func notFound(err error, kind, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &apperr.NotFoundError{Kind: kind, ID: id}
	}
	return err
}

// insertErr maps constraint violations: unique -> conflict,
// foreign key -> missing parent.
func insertErr(err error, conflictReason, parentKind, parentID string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &apperr.ConflictError{Reason: conflictReason}
		case pgForeignKeyViolation:
			return &apperr.NotFoundError{Kind: parentKind, ID: parentID}
		}
	}
	return err
}

// casOutcome resolves a zero-row UPDATE/DELETE: the row is either gone or
// carries a newer revision.
func (r *Postgres) casOutcome(ctx context.Context, table, kind, id string) error {
	var one int
	err := r.db.QueryRow(ctx, `SELECT 1 FROM `+table+` WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return &apperr.NotFoundError{Kind: kind, ID: id}
	}
	if err != nil {
		return err
	}
	return store.ErrStaleRev
}
