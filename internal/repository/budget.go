package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"agencydesk/internal/model"
)

const budgetColumns = `
        id, project_id, total_cents, paid_cents, currency, accepted,
        accepted_at, accepted_by, notes, sent_at, valid_until,
        created_at, updated_at, rev
`

func scanBudget(row pgx.Row) (*model.Budget, error) {
	var b model.Budget
	var currency string
	err := row.Scan(
		&b.ID,
		&b.ProjectID,
		&b.Total.Cents,
		&b.Paid.Cents,
		&currency,
		&b.Accepted,
		&b.AcceptedAt,
		&b.AcceptedBy,
		&b.Notes,
		&b.SentAt,
		&b.ValidUntil,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.Rev,
	)
	if err != nil {
		return nil, err
	}
	b.Total.Currency = currency
	b.Paid.Currency = currency
	return &b, nil
}

func (r *Postgres) InsertBudget(ctx context.Context, b *model.Budget) error {
	defer r.observe("insert", "budgets", time.Now())

	query := `
        INSERT INTO budgets (id, project_id, total_cents, paid_cents, currency, accepted,
            accepted_at, accepted_by, notes, sent_at, valid_until, created_at, updated_at, rev)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0)
    `
	_, err := r.db.Exec(ctx, query,
		b.ID,
		b.ProjectID,
		b.Total.Cents,
		b.Paid.Cents,
		b.Total.Currency,
		b.Accepted,
		b.AcceptedAt,
		b.AcceptedBy,
		b.Notes,
		b.SentAt,
		b.ValidUntil,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return insertErr(err, "project already has a budget", "project", b.ProjectID)
	}
	return nil
}

func (r *Postgres) GetBudget(ctx context.Context, id string) (*model.Budget, error) {
	defer r.observe("select", "budgets", time.Now())

	query := `SELECT` + budgetColumns + `FROM budgets WHERE id = $1`
	b, err := scanBudget(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "budget", id)
	}
	return b, nil
}

func (r *Postgres) GetBudgetByProject(ctx context.Context, projectID string) (*model.Budget, error) {
	defer r.observe("select", "budgets", time.Now())

	query := `SELECT` + budgetColumns + `FROM budgets WHERE project_id = $1`
	b, err := scanBudget(r.db.QueryRow(ctx, query, projectID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Postgres) UpdateBudget(ctx context.Context, b *model.Budget) error {
	defer r.observe("update", "budgets", time.Now())

	query := `
        UPDATE budgets
        SET total_cents = $1, paid_cents = $2, currency = $3, accepted = $4,
            accepted_at = $5, accepted_by = $6, notes = $7, sent_at = $8,
            valid_until = $9, updated_at = $10, rev = rev + 1
        WHERE id = $11 AND rev = $12
        RETURNING rev
    `
	err := r.db.QueryRow(ctx, query,
		b.Total.Cents,
		b.Paid.Cents,
		b.Total.Currency,
		b.Accepted,
		b.AcceptedAt,
		b.AcceptedBy,
		b.Notes,
		b.SentAt,
		b.ValidUntil,
		b.UpdatedAt,
		b.ID,
		b.Rev,
	).Scan(&b.Rev)
	if err == nil {
		return nil
	}
	return r.casOutcome(ctx, "budgets", "budget", b.ID)
}

func (r *Postgres) DeleteBudget(ctx context.Context, id string, rev int64) error {
	defer r.observe("delete", "budgets", time.Now())

	tag, err := r.db.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND rev = $2`, id, rev)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.casOutcome(ctx, "budgets", "budget", id)
	}
	return nil
}
