package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"agencydesk/internal/apperr"
	"agencydesk/internal/model"
)

const invoiceColumns = `
        id, project_id, phase_id, number, amount_cents, currency, status,
        issued_at, due_at, paid_at, notes, created_at, updated_at, rev
`

func scanInvoice(row pgx.Row) (*model.Invoice, error) {
	var inv model.Invoice
	err := row.Scan(
		&inv.ID,
		&inv.ProjectID,
		&inv.PhaseID,
		&inv.Number,
		&inv.Amount.Cents,
		&inv.Amount.Currency,
		&inv.Status,
		&inv.IssuedAt,
		&inv.DueAt,
		&inv.PaidAt,
		&inv.Notes,
		&inv.CreatedAt,
		&inv.UpdatedAt,
		&inv.Rev,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Postgres) InsertInvoice(ctx context.Context, inv *model.Invoice) error {
	defer r.observe("insert", "invoices", time.Now())

	if inv.PhaseID != nil {
		ph, err := r.GetPhase(ctx, *inv.PhaseID)
		if err != nil {
			return err
		}
		if ph.ProjectID != inv.ProjectID {
			return &apperr.ConflictError{Reason: "phase belongs to a different project"}
		}
	}

	query := `
        INSERT INTO invoices (id, project_id, phase_id, number, amount_cents, currency, status,
            issued_at, due_at, paid_at, notes, created_at, updated_at, rev)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0)
    `
	_, err := r.db.Exec(ctx, query,
		inv.ID,
		inv.ProjectID,
		inv.PhaseID,
		inv.Number,
		inv.Amount.Cents,
		inv.Amount.Currency,
		inv.Status,
		inv.IssuedAt,
		inv.DueAt,
		inv.PaidAt,
		inv.Notes,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		return insertErr(err, "invoice id already exists", "project", inv.ProjectID)
	}
	return nil
}

func (r *Postgres) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	defer r.observe("select", "invoices", time.Now())

	query := `SELECT` + invoiceColumns + `FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "invoice", id)
	}
	return inv, nil
}

func (r *Postgres) listInvoicesByProject(ctx context.Context, projectID string) ([]model.Invoice, error) {
	defer r.observe("select", "invoices", time.Now())

	query := `SELECT` + invoiceColumns + `FROM invoices WHERE project_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (r *Postgres) UpdateInvoice(ctx context.Context, inv *model.Invoice) error {
	defer r.observe("update", "invoices", time.Now())

	query := `
        UPDATE invoices
        SET number = $1, amount_cents = $2, currency = $3, status = $4,
            issued_at = $5, due_at = $6, paid_at = $7, notes = $8,
            updated_at = $9, rev = rev + 1
        WHERE id = $10 AND rev = $11
        RETURNING rev
    `
	err := r.db.QueryRow(ctx, query,
		inv.Number,
		inv.Amount.Cents,
		inv.Amount.Currency,
		inv.Status,
		inv.IssuedAt,
		inv.DueAt,
		inv.PaidAt,
		inv.Notes,
		inv.UpdatedAt,
		inv.ID,
		inv.Rev,
	).Scan(&inv.Rev)
	if err == nil {
		return nil
	}
	return r.casOutcome(ctx, "invoices", "invoice", inv.ID)
}

func (r *Postgres) DeleteInvoice(ctx context.Context, id string, rev int64) error {
	defer r.observe("delete", "invoices", time.Now())

	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND rev = $2`, id, rev)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.casOutcome(ctx, "invoices", "invoice", id)
	}
	return nil
}
