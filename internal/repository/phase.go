package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"agencydesk/internal/model"
)

const phaseColumns = `
        id, project_id, title, description, display_order, status, start_date,
        due_date, delivery_url, delivered_at, created_at, updated_at, rev
`

func scanPhase(row pgx.Row) (*model.Phase, error) {
	var p model.Phase
	err := row.Scan(
		&p.ID,
		&p.ProjectID,
		&p.Title,
		&p.Description,
		&p.Order,
		&p.Status,
		&p.StartDate,
		&p.DueDate,
		&p.DeliveryURL,
		&p.DeliveredAt,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Rev,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Postgres) InsertPhase(ctx context.Context, p *model.Phase) error {
	defer r.observe("insert", "phases", time.Now())

	query := `
        INSERT INTO phases (id, project_id, title, description, display_order, status,
            start_date, due_date, delivery_url, delivered_at, created_at, updated_at, rev)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0)
    `
	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.ProjectID,
		p.Title,
		p.Description,
		p.Order,
		p.Status,
		p.StartDate,
		p.DueDate,
		p.DeliveryURL,
		p.DeliveredAt,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return insertErr(err, "phase id already exists", "project", p.ProjectID)
	}
	return nil
}

func (r *Postgres) GetPhase(ctx context.Context, id string) (*model.Phase, error) {
	defer r.observe("select", "phases", time.Now())

	query := `SELECT` + phaseColumns + `FROM phases WHERE id = $1`
	p, err := scanPhase(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "phase", id)
	}
	return p, nil
}

// ListPhases orders by the display key; creation time breaks ties so the
// list never reshuffles arbitrarily.
func (r *Postgres) ListPhases(ctx context.Context, projectID string) ([]model.Phase, error) {
	defer r.observe("select", "phases", time.Now())

	query := `SELECT` + phaseColumns + `FROM phases WHERE project_id = $1 ORDER BY display_order ASC, created_at ASC`
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phases []model.Phase
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		phases = append(phases, *p)
	}
	return phases, rows.Err()
}

func (r *Postgres) UpdatePhase(ctx context.Context, p *model.Phase) error {
	defer r.observe("update", "phases", time.Now())

	query := `
        UPDATE phases
        SET title = $1, description = $2, display_order = $3, status = $4,
            start_date = $5, due_date = $6, delivery_url = $7, delivered_at = $8,
            updated_at = $9, rev = rev + 1
        WHERE id = $10 AND rev = $11
        RETURNING rev
    `
	err := r.db.QueryRow(ctx, query,
		p.Title,
		p.Description,
		p.Order,
		p.Status,
		p.StartDate,
		p.DueDate,
		p.DeliveryURL,
		p.DeliveredAt,
		p.UpdatedAt,
		p.ID,
		p.Rev,
	).Scan(&p.Rev)
	if err == nil {
		return nil
	}
	return r.casOutcome(ctx, "phases", "phase", p.ID)
}

// DeletePhase relies on ON DELETE CASCADE for the phase's deliveries.
func (r *Postgres) DeletePhase(ctx context.Context, id string, rev int64) error {
	defer r.observe("delete", "phases", time.Now())

	tag, err := r.db.Exec(ctx, `DELETE FROM phases WHERE id = $1 AND rev = $2`, id, rev)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.casOutcome(ctx, "phases", "phase", id)
	}
	return nil
}
