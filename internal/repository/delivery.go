package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"agencydesk/internal/model"
)

const deliveryColumns = `
        id, phase_id, title, description, file_url, version, status, created_at, updated_at, rev
`

func scanDelivery(row pgx.Row) (*model.Delivery, error) {
	var d model.Delivery
	err := row.Scan(
		&d.ID,
		&d.PhaseID,
		&d.Title,
		&d.Description,
		&d.FileURL,
		&d.Version,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.Rev,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Postgres) InsertDelivery(ctx context.Context, d *model.Delivery) error {
	defer r.observe("insert", "deliveries", time.Now())

	query := `
        INSERT INTO deliveries (id, phase_id, title, description, file_url, version, status, created_at, updated_at, rev)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0)
    `
	_, err := r.db.Exec(ctx, query,
		d.ID,
		d.PhaseID,
		d.Title,
		d.Description,
		d.FileURL,
		d.Version,
		d.Status,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return insertErr(err, "delivery id already exists", "phase", d.PhaseID)
	}
	return nil
}

func (r *Postgres) GetDelivery(ctx context.Context, id string) (*model.Delivery, error) {
	defer r.observe("select", "deliveries", time.Now())

	query := `SELECT` + deliveryColumns + `FROM deliveries WHERE id = $1`
	d, err := scanDelivery(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "delivery", id)
	}
	return d, nil
}

// listDeliveriesByProject loads every delivery under the project in one
// round trip, grouped by owning phase, oldest first within each phase.
func (r *Postgres) listDeliveriesByProject(ctx context.Context, projectID string) (map[string][]model.Delivery, error) {
	defer r.observe("select", "deliveries", time.Now())

	query := `
        SELECT` + deliveryColumns + `
        FROM deliveries
        WHERE phase_id IN (SELECT id FROM phases WHERE project_id = $1)
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byPhase := make(map[string][]model.Delivery)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		byPhase[d.PhaseID] = append(byPhase[d.PhaseID], *d)
	}
	return byPhase, rows.Err()
}

func (r *Postgres) UpdateDelivery(ctx context.Context, d *model.Delivery) error {
	defer r.observe("update", "deliveries", time.Now())

	query := `
        UPDATE deliveries
        SET title = $1, description = $2, file_url = $3, version = $4, status = $5, updated_at = $6, rev = rev + 1
        WHERE id = $7 AND rev = $8
        RETURNING rev
    `
	err := r.db.QueryRow(ctx, query,
		d.Title,
		d.Description,
		d.FileURL,
		d.Version,
		d.Status,
		d.UpdatedAt,
		d.ID,
		d.Rev,
	).Scan(&d.Rev)
	if err == nil {
		return nil
	}
	return r.casOutcome(ctx, "deliveries", "delivery", d.ID)
}

func (r *Postgres) DeleteDelivery(ctx context.Context, id string, rev int64) error {
	defer r.observe("delete", "deliveries", time.Now())

	tag, err := r.db.Exec(ctx, `DELETE FROM deliveries WHERE id = $1 AND rev = $2`, id, rev)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.casOutcome(ctx, "deliveries", "delivery", id)
	}
	return nil
}
