package repository

import (
	"context"
	"time"

	"agencydesk/internal/model"
)

func (r *Postgres) InsertProject(ctx context.Context, p *model.Project) error {
	defer r.observe("insert", "projects", time.Now())

	query := `
        INSERT INTO projects (id, name, description, status, client_id, start_date, due_date, created_at, updated_at, rev)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0)
    `
	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Status,
		p.ClientID,
		p.StartDate,
		p.DueDate,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return insertErr(err, "project id already exists", "project", p.ID)
	}
	return nil
}

func (r *Postgres) GetProject(ctx context.Context, id string) (*model.Project, error) {
	defer r.observe("select", "projects", time.Now())

	query := `
        SELECT id, name, description, status, client_id, start_date, due_date, created_at, updated_at, rev
        FROM projects
        WHERE id = $1
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.ClientID,
		&p.StartDate,
		&p.DueDate,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Rev,
	)
	if err != nil {
		return nil, notFound(err, "project", id)
	}
	return &p, nil
}

func (r *Postgres) UpdateProject(ctx context.Context, p *model.Project) error {
	defer r.observe("update", "projects", time.Now())

	query := `
        UPDATE projects
        SET name = $1, description = $2, status = $3, start_date = $4, due_date = $5, updated_at = $6, rev = rev + 1
        WHERE id = $7 AND rev = $8
        RETURNING rev
    `
	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.Description,
		p.Status,
		p.StartDate,
		p.DueDate,
		p.UpdatedAt,
		p.ID,
		p.Rev,
	).Scan(&p.Rev)
	if err == nil {
		return nil
	}
	return r.casOutcome(ctx, "projects", "project", p.ID)
}

// GetAggregate assembles the full project tree: requirements, budget,
// phases ordered by their display key with deliveries nested, and
// invoices most recent first.
func (r *Postgres) GetAggregate(ctx context.Context, projectID string) (*model.Aggregate, error) {
	defer r.observe("select", "aggregate", time.Now())

	p, err := r.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	agg := &model.Aggregate{Project: *p, Phases: []model.PhaseNode{}, Invoices: []model.Invoice{}}

	req, err := r.GetRequirementsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	agg.Requirements = req

	budget, err := r.GetBudgetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	agg.Budget = budget

	phases, err := r.ListPhases(ctx, projectID)
	if err != nil {
		return nil, err
	}
	byPhase, err := r.listDeliveriesByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, ph := range phases {
		node := model.PhaseNode{Phase: ph, Deliveries: []model.Delivery{}}
		node.Deliveries = append(node.Deliveries, byPhase[ph.ID]...)
		agg.Phases = append(agg.Phases, node)
	}

	invoices, err := r.listInvoicesByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	agg.Invoices = append(agg.Invoices, invoices...)

	return agg, nil
}
