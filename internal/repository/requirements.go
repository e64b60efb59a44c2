package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"agencydesk/internal/model"
)

const requirementsColumns = `
        id, project_id, needs_logo, has_design, design_by_us, needs_copy,
        has_domain, has_hosting, needs_seo, needs_analytics, needs_maintenance,
        has_brand_manual, notes, reference_sites, created_at, updated_at, rev
`

func scanRequirements(row pgx.Row) (*model.Requirements, error) {
	var req model.Requirements
	err := row.Scan(
		&req.ID,
		&req.ProjectID,
		&req.NeedsLogo,
		&req.HasDesign,
		&req.DesignByUs,
		&req.NeedsCopy,
		&req.HasDomain,
		&req.HasHosting,
		&req.NeedsSEO,
		&req.NeedsAnalytics,
		&req.NeedsMaintenance,
		&req.HasBrandManual,
		&req.Notes,
		&req.ReferenceSites,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.Rev,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Postgres) InsertRequirements(ctx context.Context, req *model.Requirements) error {
	defer r.observe("insert", "requirements", time.Now())

	query := `
        INSERT INTO requirements (id, project_id, needs_logo, has_design, design_by_us, needs_copy,
            has_domain, has_hosting, needs_seo, needs_analytics, needs_maintenance,
            has_brand_manual, notes, reference_sites, created_at, updated_at, rev)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 0)
    `
	_, err := r.db.Exec(ctx, query,
		req.ID,
		req.ProjectID,
		req.NeedsLogo,
		req.HasDesign,
		req.DesignByUs,
		req.NeedsCopy,
		req.HasDomain,
		req.HasHosting,
		req.NeedsSEO,
		req.NeedsAnalytics,
		req.NeedsMaintenance,
		req.HasBrandManual,
		req.Notes,
		req.ReferenceSites,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return insertErr(err, "project already has a requirements record", "project", req.ProjectID)
	}
	return nil
}

func (r *Postgres) GetRequirements(ctx context.Context, id string) (*model.Requirements, error) {
	defer r.observe("select", "requirements", time.Now())

	query := `SELECT` + requirementsColumns + `FROM requirements WHERE id = $1`
	req, err := scanRequirements(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "requirements", id)
	}
	return req, nil
}

func (r *Postgres) GetRequirementsByProject(ctx context.Context, projectID string) (*model.Requirements, error) {
	defer r.observe("select", "requirements", time.Now())

	query := `SELECT` + requirementsColumns + `FROM requirements WHERE project_id = $1`
	req, err := scanRequirements(r.db.QueryRow(ctx, query, projectID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *Postgres) UpdateRequirements(ctx context.Context, req *model.Requirements) error {
	defer r.observe("update", "requirements", time.Now())

	query := `
        UPDATE requirements
        SET needs_logo = $1, has_design = $2, design_by_us = $3, needs_copy = $4,
            has_domain = $5, has_hosting = $6, needs_seo = $7, needs_analytics = $8,
            needs_maintenance = $9, has_brand_manual = $10, notes = $11,
            reference_sites = $12, updated_at = $13, rev = rev + 1
        WHERE id = $14 AND rev = $15
        RETURNING rev
    `
	err := r.db.QueryRow(ctx, query,
		req.NeedsLogo,
		req.HasDesign,
		req.DesignByUs,
		req.NeedsCopy,
		req.HasDomain,
		req.HasHosting,
		req.NeedsSEO,
		req.NeedsAnalytics,
		req.NeedsMaintenance,
		req.HasBrandManual,
		req.Notes,
		req.ReferenceSites,
		req.UpdatedAt,
		req.ID,
		req.Rev,
	).Scan(&req.Rev)
	if err == nil {
		return nil
	}
	return r.casOutcome(ctx, "requirements", "requirements", req.ID)
}
