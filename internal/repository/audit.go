package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"agencydesk/internal/mq"
	"agencydesk/pkg/metrics"
)

// Audit appends mutation events to the audit log. Rows are write-only
// from the application's point of view.
type Audit struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAudit(db *pgxpool.Pool, logger *zap.Logger) *Audit {
	return &Audit{db: db, logger: logger}
}

func (a *Audit) Record(ctx context.Context, eventID string, ev *mq.AggregateEventPayload) error {
	defer func(start time.Time) {
		metrics.RecordDBQueryDuration("insert", "audit_log", time.Since(start))
	}(time.Now())

	query := `
        INSERT INTO audit_log (id, entity, verb, project_id, entity_id, actor_id, actor_role, occurred_at, recorded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO NOTHING
    `
	_, err := a.db.Exec(ctx, query,
		eventID,
		ev.Entity,
		ev.Verb,
		ev.ProjectID,
		ev.EntityID,
		ev.ActorID,
		ev.ActorRole,
		ev.OccurredAt,
		time.Now().UTC(),
	)
	return err
}
