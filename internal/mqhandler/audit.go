// Package mqhandler holds the worker-side consumers of aggregate events.
package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"agencydesk/internal/mq"
	"agencydesk/internal/repository"
	"agencydesk/internal/util"
)

// AuditHandler appends every aggregate event to the audit log. Redis
// dedup plus the ON CONFLICT insert keep redeliveries from producing
// duplicate rows.
type AuditHandler struct {
	audit   *repository.Audit
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewAuditHandler(audit *repository.Audit, deduper *util.Deduper, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{audit: audit, deduper: deduper, logger: logger}
}

func (h *AuditHandler) Handle(ctx context.Context, routingKey string, data json.RawMessage) error {
	var ev mq.AggregateEventPayload
	if err := json.Unmarshal(data, &ev); err != nil {
		// A malformed body never becomes valid on redelivery; log and ack.
		h.logger.Error("invalid event payload",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		return nil
	}

	if ev.EventID != "" && !h.deduper.AcquireOnce(ctx, "audit", ev.EventID) {
		h.logger.Debug("duplicate event skipped", zap.String("event_id", ev.EventID))
		return nil
	}

	if err := h.audit.Record(ctx, ev.EventID, &ev); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	h.logger.Info("audit entry recorded",
		zap.String("entity", ev.Entity),
		zap.String("verb", ev.Verb),
		zap.String("project_id", ev.ProjectID),
		zap.String("entity_id", ev.EntityID),
	)
	return nil
}
