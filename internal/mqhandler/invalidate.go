package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"agencydesk/internal/cache"
	"agencydesk/internal/mq"
)

// InvalidateHandler drops the cached aggregate snapshot for the project an
// event touched. The API already invalidates on its own writes; this
// covers mutations applied by other instances sharing the cache.
type InvalidateHandler struct {
	snapshots *cache.Snapshot
	logger    *zap.Logger
}

func NewInvalidateHandler(snapshots *cache.Snapshot, logger *zap.Logger) *InvalidateHandler {
	return &InvalidateHandler{snapshots: snapshots, logger: logger}
}

func (h *InvalidateHandler) Handle(ctx context.Context, routingKey string, data json.RawMessage) error {
	var ev mq.AggregateEventPayload
	if err := json.Unmarshal(data, &ev); err != nil {
		h.logger.Error("invalid event payload",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		return nil
	}
	if ev.ProjectID == "" {
		return nil
	}

	h.snapshots.Invalidate(ctx, ev.ProjectID)
	h.logger.Debug("snapshot invalidated",
		zap.String("project_id", ev.ProjectID),
		zap.String("routing_key", routingKey),
	)
	return nil
}
