package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"agencydesk/internal/model"
	"agencydesk/pkg/metrics"
)

// Snapshot caches whole serialized aggregates in Redis. Misses and Redis
// outages fall through to the store; every mutation invalidates the
// project's entry.
type Snapshot struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSnapshot(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Snapshot {
	return &Snapshot{rdb: rdb, ttl: ttl, logger: logger}
}

func snapshotKey(projectID string) string {
	return "aggregate:snapshot:" + projectID
}

func (s *Snapshot) Get(ctx context.Context, projectID string) (*model.Aggregate, bool) {
	raw, err := s.rdb.Get(ctx, snapshotKey(projectID)).Bytes()
	if err == redis.Nil {
		metrics.RecordSnapshotLookup("miss")
		return nil, false
	}
	if err != nil {
		metrics.RecordSnapshotLookup("error")
		s.logger.Warn("snapshot read failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, false
	}

	var agg model.Aggregate
	if err := json.Unmarshal(raw, &agg); err != nil {
		metrics.RecordSnapshotLookup("error")
		s.logger.Warn("snapshot decode failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, false
	}

	metrics.RecordSnapshotLookup("hit")
	return &agg, true
}

func (s *Snapshot) Set(ctx context.Context, agg *model.Aggregate) {
	raw, err := json.Marshal(agg)
	if err != nil {
		s.logger.Warn("snapshot encode failed", zap.String("project_id", agg.Project.ID), zap.Error(err))
		return
	}
	if err := s.rdb.Set(ctx, snapshotKey(agg.Project.ID), raw, s.ttl).Err(); err != nil {
		s.logger.Warn("snapshot write failed", zap.String("project_id", agg.Project.ID), zap.Error(err))
	}
}

func (s *Snapshot) Invalidate(ctx context.Context, projectID string) {
	if err := s.rdb.Del(ctx, snapshotKey(projectID)).Err(); err != nil {
		s.logger.Warn("snapshot invalidation failed", zap.String("project_id", projectID), zap.Error(err))
	}
}
