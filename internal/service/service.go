// Package service is the only write path into the project aggregate. Every
// mutation loads current state, consults the rules package, validates the
// input, writes through the store and returns the stored entity so callers
// can reconcile their cached views.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agencydesk/internal/apperr"
	"agencydesk/internal/model"
	"agencydesk/internal/mq"
	"agencydesk/internal/rules"
	"agencydesk/internal/store"
	"agencydesk/pkg/metrics"
)

// EventPublisher publishes one domain event per successful mutation so
// other sessions can refresh their cached views. *mq.Producer satisfies it.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// Snapshots is the shared read-side aggregate cache. *cache.Snapshot
// satisfies it.
type Snapshots interface {
	Get(ctx context.Context, projectID string) (*model.Aggregate, bool)
	Set(ctx context.Context, agg *model.Aggregate)
	Invalidate(ctx context.Context, projectID string)
}

type Service struct {
	store     store.AggregateStore
	publisher EventPublisher
	snapshots Snapshots
	logger    *zap.Logger
	timeout   time.Duration
}

func New(st store.AggregateStore, publisher EventPublisher, snapshots Snapshots, logger *zap.Logger, timeout time.Duration) *Service {
	return &Service{
		store:     st,
		publisher: publisher,
		snapshots: snapshots,
		logger:    logger,
		timeout:   timeout,
	}
}

// opCtx bounds every operation's round trip.
func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// fail translates infrastructure errors into the taxonomy and records the
// outcome. Deadline expiry becomes TimeoutError; typed errors pass through
// untouched.
func (s *Service) fail(entity, verb string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		metrics.RecordMutation(entity, verb, "timeout")
		return &apperr.TimeoutError{Op: entity + "." + verb}
	}
	switch {
	case apperr.IsValidation(err):
		metrics.RecordMutation(entity, verb, "validation_error")
	case apperr.IsNotFound(err):
		metrics.RecordMutation(entity, verb, "not_found")
	case apperr.IsConflict(err):
		metrics.RecordMutation(entity, verb, "conflict")
	default:
		metrics.RecordMutation(entity, verb, "error")
		s.logger.Error("mutation failed",
			zap.String("entity", entity),
			zap.String("verb", verb),
			zap.Error(err),
		)
	}
	return err
}

// denied converts a rule decision into a RuleViolation carrying the reason
// verbatim.
func (s *Service) denied(entity, verb string, d rules.Decision) error {
	metrics.RecordMutation(entity, verb, "rule_violation")
	metrics.RecordRuleDenial(d.Code)
	s.logger.Info("mutation denied",
		zap.String("entity", entity),
		zap.String("verb", verb),
		zap.String("code", d.Code),
	)
	return &apperr.RuleViolation{Code: d.Code, Reason: d.Reason}
}

// finish publishes the domain event, drops the stale snapshot and records
// the success. Event publication is best-effort: the write already
// happened, so a broker hiccup is logged, not surfaced.
func (s *Service) finish(ctx context.Context, entity, verb, projectID, entityID string, actor model.Actor) {
	metrics.RecordMutation(entity, verb, "ok")

	if s.snapshots != nil {
		s.snapshots.Invalidate(ctx, projectID)
	}

	if s.publisher != nil {
		payload := mq.AggregateEventPayload{
			EventID:    uuid.New().String(),
			Entity:     entity,
			Verb:       verb,
			ProjectID:  projectID,
			EntityID:   entityID,
			ActorID:    actor.ID,
			ActorRole:  string(actor.Role),
			OccurredAt: time.Now().UTC(),
		}
		if err := s.publisher.Publish(entity+"."+verb, payload); err != nil {
			s.logger.Warn("failed to publish event",
				zap.String("routing_key", entity+"."+verb),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("mutation applied",
		zap.String("entity", entity),
		zap.String("verb", verb),
		zap.String("project_id", projectID),
		zap.String("entity_id", entityID),
		zap.String("actor_id", actor.ID),
	)
}

func validationErr(field, reason string) error {
	return &apperr.ValidationError{Field: field, Reason: reason}
}

// retryStale reports whether a lost CAS race should be retried against
// fresh state. One retry is enough: the second read observes the winner's
// write and the rules decide the outcome.
func retryStale(err error, attempt int) bool {
	return errors.Is(err, store.ErrStaleRev) && attempt == 0
}

func staleToConflict(err error) error {
	if errors.Is(err, store.ErrStaleRev) {
		return &apperr.ConflictError{Reason: "resource changed concurrently, retry"}
	}
	return err
}
