package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agencydesk/internal/model"
	"agencydesk/internal/rules"
)

type CreatePhaseInput struct {
	Title       string
	Description string
	Order       int
	Status      *model.PhaseStatus
	StartDate   *time.Time
	DueDate     *time.Time
}

type UpdatePhaseInput struct {
	Title       *string
	Description *string
	Order       *int
	Status      *model.PhaseStatus
	StartDate   *time.Time
	DueDate     *time.Time
	DeliveryURL *string
	DeliveredAt *time.Time
}

func (s *Service) CreatePhase(ctx context.Context, actor model.Actor, projectID string, in CreatePhaseInput) (*model.Phase, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if in.Title == "" {
		return nil, s.fail("phase", "created", validationErr("title", "title must not be empty"))
	}
	status := model.PhaseTodo
	if in.Status != nil {
		if !model.ValidPhaseStatus(*in.Status) {
			return nil, s.fail("phase", "created", validationErr("status", "unknown phase status"))
		}
		status = *in.Status
	}

	now := time.Now().UTC()
	p := &model.Phase{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		Order:       in.Order,
		Status:      status,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.InsertPhase(ctx, p); err != nil {
		return nil, s.fail("phase", "created", err)
	}

	s.finish(ctx, "phase", "created", projectID, p.ID, actor)
	return p, nil
}

func (s *Service) UpdatePhase(ctx context.Context, actor model.Actor, id string, in UpdatePhaseInput) (*model.Phase, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if in.Title != nil && *in.Title == "" {
		return nil, s.fail("phase", "updated", validationErr("title", "title must not be empty"))
	}
	if in.Status != nil && !model.ValidPhaseStatus(*in.Status) {
		return nil, s.fail("phase", "updated", validationErr("status", "unknown phase status"))
	}

	for attempt := 0; ; attempt++ {
		p, err := s.store.GetPhase(ctx, id)
		if err != nil {
			return nil, s.fail("phase", "updated", err)
		}

		if in.Title != nil {
			p.Title = *in.Title
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Order != nil {
			p.Order = *in.Order
		}
		if in.Status != nil {
			p.Status = *in.Status
		}
		if in.StartDate != nil {
			p.StartDate = in.StartDate
		}
		if in.DueDate != nil {
			p.DueDate = in.DueDate
		}
		if in.DeliveryURL != nil {
			p.DeliveryURL = *in.DeliveryURL
		}
		if in.DeliveredAt != nil {
			p.DeliveredAt = in.DeliveredAt
		}
		p.UpdatedAt = time.Now().UTC()

		err = s.store.UpdatePhase(ctx, p)
		if retryStale(err, attempt) {
			continue
		}
		if err != nil {
			return nil, s.fail("phase", "updated", staleToConflict(err))
		}

		s.finish(ctx, "phase", "updated", p.ProjectID, p.ID, actor)
		return p, nil
	}
}

// DeletePhase removes a phase and, through the store, its deliveries.
func (s *Service) DeletePhase(ctx context.Context, actor model.Actor, id string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if d := rules.CanDelete(actor.Role); !d.Allowed {
		return s.denied("phase", "deleted", d)
	}

	for attempt := 0; ; attempt++ {
		p, err := s.store.GetPhase(ctx, id)
		if err != nil {
			return s.fail("phase", "deleted", err)
		}

		err = s.store.DeletePhase(ctx, id, p.Rev)
		if retryStale(err, attempt) {
			continue
		}
		if err != nil {
			return s.fail("phase", "deleted", staleToConflict(err))
		}

		s.finish(ctx, "phase", "deleted", p.ProjectID, p.ID, actor)
		return nil
	}
}
