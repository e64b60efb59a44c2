package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agencydesk/internal/model"
	"agencydesk/internal/rules"
)

type CreateDeliveryInput struct {
	Title       string
	Description string
	FileURL     string
	Version     *int
	Status      *model.DeliveryStatus
}

type UpdateDeliveryInput struct {
	Title       *string
	Description *string
	FileURL     *string
	Version     *int
	Status      *model.DeliveryStatus
}

// CreateDelivery submits an artifact against a phase. A missing phase is
// NotFound; a delivery is never created as an orphan.
func (s *Service) CreateDelivery(ctx context.Context, actor model.Actor, phaseID string, in CreateDeliveryInput) (*model.Delivery, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if in.Title == "" {
		return nil, s.fail("delivery", "created", validationErr("title", "title must not be empty"))
	}
	version := 1
	if in.Version != nil {
		if *in.Version <= 0 {
			return nil, s.fail("delivery", "created", validationErr("version", "version must be a positive integer"))
		}
		version = *in.Version
	}
	status := model.DeliveryPending
	if in.Status != nil {
		if !model.ValidDeliveryStatus(*in.Status) {
			return nil, s.fail("delivery", "created", validationErr("status", "unknown delivery status"))
		}
		status = *in.Status
	}

	phase, err := s.store.GetPhase(ctx, phaseID)
	if err != nil {
		return nil, s.fail("delivery", "created", err)
	}

	now := time.Now().UTC()
	d := &model.Delivery{
		ID:          uuid.NewString(),
		PhaseID:     phaseID,
		Title:       in.Title,
		Description: in.Description,
		FileURL:     in.FileURL,
		Version:     version,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.InsertDelivery(ctx, d); err != nil {
		return nil, s.fail("delivery", "created", err)
	}

	s.finish(ctx, "delivery", "created", phase.ProjectID, d.ID, actor)
	return d, nil
}

func (s *Service) UpdateDelivery(ctx context.Context, actor model.Actor, id string, in UpdateDeliveryInput) (*model.Delivery, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if in.Title != nil && *in.Title == "" {
		return nil, s.fail("delivery", "updated", validationErr("title", "title must not be empty"))
	}
	if in.Version != nil && *in.Version <= 0 {
		return nil, s.fail("delivery", "updated", validationErr("version", "version must be a positive integer"))
	}
	if in.Status != nil && !model.ValidDeliveryStatus(*in.Status) {
		return nil, s.fail("delivery", "updated", validationErr("status", "unknown delivery status"))
	}

	for attempt := 0; ; attempt++ {
		d, err := s.store.GetDelivery(ctx, id)
		if err != nil {
			return nil, s.fail("delivery", "updated", err)
		}

		if in.Title != nil {
			d.Title = *in.Title
		}
		if in.Description != nil {
			d.Description = *in.Description
		}
		if in.FileURL != nil {
			d.FileURL = *in.FileURL
		}
		if in.Version != nil {
			d.Version = *in.Version
		}
		if in.Status != nil {
			d.Status = *in.Status
		}
		d.UpdatedAt = time.Now().UTC()

		err = s.store.UpdateDelivery(ctx, d)
		if retryStale(err, attempt) {
			continue
		}
		if err != nil {
			return nil, s.fail("delivery", "updated", staleToConflict(err))
		}

		phase, perr := s.store.GetPhase(ctx, d.PhaseID)
		projectID := ""
		if perr == nil {
			projectID = phase.ProjectID
		}
		s.finish(ctx, "delivery", "updated", projectID, d.ID, actor)
		return d, nil
	}
}

func (s *Service) DeleteDelivery(ctx context.Context, actor model.Actor, id string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if d := rules.CanDelete(actor.Role); !d.Allowed {
		return s.denied("delivery", "deleted", d)
	}

	for attempt := 0; ; attempt++ {
		d, err := s.store.GetDelivery(ctx, id)
		if err != nil {
			return s.fail("delivery", "deleted", err)
		}

		err = s.store.DeleteDelivery(ctx, id, d.Rev)
		if retryStale(err, attempt) {
			continue
		}
		if err != nil {
			return s.fail("delivery", "deleted", staleToConflict(err))
		}

		phase, perr := s.store.GetPhase(ctx, d.PhaseID)
		projectID := ""
		if perr == nil {
			projectID = phase.ProjectID
		}
		s.finish(ctx, "delivery", "deleted", projectID, d.ID, actor)
		return nil
	}
}
