package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agencydesk/internal/model"
)

type CreateProjectInput struct {
	Name        string
	Description string
	ClientID    string
	Status      *model.ProjectStatus
	StartDate   *time.Time
	DueDate     *time.Time
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *model.ProjectStatus
	StartDate   *time.Time
	DueDate     *time.Time
}

func (s *Service) CreateProject(ctx context.Context, actor model.Actor, in CreateProjectInput) (*model.Project, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if in.Name == "" {
		return nil, s.fail("project", "created", validationErr("name", "name must not be empty"))
	}
	if in.ClientID == "" {
		return nil, s.fail("project", "created", validationErr("client_id", "client_id must not be empty"))
	}
	status := model.ProjectDraft
	if in.Status != nil {
		if !model.ValidProjectStatus(*in.Status) {
			return nil, s.fail("project", "created", validationErr("status", "unknown project status"))
		}
		status = *in.Status
	}

	now := time.Now().UTC()
	p := &model.Project{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
		ClientID:    in.ClientID,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.InsertProject(ctx, p); err != nil {
		return nil, s.fail("project", "created", err)
	}

	s.finish(ctx, "project", "created", p.ID, p.ID, actor)
	return p, nil
}

// GetAggregate serves reads through the snapshot cache when one is wired.
func (s *Service) GetAggregate(ctx context.Context, projectID string) (*model.Aggregate, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if s.snapshots != nil {
		if agg, ok := s.snapshots.Get(ctx, projectID); ok {
			return agg, nil
		}
	}

	agg, err := s.store.GetAggregate(ctx, projectID)
	if err != nil {
		return nil, s.fail("project", "read", err)
	}

	if s.snapshots != nil {
		s.snapshots.Set(ctx, agg)
	}
	return agg, nil
}

// UpdateProject sets the informational project fields. Nothing derives
// project status from child state; it is whatever the actor last set.
func (s *Service) UpdateProject(ctx context.Context, actor model.Actor, id string, in UpdateProjectInput) (*model.Project, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if in.Name != nil && *in.Name == "" {
		return nil, s.fail("project", "updated", validationErr("name", "name must not be empty"))
	}
	if in.Status != nil && !model.ValidProjectStatus(*in.Status) {
		return nil, s.fail("project", "updated", validationErr("status", "unknown project status"))
	}

	for attempt := 0; ; attempt++ {
		p, err := s.store.GetProject(ctx, id)
		if err != nil {
			return nil, s.fail("project", "updated", err)
		}

		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.Description != nil {
			p.Description = *in.Description
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
		p.UpdatedAt = time.Now().UTC()

		err = s.store.UpdateProject(ctx, p)
		if retryStale(err, attempt) {
			continue
		}
		if err != nil {
			return nil, s.fail("project", "updated", staleToConflict(err))
		}

		s.finish(ctx, "project", "updated", p.ID, p.ID, actor)
		return p, nil
	}
}
