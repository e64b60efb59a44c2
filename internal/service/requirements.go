package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agencydesk/internal/model"
	"agencydesk/internal/rules"
)

type CreateRequirementsInput struct {
	NeedsLogo        bool
	HasDesign        bool
	DesignByUs       bool
	NeedsCopy        bool
	HasDomain        bool
	HasHosting       bool
	NeedsSEO         bool
	NeedsAnalytics   bool
	NeedsMaintenance bool
	HasBrandManual   bool
	Notes            string
	ReferenceSites   []string
}

type UpdateRequirementsInput struct {
	NeedsLogo        *bool
	HasDesign        *bool
	DesignByUs       *bool
	NeedsCopy        *bool
	HasDomain        *bool
	HasHosting       *bool
	NeedsSEO         *bool
	NeedsAnalytics   *bool
	NeedsMaintenance *bool
	HasBrandManual   *bool
	Notes            *string
	ReferenceSites   *[]string
}

// CreateRequirements records the pre-engagement checklist. Denied once a
// budget exists: requirements freeze when pricing begins.
func (s *Service) CreateRequirements(ctx context.Context, actor model.Actor, projectID string, in CreateRequirementsInput) (*model.Requirements, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, s.fail("requirements", "created", err)
	}
	existing, err := s.store.GetRequirementsByProject(ctx, projectID)
	if err != nil {
		return nil, s.fail("requirements", "created", err)
	}
	budget, err := s.store.GetBudgetByProject(ctx, projectID)
	if err != nil {
		return nil, s.fail("requirements", "created", err)
	}
	if d := rules.CanCreateRequirements(existing, budget); !d.Allowed {
		return nil, s.denied("requirements", "created", d)
	}

	now := time.Now().UTC()
	r := &model.Requirements{
		ID:               uuid.NewString(),
		ProjectID:        projectID,
		NeedsLogo:        in.NeedsLogo,
		HasDesign:        in.HasDesign,
		DesignByUs:       in.DesignByUs,
		NeedsCopy:        in.NeedsCopy,
		HasDomain:        in.HasDomain,
		HasHosting:       in.HasHosting,
		NeedsSEO:         in.NeedsSEO,
		NeedsAnalytics:   in.NeedsAnalytics,
		NeedsMaintenance: in.NeedsMaintenance,
		HasBrandManual:   in.HasBrandManual,
		Notes:            in.Notes,
		ReferenceSites:   in.ReferenceSites,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.InsertRequirements(ctx, r); err != nil {
		return nil, s.fail("requirements", "created", err)
	}

	s.finish(ctx, "requirements", "created", projectID, r.ID, actor)
	return r, nil
}

func (s *Service) UpdateRequirements(ctx context.Context, actor model.Actor, id string, in UpdateRequirementsInput) (*model.Requirements, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	for attempt := 0; ; attempt++ {
		r, err := s.store.GetRequirements(ctx, id)
		if err != nil {
			return nil, s.fail("requirements", "updated", err)
		}

		// the freeze is evaluated against live state on every attempt, so
		// a budget created while this update was in flight still locks it
		budget, err := s.store.GetBudgetByProject(ctx, r.ProjectID)
		if err != nil {
			return nil, s.fail("requirements", "updated", err)
		}
		if d := rules.CanUpdateRequirements(budget); !d.Allowed {
			return nil, s.denied("requirements", "updated", d)
		}

		applyBool := func(dst *bool, src *bool) {
			if src != nil {
				*dst = *src
			}
		}
		applyBool(&r.NeedsLogo, in.NeedsLogo)
		applyBool(&r.HasDesign, in.HasDesign)
		applyBool(&r.DesignByUs, in.DesignByUs)
		applyBool(&r.NeedsCopy, in.NeedsCopy)
		applyBool(&r.HasDomain, in.HasDomain)
		applyBool(&r.HasHosting, in.HasHosting)
		applyBool(&r.NeedsSEO, in.NeedsSEO)
		applyBool(&r.NeedsAnalytics, in.NeedsAnalytics)
		applyBool(&r.NeedsMaintenance, in.NeedsMaintenance)
		applyBool(&r.HasBrandManual, in.HasBrandManual)
		if in.Notes != nil {
			r.Notes = *in.Notes
		}
		if in.ReferenceSites != nil {
			r.ReferenceSites = *in.ReferenceSites
		}
		r.UpdatedAt = time.Now().UTC()

		err = s.store.UpdateRequirements(ctx, r)
		if retryStale(err, attempt) {
			continue
		}
		if err != nil {
			return nil, s.fail("requirements", "updated", staleToConflict(err))
		}

		s.finish(ctx, "requirements", "updated", r.ProjectID, r.ID, actor)
		return r, nil
	}
}
