package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agencydesk/internal/model"
	"agencydesk/internal/rules"
)

type CreateBudgetInput struct {
	TotalCents int64
	Currency   string
	Notes      string
	SentAt     *time.Time
	ValidUntil *time.Time
}

type UpdateBudgetInput struct {
	TotalCents *int64
	PaidCents  *int64
	Notes      *string
	SentAt     *time.Time
	ValidUntil *time.Time
}

// CreateBudget opens pricing for a project. At most one budget per project;
// the paid amount starts at zero in the budget's currency.
func (s *Service) CreateBudget(ctx context.Context, actor model.Actor, projectID string, in CreateBudgetInput) (*model.Budget, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if in.TotalCents <= 0 {
		return nil, s.fail("budget", "created", validationErr("total", "total amount must be > 0"))
	}
	total, err := model.NewMoney(in.TotalCents, in.Currency)
	if err != nil {
		return nil, s.fail("budget", "created", validationErr("currency", err.Error()))
	}

	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, s.fail("budget", "created", err)
	}
	existing, err := s.store.GetBudgetByProject(ctx, projectID)
	if err != nil {
		return nil, s.fail("budget", "created", err)
	}
	if d := rules.CanCreateBudget(existing); !d.Allowed {
		return nil, s.denied("budget", "created", d)
	}

	now := time.Now().UTC()
	b := &model.Budget{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		Total:      total,
		Paid:       model.Money{Cents: 0, Currency: total.Currency},
		Notes:      in.Notes,
		SentAt:     in.SentAt,
		ValidUntil: in.ValidUntil,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// the store still enforces uniqueness under a create/create race
	if err := s.store.InsertBudget(ctx, b); err != nil {
		return nil, s.fail("budget", "created", err)
	}

	s.finish(ctx, "budget", "created", projectID, b.ID, actor)
	return b, nil
}

// UpdateBudget patches amounts and metadata. There is deliberately no way
// to touch the accepted flag here: acceptance only moves through
// AcceptBudget, and never back.
func (s *Service) UpdateBudget(ctx context.Context, actor model.Actor, id string, in UpdateBudgetInput) (*model.Budget, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if in.TotalCents != nil && *in.TotalCents <= 0 {
		return nil, s.fail("budget", "updated", validationErr("total", "total amount must be > 0"))
	}
	if in.PaidCents != nil && *in.PaidCents < 0 {
		return nil, s.fail("budget", "updated", validationErr("paid", "paid amount must be >= 0"))
	}

	for attempt := 0; ; attempt++ {
		b, err := s.store.GetBudget(ctx, id)
		if err != nil {
			return nil, s.fail("budget", "updated", err)
		}

		if in.TotalCents != nil {
			b.Total.Cents = *in.TotalCents
		}
		if in.PaidCents != nil {
			b.Paid = model.Money{Cents: *in.PaidCents, Currency: b.Total.Currency}
		}
		if in.Notes != nil {
			b.Notes = *in.Notes
		}
		if in.SentAt != nil {
			b.SentAt = in.SentAt
		}
		if in.ValidUntil != nil {
			b.ValidUntil = in.ValidUntil
		}
		b.UpdatedAt = time.Now().UTC()

		err = s.store.UpdateBudget(ctx, b)
		if retryStale(err, attempt) {
			continue
		}
		if err != nil {
			return nil, s.fail("budget", "updated", staleToConflict(err))
		}

		s.finish(ctx, "budget", "updated", b.ProjectID, b.ID, actor)
		return b, nil
	}
}

// AcceptBudget marks the budget accepted by the calling actor. Exactly one
// of two racing accepts can win: the loser's revision check fails, it
// re-reads the now-accepted budget and the rule denies it.
func (s *Service) AcceptBudget(ctx context.Context, actor model.Actor, id string) (*model.Budget, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	for attempt := 0; ; attempt++ {
		b, err := s.store.GetBudget(ctx, id)
		if err != nil {
			return nil, s.fail("budget", "accepted", err)
		}

		if d := rules.CanAcceptBudget(b, actor.Role); !d.Allowed {
			return nil, s.denied("budget", "accepted", d)
		}

		now := time.Now().UTC()
		role := actor.Role
		b.Accepted = true
		b.AcceptedAt = &now
		b.AcceptedBy = &role
		b.UpdatedAt = now

		err = s.store.UpdateBudget(ctx, b)
		if retryStale(err, attempt) {
			continue
		}
		if err != nil {
			return nil, s.fail("budget", "accepted", staleToConflict(err))
		}

		s.finish(ctx, "budget", "accepted", b.ProjectID, b.ID, actor)
		return b, nil
	}
}

// DeleteBudget removes a budget that is neither accepted nor paid against.
func (s *Service) DeleteBudget(ctx context.Context, actor model.Actor, id string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if d := rules.CanDelete(actor.Role); !d.Allowed {
		return s.denied("budget", "deleted", d)
	}

	for attempt := 0; ; attempt++ {
		b, err := s.store.GetBudget(ctx, id)
		if err != nil {
			return s.fail("budget", "deleted", err)
		}

		if d := rules.CanDeleteBudget(b); !d.Allowed {
			return s.denied("budget", "deleted", d)
		}

		err = s.store.DeleteBudget(ctx, id, b.Rev)
		if retryStale(err, attempt) {
			continue
		}
		if err != nil {
			return s.fail("budget", "deleted", staleToConflict(err))
		}

		s.finish(ctx, "budget", "deleted", b.ProjectID, b.ID, actor)
		return nil
	}
}
