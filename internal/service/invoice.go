package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agencydesk/internal/model"
	"agencydesk/internal/rules"
)

type CreateInvoiceInput struct {
	PhaseID     *string
	Number      string
	AmountCents int64
	Currency    string
	Status      *model.InvoiceStatus
	IssuedAt    *time.Time
	DueAt       *time.Time
	Notes       string
}

type UpdateInvoiceInput struct {
	Number      *string
	AmountCents *int64
	Status      *model.InvoiceStatus
	IssuedAt    *time.Time
	DueAt       *time.Time
	Notes       *string
}

func (s *Service) CreateInvoice(ctx context.Context, actor model.Actor, projectID string, in CreateInvoiceInput) (*model.Invoice, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if in.AmountCents <= 0 {
		return nil, s.fail("invoice", "created", validationErr("amount", "amount must be > 0"))
	}
	amount, err := model.NewMoney(in.AmountCents, in.Currency)
	if err != nil {
		return nil, s.fail("invoice", "created", validationErr("currency", err.Error()))
	}
	status := model.InvoiceDraft
	if in.Status != nil {
		if !model.ValidInvoiceStatus(*in.Status) {
			return nil, s.fail("invoice", "created", validationErr("status", "unknown invoice status"))
		}
		status = *in.Status
	}

	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, s.fail("invoice", "created", err)
	}

	now := time.Now().UTC()
	inv := &model.Invoice{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		PhaseID:   in.PhaseID,
		Number:    in.Number,
		Amount:    amount,
		Status:    status,
		IssuedAt:  in.IssuedAt,
		DueAt:     in.DueAt,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// the store checks the phase reference stays inside this project tree
	if err := s.store.InsertInvoice(ctx, inv); err != nil {
		return nil, s.fail("invoice", "created", err)
	}

	s.finish(ctx, "invoice", "created", projectID, inv.ID, actor)
	return inv, nil
}

func (s *Service) UpdateInvoice(ctx context.Context, actor model.Actor, id string, in UpdateInvoiceInput) (*model.Invoice, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if in.AmountCents != nil && *in.AmountCents <= 0 {
		return nil, s.fail("invoice", "updated", validationErr("amount", "amount must be > 0"))
	}
	if in.Status != nil && !model.ValidInvoiceStatus(*in.Status) {
		return nil, s.fail("invoice", "updated", validationErr("status", "unknown invoice status"))
	}

	for attempt := 0; ; attempt++ {
		inv, err := s.store.GetInvoice(ctx, id)
		if err != nil {
			return nil, s.fail("invoice", "updated", err)
		}

		if d := rules.CanUpdateInvoice(inv); !d.Allowed {
			return nil, s.denied("invoice", "updated", d)
		}

		if in.Number != nil {
			inv.Number = *in.Number
		}
		if in.AmountCents != nil {
			inv.Amount.Cents = *in.AmountCents
		}
		if in.Status != nil {
			inv.Status = *in.Status
		}
		if in.IssuedAt != nil {
			inv.IssuedAt = in.IssuedAt
		}
		if in.DueAt != nil {
			inv.DueAt = in.DueAt
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		inv.UpdatedAt = time.Now().UTC()

		err = s.store.UpdateInvoice(ctx, inv)
		if retryStale(err, attempt) {
			continue
		}
		if err != nil {
			return nil, s.fail("invoice", "updated", staleToConflict(err))
		}

		s.finish(ctx, "invoice", "updated", inv.ProjectID, inv.ID, actor)
		return inv, nil
	}
}

// MarkInvoicePaid is terminal: a paid invoice cannot be paid again,
// modified or deleted.
func (s *Service) MarkInvoicePaid(ctx context.Context, actor model.Actor, id string) (*model.Invoice, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	for attempt := 0; ; attempt++ {
		inv, err := s.store.GetInvoice(ctx, id)
		if err != nil {
			return nil, s.fail("invoice", "paid", err)
		}

		if d := rules.CanMarkInvoicePaid(inv); !d.Allowed {
			return nil, s.denied("invoice", "paid", d)
		}

		now := time.Now().UTC()
		inv.Status = model.InvoicePaid
		inv.PaidAt = &now
		inv.UpdatedAt = now

		err = s.store.UpdateInvoice(ctx, inv)
		if retryStale(err, attempt) {
			continue
		}
		if err != nil {
			return nil, s.fail("invoice", "paid", staleToConflict(err))
		}

		s.finish(ctx, "invoice", "paid", inv.ProjectID, inv.ID, actor)
		return inv, nil
	}
}

func (s *Service) DeleteInvoice(ctx context.Context, actor model.Actor, id string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if d := rules.CanDelete(actor.Role); !d.Allowed {
		return s.denied("invoice", "deleted", d)
	}

	for attempt := 0; ; attempt++ {
		inv, err := s.store.GetInvoice(ctx, id)
		if err != nil {
			return s.fail("invoice", "deleted", err)
		}

		if d := rules.CanDeleteInvoice(inv); !d.Allowed {
			return s.denied("invoice", "deleted", d)
		}

		err = s.store.DeleteInvoice(ctx, id, inv.Rev)
		if retryStale(err, attempt) {
			continue
		}
		if err != nil {
			return s.fail("invoice", "deleted", staleToConflict(err))
		}

		s.finish(ctx, "invoice", "deleted", inv.ProjectID, inv.ID, actor)
		return nil
	}
}
