package service

import (
	"context"
	"testing"

	"agencydesk/internal/apperr"
	"agencydesk/internal/model"
)

func TestCreateInvoice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	inv, err := svc.CreateInvoice(ctx, admin, p.ID, CreateInvoiceInput{
		Number:      "2026-001",
		AmountCents: 250000,
		Currency:    "eur",
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if inv.Status != model.InvoiceDraft {
		t.Fatalf("status = %s, want DRAFT", inv.Status)
	}
	if inv.Amount.Currency != "EUR" {
		t.Fatalf("currency = %s, want EUR", inv.Amount.Currency)
	}

	if _, err := svc.CreateInvoice(ctx, admin, p.ID, CreateInvoiceInput{AmountCents: 0, Currency: "EUR"}); !apperr.IsValidation(err) {
		t.Fatalf("zero amount: got %v, want validation error", err)
	}
	if _, err := svc.CreateInvoice(ctx, admin, "nope", CreateInvoiceInput{AmountCents: 100, Currency: "EUR"}); !apperr.IsNotFound(err) {
		t.Fatalf("missing project: got %v, want not found", err)
	}
}

func TestInvoicePhaseMustBelongToProject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p1 := createProject(t, svc)
	p2 := createProject(t, svc)

	ph, err := svc.CreatePhase(ctx, admin, p2.ID, CreatePhaseInput{Title: "other"})
	if err != nil {
		t.Fatalf("create phase: %v", err)
	}

	_, err = svc.CreateInvoice(ctx, admin, p1.ID, CreateInvoiceInput{
		PhaseID:     &ph.ID,
		AmountCents: 100,
		Currency:    "EUR",
	})
	if !apperr.IsConflict(err) {
		t.Fatalf("cross-project phase: got %v, want conflict", err)
	}
}

func TestMarkInvoicePaidIsTerminal(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	inv, err := svc.CreateInvoice(ctx, admin, p.ID, CreateInvoiceInput{AmountCents: 100000, Currency: "EUR"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	paid, err := svc.MarkInvoicePaid(ctx, admin, inv.ID)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if paid.Status != model.InvoicePaid || paid.PaidAt == nil {
		t.Fatalf("paid invoice: %+v", paid)
	}
	if !pub.published("invoice.paid") {
		t.Fatal("expected invoice.paid event")
	}

	if _, err := svc.MarkInvoicePaid(ctx, admin, inv.ID); !apperr.IsRuleViolation(err) {
		t.Fatalf("re-pay: got %v, want rule violation", err)
	}

	notes := "changed"
	if _, err := svc.UpdateInvoice(ctx, admin, inv.ID, UpdateInvoiceInput{Notes: &notes}); !apperr.IsRuleViolation(err) {
		t.Fatalf("update paid: got %v, want rule violation", err)
	}
	if err := svc.DeleteInvoice(ctx, admin, inv.ID); !apperr.IsRuleViolation(err) {
		t.Fatalf("delete paid: got %v, want rule violation", err)
	}
}

func TestDeleteInvoice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	inv, err := svc.CreateInvoice(ctx, admin, p.ID, CreateInvoiceInput{AmountCents: 100000, Currency: "EUR"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteInvoice(ctx, client, inv.ID); !apperr.IsRuleViolation(err) {
		t.Fatalf("client delete: got %v, want rule violation", err)
	}
	if err := svc.DeleteInvoice(ctx, admin, inv.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteInvoice(ctx, admin, inv.ID); !apperr.IsNotFound(err) {
		t.Fatalf("delete again: got %v, want not found", err)
	}
}

func TestCancelThenPayDenied(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	inv, err := svc.CreateInvoice(ctx, admin, p.ID, CreateInvoiceInput{AmountCents: 100000, Currency: "EUR"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	canceled := model.InvoiceCanceled
	if _, err := svc.UpdateInvoice(ctx, admin, inv.ID, UpdateInvoiceInput{Status: &canceled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.MarkInvoicePaid(ctx, admin, inv.ID); !apperr.IsRuleViolation(err) {
		t.Fatalf("pay canceled: got %v, want rule violation", err)
	}
}
