package service

import (
	"context"
	"testing"

	"agencydesk/internal/apperr"
	"agencydesk/internal/model"
)

func TestCreatePhaseDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	ph, err := svc.CreatePhase(ctx, admin, p.ID, CreatePhaseInput{Title: "design", Order: 10})
	if err != nil {
		t.Fatalf("create phase: %v", err)
	}
	if ph.Status != model.PhaseTodo {
		t.Fatalf("status = %s, want TODO", ph.Status)
	}

	if _, err := svc.CreatePhase(ctx, admin, p.ID, CreatePhaseInput{}); !apperr.IsValidation(err) {
		t.Fatalf("empty title: got %v, want validation error", err)
	}
}

func TestPhaseReordering(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	first, err := svc.CreatePhase(ctx, admin, p.ID, CreatePhaseInput{Title: "design", Order: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.CreatePhase(ctx, admin, p.ID, CreatePhaseInput{Title: "build", Order: 20})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// move the first phase behind the second
	order := 30
	if _, err := svc.UpdatePhase(ctx, admin, first.ID, UpdatePhaseInput{Order: &order}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	agg, err := svc.GetAggregate(ctx, p.ID)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Phases[0].Phase.ID != second.ID || agg.Phases[1].Phase.ID != first.ID {
		t.Fatalf("order after move: got [%s %s]", agg.Phases[0].Phase.ID, agg.Phases[1].Phase.ID)
	}
}

func TestDeletePhaseCascadesDeliveries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	ph, err := svc.CreatePhase(ctx, admin, p.ID, CreatePhaseInput{Title: "design"})
	if err != nil {
		t.Fatalf("create phase: %v", err)
	}
	if _, err := svc.CreateDelivery(ctx, admin, ph.ID, CreateDeliveryInput{Title: "mockups"}); err != nil {
		t.Fatalf("create delivery: %v", err)
	}

	if err := svc.DeletePhase(ctx, client, ph.ID); !apperr.IsRuleViolation(err) {
		t.Fatalf("client delete: got %v, want rule violation", err)
	}
	if err := svc.DeletePhase(ctx, admin, ph.ID); err != nil {
		t.Fatalf("delete phase: %v", err)
	}

	agg, err := svc.GetAggregate(ctx, p.ID)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(agg.Phases) != 0 {
		t.Fatalf("got %d phases, want 0", len(agg.Phases))
	}
}

func TestCreateDeliveryDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	ph, err := svc.CreatePhase(ctx, admin, p.ID, CreatePhaseInput{Title: "design"})
	if err != nil {
		t.Fatalf("create phase: %v", err)
	}

	d, err := svc.CreateDelivery(ctx, admin, ph.ID, CreateDeliveryInput{Title: "mockups"})
	if err != nil {
		t.Fatalf("create delivery: %v", err)
	}
	if d.Version != 1 {
		t.Fatalf("version = %d, want 1", d.Version)
	}
	if d.Status != model.DeliveryPending {
		t.Fatalf("status = %s, want PENDING", d.Status)
	}

	bad := 0
	if _, err := svc.CreateDelivery(ctx, admin, ph.ID, CreateDeliveryInput{Title: "x", Version: &bad}); !apperr.IsValidation(err) {
		t.Fatalf("non-positive version: got %v, want validation error", err)
	}
}

func TestCreateDeliveryMissingPhase(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateDelivery(context.Background(), admin, "nope", CreateDeliveryInput{Title: "x"})
	if !apperr.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}
