package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"agencydesk/internal/apperr"
	"agencydesk/internal/model"
	"agencydesk/internal/rules"
	"agencydesk/internal/store"
)

var (
	client     = model.Actor{ID: "u-client", Role: model.RoleClient}
	admin      = model.Actor{ID: "u-admin", Role: model.RoleAdmin}
	superAdmin = model.Actor{ID: "u-super", Role: model.RoleSuperAdmin}
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(routingKey string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) published(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, k := range p.keys {
		if k == key {
			return true
		}
	}
	return false
}

func newTestService(t *testing.T) (*Service, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := New(store.NewMemory(), pub, nil, zap.NewNop(), 5*time.Second)
	return svc, pub
}

func createProject(t *testing.T, svc *Service) *model.Project {
	t.Helper()
	p, err := svc.CreateProject(context.Background(), admin, CreateProjectInput{
		Name:     "site relaunch",
		ClientID: "client-1",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func TestCreateProjectDefaultsToDraft(t *testing.T) {
	svc, pub := newTestService(t)

	p := createProject(t, svc)
	if p.Status != model.ProjectDraft {
		t.Fatalf("status = %s, want DRAFT", p.Status)
	}
	if p.ID == "" {
		t.Fatal("expected a generated id")
	}
	if !pub.published("project.created") {
		t.Fatal("expected project.created event")
	}
}

func TestCreateProjectValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateProject(ctx, admin, CreateProjectInput{ClientID: "c"}); !apperr.IsValidation(err) {
		t.Fatalf("empty name: got %v, want validation error", err)
	}
	if _, err := svc.CreateProject(ctx, admin, CreateProjectInput{Name: "x"}); !apperr.IsValidation(err) {
		t.Fatalf("empty client: got %v, want validation error", err)
	}

	bad := model.ProjectStatus("SHIPPED")
	_, err := svc.CreateProject(ctx, admin, CreateProjectInput{Name: "x", ClientID: "c", Status: &bad})
	if !apperr.IsValidation(err) {
		t.Fatalf("bad status: got %v, want validation error", err)
	}
}

func TestRequirementsFreezeAfterBudget(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	r, err := svc.CreateRequirements(ctx, admin, p.ID, CreateRequirementsInput{NeedsLogo: true})
	if err != nil {
		t.Fatalf("create requirements: %v", err)
	}

	if _, err := svc.CreateBudget(ctx, admin, p.ID, CreateBudgetInput{TotalCents: 500000, Currency: "EUR"}); err != nil {
		t.Fatalf("create budget: %v", err)
	}

	hasDesign := true
	_, err = svc.UpdateRequirements(ctx, admin, r.ID, UpdateRequirementsInput{HasDesign: &hasDesign})
	var rv *apperr.RuleViolation
	if !errors.As(err, &rv) {
		t.Fatalf("update frozen requirements: got %v, want rule violation", err)
	}
	if rv.Code != rules.CodeRequirementsLocked {
		t.Fatalf("code = %q, want %q", rv.Code, rules.CodeRequirementsLocked)
	}
}

func TestSecondRequirementsDenied(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	if _, err := svc.CreateRequirements(ctx, admin, p.ID, CreateRequirementsInput{}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateRequirements(ctx, admin, p.ID, CreateRequirementsInput{})
	if !apperr.IsRuleViolation(err) {
		t.Fatalf("second create: got %v, want rule violation", err)
	}
}

func TestSecondBudgetDenied(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	if _, err := svc.CreateBudget(ctx, admin, p.ID, CreateBudgetInput{TotalCents: 100000, Currency: "EUR"}); err != nil {
		t.Fatalf("first budget: %v", err)
	}
	_, err := svc.CreateBudget(ctx, admin, p.ID, CreateBudgetInput{TotalCents: 200000, Currency: "EUR"})
	if !apperr.IsRuleViolation(err) {
		t.Fatalf("second budget: got %v, want rule violation", err)
	}
}

func TestAcceptBudget(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	b, err := svc.CreateBudget(ctx, admin, p.ID, CreateBudgetInput{TotalCents: 100000, Currency: "EUR"})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if b.Paid.Cents != 0 || b.Paid.Currency != "EUR" {
		t.Fatalf("paid = %+v, want zero EUR", b.Paid)
	}

	accepted, err := svc.AcceptBudget(ctx, client, b.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !accepted.Accepted || accepted.AcceptedAt == nil || accepted.AcceptedBy == nil {
		t.Fatalf("acceptance fields not set: %+v", accepted)
	}
	if *accepted.AcceptedBy != model.RoleClient {
		t.Fatalf("accepted_by = %s, want CLIENT", *accepted.AcceptedBy)
	}
	if !pub.published("budget.accepted") {
		t.Fatal("expected budget.accepted event")
	}

	// acceptance is one-way
	if _, err := svc.AcceptBudget(ctx, client, b.ID); !apperr.IsRuleViolation(err) {
		t.Fatalf("re-accept: got %v, want rule violation", err)
	}
}

func TestAdminCannotAcceptBudget(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	b, err := svc.CreateBudget(ctx, admin, p.ID, CreateBudgetInput{TotalCents: 100000, Currency: "EUR"})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if _, err := svc.AcceptBudget(ctx, admin, b.ID); !apperr.IsRuleViolation(err) {
		t.Fatalf("admin accept: got %v, want rule violation", err)
	}
	if _, err := svc.AcceptBudget(ctx, superAdmin, b.ID); err != nil {
		t.Fatalf("super admin accept: %v", err)
	}
}

func TestConcurrentAcceptExactlyOneWins(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	b, err := svc.CreateBudget(ctx, admin, p.ID, CreateBudgetInput{TotalCents: 100000, Currency: "EUR"})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.AcceptBudget(ctx, client, b.ID)
			results <- err
		}()
	}

	var wins, denials int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			wins++
		case apperr.IsRuleViolation(err):
			denials++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || denials != 1 {
		t.Fatalf("got %d wins and %d denials, want exactly 1 of each", wins, denials)
	}
}

func TestDeleteBudgetGuards(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	b, err := svc.CreateBudget(ctx, admin, p.ID, CreateBudgetInput{TotalCents: 100000, Currency: "EUR"})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	// clients never delete
	if err := svc.DeleteBudget(ctx, client, b.ID); !apperr.IsRuleViolation(err) {
		t.Fatalf("client delete: got %v, want rule violation", err)
	}

	// a payment blocks deletion
	paid := int64(5000)
	if _, err := svc.UpdateBudget(ctx, admin, b.ID, UpdateBudgetInput{PaidCents: &paid}); err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if err := svc.DeleteBudget(ctx, admin, b.ID); !apperr.IsRuleViolation(err) {
		t.Fatalf("delete paid-against budget: got %v, want rule violation", err)
	}

	// clearing the payment unblocks it
	zero := int64(0)
	if _, err := svc.UpdateBudget(ctx, admin, b.ID, UpdateBudgetInput{PaidCents: &zero}); err != nil {
		t.Fatalf("clear payment: %v", err)
	}
	if err := svc.DeleteBudget(ctx, admin, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// once accepted, a fresh budget is undeletable
	b2, err := svc.CreateBudget(ctx, admin, p.ID, CreateBudgetInput{TotalCents: 100000, Currency: "EUR"})
	if err != nil {
		t.Fatalf("recreate budget: %v", err)
	}
	if _, err := svc.AcceptBudget(ctx, client, b2.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := svc.DeleteBudget(ctx, admin, b2.ID); !apperr.IsRuleViolation(err) {
		t.Fatalf("delete accepted budget: got %v, want rule violation", err)
	}
}

func TestUpdateBudgetCannotTouchAcceptance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	b, err := svc.CreateBudget(ctx, admin, p.ID, CreateBudgetInput{TotalCents: 100000, Currency: "EUR"})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if _, err := svc.AcceptBudget(ctx, client, b.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	notes := "revised"
	updated, err := svc.UpdateBudget(ctx, admin, b.ID, UpdateBudgetInput{Notes: &notes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Accepted {
		t.Fatal("update must not clear acceptance")
	}
}
