package rules

import (
	"testing"

	"agencydesk/internal/model"
)

func TestCanCreateBudgetOnlyOnce(t *testing.T) {
	if d := CanCreateBudget(nil); !d.Allowed {
		t.Fatalf("first budget should be allowed, denied with %s", d.Code)
	}
	d := CanCreateBudget(&model.Budget{})
	if d.Allowed {
		t.Fatal("second budget should be denied")
	}
	if d.Code != CodeBudgetExists {
		t.Fatalf("code = %q, want %q", d.Code, CodeBudgetExists)
	}
}

func TestRequirementsFreezeOnBudget(t *testing.T) {
	if d := CanCreateRequirements(nil, nil); !d.Allowed {
		t.Fatalf("creating requirements on a fresh project should be allowed, got %s", d.Code)
	}

	d := CanCreateRequirements(&model.Requirements{}, nil)
	if d.Allowed || d.Code != CodeRequirementsExist {
		t.Fatalf("duplicate requirements: got allowed=%v code=%q", d.Allowed, d.Code)
	}

	d = CanCreateRequirements(nil, &model.Budget{})
	if d.Allowed || d.Code != CodeRequirementsLocked {
		t.Fatalf("requirements after budget: got allowed=%v code=%q", d.Allowed, d.Code)
	}

	d = CanUpdateRequirements(&model.Budget{})
	if d.Allowed || d.Code != CodeRequirementsLocked {
		t.Fatalf("updating frozen requirements: got allowed=%v code=%q", d.Allowed, d.Code)
	}

	if d := CanUpdateRequirements(nil); !d.Allowed {
		t.Fatalf("updating requirements without budget should be allowed, got %s", d.Code)
	}
}

func TestAcceptBudgetIsMonotonicAndRoleGated(t *testing.T) {
	fresh := &model.Budget{}

	if d := CanAcceptBudget(fresh, model.RoleClient); !d.Allowed {
		t.Fatalf("client accept should be allowed, got %s", d.Code)
	}
	if d := CanAcceptBudget(fresh, model.RoleSuperAdmin); !d.Allowed {
		t.Fatalf("super admin accept should be allowed, got %s", d.Code)
	}

	d := CanAcceptBudget(fresh, model.RoleAdmin)
	if d.Allowed || d.Code != CodeActorCannotAccept {
		t.Fatalf("admin accept: got allowed=%v code=%q", d.Allowed, d.Code)
	}

	d = CanAcceptBudget(&model.Budget{Accepted: true}, model.RoleClient)
	if d.Allowed || d.Code != CodeBudgetAccepted {
		t.Fatalf("re-accept: got allowed=%v code=%q", d.Allowed, d.Code)
	}
}

func TestDeleteBudgetGuards(t *testing.T) {
	clean := &model.Budget{
		Total: model.Money{Cents: 100000, Currency: "EUR"},
		Paid:  model.Money{Cents: 0, Currency: "EUR"},
	}
	if d := CanDeleteBudget(clean); !d.Allowed {
		t.Fatalf("deleting an untouched budget should be allowed, got %s", d.Code)
	}

	d := CanDeleteBudget(&model.Budget{Accepted: true})
	if d.Allowed || d.Code != CodeBudgetAccepted {
		t.Fatalf("deleting accepted budget: got allowed=%v code=%q", d.Allowed, d.Code)
	}

	paid := &model.Budget{Paid: model.Money{Cents: 500, Currency: "EUR"}}
	d = CanDeleteBudget(paid)
	if d.Allowed || d.Code != CodeBudgetPaid {
		t.Fatalf("deleting paid-against budget: got allowed=%v code=%q", d.Allowed, d.Code)
	}
}

func TestDeleteIsAdminOnly(t *testing.T) {
	if d := CanDelete(model.RoleAdmin); !d.Allowed {
		t.Fatalf("admin delete should be allowed, got %s", d.Code)
	}
	if d := CanDelete(model.RoleSuperAdmin); !d.Allowed {
		t.Fatalf("super admin delete should be allowed, got %s", d.Code)
	}
	d := CanDelete(model.RoleClient)
	if d.Allowed || d.Code != CodeActorCannotDelete {
		t.Fatalf("client delete: got allowed=%v code=%q", d.Allowed, d.Code)
	}
}

func TestPaidInvoiceIsTerminal(t *testing.T) {
	paid := &model.Invoice{Status: model.InvoicePaid}

	if d := CanMarkInvoicePaid(paid); d.Allowed || d.Code != CodeInvoicePaid {
		t.Fatalf("re-pay: got allowed=%v code=%q", d.Allowed, d.Code)
	}
	if d := CanUpdateInvoice(paid); d.Allowed || d.Code != CodeInvoicePaid {
		t.Fatalf("update paid: got allowed=%v code=%q", d.Allowed, d.Code)
	}
	if d := CanDeleteInvoice(paid); d.Allowed || d.Code != CodeInvoicePaid {
		t.Fatalf("delete paid: got allowed=%v code=%q", d.Allowed, d.Code)
	}

	canceled := &model.Invoice{Status: model.InvoiceCanceled}
	if d := CanMarkInvoicePaid(canceled); d.Allowed || d.Code != CodeInvoiceNotPayable {
		t.Fatalf("pay canceled: got allowed=%v code=%q", d.Allowed, d.Code)
	}

	sent := &model.Invoice{Status: model.InvoiceSent}
	if d := CanMarkInvoicePaid(sent); !d.Allowed {
		t.Fatalf("paying a sent invoice should be allowed, got %s", d.Code)
	}
	if d := CanUpdateInvoice(sent); !d.Allowed {
		t.Fatalf("updating a sent invoice should be allowed, got %s", d.Code)
	}
}
