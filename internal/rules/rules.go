// Package rules holds the business-rule predicates for the project
// aggregate. Every predicate is pure: it reads the state it is handed and
// returns a decision, so each rule is unit-testable without a store.
package rules

import "agencydesk/internal/model"

// Decision is an allow/deny outcome with a machine code and a
// human-readable reason. The reason is shown to the actor verbatim.
type Decision struct {
	Allowed bool
	Code    string
	Reason  string
}

const (
	CodeBudgetExists        = "budget_exists"
	CodeRequirementsExist   = "requirements_exist"
	CodeRequirementsLocked  = "requirements_locked"
	CodeBudgetAccepted      = "budget_already_accepted"
	CodeBudgetPaid          = "budget_has_payments"
	CodeActorCannotAccept   = "actor_cannot_accept"
	CodeActorCannotDelete   = "actor_cannot_delete"
	CodeInvoicePaid         = "invoice_already_paid"
	CodeInvoiceNotPayable   = "invoice_not_payable"
)

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(code, reason string) Decision {
	return Decision{Code: code, Reason: reason}
}

// CanCreateBudget allows at most one budget per project.
func CanCreateBudget(existing *model.Budget) Decision {
	if existing != nil {
		return deny(CodeBudgetExists, "project already has a budget")
	}
	return allow()
}

// CanCreateRequirements allows at most one requirements record and locks
// requirements once pricing has begun.
func CanCreateRequirements(existing *model.Requirements, budget *model.Budget) Decision {
	if existing != nil {
		return deny(CodeRequirementsExist, "project already has a requirements record")
	}
	if budget != nil {
		return deny(CodeRequirementsLocked, "requirements locked by existing budget")
	}
	return allow()
}

// CanUpdateRequirements: requirements are frozen once a budget exists.
func CanUpdateRequirements(budget *model.Budget) Decision {
	if budget != nil {
		return deny(CodeRequirementsLocked, "requirements locked by existing budget")
	}
	return allow()
}

// CanAcceptBudget: acceptance is monotonic and reserved to the client or a
// super admin.
func CanAcceptBudget(b *model.Budget, role model.ActorRole) Decision {
	if b.Accepted {
		return deny(CodeBudgetAccepted, "budget already accepted")
	}
	if role != model.RoleClient && role != model.RoleSuperAdmin {
		return deny(CodeActorCannotAccept, "only the client or a super admin can accept a budget")
	}
	return allow()
}

// CanDeleteBudget: deletable only while unaccepted and unpaid.
func CanDeleteBudget(b *model.Budget) Decision {
	if b.Accepted {
		return deny(CodeBudgetAccepted, "cannot delete an accepted budget")
	}
	if !b.Paid.IsZero() {
		return deny(CodeBudgetPaid, "cannot delete a budget with recorded payments")
	}
	return allow()
}

// CanDelete: clients cannot delete sub-resources, only admins can.
func CanDelete(role model.ActorRole) Decision {
	if role != model.RoleAdmin && role != model.RoleSuperAdmin {
		return deny(CodeActorCannotDelete, "only an admin can delete this resource")
	}
	return allow()
}

// CanMarkInvoicePaid: paying is terminal and one-way.
func CanMarkInvoicePaid(inv *model.Invoice) Decision {
	if inv.Status == model.InvoicePaid {
		return deny(CodeInvoicePaid, "invoice already paid")
	}
	if inv.Status == model.InvoiceCanceled {
		return deny(CodeInvoiceNotPayable, "cannot pay a canceled invoice")
	}
	return allow()
}

// CanUpdateInvoice: a paid invoice is immutable.
func CanUpdateInvoice(inv *model.Invoice) Decision {
	if inv.Status == model.InvoicePaid {
		return deny(CodeInvoicePaid, "cannot modify a paid invoice")
	}
	return allow()
}

// CanDeleteInvoice: paid invoices stay on record.
func CanDeleteInvoice(inv *model.Invoice) Decision {
	if inv.Status == model.InvoicePaid {
		return deny(CodeInvoicePaid, "cannot delete a paid invoice")
	}
	return allow()
}
