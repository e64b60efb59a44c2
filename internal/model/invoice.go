package model

import "time"

type InvoiceStatus string

const (
	InvoiceDraft    InvoiceStatus = "DRAFT"
	InvoiceSent     InvoiceStatus = "SENT"
	InvoicePaid     InvoiceStatus = "PAID"
	InvoiceOverdue  InvoiceStatus = "OVERDUE"
	InvoiceCanceled InvoiceStatus = "CANCELED"
)

func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCanceled:
		return true
	}
	return false
}

// Invoice is a billing document for a project, optionally tied to one of
// its phases.
type Invoice struct {
	ID        string        `json:"id"`
	ProjectID string        `json:"project_id"`
	PhaseID   *string       `json:"phase_id,omitempty"`
	Number    string        `json:"number,omitempty"`
	Amount    Money         `json:"amount"`
	Status    InvoiceStatus `json:"status"`
	IssuedAt  *time.Time    `json:"issued_at,omitempty"`
	DueAt     *time.Time    `json:"due_at,omitempty"`
	PaidAt    *time.Time    `json:"paid_at,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Rev       int64         `json:"rev"`
}
