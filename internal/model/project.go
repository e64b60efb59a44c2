package model

import "time"

type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "DRAFT"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectCanceled  ProjectStatus = "CANCELED"
)

func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectDraft, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCanceled:
		return true
	}
	return false
}

// ActorRole identifies who is performing a mutation. Tokens are issued by
// the auth service; we only read the role claim.
type ActorRole string

const (
	RoleClient     ActorRole = "CLIENT"
	RoleAdmin      ActorRole = "ADMIN"
	RoleSuperAdmin ActorRole = "SUPER_ADMIN"
)

func ValidActorRole(r ActorRole) bool {
	switch r {
	case RoleClient, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Actor is the authenticated caller of a mutation.
type Actor struct {
	ID   string    `json:"id"`
	Role ActorRole `json:"role"`
}

// Project status is informational: nothing derives it from child state,
// it is set explicitly by authorized actors.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	ClientID    string        `json:"client_id"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Rev         int64         `json:"rev"`
}

// Requirements is the pre-engagement checklist. At most one per project;
// frozen once a budget exists.
type Requirements struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"project_id"`
	NeedsLogo        bool      `json:"needs_logo"`
	HasDesign        bool      `json:"has_design"`
	DesignByUs       bool      `json:"design_by_us"`
	NeedsCopy        bool      `json:"needs_copy"`
	HasDomain        bool      `json:"has_domain"`
	HasHosting       bool      `json:"has_hosting"`
	NeedsSEO         bool      `json:"needs_seo"`
	NeedsAnalytics   bool      `json:"needs_analytics"`
	NeedsMaintenance bool      `json:"needs_maintenance"`
	HasBrandManual   bool      `json:"has_brand_manual"`
	Notes            string    `json:"notes,omitempty"`
	ReferenceSites   []string  `json:"reference_sites,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Rev              int64     `json:"rev"`
}

// PhaseNode is a phase with its deliveries nested under it.
type PhaseNode struct {
	Phase      Phase      `json:"phase"`
	Deliveries []Delivery `json:"deliveries"`
}

// Aggregate is the full project tree: the single consistency boundary of
// this service.
type Aggregate struct {
	Project      Project       `json:"project"`
	Requirements *Requirements `json:"requirements,omitempty"`
	Budget       *Budget       `json:"budget,omitempty"`
	Phases       []PhaseNode   `json:"phases"`
	Invoices     []Invoice     `json:"invoices"`
}
