package model

import "time"

type PhaseStatus string

const (
	PhaseTodo       PhaseStatus = "TODO"
	PhaseInProgress PhaseStatus = "IN_PROGRESS"
	PhaseBlocked    PhaseStatus = "BLOCKED"
	PhaseDone       PhaseStatus = "DONE"
	PhaseCanceled   PhaseStatus = "CANCELED"
)

func ValidPhaseStatus(s PhaseStatus) bool {
	switch s {
	case PhaseTodo, PhaseInProgress, PhaseBlocked, PhaseDone, PhaseCanceled:
		return true
	}
	return false
}

// Phase is an ordered unit of delivery within a project. Order is the sole
// display sort key; ties keep insertion order.
type Phase struct {
	ID          string      `json:"id"`
	ProjectID   string      `json:"project_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Order       int         `json:"order"`
	Status      PhaseStatus `json:"status"`
	StartDate   *time.Time  `json:"start_date,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	DeliveryURL string      `json:"delivery_url,omitempty"`
	DeliveredAt *time.Time  `json:"delivered_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Rev         int64       `json:"rev"`
}

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliverySubmitted DeliveryStatus = "SUBMITTED"
	DeliveryApproved  DeliveryStatus = "APPROVED"
	DeliveryRejected  DeliveryStatus = "REJECTED"
)

func ValidDeliveryStatus(s DeliveryStatus) bool {
	switch s {
	case DeliveryPending, DeliverySubmitted, DeliveryApproved, DeliveryRejected:
		return true
	}
	return false
}

// Delivery is a versioned artifact submitted against a phase.
type Delivery struct {
	ID          string         `json:"id"`
	PhaseID     string         `json:"phase_id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	FileURL     string         `json:"file_url,omitempty"`
	Version     int            `json:"version"`
	Status      DeliveryStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Rev         int64          `json:"rev"`
}
