package model

import "time"

// Budget is the priced proposal for a project. At most one per project.
// Acceptance is monotonic: once accepted it stays accepted, and only the
// client or a super admin may accept.
type Budget struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	Total      Money      `json:"total"`
	Paid       Money      `json:"paid"`
	Accepted   bool       `json:"accepted"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	AcceptedBy *ActorRole `json:"accepted_by,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Rev        int64      `json:"rev"`
}
