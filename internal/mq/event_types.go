package mq

import "time"

// AggregateEventPayload describes one applied mutation on a project
// aggregate. The routing key is "<entity>.<verb>", e.g. "budget.accepted".
type AggregateEventPayload struct {
	EventID    string    `json:"event_id"`
	Entity     string    `json:"entity"`
	Verb       string    `json:"verb"`
	ProjectID  string    `json:"project_id"`
	EntityID   string    `json:"entity_id"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	OccurredAt time.Time `json:"occurred_at"`
}
