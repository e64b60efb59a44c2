// Package store defines the authoritative aggregate store contract. The
// store owns uniqueness and referential integrity; business rules live in
// the rules package and are applied by the mutation service.
package store

import (
	"context"
	"errors"

	"agencydesk/internal/model"
)

// ErrStaleRev is returned when an update or delete carries a revision that
// no longer matches the stored row. The caller reloads, re-evaluates the
// rules against current state and reports the outcome — this is how two
// racing mutations on the same sub-resource are serialized.
var ErrStaleRev = errors.New("stale revision")

// AggregateStore holds project aggregates. Implementations must serialize
// concurrent mutations to the same sub-resource via the revision check;
// mutations to different sub-resources may proceed concurrently.
//
// Get*ByProject lookups return (nil, nil) when the project has no such
// child. All other lookups return apperr.NotFoundError for missing ids,
// and inserts return apperr.ConflictError when a uniqueness invariant
// would break.
type AggregateStore interface {
	InsertProject(ctx context.Context, p *model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	UpdateProject(ctx context.Context, p *model.Project) error
	GetAggregate(ctx context.Context, projectID string) (*model.Aggregate, error)

	InsertRequirements(ctx context.Context, r *model.Requirements) error
	GetRequirements(ctx context.Context, id string) (*model.Requirements, error)
	GetRequirementsByProject(ctx context.Context, projectID string) (*model.Requirements, error)
	UpdateRequirements(ctx context.Context, r *model.Requirements) error

	InsertBudget(ctx context.Context, b *model.Budget) error
	GetBudget(ctx context.Context, id string) (*model.Budget, error)
	GetBudgetByProject(ctx context.Context, projectID string) (*model.Budget, error)
	UpdateBudget(ctx context.Context, b *model.Budget) error
	DeleteBudget(ctx context.Context, id string, rev int64) error

	InsertPhase(ctx context.Context, p *model.Phase) error
	GetPhase(ctx context.Context, id string) (*model.Phase, error)
	ListPhases(ctx context.Context, projectID string) ([]model.Phase, error)
	UpdatePhase(ctx context.Context, p *model.Phase) error
	DeletePhase(ctx context.Context, id string, rev int64) error

	InsertDelivery(ctx context.Context, d *model.Delivery) error
	GetDelivery(ctx context.Context, id string) (*model.Delivery, error)
	UpdateDelivery(ctx context.Context, d *model.Delivery) error
	DeleteDelivery(ctx context.Context, id string, rev int64) error

	InsertInvoice(ctx context.Context, inv *model.Invoice) error
	GetInvoice(ctx context.Context, id string) (*model.Invoice, error)
	UpdateInvoice(ctx context.Context, inv *model.Invoice) error
	DeleteInvoice(ctx context.Context, id string, rev int64) error
}
