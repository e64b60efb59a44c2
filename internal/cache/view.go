// Package cache holds the two read-side projections of a project
// aggregate: the per-session ProjectView a client keeps in sync from
// mutation results, and the Redis-backed Snapshot shared across sessions.
// Neither is authoritative; both are rebuildable from the store.
package cache

import (
	"sort"
	"sync"

	"agencydesk/internal/model"
)

// ProjectView is one session's copy of a project aggregate. Mutation
// results are merged deterministically: replace-by-id when present,
// insert otherwise, remove-by-id on delete acknowledgement. The view never
// fabricates ids or timestamps; it stores exactly what the mutation
// service returned, and a failed mutation changes nothing.
type ProjectView struct {
	mu  sync.RWMutex
	agg model.Aggregate
}

func NewProjectView(agg *model.Aggregate) *ProjectView {
	v := &ProjectView{}
	v.agg = cloneAggregate(agg)
	return v
}

// Aggregate returns a copy of the current view.
func (v *ProjectView) Aggregate() model.Aggregate {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := cloneAggregate(&v.agg)
	return out
}

func (v *ProjectView) ApplyProject(p *model.Project) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.agg.Project = *p
}

func (v *ProjectView) ApplyRequirements(r *model.Requirements) {
	v.mu.Lock()
	defer v.mu.Unlock()
	req := *r
	req.ReferenceSites = append([]string(nil), r.ReferenceSites...)
	v.agg.Requirements = &req
}

func (v *ProjectView) ApplyBudget(b *model.Budget) {
	v.mu.Lock()
	defer v.mu.Unlock()
	bud := *b
	v.agg.Budget = &bud
}

func (v *ProjectView) RemoveBudget(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.agg.Budget != nil && v.agg.Budget.ID == id {
		v.agg.Budget = nil
	}
}

// ApplyPhase replaces the matching phase in place or inserts a new node,
// then re-sorts by the display order key. The sort is stable so equal
// orders keep their insertion sequence.
func (v *ProjectView) ApplyPhase(p *model.Phase) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.agg.Phases {
		if v.agg.Phases[i].Phase.ID == p.ID {
			v.agg.Phases[i].Phase = *p
			v.sortPhasesLocked()
			return
		}
	}
	v.agg.Phases = append(v.agg.Phases, model.PhaseNode{Phase: *p, Deliveries: []model.Delivery{}})
	v.sortPhasesLocked()
}

func (v *ProjectView) RemovePhase(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.agg.Phases {
		if v.agg.Phases[i].Phase.ID == id {
			v.agg.Phases = append(v.agg.Phases[:i], v.agg.Phases[i+1:]...)
			return
		}
	}
}

// ApplyDelivery merges a delivery into its owning phase node. A delivery
// for a phase this view does not hold is dropped; the view is rebuilt on
// the next full fetch.
func (v *ProjectView) ApplyDelivery(d *model.Delivery) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.agg.Phases {
		node := &v.agg.Phases[i]
		if node.Phase.ID != d.PhaseID {
			continue
		}
		for j := range node.Deliveries {
			if node.Deliveries[j].ID == d.ID {
				node.Deliveries[j] = *d
				return
			}
		}
		node.Deliveries = append(node.Deliveries, *d)
		return
	}
}

func (v *ProjectView) RemoveDelivery(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.agg.Phases {
		node := &v.agg.Phases[i]
		for j := range node.Deliveries {
			if node.Deliveries[j].ID == id {
				node.Deliveries = append(node.Deliveries[:j], node.Deliveries[j+1:]...)
				return
			}
		}
	}
}

// ApplyInvoice replaces by id or prepends: invoice lists read most recent
// first.
func (v *ProjectView) ApplyInvoice(inv *model.Invoice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.agg.Invoices {
		if v.agg.Invoices[i].ID == inv.ID {
			v.agg.Invoices[i] = *inv
			return
		}
	}
	v.agg.Invoices = append([]model.Invoice{*inv}, v.agg.Invoices...)
}

func (v *ProjectView) RemoveInvoice(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.agg.Invoices {
		if v.agg.Invoices[i].ID == id {
			v.agg.Invoices = append(v.agg.Invoices[:i], v.agg.Invoices[i+1:]...)
			return
		}
	}
}

func (v *ProjectView) sortPhasesLocked() {
	sort.SliceStable(v.agg.Phases, func(i, j int) bool {
		return v.agg.Phases[i].Phase.Order < v.agg.Phases[j].Phase.Order
	})
}

func cloneAggregate(agg *model.Aggregate) model.Aggregate {
	out := model.Aggregate{
		Project:  agg.Project,
		Phases:   make([]model.PhaseNode, 0, len(agg.Phases)),
		Invoices: append([]model.Invoice{}, agg.Invoices...),
	}
	if agg.Requirements != nil {
		req := *agg.Requirements
		req.ReferenceSites = append([]string(nil), agg.Requirements.ReferenceSites...)
		out.Requirements = &req
	}
	if agg.Budget != nil {
		bud := *agg.Budget
		out.Budget = &bud
	}
	for _, node := range agg.Phases {
		out.Phases = append(out.Phases, model.PhaseNode{
			Phase:      node.Phase,
			Deliveries: append([]model.Delivery{}, node.Deliveries...),
		})
	}
	return out
}
