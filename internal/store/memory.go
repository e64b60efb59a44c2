package store

import (
	"context"
	"sort"
	"sync"

	"agencydesk/internal/apperr"
	"agencydesk/internal/model"
)

// Memory is the in-memory AggregateStore. A single mutex makes every
// check-and-write atomic, which satisfies the serialization contract
// trivially; the revision check is still enforced so callers exercise the
// same CAS path as against Postgres.
type Memory struct {
	mu           sync.Mutex
	seq          int64
	projects     map[string]model.Project
	requirements map[string]model.Requirements
	budgets      map[string]model.Budget
	phases       map[string]model.Phase
	deliveries   map[string]model.Delivery
	invoices     map[string]model.Invoice
	inserted     map[string]int64 // entity id -> insertion sequence, for tie-breaks
}

var _ AggregateStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		projects:     make(map[string]model.Project),
		requirements: make(map[string]model.Requirements),
		budgets:      make(map[string]model.Budget),
		phases:       make(map[string]model.Phase),
		deliveries:   make(map[string]model.Delivery),
		invoices:     make(map[string]model.Invoice),
		inserted:     make(map[string]int64),
	}
}

func (m *Memory) nextSeq(id string) {
	m.seq++
	m.inserted[id] = m.seq
}

func (m *Memory) InsertProject(_ context.Context, p *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; ok {
		return &apperr.ConflictError{Reason: "project id already exists"}
	}
	m.projects[p.ID] = *p
	m.nextSeq(p.ID)
	return nil
}

func (m *Memory) GetProject(_ context.Context, id string) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, &apperr.NotFoundError{Kind: "project", ID: id}
	}
	out := p
	return &out, nil
}

func (m *Memory) UpdateProject(_ context.Context, p *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.projects[p.ID]
	if !ok {
		return &apperr.NotFoundError{Kind: "project", ID: p.ID}
	}
	if cur.Rev != p.Rev {
		return ErrStaleRev
	}
	next := *p
	next.Rev++
	m.projects[p.ID] = next
	p.Rev = next.Rev
	return nil
}

func (m *Memory) GetAggregate(_ context.Context, projectID string) (*model.Aggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return nil, &apperr.NotFoundError{Kind: "project", ID: projectID}
	}

	agg := &model.Aggregate{Project: p, Phases: []model.PhaseNode{}, Invoices: []model.Invoice{}}

	for _, r := range m.requirements {
		if r.ProjectID == projectID {
			req := r
			agg.Requirements = &req
			break
		}
	}
	for _, b := range m.budgets {
		if b.ProjectID == projectID {
			bud := b
			agg.Budget = &bud
			break
		}
	}

	var phases []model.Phase
	for _, ph := range m.phases {
		if ph.ProjectID == projectID {
			phases = append(phases, ph)
		}
	}
	m.sortPhases(phases)
	for _, ph := range phases {
		node := model.PhaseNode{Phase: ph, Deliveries: []model.Delivery{}}
		var ds []model.Delivery
		for _, d := range m.deliveries {
			if d.PhaseID == ph.ID {
				ds = append(ds, d)
			}
		}
		sort.Slice(ds, func(i, j int) bool {
			return m.inserted[ds[i].ID] < m.inserted[ds[j].ID]
		})
		node.Deliveries = append(node.Deliveries, ds...)
		agg.Phases = append(agg.Phases, node)
	}

	var invs []model.Invoice
	for _, inv := range m.invoices {
		if inv.ProjectID == projectID {
			invs = append(invs, inv)
		}
	}
	// most recent first
	sort.Slice(invs, func(i, j int) bool {
		return m.inserted[invs[i].ID] > m.inserted[invs[j].ID]
	})
	agg.Invoices = append(agg.Invoices, invs...)

	return agg, nil
}

// sortPhases orders by the display order key, insertion order breaking ties.
func (m *Memory) sortPhases(phases []model.Phase) {
	sort.SliceStable(phases, func(i, j int) bool {
		if phases[i].Order != phases[j].Order {
			return phases[i].Order < phases[j].Order
		}
		return m.inserted[phases[i].ID] < m.inserted[phases[j].ID]
	})
}

func (m *Memory) InsertRequirements(_ context.Context, r *model.Requirements) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[r.ProjectID]; !ok {
		return &apperr.NotFoundError{Kind: "project", ID: r.ProjectID}
	}
	for _, existing := range m.requirements {
		if existing.ProjectID == r.ProjectID {
			return &apperr.ConflictError{Reason: "project already has a requirements record"}
		}
	}
	m.requirements[r.ID] = *r
	m.nextSeq(r.ID)
	return nil
}

func (m *Memory) GetRequirements(_ context.Context, id string) (*model.Requirements, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requirements[id]
	if !ok {
		return nil, &apperr.NotFoundError{Kind: "requirements", ID: id}
	}
	out := r
	return &out, nil
}

func (m *Memory) GetRequirementsByProject(_ context.Context, projectID string) (*model.Requirements, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requirements {
		if r.ProjectID == projectID {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) UpdateRequirements(_ context.Context, r *model.Requirements) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.requirements[r.ID]
	if !ok {
		return &apperr.NotFoundError{Kind: "requirements", ID: r.ID}
	}
	if cur.Rev != r.Rev {
		return ErrStaleRev
	}
	next := *r
	next.Rev++
	m.requirements[r.ID] = next
	r.Rev = next.Rev
	return nil
}

func (m *Memory) InsertBudget(_ context.Context, b *model.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[b.ProjectID]; !ok {
		return &apperr.NotFoundError{Kind: "project", ID: b.ProjectID}
	}
	for _, existing := range m.budgets {
		if existing.ProjectID == b.ProjectID {
			return &apperr.ConflictError{Reason: "project already has a budget"}
		}
	}
	m.budgets[b.ID] = *b
	m.nextSeq(b.ID)
	return nil
}

func (m *Memory) GetBudget(_ context.Context, id string) (*model.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[id]
	if !ok {
		return nil, &apperr.NotFoundError{Kind: "budget", ID: id}
	}
	out := b
	return &out, nil
}

func (m *Memory) GetBudgetByProject(_ context.Context, projectID string) (*model.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.budgets {
		if b.ProjectID == projectID {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) UpdateBudget(_ context.Context, b *model.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.budgets[b.ID]
	if !ok {
		return &apperr.NotFoundError{Kind: "budget", ID: b.ID}
	}
	if cur.Rev != b.Rev {
		return ErrStaleRev
	}
	next := *b
	next.Rev++
	m.budgets[b.ID] = next
	b.Rev = next.Rev
	return nil
}

func (m *Memory) DeleteBudget(_ context.Context, id string, rev int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.budgets[id]
	if !ok {
		return &apperr.NotFoundError{Kind: "budget", ID: id}
	}
	if cur.Rev != rev {
		return ErrStaleRev
	}
	delete(m.budgets, id)
	return nil
}

func (m *Memory) InsertPhase(_ context.Context, p *model.Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ProjectID]; !ok {
		return &apperr.NotFoundError{Kind: "project", ID: p.ProjectID}
	}
	m.phases[p.ID] = *p
	m.nextSeq(p.ID)
	return nil
}

func (m *Memory) GetPhase(_ context.Context, id string) (*model.Phase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.phases[id]
	if !ok {
		return nil, &apperr.NotFoundError{Kind: "phase", ID: id}
	}
	out := p
	return &out, nil
}

func (m *Memory) ListPhases(_ context.Context, projectID string) ([]model.Phase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var phases []model.Phase
	for _, p := range m.phases {
		if p.ProjectID == projectID {
			phases = append(phases, p)
		}
	}
	m.sortPhases(phases)
	return phases, nil
}

func (m *Memory) UpdatePhase(_ context.Context, p *model.Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.phases[p.ID]
	if !ok {
		return &apperr.NotFoundError{Kind: "phase", ID: p.ID}
	}
	if cur.Rev != p.Rev {
		return ErrStaleRev
	}
	next := *p
	next.Rev++
	m.phases[p.ID] = next
	p.Rev = next.Rev
	return nil
}

func (m *Memory) DeletePhase(_ context.Context, id string, rev int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.phases[id]
	if !ok {
		return &apperr.NotFoundError{Kind: "phase", ID: id}
	}
	if cur.Rev != rev {
		return ErrStaleRev
	}
	delete(m.phases, id)
	// deliveries never outlive their phase
	for did, d := range m.deliveries {
		if d.PhaseID == id {
			delete(m.deliveries, did)
		}
	}
	return nil
}

func (m *Memory) InsertDelivery(_ context.Context, d *model.Delivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.phases[d.PhaseID]; !ok {
		return &apperr.NotFoundError{Kind: "phase", ID: d.PhaseID}
	}
	m.deliveries[d.ID] = *d
	m.nextSeq(d.ID)
	return nil
}

func (m *Memory) GetDelivery(_ context.Context, id string) (*model.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deliveries[id]
	if !ok {
		return nil, &apperr.NotFoundError{Kind: "delivery", ID: id}
	}
	out := d
	return &out, nil
}

func (m *Memory) UpdateDelivery(_ context.Context, d *model.Delivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.deliveries[d.ID]
	if !ok {
		return &apperr.NotFoundError{Kind: "delivery", ID: d.ID}
	}
	if cur.Rev != d.Rev {
		return ErrStaleRev
	}
	next := *d
	next.Rev++
	m.deliveries[d.ID] = next
	d.Rev = next.Rev
	return nil
}

func (m *Memory) DeleteDelivery(_ context.Context, id string, rev int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.deliveries[id]
	if !ok {
		return &apperr.NotFoundError{Kind: "delivery", ID: id}
	}
	if cur.Rev != rev {
		return ErrStaleRev
	}
	delete(m.deliveries, id)
	return nil
}

func (m *Memory) InsertInvoice(_ context.Context, inv *model.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[inv.ProjectID]; !ok {
		return &apperr.NotFoundError{Kind: "project", ID: inv.ProjectID}
	}
	if inv.PhaseID != nil {
		ph, ok := m.phases[*inv.PhaseID]
		if !ok {
			return &apperr.NotFoundError{Kind: "phase", ID: *inv.PhaseID}
		}
		if ph.ProjectID != inv.ProjectID {
			return &apperr.ConflictError{Reason: "phase belongs to a different project"}
		}
	}
	m.invoices[inv.ID] = *inv
	m.nextSeq(inv.ID)
	return nil
}

func (m *Memory) GetInvoice(_ context.Context, id string) (*model.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, &apperr.NotFoundError{Kind: "invoice", ID: id}
	}
	out := inv
	return &out, nil
}

func (m *Memory) UpdateInvoice(_ context.Context, inv *model.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.invoices[inv.ID]
	if !ok {
		return &apperr.NotFoundError{Kind: "invoice", ID: inv.ID}
	}
	if cur.Rev != inv.Rev {
		return ErrStaleRev
	}
	next := *inv
	next.Rev++
	m.invoices[inv.ID] = next
	inv.Rev = next.Rev
	return nil
}

func (m *Memory) DeleteInvoice(_ context.Context, id string, rev int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.invoices[id]
	if !ok {
		return &apperr.NotFoundError{Kind: "invoice", ID: id}
	}
	if cur.Rev != rev {
		return ErrStaleRev
	}
	delete(m.invoices, id)
	return nil
}
