package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
)

var (
	_ ports.Repository = (*Repository)(nil)
	_ ports.Transactor = (*Transactor)(nil)
)

// Repository provides an in-memory shipment store for development and tests.
type Repository struct {
	mu        sync.RWMutex
	shipments map[int64]domain.Shipment
	nextID    int64
}

// NewRepository constructs an empty in-memory store. Ids start at 1.
func NewRepository() *Repository {
	return &Repository{
		shipments: map[int64]domain.Shipment{},
		nextID:    1,
	}
}

// List returns copies of all shipments ordered by id descending.
func (r *Repository) List(ctx context.Context) ([]*domain.Shipment, error) {
	u := r.unitFrom(ctx)
	r.mu.RLock()
	defer r.mu.RUnlock()
	visible := make(map[int64]domain.Shipment, len(r.shipments))
	for id, shipment := range r.shipments {
		visible[id] = shipment
	}
	if u != nil {
		for id := range u.deletes {
			delete(visible, id)
		}
		for id, shipment := range u.upserts {
			visible[id] = shipment
		}
	}
	out := make([]*domain.Shipment, 0, len(visible))
	for _, shipment := range visible {
		copy := shipment
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// GetByID returns a copy of the stored shipment or ports.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Shipment, error) {
	u := r.unitFrom(ctx)
	r.mu.RLock()
	defer r.mu.RUnlock()
	shipment, ok := r.lookupLocked(u, id)
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &shipment, nil
}

// Insert assigns the next id and stores a copy.
func (r *Repository) Insert(ctx context.Context, shipment *domain.Shipment) (*domain.Shipment, error) {
	u := r.unitFrom(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *shipment
	stored.ID = r.nextID
	r.nextID++
	if u != nil {
		u.stageInsert(stored)
	} else {
		r.shipments[stored.ID] = stored
	}
	saved := stored
	return &saved, nil
}

// UpdateStatus replaces the status of an existing shipment.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Shipment, error) {
	u := r.unitFrom(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	shipment, ok := r.lookupLocked(u, id)
	if !ok {
		return nil, ports.ErrNotFound
	}
	shipment.Status = status
	if u != nil {
		u.upserts[id] = shipment
	} else {
		r.shipments[id] = shipment
	}
	return &shipment, nil
}

// Delete removes the shipment and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	u := r.unitFrom(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lookupLocked(u, id); !ok {
		return false, nil
	}
	if u != nil {
		delete(u.upserts, id)
		delete(u.inserted, id)
		u.deletes[id] = struct{}{}
	} else {
		delete(r.shipments, id)
	}
	return true, nil
}

// lookupLocked resolves id through the unit's staged writes, then the committed rows.
// Callers hold r.mu.
func (r *Repository) lookupLocked(u *unit, id int64) (domain.Shipment, bool) {
	if u != nil {
		if _, gone := u.deletes[id]; gone {
			return domain.Shipment{}, false
		}
		if shipment, ok := u.upserts[id]; ok {
			return shipment, true
		}
	}
	shipment, ok := r.shipments[id]
	return shipment, ok
}

func (r *Repository) unitFrom(ctx context.Context) *unit {
	u, _ := ctx.Value(txKey{}).(*unit)
	if u == nil || u.repo != r {
		return nil
	}
	return u
}

// unit stages the writes of one transaction. Nothing is visible outside it until commit.
type unit struct {
	repo     *Repository
	upserts  map[int64]domain.Shipment
	inserted map[int64]struct{}
	deletes  map[int64]struct{}
	firstID  int64
	lastID   int64
}

func newUnit(repo *Repository) *unit {
	return &unit{
		repo:     repo,
		upserts:  map[int64]domain.Shipment{},
		inserted: map[int64]struct{}{},
		deletes:  map[int64]struct{}{},
	}
}

func (u *unit) stageInsert(s domain.Shipment) {
	if u.firstID == 0 {
		u.firstID = s.ID
	}
	u.lastID = s.ID
	u.upserts[s.ID] = s
	u.inserted[s.ID] = struct{}{}
}

// commit applies the staged writes. Rows removed by others since they were read stay removed.
func (u *unit) commit() {
	r := u.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range u.deletes {
		delete(r.shipments, id)
	}
	for id, shipment := range u.upserts {
		if _, fresh := u.inserted[id]; !fresh {
			if _, ok := r.shipments[id]; !ok {
				continue
			}
		}
		r.shipments[id] = shipment
	}
}

// discard drops the staged writes and hands back the ids it reserved when nobody allocated after them.
func (u *unit) discard() {
	if u.firstID == 0 {
		return
	}
	r := u.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nextID == u.lastID+1 {
		r.nextID = u.firstID
	}
}

type txKey struct{}

// Transactor gives the in-memory store all-or-nothing units of work. Units are
// serialised and stage their writes, which reach the store only when fn succeeds.
type Transactor struct {
	mu   sync.Mutex
	repo *Repository
}

// NewTransactor scopes transactions over repo.
func NewTransactor(repo *Repository) *Transactor {
	return &Transactor{repo: repo}
}

// WithinTx runs fn and commits its writes when it returns nil. Errors and panics discard them.
// Nested calls join the outer unit.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.repo.unitFrom(ctx) != nil {
		return fn(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	u := newUnit(t.repo)
	committed := false
	defer func() {
		if !committed {
			u.discard()
		}
	}()
	if err := fn(context.WithValue(ctx, txKey{}, u)); err != nil {
		return err
	}
	u.commit()
	committed = true
	return nil
}
