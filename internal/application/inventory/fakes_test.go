package inventory_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica de transacción (rollback si fn falla)
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	movements  map[string]entity.MovementSnapshot
	movOrder   []string
	transfers  map[string]entity.TransferSnapshot
	stock      map[repository.StockKey]entity.StockBalance
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	locations  map[string]entity.Location
}

func newMemStore() *memStore {
	return &memStore{
		movements:  map[string]entity.MovementSnapshot{},
		transfers:  map[string]entity.TransferSnapshot{},
		stock:      map[repository.StockKey]entity.StockBalance{},
		products:   map[string]entity.Product{},
		warehouses: map[string]entity.Warehouse{},
		locations:  map[string]entity.Location{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.movements {
		c.movements[k] = v
	}
	c.movOrder = append([]string(nil), s.movOrder...)
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	return c
}

// Run implementa inventory.TxRunner.
func (s *memStore) Run(_ context.Context, fn func(r inventory.Repos) error) error {
	backup := s.clone()
	err := fn(inventory.Repos{
		Movements:  memMovements{s},
		Transfers:  memTransfers{s},
		Stock:      memStock{s},
		Products:   memProducts{s},
		Warehouses: memWarehouses{s},
		Locations:  memLocations{s},
	})
	if err != nil {
		*s = *backup
	}
	return err
}

func (s *memStore) balance(productID, locationID string) (entity.StockBalance, bool) {
	b, ok := s.stock[repository.StockKey{OrgID: testOrgID, ProductID: productID, LocationID: locationID}]
	return b, ok
}

func (s *memStore) movementsByReference(ref string) []entity.MovementSnapshot {
	var out []entity.MovementSnapshot
	for _, id := range s.movOrder {
		if m := s.movements[id]; m.Reference == ref {
			out = append(out, m)
		}
	}
	return out
}

// ── movimientos ──

type memMovements struct{ s *memStore }

func (r memMovements) Create(_ context.Context, m *entity.Movement) error {
	if _, ok := r.s.movements[m.ID()]; ok {
		return domain.ErrDuplicate
	}
	r.s.movements[m.ID()] = m.Snapshot()
	r.s.movOrder = append(r.s.movOrder, m.ID())
	return nil
}

func (r memMovements) Update(_ context.Context, m *entity.Movement) error {
	stored, ok := r.s.movements[m.ID()]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != m.Version() {
		return fmt.Errorf("%w: versión %d, guardada %d", domain.ErrConflict, m.Version(), stored.Version)
	}
	m.IncrementVersion()
	r.s.movements[m.ID()] = m.Snapshot()
	return nil
}

func (r memMovements) GetByID(_ context.Context, orgID, id string) (*entity.Movement, error) {
	snap, ok := r.s.movements[id]
	if !ok || snap.OrgID != orgID {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return entity.RestoreMovement(snap), nil
}

func (r memMovements) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, id := range r.s.movOrder {
		snap := r.s.movements[id]
		if snap.OrgID != f.OrgID ||
			(f.WarehouseID != "" && snap.WarehouseID != f.WarehouseID) ||
			(f.Type != "" && snap.Type != f.Type) ||
			(f.Status != "" && snap.Status != f.Status) ||
			(f.Reference != "" && snap.Reference != f.Reference) {
			continue
		}
		if f.ProductID != "" && !hasProduct(snap, f.ProductID) {
			continue
		}
		if !postedWithin(snap, f.From, f.To) {
			continue
		}
		out = append(out, entity.RestoreMovement(snap))
	}
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memMovements) ListPostedSince(_ context.Context, orgID, productID, locationID string, since time.Time) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, id := range r.s.movOrder {
		snap := r.s.movements[id]
		if snap.OrgID != orgID || snap.Status != entity.MovementStatusPosted || snap.PostedAt == nil || !snap.PostedAt.After(since) {
			continue
		}
		m := entity.RestoreMovement(snap)
		if len(m.LinesFor(productID, locationID)) > 0 {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].PostedAt()
		b, _ := out[j].PostedAt()
		return a.Before(b)
	})
	return out, nil
}

// postedWithin mismo criterio que el repositorio: sin rango pasa todo, con rango solo lo contabilizado dentro.
func postedWithin(snap entity.MovementSnapshot, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if snap.PostedAt == nil {
		return false
	}
	if from != nil && snap.PostedAt.Before(*from) {
		return false
	}
	if to != nil && snap.PostedAt.After(*to) {
		return false
	}
	return true
}

func hasProduct(snap entity.MovementSnapshot, productID string) bool {
	for _, l := range snap.Lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

// ── traslados ──

type memTransfers struct{ s *memStore }

func (r memTransfers) Create(_ context.Context, t *entity.Transfer) error {
	r.s.transfers[t.ID()] = t.Snapshot()
	return nil
}

func (r memTransfers) Update(_ context.Context, t *entity.Transfer) error {
	stored, ok := r.s.transfers[t.ID()]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != t.Version() {
		return domain.ErrConflict
	}
	t.IncrementVersion()
	r.s.transfers[t.ID()] = t.Snapshot()
	return nil
}

func (r memTransfers) GetByID(_ context.Context, orgID, id string) (*entity.Transfer, error) {
	snap, ok := r.s.transfers[id]
	if !ok || snap.OrgID != orgID {
		return nil, fmt.Errorf("%w: traslado %s", domain.ErrNotFound, id)
	}
	return entity.RestoreTransfer(snap), nil
}

func (r memTransfers) List(_ context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, snap := range r.s.transfers {
		byWarehouse := f.WarehouseID == "" || snap.FromWarehouseID == f.WarehouseID || snap.ToWarehouseID == f.WarehouseID
		if snap.OrgID == f.OrgID && byWarehouse && (f.Status == "" || snap.Status == f.Status) {
			out = append(out, entity.RestoreTransfer(snap))
		}
	}
	return out, nil
}

// ── saldos ──

type memStock struct{ s *memStore }

func (r memStock) Get(_ context.Context, key repository.StockKey) (*entity.StockBalance, error) {
	b, ok := r.s.stock[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r memStock) GetForUpdate(ctx context.Context, key repository.StockKey) (*entity.StockBalance, error) {
	return r.Get(ctx, key)
}

func (r memStock) Upsert(_ context.Context, b *entity.StockBalance) error {
	r.s.stock[repository.StockKey{OrgID: b.OrgID, ProductID: b.ProductID, LocationID: b.LocationID}] = *b
	return nil
}

func (r memStock) ListByProduct(_ context.Context, orgID, productID string) ([]*entity.StockBalance, error) {
	var out []*entity.StockBalance
	for k, b := range r.s.stock {
		if k.OrgID == orgID && k.ProductID == productID {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

func (r memStock) ListByWarehouse(_ context.Context, orgID, warehouseID string, _, _ int) ([]*entity.StockBalance, error) {
	var out []*entity.StockBalance
	for k, b := range r.s.stock {
		if k.OrgID == orgID && b.WarehouseID == warehouseID {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

// ── maestros ──

type memProducts struct{ s *memStore }

func (r memProducts) Create(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r memProducts) GetByID(_ context.Context, orgID, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok || p.OrgID != orgID {
		return nil, nil
	}
	return &p, nil
}

func (r memProducts) GetBySKU(_ context.Context, orgID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.OrgID == orgID && p.SKU == sku {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r memProducts) List(_ context.Context, orgID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.OrgID == orgID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

type memWarehouses struct{ s *memStore }

func (r memWarehouses) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r memWarehouses) GetByID(_ context.Context, orgID, id string) (*entity.Warehouse, error) {
	w, ok := r.s.warehouses[id]
	if !ok || w.OrgID != orgID {
		return nil, nil
	}
	return &w, nil
}

func (r memWarehouses) List(_ context.Context, orgID string, _, _ int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		if w.OrgID == orgID {
			w := w
			out = append(out, &w)
		}
	}
	return out, nil
}

type memLocations struct{ s *memStore }

func (r memLocations) Create(_ context.Context, l *entity.Location) error {
	r.s.locations[l.ID] = *l
	return nil
}

func (r memLocations) GetByID(_ context.Context, orgID, id string) (*entity.Location, error) {
	l, ok := r.s.locations[id]
	if !ok || l.OrgID != orgID {
		return nil, nil
	}
	return &l, nil
}

func (r memLocations) ListByWarehouse(_ context.Context, orgID, warehouseID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.s.locations {
		if l.OrgID == orgID && l.WarehouseID == warehouseID {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

var (
	_ inventory.TxRunner             = (*memStore)(nil)
	_ repository.MovementRepository  = memMovements{}
	_ repository.TransferRepository  = memTransfers{}
	_ repository.StockRepository     = memStock{}
	_ repository.ProductRepository   = memProducts{}
	_ repository.WarehouseRepository = memWarehouses{}
	_ repository.LocationRepository  = memLocations{}
)
