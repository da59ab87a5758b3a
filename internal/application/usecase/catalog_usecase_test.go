package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ── fakes ──

type fakeProducts struct{ items []*entity.Product }

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	f.items = append(f.items, p)
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, orgID, id string) (*entity.Product, error) {
	for _, p := range f.items {
		if p.OrgID == orgID && p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) GetBySKU(_ context.Context, orgID, sku string) (*entity.Product, error) {
	for _, p := range f.items {
		if p.OrgID == orgID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) List(_ context.Context, orgID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.items {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeWarehouses struct{ items []*entity.Warehouse }

func (f *fakeWarehouses) Create(_ context.Context, w *entity.Warehouse) error {
	f.items = append(f.items, w)
	return nil
}

func (f *fakeWarehouses) GetByID(_ context.Context, orgID, id string) (*entity.Warehouse, error) {
	for _, w := range f.items {
		if w.OrgID == orgID && w.ID == id {
			return w, nil
		}
	}
	return nil, nil
}

func (f *fakeWarehouses) List(_ context.Context, orgID string, _, _ int) ([]*entity.Warehouse, error) {
	return f.items, nil
}

type fakeLocations struct{ items []*entity.Location }

func (f *fakeLocations) Create(_ context.Context, l *entity.Location) error {
	f.items = append(f.items, l)
	return nil
}

func (f *fakeLocations) GetByID(_ context.Context, orgID, id string) (*entity.Location, error) {
	return nil, nil
}

func (f *fakeLocations) ListByWarehouse(_ context.Context, orgID, warehouseID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range f.items {
		if l.OrgID == orgID && l.WarehouseID == warehouseID {
			out = append(out, l)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_PorDefectoPromedioYActivo(t *testing.T) {
	repo := &fakeProducts{}
	uc := usecase.NewProductUseCase(repo)

	p, err := uc.Create(context.Background(), "org-1", dto.CreateProductRequest{SKU: " TEE-01 ", Name: "Camiseta"})
	require.NoError(t, err)

	assert.Equal(t, "TEE-01", p.SKU)
	assert.Equal(t, "AVERAGE", p.CostMethod)
	assert.Equal(t, "UND", p.UnitMeasure)
	assert.True(t, p.IsActive)

	got, err := uc.GetByID(context.Background(), "org-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestProductCreate_Errores(t *testing.T) {
	repo := &fakeProducts{}
	uc := usecase.NewProductUseCase(repo)
	_, err := uc.Create(context.Background(), "org-1", dto.CreateProductRequest{SKU: "A", Name: "A"})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), "org-1", dto.CreateProductRequest{SKU: "A", Name: "otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(context.Background(), "org-2", dto.CreateProductRequest{SKU: "A", Name: "otra org"})
	assert.NoError(t, err, "el SKU es único por organización")

	_, err = uc.Create(context.Background(), "org-1", dto.CreateProductRequest{SKU: "B", Name: "B", CostMethod: "fifo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "org-1", dto.CreateProductRequest{Name: "sin sku"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductGetByID_OtraOrganizacion(t *testing.T) {
	repo := &fakeProducts{}
	uc := usecase.NewProductUseCase(repo)
	p, err := uc.Create(context.Background(), "org-1", dto.CreateProductRequest{SKU: "A", Name: "A"})
	require.NoError(t, err)

	_, err = uc.GetByID(context.Background(), "org-2", p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bodegas y ubicaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouse_CrearConUbicaciones(t *testing.T) {
	locations := &fakeLocations{}
	uc := usecase.NewWarehouseUseCase(&fakeWarehouses{}, locations)
	ctx := context.Background()

	wh, err := uc.Create(ctx, "org-1", dto.CreateWarehouseRequest{Name: "Principal"})
	require.NoError(t, err)
	assert.True(t, wh.IsActive)

	loc, err := uc.CreateLocation(ctx, "org-1", wh.ID, dto.CreateLocationRequest{Code: "A-01"})
	require.NoError(t, err)
	assert.Equal(t, wh.ID, loc.WarehouseID)

	list, err := uc.ListLocations(ctx, "org-1", wh.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.CreateLocation(ctx, "org-1", "no-existe", dto.CreateLocationRequest{Code: "B"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.CreateLocation(ctx, "org-1", wh.ID, dto.CreateLocationRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	page, err := uc.List(ctx, "org-1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 20, page.Page.Limit)
}
