package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testOrgID  = "org-1"
	testUserID = "user-1"

	whMain   = "wh-main"
	whBranch = "wh-branch"
	locA     = "loc-a" // whMain
	locB     = "loc-b" // whMain
	locX     = "loc-x" // whBranch
	prodTee  = "prod-tee"
	prodMug  = "prod-mug"
)

var testSettings = inventory.Settings{Currency: "USD", QuantityPrecision: 2, MoneyPrecision: 2}

type fixture struct {
	store     *memStore
	movements *inventory.MovementUseCase
	transfers *inventory.TransferUseCase
	stock     *inventory.StockUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	for _, wh := range []string{whMain, whBranch} {
		store.warehouses[wh] = entity.Warehouse{ID: wh, OrgID: testOrgID, Name: wh, IsActive: true}
	}
	store.warehouses["wh-closed"] = entity.Warehouse{ID: "wh-closed", OrgID: testOrgID, Name: "cerrada"}
	store.locations[locA] = entity.Location{ID: locA, OrgID: testOrgID, WarehouseID: whMain, Code: "A", IsActive: true}
	store.locations[locB] = entity.Location{ID: locB, OrgID: testOrgID, WarehouseID: whMain, Code: "B", IsActive: true}
	store.locations[locX] = entity.Location{ID: locX, OrgID: testOrgID, WarehouseID: whBranch, Code: "X", IsActive: true}
	for _, p := range []string{prodTee, prodMug} {
		store.products[p] = entity.Product{ID: p, OrgID: testOrgID, SKU: p, Name: p, CostMethod: entity.CostMethodAverage, IsActive: true}
	}
	store.products["prod-fifo"] = entity.Product{ID: "prod-fifo", OrgID: testOrgID, SKU: "fifo", CostMethod: entity.CostMethodFIFO, IsActive: true}

	log := logger.Nop()
	return &fixture{
		store:     store,
		movements: inventory.NewMovementUseCase(store, testSettings, log),
		transfers: inventory.NewTransferUseCase(store, testSettings, log),
		stock:     inventory.NewStockUseCase(store, testSettings, log),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// requireBalance verifica cantidad y costo promedio de un saldo.
func requireBalance(t *testing.T, f *fixture, productID, locationID, qty, avg string) {
	t.Helper()
	b, ok := f.store.balance(productID, locationID)
	require.True(t, ok, "saldo %s/%s inexistente", productID, locationID)
	require.True(t, b.Quantity.Value().Equal(dec(qty)), "cantidad esperada %s, obtenida %s", qty, b.Quantity)
	require.True(t, b.AverageCost.Amount().Equal(dec(avg)), "costo esperado %s, obtenido %s", avg, b.AverageCost)
}
