package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Movements  repository.MovementRepository
	Transfers  repository.TransferRepository
	Stock      repository.StockRepository
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
	Locations  repository.LocationRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// Settings parámetros de valoración comunes a todos los casos de uso.
type Settings struct {
	Currency          string
	QuantityPrecision int32
	MoneyPrecision    int32
}
