package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockKey identifica un saldo: producto en una ubicación de una organización.
type StockKey struct {
	OrgID      string
	ProductID  string
	LocationID string
}

// StockRepository define el puerto para consultar/actualizar saldos por (producto, ubicación).
// Usado dentro de transacciones para garantizar consistencia.
// Get y GetForUpdate devuelven domain.ErrNotFound si el saldo aún no existe.
type StockRepository interface {
	Get(ctx context.Context, key StockKey) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, key StockKey) (*entity.StockBalance, error)
	Upsert(ctx context.Context, balance *entity.StockBalance) error
	ListByProduct(ctx context.Context, orgID, productID string) ([]*entity.StockBalance, error)
	ListByWarehouse(ctx context.Context, orgID, warehouseID string, limit, offset int) ([]*entity.StockBalance, error)
}
