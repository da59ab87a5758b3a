package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP). GetByID devuelve (nil, nil) si no existe.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, orgID, id string) (*entity.Warehouse, error)
	List(ctx context.Context, orgID string, limit, offset int) ([]*entity.Warehouse, error)
}
