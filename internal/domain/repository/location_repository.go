package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// LocationRepository puerto de persistencia para ubicaciones dentro de una bodega. GetByID devuelve (nil, nil) si no existe.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, orgID, id string) (*entity.Location, error)
	ListByWarehouse(ctx context.Context, orgID, warehouseID string) ([]*entity.Location, error)
}
