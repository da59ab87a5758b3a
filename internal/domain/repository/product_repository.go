package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, orgID, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, orgID, sku string) (*entity.Product, error)
	List(ctx context.Context, orgID string, limit, offset int) ([]*entity.Product, error)
}
