package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransferFilter criterios de listado de traslados.
type TransferFilter struct {
	OrgID       string
	WarehouseID string // origen o destino
	Status      entity.TransferStatus
	Limit       int
	Offset      int
}

// TransferRepository define el puerto de persistencia para el agregado Transfer (DIP).
// Update usa el mismo control optimista que MovementRepository.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.Transfer) error
	Update(ctx context.Context, t *entity.Transfer) error
	GetByID(ctx context.Context, orgID, id string) (*entity.Transfer, error)
	List(ctx context.Context, filter TransferFilter) ([]*entity.Transfer, error)
}
